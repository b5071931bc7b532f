// File: internal/handler/users/email.go
package users

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"immoapp/internal/api"
	"immoapp/internal/database"
	"immoapp/internal/dto"
	"immoapp/internal/email"
	"immoapp/internal/logging"
	"immoapp/internal/middleware"
	"immoapp/internal/service"
	"immoapp/internal/worker"

	"github.com/labstack/echo/v4"
)

var generateVerifyTok = service.GenerateVerificationToken

// @Summary     Request email change
// @Description 暫存新信箱並寄出變更確認信，原信箱在確認前維持不變
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body api.UpdateMyEmailRequest true "新 Email"
// @Success     202 {object} dto.MessageResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     409 {object} dto.HTTPError "Email 已被使用"
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/me/email [put]
func UpdateMyEmailHandler(db database.DB, sender email.Sender, pool worker.Pool, log logging.Logger, baseURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMyEmailRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		claims, ok := middleware.ActorClaims(c)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
		}

		ctx := c.Request().Context()
		req.Email = strings.ToLower(req.Email)
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid email format"})
		}

		user, err := getUserByID(ctx, db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		if req.Email == user.Email {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "email unchanged"})
		}
		if existing, err := getUserByEmail(ctx, db, req.Email); err == nil && existing != nil {
			return c.JSON(http.StatusConflict, dto.HTTPError{Message: "email already registered"})
		}

		token, err := generateVerifyTok()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to generate verification token"})
		}
		expires := timeNow().Add(service.VerificationTokenTTL)
		if err := setPendingEmail(ctx, db, claims.UserID, req.Email, token, expires); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		// 確認信寄往原信箱，確保變更出自帳號持有者
		to := user.Email
		pool.Submit(func() {
			ctx := context.Background()
			subject, body := email.BuildEmailChangeEmail(baseURL, to, token)
			if err := sender.Send(ctx, to, subject, body); err != nil {
				log.Error(ctx, "email change confirmation failed", "email", to, "error", err)
			}
		})

		return c.JSON(http.StatusAccepted, dto.MessageResponse{Message: "confirmation email sent"})
	}
}
