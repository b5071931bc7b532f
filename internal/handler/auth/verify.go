// File: internal/handler/auth/verify.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"immoapp/internal/api"
	"immoapp/internal/database"
	"immoapp/internal/dto"
	"immoapp/internal/email"
	"immoapp/internal/logging"
	"immoapp/internal/service"
	"immoapp/internal/store"
	"immoapp/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	markEmailVerified    = store.MarkEmailVerified
	commitEmailChange    = store.CommitEmailChange
	setVerificationToken = store.SetVerificationToken
)

// 檢查驗證令牌，錯誤分為查無使用者、令牌不符與令牌過期三類
func checkVerificationToken(c echo.Context, db database.DB, req *api.VerifyRequest) (int, *dto.HTTPError) {
	req.Email = strings.ToLower(req.Email)
	user, err := getUserByEmail(c.Request().Context(), db, req.Email)
	if err != nil {
		return 0, &dto.HTTPError{Message: "user not found"}
	}
	if user.VerificationToken == nil || *user.VerificationToken != req.Token {
		return 0, &dto.HTTPError{Message: "invalid verification token"}
	}
	if user.VerificationExpires == nil || user.VerificationExpires.Before(timeNow()) {
		return 0, &dto.HTTPError{Message: "verification token expired"}
	}
	return user.ID, nil
}

// @Summary     Verify email address
// @Description 驗證註冊信箱，成功後帳號標記為已驗證
// @Tags        auth
// @Produce     json
// @Param       email query string true "註冊 Email"
// @Param       token query string true "驗證令牌"
// @Success     200 {object} dto.MessageResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Router      /auth/verify [get]
func VerifyEmailHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.VerifyRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid query parameters"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		userID, httpErr := checkVerificationToken(c, db, &req)
		if httpErr != nil {
			status := http.StatusBadRequest
			if httpErr.Message == "user not found" {
				status = http.StatusNotFound
			}
			return c.JSON(status, *httpErr)
		}

		if err := markEmailVerified(c.Request().Context(), db, userID); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, dto.MessageResponse{Message: "email verified"})
	}
}

// @Summary     Confirm email change
// @Description 確認信箱變更，成功後以待變更信箱取代原信箱
// @Tags        auth
// @Produce     json
// @Param       email query string true "原 Email"
// @Param       token query string true "驗證令牌"
// @Success     200 {object} dto.MessageResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     409 {object} dto.HTTPError "新信箱已被使用"
// @Failure     500 {object} dto.HTTPError
// @Router      /auth/verify-email-change [get]
func VerifyEmailChangeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.VerifyRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid query parameters"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		userID, httpErr := checkVerificationToken(c, db, &req)
		if httpErr != nil {
			status := http.StatusBadRequest
			if httpErr.Message == "user not found" {
				status = http.StatusNotFound
			}
			return c.JSON(status, *httpErr)
		}

		if err := commitEmailChange(c.Request().Context(), db, userID); err != nil {
			// 等待驗證期間該信箱可能已被他人註冊
			if service.IsUniqueViolation(err) {
				return c.JSON(http.StatusConflict, dto.HTTPError{Message: "email already registered"})
			}
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, dto.MessageResponse{Message: "email updated"})
	}
}

// @Summary     Resend verification email
// @Description 換發驗證令牌並重寄驗證信；為避免帳號列舉，無論信箱是否存在皆回應 202
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.ResendVerificationRequest true "註冊 Email"
// @Success     202 {object} dto.MessageResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Router      /auth/resend-verification [post]
func ResendVerificationHandler(db database.DB, sender email.Sender, pool worker.Pool, log logging.Logger, baseURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ResendVerificationRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		ctx := c.Request().Context()
		req.Email = strings.ToLower(req.Email)

		accepted := dto.MessageResponse{Message: "verification email sent"}
		user, err := getUserByEmail(ctx, db, req.Email)
		if err != nil || user.EmailVerified {
			return c.JSON(http.StatusAccepted, accepted)
		}

		token, err := generateVerifyTok()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to generate verification token"})
		}
		expires := timeNow().Add(service.VerificationTokenTTL)
		if err := setVerificationToken(ctx, db, user.ID, token, expires); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		to := user.Email
		pool.Submit(func() {
			ctx := context.Background()
			subject, body := email.BuildVerificationEmail(baseURL, to, token)
			if err := sender.Send(ctx, to, subject, body); err != nil {
				log.Error(ctx, "verification email failed", "email", to, "error", err)
			}
		})

		return c.JSON(http.StatusAccepted, accepted)
	}
}
