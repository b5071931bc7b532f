// File: internal/handler/auth/register.go
package auth

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"immoapp/internal/api"
	"immoapp/internal/database"
	"immoapp/internal/dto"
	"immoapp/internal/email"
	"immoapp/internal/logging"
	"immoapp/internal/model"
	"immoapp/internal/service"
	"immoapp/internal/store"
	"immoapp/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword      = service.HashPassword
	generateVerifyTok = service.GenerateVerificationToken
	getUserByEmail    = store.GetUserByEmail
	createUser        = store.CreateUser
	timeNow           = time.Now
)

// @Summary     Register a new account
// @Description 建立未驗證帳號，寄出驗證信後回傳使用者資料
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.RegisterRequest true "註冊資料"
// @Success     201 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     409 {object} dto.HTTPError "Email 已被註冊"
// @Failure     500 {object} dto.HTTPError
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, sender email.Sender, pool worker.Pool, log logging.Logger, baseURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		req.Email = strings.ToLower(req.Email)
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid email format"})
		}

		if existing, err := getUserByEmail(c.Request().Context(), db, req.Email); err == nil && existing != nil {
			return c.JSON(http.StatusConflict, dto.HTTPError{Message: "email already registered"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to hash password"})
		}

		token, err := generateVerifyTok()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to generate verification token"})
		}
		expires := timeNow().Add(service.VerificationTokenTTL)

		user, err := createUser(c.Request().Context(), db, &model.User{
			Name:                &req.Name,
			Email:               req.Email,
			PasswordHash:        &hash,
			Role:                model.RoleUser,
			Status:              model.StatusActive,
			VerificationToken:   &token,
			VerificationExpires: &expires,
		})
		if err != nil {
			// 併發註冊時以唯一索引作最後防線
			if service.IsUniqueViolation(err) {
				return c.JSON(http.StatusConflict, dto.HTTPError{Message: "email already registered"})
			}
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		// 寄信不阻塞註冊流程，失敗僅記錄
		// 請求結束後 context 即失效，任務內改用背景 context
		to := user.Email
		pool.Submit(func() {
			ctx := context.Background()
			subject, body := email.BuildVerificationEmail(baseURL, to, token)
			if err := sender.Send(ctx, to, subject, body); err != nil {
				log.Error(ctx, "verification email failed", "email", to, "error", err)
			}
		})

		return c.JSON(http.StatusCreated, dto.NewUserResponse(user))
	}
}
