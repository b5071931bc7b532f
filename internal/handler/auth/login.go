// File: internal/handler/auth/login.go
package auth

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"immoapp/internal/api"
	"immoapp/internal/cache"
	"immoapp/internal/database"
	"immoapp/internal/dto"
	"immoapp/internal/logging"
	"immoapp/internal/model"
	"immoapp/internal/service"
	"immoapp/internal/store"

	"github.com/labstack/echo/v4"
)

const (
	// AccessTokenTTL 存取令牌有效期
	AccessTokenTTL = 24 * time.Hour
	// RefreshTokenTTL refresh token 有效期
	RefreshTokenTTL = 30 * 24 * time.Hour
)

var (
	authenticateUser  = service.AuthenticateUser
	issueAccessToken  = service.IssueAccessToken
	issueRefreshToken = service.IssueRefreshToken
	createSession     = store.CreateSession
	recordAdminLog    = service.RecordAdminLog
)

// @Summary     Login
// @Description 以 Email 與密碼登入，回傳存取令牌、refresh token 與使用者資料
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.LoginRequest true "登入資料"
// @Success     200 {object} dto.LoginResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError "帳號或密碼錯誤"
// @Failure     403 {object} dto.HTTPError "帳號已停用"
// @Failure     500 {object} dto.HTTPError
// @Router      /auth/login [post]
func LoginHandler(db database.DB, rdb cache.Cache, log logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		ctx := c.Request().Context()
		req.Email = strings.ToLower(req.Email)

		// 查無帳號與密碼錯誤回應相同訊息，避免帳號列舉
		user, err := getUserByEmail(ctx, db, req.Email)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid credentials"})
		}
		if err := authenticateUser(ctx, *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid credentials"})
		}
		if user.Status == model.StatusInactive {
			return c.JSON(http.StatusForbidden, dto.HTTPError{Message: "account is inactive"})
		}

		accessToken, err := issueAccessToken(*user, AccessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to issue token"})
		}

		refreshToken, err := issueRefreshToken(ctx, rdb, user.ID, user.Role, RefreshTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to issue refresh token"})
		}

		// sessions 資料列供管理端統計與登出清理
		expiresAt := timeNow().Add(RefreshTokenTTL)
		if _, err := createSession(ctx, db, &model.Session{
			UserID:    user.ID,
			TokenHash: service.HashSessionToken(refreshToken),
			ExpiresAt: expiresAt,
		}); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to create session"})
		}

		if user.Role == model.RoleAdmin {
			recordAdminLog(ctx, db, log, &model.AdminLog{
				Action:   model.LogActionLogin,
				Entity:   model.LogEntityUser,
				EntityID: strconv.Itoa(user.ID),
				Details:  model.LogDetails{Message: "admin login"},
				AdminID:  user.ID,
			})
		}

		return c.JSON(http.StatusOK, dto.LoginResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    timeNow().Add(AccessTokenTTL),
			User:         dto.NewUserResponse(user),
		})
	}
}
