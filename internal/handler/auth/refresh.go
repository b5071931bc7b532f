// File: internal/handler/auth/refresh.go
package auth

import (
	"net/http"

	"immoapp/internal/api"
	"immoapp/internal/cache"
	"immoapp/internal/database"
	"immoapp/internal/dto"
	"immoapp/internal/model"
	"immoapp/internal/service"
	"immoapp/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	validateRefreshToken     = service.ValidateRefreshToken
	revokeRefreshToken       = service.RevokeRefreshToken
	getUserByID              = store.GetUserByID
	deleteSessionByTokenHash = store.DeleteSessionByTokenHash
)

// @Summary     Refresh access token
// @Description 以有效的 refresh token 換取新的存取令牌
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.RefreshRequest true "refresh token"
// @Success     200 {object} dto.RefreshResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError "refresh token 無效或過期"
// @Failure     403 {object} dto.HTTPError "帳號已停用"
// @Failure     500 {object} dto.HTTPError
// @Router      /auth/refresh [post]
func RefreshHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		ctx := c.Request().Context()
		data, err := validateRefreshToken(ctx, rdb, req.RefreshToken)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid refresh token"})
		}

		// 重新讀取使用者，角色或狀態變更即時生效
		user, err := getUserByID(ctx, db, data.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid refresh token"})
		}
		if user.Status == model.StatusInactive {
			// 停用帳號的 refresh token 一併撤銷
			_ = revokeRefreshToken(ctx, rdb, req.RefreshToken)
			return c.JSON(http.StatusForbidden, dto.HTTPError{Message: "account is inactive"})
		}

		accessToken, err := issueAccessToken(*user, AccessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, dto.RefreshResponse{
			AccessToken: accessToken,
			ExpiresAt:   timeNow().Add(AccessTokenTTL),
		})
	}
}

// @Summary     Logout
// @Description 撤銷 refresh token 並刪除對應的 session 資料列
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.LogoutRequest true "refresh token"
// @Success     204 "No Content"
// @Failure     400 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Router      /auth/logout [post]
func LogoutHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LogoutRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		ctx := c.Request().Context()
		if err := revokeRefreshToken(ctx, rdb, req.RefreshToken); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to revoke token"})
		}
		if err := deleteSessionByTokenHash(ctx, db, service.HashSessionToken(req.RefreshToken)); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to delete session"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
