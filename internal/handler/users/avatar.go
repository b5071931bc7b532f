// File: internal/handler/users/avatar.go
package users

import (
	"io"
	"net/http"
	"strings"

	"immoapp/internal/database"
	"immoapp/internal/dto"
	"immoapp/internal/logging"
	"immoapp/internal/middleware"
	"immoapp/internal/storage"
	"immoapp/internal/store"

	"github.com/labstack/echo/v4"
)

// 頭像上限 5MB
const maxAvatarSize = 5 << 20

var (
	updateUserAvatar = store.UpdateUserAvatar
	newAvatarKey     = storage.NewAvatarKey
)

// @Summary     Upload avatar
// @Description 上傳頭像圖片至物件儲存，舊圖片會盡力刪除
// @Tags        users
// @Accept      multipart/form-data
// @Produce     json
// @Param       avatar formData file true "圖片檔案 (最大 5MB)"
// @Success     200 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     413 {object} dto.HTTPError "檔案過大"
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/me/avatar [post]
func UploadAvatarHandler(db database.DB, st storage.Storage, log logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.ActorClaims(c)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
		}

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "avatar file is required"})
		}
		if fileHeader.Size > maxAvatarSize {
			return c.JSON(http.StatusRequestEntityTooLarge, dto.HTTPError{Message: "avatar exceeds 5MB limit"})
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "avatar must be an image"})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to read avatar"})
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize+1))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to read avatar"})
		}
		if len(data) > maxAvatarSize {
			return c.JSON(http.StatusRequestEntityTooLarge, dto.HTTPError{Message: "avatar exceeds 5MB limit"})
		}

		ctx := c.Request().Context()
		user, err := getUserByID(ctx, db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		url, err := st.Upload(ctx, newAvatarKey(), contentType, data)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to upload avatar"})
		}

		if err := updateUserAvatar(ctx, db, claims.UserID, &url); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		// 舊圖片刪除失敗不影響結果
		if user.AvatarURL != nil {
			if key := st.KeyFromURL(*user.AvatarURL); key != "" {
				if err := st.Delete(ctx, key); err != nil {
					log.Warn(ctx, "stale avatar delete failed", "key", key, "error", err)
				}
			}
		}

		user.AvatarURL = &url
		return c.JSON(http.StatusOK, dto.NewUserResponse(user))
	}
}

// @Summary     Delete avatar
// @Description 清除頭像網址並盡力刪除物件儲存中的圖片
// @Tags        users
// @Produce     json
// @Success     204 "No Content"
// @Failure     401 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/me/avatar [delete]
func DeleteAvatarHandler(db database.DB, st storage.Storage, log logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.ActorClaims(c)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
		}

		ctx := c.Request().Context()
		user, err := getUserByID(ctx, db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		if err := updateUserAvatar(ctx, db, claims.UserID, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		if user.AvatarURL != nil {
			if key := st.KeyFromURL(*user.AvatarURL); key != "" {
				if err := st.Delete(ctx, key); err != nil {
					log.Warn(ctx, "avatar delete failed", "key", key, "error", err)
				}
			}
		}

		return c.NoContent(http.StatusNoContent)
	}
}
