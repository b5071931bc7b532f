// File: internal/handler/admin/users.go
package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"immoapp/internal/api"
	"immoapp/internal/database"
	"immoapp/internal/dto"
	"immoapp/internal/logging"
	"immoapp/internal/middleware"
	"immoapp/internal/model"
	"immoapp/internal/service"
	"immoapp/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listUsers            = store.ListUsers
	getUserByID          = store.GetUserByID
	updateUserRoleStatus = service.UpdateUserRoleStatus
	deleteUserCascade    = service.DeleteUserCascade
	recordAdminLog       = service.RecordAdminLog
	timeNow              = time.Now
)

const defaultPageLimit = 20

// @Summary     List users
// @Description 分頁列出使用者，可依姓名或 Email 搜尋並以角色、狀態過濾
// @Tags        admin
// @Produce     json
// @Param       search query string false "姓名或 Email 關鍵字"
// @Param       role   query string false "USER 或 ADMIN"
// @Param       status query string false "ACTIVE 或 INACTIVE"
// @Param       page   query int    false "頁碼 (預設 1)"
// @Param       limit  query int    false "每頁筆數 (預設 20)"
// @Success     200 {object} dto.UserListResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ListUsersRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid query parameters"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}
		if req.Page < 1 {
			req.Page = 1
		}
		if req.Limit < 1 {
			req.Limit = defaultPageLimit
		}

		filter := store.ListUsersFilter{
			Search: req.Search,
			Page:   req.Page,
			Limit:  req.Limit,
		}
		if req.Role != "" {
			role := model.Role(req.Role)
			filter.Role = &role
		}
		if req.Status != "" {
			status := model.Status(req.Status)
			filter.Status = &status
		}

		users, total, err := listUsers(c.Request().Context(), db, filter)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		resp := dto.UserListResponse{
			Users: make([]dto.UserResponse, 0, len(users)),
			Total: total,
			Page:  req.Page,
			Limit: req.Limit,
		}
		for i := range users {
			resp.Users = append(resp.Users, dto.NewUserResponse(&users[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Get a user by ID
// @Description 透過 ID 查詢並回傳使用者詳細資料
// @Tags        admin
// @Produce     json
// @Param       user_id path int true "使用者 ID"
// @Success     200 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users/{user_id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid user ID"})
		}
		user, err := getUserByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, dto.HTTPError{Message: "user not found"})
		}
		return c.JSON(http.StatusOK, dto.NewUserResponse(user))
	}
}

// @Summary     Update user role or status
// @Description 更新使用者角色或狀態，兩者皆可省略；降級最後一位管理員會被拒絕
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       user_id path int true "使用者 ID"
// @Param       request body api.AdminUpdateUserRequest true "變更內容"
// @Success     200 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError "使用者不存在"
// @Failure     409 {object} dto.HTTPError "無法降級最後一位管理員"
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users/{user_id} [patch]
func UpdateUserHandler(db database.DB, log logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid user ID"})
		}

		var req api.AdminUpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}
		if req.Role == nil && req.Status == nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "nothing to update"})
		}

		claims, ok := middleware.ActorClaims(c)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
		}

		var role *model.Role
		if req.Role != nil {
			r := model.Role(*req.Role)
			role = &r
		}
		var status *model.Status
		if req.Status != nil {
			s := model.Status(*req.Status)
			status = &s
		}

		ctx := c.Request().Context()
		previous, updated, err := updateUserRoleStatus(ctx, db, id, role, status)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				return c.JSON(http.StatusNotFound, dto.HTTPError{Message: "user not found"})
			case errors.Is(err, service.ErrLastAdmin):
				return c.JSON(http.StatusConflict, dto.HTTPError{Message: service.ErrLastAdmin.Error()})
			default:
				return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
			}
		}

		recordAdminLog(ctx, db, log, &model.AdminLog{
			Action:   model.LogActionUpdate,
			Entity:   model.LogEntityUser,
			EntityID: strconv.Itoa(updated.ID),
			Details: model.LogDetails{
				Previous: &model.UserSnapshot{Role: previous.Role, Status: previous.Status},
				New:      &model.UserSnapshot{Role: updated.Role, Status: updated.Status},
			},
			AdminID: claims.UserID,
		})

		return c.JSON(http.StatusOK, dto.NewUserResponse(updated))
	}
}

// @Summary     Delete a user
// @Description 刪除使用者帳號，session 與外部帳號連結在同一交易中一併移除
// @Tags        admin
// @Produce     json
// @Param       user_id path int true "使用者 ID"
// @Success     204 "No Content"
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users/{user_id} [delete]
func DeleteUserHandler(db database.DB, log logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid user ID"})
		}

		claims, ok := middleware.ActorClaims(c)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
		}

		ctx := c.Request().Context()
		deleted, err := deleteUserCascade(ctx, db, id)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				return c.JSON(http.StatusNotFound, dto.HTTPError{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		recordAdminLog(ctx, db, log, &model.AdminLog{
			Action:   model.LogActionDelete,
			Entity:   model.LogEntityUser,
			EntityID: strconv.Itoa(id),
			Details:  model.LogDetails{Message: "deleted user " + deleted.Email},
			AdminID:  claims.UserID,
		})

		return c.NoContent(http.StatusNoContent)
	}
}
