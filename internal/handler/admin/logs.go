// File: internal/handler/admin/logs.go
package admin

import (
	"net/http"

	"immoapp/internal/api"
	"immoapp/internal/database"
	"immoapp/internal/dto"
	"immoapp/internal/model"
	"immoapp/internal/store"

	"github.com/labstack/echo/v4"
)

var listAdminLogs = store.ListAdminLogs

// @Summary     List admin logs
// @Description 由新到舊分頁列出管理操作紀錄，可依操作與目標類型過濾
// @Tags        admin
// @Produce     json
// @Param       action query string false "操作類型"
// @Param       entity query string false "目標類型"
// @Param       page   query int    false "頁碼 (預設 1)"
// @Param       limit  query int    false "每頁筆數 (預設 20)"
// @Success     200 {object} dto.AdminLogListResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/logs [get]
func ListAdminLogsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ListAdminLogsRequest
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

		filter := store.ListAdminLogsFilter{
			Page:  req.Page,
			Limit: req.Limit,
		}
		if req.Action != "" {
			action := model.LogAction(req.Action)
			filter.Action = &action
		}
		if req.Entity != "" {
			entity := model.LogEntity(req.Entity)
			filter.Entity = &entity
		}

		logs, total, err := listAdminLogs(c.Request().Context(), db, filter)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		resp := dto.AdminLogListResponse{
			Logs:  make([]dto.AdminLogResponse, 0, len(logs)),
			Total: total,
			Page:  req.Page,
			Limit: req.Limit,
		}
		for i := range logs {
			resp.Logs = append(resp.Logs, dto.NewAdminLogResponse(&logs[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}
