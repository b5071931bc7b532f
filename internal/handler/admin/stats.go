// File: internal/handler/admin/stats.go
package admin

import (
	"fmt"
	"net/http"
	"time"

	"immoapp/internal/api"
	"immoapp/internal/database"
	"immoapp/internal/dto"
	"immoapp/internal/model"
	"immoapp/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	countUsers                    = store.CountUsers
	countUsersByStatus            = store.CountUsersByStatus
	countUsersCreatedSince        = store.CountUsersCreatedSince
	countUsersCreatedBefore       = store.CountUsersCreatedBefore
	countActiveUsersCreatedBefore = store.CountActiveUsersCreatedBefore
	countUsersByRole              = store.CountUsersByRole
	listRecentUsers               = store.ListRecentUsers
	countSignupsPerDay            = store.CountSignupsPerDay
	countSessionsPerHour          = store.CountSessionsPerHour
)

const recentUsersLimit = 5

// periodStart 回傳統計區間起點
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case "day":
		return now.AddDate(0, 0, -1)
	case "week":
		return now.AddDate(0, 0, -7)
	case "year":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// percentage 回傳一位小數的百分比字串，分母為零時回傳 "0.0"
func percentage(numerator, denominator int) string {
	if denominator == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(numerator)/float64(denominator)*100)
}

// @Summary     Usage statistics
// @Description 彙整使用者總數、成長率、每日註冊數與熱門時段等統計
// @Tags        admin
// @Produce     json
// @Param       period query string false "day、week、month 或 year (預設 month)"
// @Success     200 {object} dto.StatsResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/stats [get]
func GetStatsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.StatsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid query parameters"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}
		if req.Period == "" {
			req.Period = "month"
		}

		ctx := c.Request().Context()
		now := timeNow()
		since := periodStart(req.Period, now)
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		total, err := countUsers(ctx, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		active, err := countUsersByStatus(ctx, db, model.StatusActive)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		inactive, err := countUsersByStatus(ctx, db, model.StatusInactive)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		newToday, err := countUsersCreatedSince(ctx, db, dayStart)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		newInPeriod, err := countUsersCreatedSince(ctx, db, since)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		before, err := countUsersCreatedBefore(ctx, db, since)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		activeBefore, err := countActiveUsersCreatedBefore(ctx, db, since)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		byRole, err := countUsersByRole(ctx, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		recent, err := listRecentUsers(ctx, db, recentUsersLimit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		perDay, err := countSignupsPerDay(ctx, db, since)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}
		perHour, err := countSessionsPerHour(ctx, db, since)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		resp := dto.StatsResponse{
			Overview: dto.StatsOverviewResponse{
				TotalUsers:    total,
				ActiveUsers:   active,
				InactiveUsers: inactive,
				NewToday:      newToday,
				NewInPeriod:   newInPeriod,
				// 成長率以區間起點前的既有使用者數為基準
				GrowthRate: percentage(newInPeriod, before),
				// 留存率為目前仍為啟用狀態的比例
				RetentionRate: percentage(active, total),
				// 轉換率為區間起點前註冊且仍啟用的比例
				ConversionRate: percentage(activeBefore, before),
				Period:         req.Period,
			},
			UsersByRole:   make([]dto.RoleCountEntry, 0, len(byRole)),
			SignupsPerDay: make([]dto.DayCountEntry, 0, len(perDay)),
			PeakHours:     make([]dto.HourCountEntry, 0, len(perHour)),
			RecentUsers:   make([]dto.UserResponse, 0, len(recent)),
		}
		for _, rc := range byRole {
			resp.UsersByRole = append(resp.UsersByRole, dto.RoleCountEntry{Role: string(rc.Role), Count: rc.Count})
		}
		for _, d := range perDay {
			resp.SignupsPerDay = append(resp.SignupsPerDay, dto.DayCountEntry{Day: d.Date, Count: d.Count})
		}
		for _, h := range perHour {
			resp.PeakHours = append(resp.PeakHours, dto.HourCountEntry{Hour: h.Hour, Count: h.Count})
		}
		for i := range recent {
			resp.RecentUsers = append(resp.RecentUsers, dto.NewUserResponse(&recent[i]))
		}

		return c.JSON(http.StatusOK, resp)
	}
}
