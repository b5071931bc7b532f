// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"immoapp/internal/cache"
	"immoapp/internal/database"
	"immoapp/internal/email"
	"immoapp/internal/handler"
	"immoapp/internal/handler/admin"
	"immoapp/internal/handler/auth"
	"immoapp/internal/handler/users"
	"immoapp/internal/logging"
	"immoapp/internal/middleware"
	"immoapp/internal/storage"
	"immoapp/internal/worker"
)

// Deps 路由所需的共用依賴
type Deps struct {
	DB      database.DB
	Cache   cache.Cache
	Sender  email.Sender
	Storage storage.Storage
	Pool    worker.Pool
	Log     logging.Logger
	BaseURL string
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api")

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache), middleware.RequireAuth)

	// 註冊、驗證與登入
	api.POST("/auth/register", auth.RegisterHandler(d.DB, d.Sender, d.Pool, d.Log, d.BaseURL))
	api.GET("/auth/verify", auth.VerifyEmailHandler(d.DB))
	api.POST("/auth/resend-verification", auth.ResendVerificationHandler(d.DB, d.Sender, d.Pool, d.Log, d.BaseURL))
	api.GET("/auth/verify-email-change", auth.VerifyEmailChangeHandler(d.DB))
	api.POST("/auth/login", auth.LoginHandler(d.DB, d.Cache, d.Log))
	api.POST("/auth/refresh", auth.RefreshHandler(d.DB, d.Cache))
	api.POST("/auth/logout", auth.LogoutHandler(d.DB, d.Cache))

	// 取得、更新、刪除當前使用者個人資料
	apiUsersMe := api.Group("/users/me", middleware.RequireAuth)
	apiUsersMe.GET("", users.GetMeHandler(d.DB))
	apiUsersMe.PUT("", users.UpdateMeHandler(d.DB))
	apiUsersMe.DELETE("", users.DeleteMeHandler(d.DB))
	apiUsersMe.PUT("/email", users.UpdateMyEmailHandler(d.DB, d.Sender, d.Pool, d.Log, d.BaseURL))
	apiUsersMe.PATCH("/password", users.UpdateMyPasswordHandler(d.DB))
	apiUsersMe.POST("/avatar", users.UploadAvatarHandler(d.DB, d.Storage, d.Log))
	apiUsersMe.DELETE("/avatar", users.DeleteAvatarHandler(d.DB, d.Storage, d.Log))

	// 管理員主控台
	apiAdmin := api.Group("/admin", middleware.RequireAdmin)
	apiAdmin.GET("/users", admin.ListUsersHandler(d.DB))
	apiAdmin.GET("/users/:user_id", admin.GetUserHandler(d.DB))
	apiAdmin.PATCH("/users/:user_id", admin.UpdateUserHandler(d.DB, d.Log))
	apiAdmin.DELETE("/users/:user_id", admin.DeleteUserHandler(d.DB, d.Log))
	apiAdmin.GET("/logs", admin.ListAdminLogsHandler(d.DB))
	apiAdmin.GET("/stats", admin.GetStatsHandler(d.DB))
}
