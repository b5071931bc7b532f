package middleware

import (
	"net/http"
	"strings"

	"immoapp/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

// resolveClaims 自請求解析出呼叫者身分與角色。
// 缺少或無效的令牌回傳 nil，不視為錯誤；
// 由 RequireAuth / RequireAdmin 決定對應的失敗類別。
func resolveClaims(c echo.Context) *service.CustomClaims {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}
	claims, err := service.VerifyAccessToken(parts[1])
	if err != nil {
		return nil
	}
	return claims
}

// RequireAuth 要求已驗證身分，解析一次後存入 context 供後續取用
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := resolveClaims(c)
		if claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		}
		c.Set(ContextUserKey, claims)
		return next(c)
	}
}

// RequireAdmin 要求管理員角色；已驗證但非管理員回應 403，
// 與未驗證的 401 為不同的失敗類別
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireAuth(func(c echo.Context) error {
		claims := c.Get(ContextUserKey).(*service.CustomClaims)
		if !claims.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	})
}

// ActorClaims 取出 RequireAuth 存入的呼叫者身分
func ActorClaims(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims, ok
}
