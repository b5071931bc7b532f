// File: internal/service/authentication.go
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"immoapp/internal/cache"
	"immoapp/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// 可於測試覆寫
var (
	randRead        = rand.Read
	jsonMarshal     = json.Marshal
	jsonUnmarshal   = json.Unmarshal
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID int        `json:"id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin 回報令牌是否帶有管理員角色
func (c *CustomClaims) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// AuthenticateUser 根據使用者結構和明文密碼驗證
// 如果資料表未存密碼 (PasswordHash 為 nil)，僅接受空密碼
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if user.PasswordHash == nil {
		if password == "" {
			return nil
		}
		return ErrInvalidCredentials
	}
	if err := ComparePassword(*user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// RefreshTokenData Redis 中儲存的 refresh token 負載
type RefreshTokenData struct {
	UserID int        `json:"user_id"`
	Role   model.Role `json:"role"`
}

const refreshTokenPrefix = "refresh:"

// IssueRefreshToken 產生隨機 refresh token 並存入快取
func IssueRefreshToken(ctx context.Context, c cache.Cache, userID int, role model.Role, ttl time.Duration) (string, error) {
	raw := make([]byte, 32)
	if _, err := randRead(raw); err != nil {
		return "", fmt.Errorf("IssueRefreshToken: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	data, err := jsonMarshal(RefreshTokenData{UserID: userID, Role: role})
	if err != nil {
		return "", fmt.Errorf("IssueRefreshToken: %w", err)
	}

	if err := c.Set(ctx, refreshTokenPrefix+token, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("IssueRefreshToken: %w", err)
	}
	return token, nil
}

// ValidateRefreshToken 驗證並讀取 refresh token 負載
func ValidateRefreshToken(ctx context.Context, c cache.Cache, token string) (*RefreshTokenData, error) {
	val, err := c.Get(ctx, refreshTokenPrefix+token).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("refresh token not found")
	}
	if err != nil {
		return nil, fmt.Errorf("ValidateRefreshToken: %w", err)
	}

	data := &RefreshTokenData{}
	if err := jsonUnmarshal([]byte(val), data); err != nil {
		return nil, fmt.Errorf("ValidateRefreshToken: %w", err)
	}
	return data, nil
}

// RevokeRefreshToken 自快取移除 refresh token
func RevokeRefreshToken(ctx context.Context, c cache.Cache, token string) error {
	if err := c.Del(ctx, refreshTokenPrefix+token).Err(); err != nil {
		return fmt.Errorf("RevokeRefreshToken: %w", err)
	}
	return nil
}

// HashSessionToken 計算 session 資料列使用的 token 哈希
func HashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
