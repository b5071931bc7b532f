// File: internal/service/token.go
package service

import (
	"encoding/hex"
	"fmt"
	"time"
)

// VerificationTokenTTL 驗證令牌有效期
const VerificationTokenTTL = 24 * time.Hour

// GenerateVerificationToken 產生 Email 驗證用的隨機令牌
func GenerateVerificationToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := randRead(raw); err != nil {
		return "", fmt.Errorf("GenerateVerificationToken: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
