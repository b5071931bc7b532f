// Package email 封裝郵件寄送供應商
package email

import (
	"context"
	"fmt"
	"net/url"
)

// Sender 寄送一封郵件，失敗由呼叫端記錄，不重試
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// FakeSender 供測試驗證寄送內容
type FakeSender struct {
	SendFn func(ctx context.Context, to, subject, htmlBody string) error
}

func (f *FakeSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if f.SendFn != nil {
		return f.SendFn(ctx, to, subject, htmlBody)
	}
	return nil
}

// BuildVerificationEmail 產生註冊驗證信
func BuildVerificationEmail(baseURL, to, token string) (subject, htmlBody string) {
	link := fmt.Sprintf("%s/api/auth/verify?token=%s&email=%s", baseURL, token, url.QueryEscape(to))
	subject = "Verify your email address"
	htmlBody = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Verify your email address</h2>
  <p>Thanks for signing up. Click the link below to activate your account:</p>
  <p><a href="%s">Verify my email address</a></p>
  <p>If you did not create an account, you can ignore this email.</p>
</div>`, link)
	return subject, htmlBody
}

// BuildEmailChangeEmail 產生 Email 變更確認信，寄往原地址
func BuildEmailChangeEmail(baseURL, to, token string) (subject, htmlBody string) {
	link := fmt.Sprintf("%s/api/auth/verify-email-change?token=%s&email=%s", baseURL, token, url.QueryEscape(to))
	subject = "Confirm your email address change"
	htmlBody = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Confirm your email address change</h2>
  <p>You asked to change your email address. Click the link below to confirm:</p>
  <p><a href="%s">Confirm email change</a></p>
  <p>If you did not request this change, you can ignore this email.</p>
</div>`, link)
	return subject, htmlBody
}
