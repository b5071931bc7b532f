package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// smtpNewClient 可於測試覆寫
var smtpNewClient = func(host string, opts ...mail.Option) (*mail.Client, error) {
	return mail.NewClient(host, opts...)
}

// SMTPSender 透過 SMTP 寄送郵件
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender 建立 SMTP 寄送端
// user 為空時不設定認證（本地開發用 relay）
func NewSMTPSender(host string, port int, user, password, from string) (*SMTPSender, error) {
	opts := []mail.Option{mail.WithPort(port)}
	if user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(password),
		)
	}
	client, err := smtpNewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewSMTPSender: %w", err)
	}
	return &SMTPSender{client: client, from: from}, nil
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("Send: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("Send: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("Send: %w", err)
	}
	return nil
}
