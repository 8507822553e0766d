package services

import (
	"fmt"
	"net/smtp"

	"github.com/lubanrahat/ShopMateEcommerce/internal/config"
)

// MailService sends transactional mail.
type MailService interface {
	Send(to, subject, body string) error
}

type smtpMail struct {
	cfg *config.Config
}

func NewMailService(cfg *config.Config) MailService {
	return &smtpMail{cfg: cfg}
}

func (s *smtpMail) Send(to, subject, body string) error {
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort

	msg := "From: " + s.cfg.SMTPMail + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n" +
		body

	var auth smtp.Auth
	if s.cfg.SMTPPassword != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPMail, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, s.cfg.SMTPMail, []string{to}, []byte(msg))
}

// ResetPasswordEmail renders the forgot-password mail body.
func ResetPasswordEmail(name, resetURL string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Request</h2>
  <p>Hi %s,</p>
  <p>You requested a password reset. Click the button below to set a new password.
  This link is valid for 15 minutes.</p>
  <p><a href="%s" style="display: inline-block; padding: 10px 20px; background: #1a1a1a; color: #ffffff; text-decoration: none; border-radius: 4px;">Reset Password</a></p>
  <p>If the button does not work, copy this link into your browser:</p>
  <p>%s</p>
  <p>If you did not request this, you can safely ignore this email.</p>
</div>`, name, resetURL, resetURL)
}
