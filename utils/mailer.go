package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"maladireta/config"
	"maladireta/models"
)

// Mailer sends system email (password reset links) through the SMTP
// server configured at process level. Per-user campaign SMTP
// credentials live in models.EmailConfig and are only dialed by
// TestEmailConfig; campaign dispatch is out of scope.
type Mailer struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// NewMailer builds a mailer from the loaded application config.
func NewMailer() *Mailer {
	return &Mailer{
		Host:      config.AppConfig.SMTPHost,
		Port:      config.AppConfig.SMTPPort,
		Username:  config.AppConfig.SMTPUsername,
		Password:  config.AppConfig.SMTPPassword,
		FromEmail: config.AppConfig.FromEmail,
		FromName:  config.AppConfig.FromName,
	}
}

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Password Reset Request</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .button { display: inline-block; padding: 10px 20px; background-color: #3498db; color: white; text-decoration: none; border-radius: 4px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Password Reset Request</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>We received a request to reset your password. Click the button below to proceed:</p>

        <p style="text-align: center;">
            <a href="{{.ResetLink}}" class="button">Reset Password</a>
        </p>

        <p>If you didn't request a password reset, please ignore this email. This link will expire in 1 hour.</p>

        <p>Or copy and paste this link into your browser:<br>
        <small>{{.ResetLink}}</small></p>
    </div>

    <div class="footer">
        <p>For security reasons, don't share this link with anyone.</p>
        <p>© {{.Year}} Mala Direta. All rights reserved.</p>
    </div>
</body>
</html>`))

// SendPasswordResetEmail mails a reset link for the given token.
func (m *Mailer) SendPasswordResetEmail(to, token string) error {
	if m.Host == "" {
		return fmt.Errorf("system mailer not configured")
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.AppBaseURL, token)

	var body bytes.Buffer
	err := passwordResetTemplate.Execute(&body, struct {
		ResetLink string
		Year      int
	}{
		ResetLink: resetLink,
		Year:      time.Now().Year(),
	})
	if err != nil {
		return fmt.Errorf("error executing template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.FromEmail, m.FromName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset Request")
	msg.SetBody("text/html", body.String())

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

// TestEmailConfig dials a stored SMTP configuration to check that its
// credentials work. No message is sent.
func TestEmailConfig(cfg *models.EmailConfig, password string) error {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, password)
	d.SSL = cfg.Secure && cfg.Port == 465

	closer, err := d.Dial()
	if err != nil {
		return fmt.Errorf("smtp connection failed: %w", err)
	}
	return closer.Close()
}
