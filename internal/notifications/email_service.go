package notifications

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"quickshow/internal/shared/config"
	"quickshow/pkg/logger"
)

var ErrSMTPNotConfigured = errors.New("SMTP is not configured")

// EmailService delivers one notification
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

func SMTPConfigFrom(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
	}
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil || config.Host == "" {
		return ErrSMTPNotConfigured
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.Username == "" || config.Password == "" {
		return fmt.Errorf("SMTP username and password are required")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

type SMTPEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, err
	}
	return &SMTPEmailService{config: config, log: logger.GetDefault()}, nil
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody := renderContent(notification)
	message := s.buildMessage(notification.RecipientEmail, notification.Subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, notification.RecipientEmail, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{notification.RecipientEmail}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "Email sent",
		"type", notification.Type,
		"notification_id", notification.ID.String(),
	)
	return nil
}

func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	if textBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	}
	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// renderContent builds the HTML and plain text bodies for a notification
func renderContent(n *EmailNotification) (string, string) {
	data := n.TemplateData
	name := html.EscapeString(n.RecipientName)

	switch n.Type {
	case NotificationTypeBookingConfirmed:
		title := html.EscapeString(fmt.Sprint(data["movie_title"]))
		htmlBody := fmt.Sprintf(`
			<h2>Hi %s,</h2>
			<p>Your booking for <strong style="color: #F84565;">"%s"</strong> is confirmed.</p>
			<p><strong>Date:</strong> %v</p>
			<p><strong>Seats:</strong> %v</p>
			<p><strong>Amount:</strong> %v</p>
			<p>Enjoy the show!</p>
			<p>Thanks for booking with us!<br/>- QuickShow Team</p>
		`, name, title, data["show_time"], data["seats"], data["amount"])

		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour booking for \"%v\" is confirmed.\nDate: %v\nSeats: %v\nAmount: %v\n\nEnjoy the show!\n- QuickShow Team",
			n.RecipientName, data["movie_title"], data["show_time"], data["seats"], data["amount"],
		)
		return htmlBody, textBody

	case NotificationTypeShowAdded:
		title := html.EscapeString(fmt.Sprint(data["movie_title"]))
		htmlBody := fmt.Sprintf(`
			<h2>Hi %s,</h2>
			<p>We've just added a new show to our library:</p>
			<h3 style="color: #F84565;">"%s"</h3>
			<p>Visit our website to book your seats.</p>
			<p>Thanks,<br/>QuickShow Team</p>
		`, name, title)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nWe've just added a new show to our library: \"%v\".\nVisit our website to book your seats.\n\nThanks,\nQuickShow Team",
			n.RecipientName, data["movie_title"],
		)
		return htmlBody, textBody

	default:
		htmlBody := fmt.Sprintf("<h2>%s</h2><p>Hi %s,</p><p>This is a notification from QuickShow.</p>",
			html.EscapeString(n.Subject), name)
		textBody := fmt.Sprintf("Hi %s,\n\nThis is a notification from QuickShow.", n.RecipientName)
		return htmlBody, textBody
	}
}

// LogEmailService logs instead of sending; used when SMTP is not configured
type LogEmailService struct {
	log *logger.Logger
}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{log: logger.GetDefault()}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	s.log.InfoContext(ctx, "Email (log only)",
		"type", notification.Type,
		"to", notification.RecipientEmail,
		"subject", notification.Subject,
	)
	return nil
}
