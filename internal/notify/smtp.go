package notify

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// IsConfigured returns true if SMTP settings are present.
func (c SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.From != ""
}

// SMTPNotifier delivers comment-reply notifications over email.
type SMTPNotifier struct {
	config SMTPConfig
}

// NewSMTPNotifier creates an SMTP-backed notifier.
func NewSMTPNotifier(config SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{config: config}
}

// Send emails the recipient about the new comment. Recipients without a
// stored email address cannot be reached and produce an error.
func (n *SMTPNotifier) Send(ev CommentReply) error {
	if ev.Recipient.Email == "" {
		return fmt.Errorf("user %s has no email address", ev.Recipient.Username)
	}

	subject := fmt.Sprintf("New comment on %s", ev.Model.ID)
	body := formatReplyBody(ev)
	msg := buildMessage(n.config.From, ev.Recipient.Email, subject, body)

	addr := n.config.Host + ":" + n.config.Port

	if n.config.Port == "465" {
		return n.sendImplicitTLS(addr, ev.Recipient.Email, msg)
	}
	return n.sendSTARTTLS(addr, ev.Recipient.Email, msg)
}

// formatReplyBody builds the plain-text notification body.
func formatReplyBody(ev CommentReply) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Hi %s,\n\n", ev.Recipient.Username)
	fmt.Fprintf(&buf, "A new comment was posted on model %s", ev.Model.ID)
	if ev.Model.Author != "" {
		fmt.Fprintf(&buf, " (by %s)", ev.Model.Author)
	}
	buf.WriteString(":\n\n")
	fmt.Fprintf(&buf, "  %s\n\n", ev.Content)
	buf.WriteString("You are receiving this because you own the model or commented on it.\n")

	return buf.String()
}

// sendImplicitTLS connects over TLS directly (port 465/SMTPS).
func (n *SMTPNotifier) sendImplicitTLS(addr, to, msg string) error {
	tlsCfg := &tls.Config{ServerName: n.config.Host}
	conn, err := tls.Dial("tcp", addr, tlsCfg)
	if err != nil {
		return fmt.Errorf("TLS dial: %w", err)
	}

	c, err := smtp.NewClient(conn, n.config.Host)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if quitErr := c.Quit(); quitErr != nil {
			err = fmt.Errorf("quit: %w", quitErr)
		}
	}()

	if n.config.User != "" {
		auth := smtp.PlainAuth("", n.config.User, n.config.Pass, n.config.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(n.config.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to %s: %w", to, err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return nil
}

// sendSTARTTLS connects plain then upgrades to TLS (port 587).
func (n *SMTPNotifier) sendSTARTTLS(addr, to, msg string) error {
	var auth smtp.Auth
	if n.config.User != "" {
		auth = smtp.PlainAuth("", n.config.User, n.config.Pass, n.config.Host)
	}

	if err := smtp.SendMail(addr, auth, n.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

func buildMessage(from, to, subject, body string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return sb.String()
}
