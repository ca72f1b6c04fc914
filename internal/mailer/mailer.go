package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/cataloghq/catalog_service/config"
	log "github.com/sirupsen/logrus"
)

// SMTPMailer delivers plain-text mail over SMTP with STARTTLS.
type SMTPMailer struct {
	host         string
	port         string
	user         string
	password     string
	mailFrom     string
	mailFromName string
}

func NewSMTPMailer(cfg config.NotifyConfig) *SMTPMailer {
	port := cfg.SMTPPort
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{
		host:         cfg.SMTPHost,
		port:         port,
		user:         cfg.SMTPUser,
		password:     cfg.SMTPPassword,
		mailFrom:     cfg.MailFrom,
		mailFromName: cfg.MailFromName,
	}
}

func (m *SMTPMailer) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	fromHeader := m.mailFrom
	if m.mailFromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", m.mailFromName, m.mailFrom)
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", strings.Join(to, ", ")),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	log.Infof("smtp sending to=%d recipients via=%s:%s", len(to), m.host, m.port)

	if err := m.sendWithTimeout(to, []byte(msg)); err != nil {
		return err
	}

	log.Infof("smtp sent to=%s", strings.Join(to, ","))
	return nil
}

func (m *SMTPMailer) sendWithTimeout(to []string, msg []byte) error {
	addr := net.JoinHostPort(m.host, m.port)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	// deadline covers the whole SMTP conversation
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(m.mailFrom); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
