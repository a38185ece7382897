package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/reporter/pkg/models/domain"
	"github.com/rs/zerolog"
)

// SMTPConfig holds the outgoing mail server settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends messages through an SMTP relay
type SMTPMailer struct {
	config   SMTPConfig
	sendMail sendFunc
	now      func() time.Time
}

func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg domain.Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: message has no recipients")
	}

	body, err := BuildMessage(msg, m.now())
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}
	addr := net.JoinHostPort(m.config.Host, strconv.Itoa(m.config.Port))

	zerolog.Ctx(ctx).Debug().
		Str("addr", addr).
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Msg("sending email")

	if err := m.sendMail(addr, auth, msg.From, msg.To, body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// BuildMessage renders msg as a multipart/mixed MIME message with a text part
// followed by one base64 part per attachment.
func BuildMessage(msg domain.Message, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	var email bytes.Buffer
	email.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	email.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	email.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject)))
	email.WriteString(fmt.Sprintf("Date: %s\r\n", date.Format(time.RFC1123Z)))
	email.WriteString("MIME-Version: 1.0\r\n")
	email.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%s\r\n", writer.Boundary()))
	email.WriteString("\r\n")

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", att.ContentType)
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))

		attPart, err := writer.CreatePart(attHeader)
		if err != nil {
			return nil, err
		}

		encoded := base64.StdEncoding.EncodeToString(att.Content)
		// RFC 2045 line length
		for i := 0; i < len(encoded); i += 76 {
			end := min(i+76, len(encoded))
			if _, err := attPart.Write([]byte(encoded[i:end] + "\r\n")); err != nil {
				return nil, err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	email.Write(buf.Bytes())
	return email.Bytes(), nil
}
