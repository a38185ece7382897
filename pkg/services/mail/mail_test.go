package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/reporter/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() domain.Message {
	return domain.Message{
		From:    "webmaster@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "[Daily] Admin log for 2024-01-01",
		Body:    "Please review the attached report.\n\n",
		Attachments: []domain.Attachment{{
			Filename:    "admin_log.2024-01-01.csv",
			ContentType: "text/plain",
			Content:     []byte("Username,Time\r\nalice,10:00\r\n"),
		}},
	}
}

func TestBuildMessage_MultipartLayout(t *testing.T) {
	date := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	raw, err := BuildMessage(testMessage(), date)
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "webmaster@example.com", msg.Header.Get("From"))
	assert.Equal(t, "a@example.com, b@example.com", msg.Header.Get("To"))

	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "[Daily] Admin log for 2024-01-01", subject)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])

	text, err := reader.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(text)
	require.NoError(t, err)
	assert.Equal(t, "Please review the attached report.\n\n", string(body))

	att, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "admin_log.2024-01-01.csv", att.FileName())
	assert.Equal(t, "text/plain", att.Header.Get("Content-Type"))
	encoded, err := io.ReadAll(att)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, "Username,Time\r\nalice,10:00\r\n", string(decoded))

	_, err = reader.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestBuildMessage_WrapsLongAttachments(t *testing.T) {
	msg := testMessage()
	msg.Attachments[0].Content = bytes.Repeat([]byte("x"), 300)

	raw, err := BuildMessage(msg, time.Now())
	require.NoError(t, err)

	for _, line := range strings.Split(string(raw), "\r\n") {
		assert.LessOrEqual(t, len(line), 998)
	}
	assert.Contains(t, string(raw), strings.Repeat("eHh4", 19)+"\r\n")
}

func TestSMTPMailer_Send(t *testing.T) {
	t.Run("sends to every recipient with auth", func(t *testing.T) {
		m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "user", Password: "secret"})

		var (
			gotAddr string
			gotAuth smtp.Auth
			gotFrom string
			gotTo   []string
			gotMsg  []byte
		)
		m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
			return nil
		}

		err := m.Send(context.Background(), testMessage())

		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.NotNil(t, gotAuth)
		assert.Equal(t, "webmaster@example.com", gotFrom)
		assert.Equal(t, []string{"a@example.com", "b@example.com"}, gotTo)
		assert.Contains(t, string(gotMsg), `filename="admin_log.2024-01-01.csv"`)
	})

	t.Run("no auth without username", func(t *testing.T) {
		m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25})
		var gotAuth smtp.Auth = smtp.PlainAuth("", "x", "y", "z")
		m.sendMail = func(_ string, a smtp.Auth, _ string, _ []string, _ []byte) error {
			gotAuth = a
			return nil
		}

		require.NoError(t, m.Send(context.Background(), testMessage()))
		assert.Nil(t, gotAuth)
	})

	t.Run("propagates send errors", func(t *testing.T) {
		sendErr := errors.New("421 service not available")
		m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25})
		m.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return sendErr }

		err := m.Send(context.Background(), testMessage())
		assert.ErrorIs(t, err, sendErr)
	})

	t.Run("rejects messages without recipients", func(t *testing.T) {
		m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25})
		msg := testMessage()
		msg.To = nil

		assert.Error(t, m.Send(context.Background(), msg))
	})
}

func TestConsoleMailer_Send(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewConsoleMailer(&buf).Send(context.Background(), testMessage()))

	out := buf.String()
	assert.Contains(t, out, "To: a@example.com, b@example.com")
	assert.Contains(t, out, "Subject: [Daily] Admin log for 2024-01-01")
	assert.Contains(t, out, "Attachment: admin_log.2024-01-01.csv (text/plain, 28 bytes)")
}
