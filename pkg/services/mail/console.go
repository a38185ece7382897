package mail

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/de-tools/reporter/pkg/models/domain"
)

// ConsoleMailer prints messages instead of sending them. It is used when no
// SMTP host is configured.
type ConsoleMailer struct {
	writer io.Writer
}

func NewConsoleMailer(writer io.Writer) *ConsoleMailer {
	if writer == nil {
		writer = os.Stdout
	}
	return &ConsoleMailer{writer: writer}
}

func (c *ConsoleMailer) Send(_ context.Context, msg domain.Message) error {
	var b strings.Builder
	b.WriteString("=== EMAIL WOULD BE SENT ===\n")
	fmt.Fprintf(&b, "From: %s\n", msg.From)
	fmt.Fprintf(&b, "To: %s\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\n\n", msg.Subject)
	b.WriteString(msg.Body)
	for _, att := range msg.Attachments {
		fmt.Fprintf(&b, "Attachment: %s (%s, %d bytes)\n", att.Filename, att.ContentType, len(att.Content))
	}
	b.WriteString("=== END EMAIL ===\n")

	_, err := io.WriteString(c.writer, b.String())
	return err
}
