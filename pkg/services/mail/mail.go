package mail

import (
	"context"

	"github.com/de-tools/reporter/pkg/models/domain"
)

// Mailer delivers composed messages
type Mailer interface {
	Send(ctx context.Context, msg domain.Message) error
}
