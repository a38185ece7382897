package commands

import (
	"context"

	"github.com/de-tools/reporter/pkg/services/registry"
	"github.com/de-tools/reporter/pkg/services/report"
)

// Environment is everything a command needs to run reports
type Environment struct {
	Registry     *registry.Registry
	Discover     func(ctx context.Context) error
	Dependencies report.Dependencies
	Close        func() error
}

// UsageError reports a bad command-line invocation
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

func NewUsageError(msg string) *UsageError {
	return &UsageError{msg: msg}
}
