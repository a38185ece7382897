package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/de-tools/reporter/pkg/models/domain"
	"github.com/de-tools/reporter/pkg/runtime/terminal/export"
	"github.com/de-tools/reporter/pkg/services/mail"
	"github.com/rs/zerolog"
)

const (
	DefaultTmpDir = "/tmp"
	DefaultFrom   = "webmaster@localhost"

	messageBody           = "Please review the attached report.\n\n"
	attachmentContentType = "text/plain"
)

var (
	ErrFrequencyNotAvailable = errors.New("frequency not available")
	ErrNoRecipients          = errors.New("no recipients defined")
	ErrNoMailer              = errors.New("no mailer configured")
)

// Archiver stores a copy of a written report file
type Archiver interface {
	Archive(ctx context.Context, key string, path string) error
}

// Options are the per-invocation choices of a run
type Options struct {
	Frequency domain.Frequency
	// Date anchors the run; the zero value means today
	Date time.Time
	// View prints the CSV to the console instead of saving or emailing it
	View bool
	// Filename saves the CSV to the given path instead of emailing it
	Filename string
	// Recipients overrides the report's default recipients
	Recipients []string
	// Args are passed through to the report definition
	Args []string
}

// Dependencies are the collaborators shared by every run
type Dependencies struct {
	Mailer   mail.Mailer
	Archiver Archiver
	Console  io.Writer
	TmpDir   string
	From     string
	Now      func() time.Time
}

// Run is a single execution of a report definition. The output sink is
// acquired by New and released by Execute.
type Run struct {
	def        domain.Definition
	params     domain.RunParams
	sink       *sink
	send       bool
	recipients []string
	deps       Dependencies
}

func New(def domain.Definition, opts Options, deps Dependencies) (*Run, error) {
	if !domain.Supports(def, opts.Frequency) {
		return nil, fmt.Errorf("the %s frequency is not available for the %s report: %w",
			opts.Frequency, def.Name(), ErrFrequencyNotAvailable)
	}

	if deps.TmpDir == "" {
		deps.TmpDir = DefaultTmpDir
	}
	if deps.From == "" {
		deps.From = DefaultFrom
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	date := opts.Date
	if date.IsZero() {
		date = deps.Now()
	}

	r := &Run{
		def:        def,
		params:     domain.NewRunParams(opts.Frequency, date, opts.Args),
		send:       !opts.View && opts.Filename == "",
		recipients: opts.Recipients,
		deps:       deps,
	}

	s, err := r.openSink(opts)
	if err != nil {
		return nil, err
	}
	r.sink = s

	return r, nil
}

func (r *Run) openSink(opts Options) (*sink, error) {
	if opts.View {
		return consoleSink(r.deps.Console), nil
	}
	if opts.Filename != "" {
		path, err := expandHome(opts.Filename)
		if err != nil {
			return nil, err
		}
		return fileSink(path, sinkFile)
	}
	path := tempFileName(r.deps.TmpDir, string(r.params.Frequency), r.def.Name(), r.params.DateString())
	return fileSink(path, sinkTemp)
}

func (r *Run) Params() domain.RunParams {
	return r.params
}

// Path returns the file the run writes to, or "" for console output
func (r *Run) Path() string {
	return r.sink.path
}

// Sends reports whether the run emails its results
func (r *Run) Sends() bool {
	return r.send
}

// Execute produces the report data, writes it as CSV and, when the run sends
// its results, emails the file and removes it.
//
// If the data cannot be produced or written, a temporary file is removed.
// If sending fails, the temporary file is kept for manual recovery.
func (r *Run) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().
		Str("report", r.def.Name()).
		Str("frequency", string(r.params.Frequency)).
		Str("date", r.params.DateString()).
		Logger()

	if err := r.write(ctx); err != nil {
		_ = r.sink.Close()
		r.discardTemp(&logger)
		return err
	}
	if err := r.sink.Close(); err != nil {
		r.discardTemp(&logger)
		return fmt.Errorf("failed to close report file: %w", err)
	}
	logger.Info().Str("path", r.sink.path).Msg("report written")

	if r.deps.Archiver != nil && r.sink.kind != sinkConsole {
		key := ArchiveKey(r.params, r.def.Name())
		if err := r.deps.Archiver.Archive(ctx, key, r.sink.path); err != nil {
			return fmt.Errorf("failed to archive report: %w", err)
		}
		logger.Info().Str("key", key).Msg("report archived")
	}

	if !r.send {
		return nil
	}

	if err := r.deliver(ctx); err != nil {
		logger.Warn().Err(err).Str("path", r.sink.path).Msg("report not delivered, file retained")
		return err
	}

	if err := os.Remove(r.sink.path); err != nil {
		return fmt.Errorf("failed to remove report file: %w", err)
	}
	logger.Info().Msg("report delivered")
	return nil
}

func (r *Run) write(ctx context.Context) error {
	rows, err := r.def.Rows(ctx, r.params)
	if err != nil {
		return fmt.Errorf("failed to get data for %s report: %w", r.def.Name(), err)
	}
	return export.NewCSVWriter(r.sink.writer).Write(rows)
}

func (r *Run) deliver(ctx context.Context) error {
	if r.deps.Mailer == nil {
		return ErrNoMailer
	}

	recipients := r.recipients
	if len(recipients) == 0 {
		defaults, err := r.def.DefaultRecipients(ctx, r.params)
		if err != nil {
			return fmt.Errorf("failed to get recipients for %s report: %w", r.def.Name(), err)
		}
		recipients = defaults
	}
	if len(recipients) == 0 {
		return fmt.Errorf("%s report: %w", r.def.Name(), ErrNoRecipients)
	}

	content, err := os.ReadFile(r.sink.path)
	if err != nil {
		return fmt.Errorf("failed to read report file: %w", err)
	}

	msg := domain.Message{
		From:    r.deps.From,
		To:      recipients,
		Subject: r.def.Subject(r.params),
		Body:    messageBody,
		Attachments: []domain.Attachment{{
			Filename:    fmt.Sprintf("%s.%s.csv", r.def.Name(), r.params.DateString()),
			ContentType: attachmentContentType,
			Content:     content,
		}},
	}

	if err := r.deps.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s report: %w", r.def.Name(), err)
	}
	return nil
}

func (r *Run) discardTemp(logger *zerolog.Logger) {
	if r.sink.kind != sinkTemp {
		return
	}
	if err := os.Remove(r.sink.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Str("path", r.sink.path).Msg("failed to remove report file")
	}
}

// ArchiveKey is the object key a report file is archived under
func ArchiveKey(params domain.RunParams, name string) string {
	return fmt.Sprintf("%s/%s/%s.csv", params.Frequency, name, params.DateString())
}
