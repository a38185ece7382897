package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout used for anchor dates on the command line and in file names.
const DateLayout = "2006-01-02"

var ErrInvalidFrequency = errors.New("invalid frequency")

// Frequency is the cadence a report is run at
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// AllFrequencies lists every frequency in listing order
var AllFrequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

func ParseFrequency(s string) (Frequency, error) {
	for _, f := range AllFrequencies {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
}

// Title returns the frequency with its first letter upper-cased, e.g. "Daily"
func (f Frequency) Title() string {
	if f == "" {
		return ""
	}
	s := string(f)
	return strings.ToUpper(s[:1]) + s[1:]
}

// RunParams carries the anchor date of a run and the boundaries derived from it.
// Report definitions use the boundaries to bound their queries.
type RunParams struct {
	Frequency Frequency
	Date      time.Time
	// Tomorrow is one day after Date
	Tomorrow time.Time
	// OneWeek is seven days prior to Date
	OneWeek time.Time
	// OneMonth is thirty-two days prior to Date
	OneMonth time.Time
	// Args are the extra command-line arguments passed through to the report
	Args []string
}

func NewRunParams(frequency Frequency, date time.Time, args []string) RunParams {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return RunParams{
		Frequency: frequency,
		Date:      day,
		Tomorrow:  day.AddDate(0, 0, 1),
		OneWeek:   day.AddDate(0, 0, -7),
		OneMonth:  day.AddDate(0, 0, -32),
		Args:      args,
	}
}

func (p RunParams) DateString() string {
	return p.Date.Format(DateLayout)
}

// Definition describes what data a report pulls and how it is addressed
type Definition interface {
	// Name is the unique identifier used to register and look up the report
	Name() string
	// Description is a human-readable summary shown in listings
	Description() string
	// Frequencies returns the cadences the report can run at
	Frequencies() []Frequency
	// DefaultRecipients returns the addresses used when no override is given
	DefaultRecipients(ctx context.Context, params RunParams) ([]string, error)
	// Subject returns the subject of the email carrying the results
	Subject(params RunParams) string
	// Rows returns the tabular data; the first row is the header
	Rows(ctx context.Context, params RunParams) ([][]string, error)
}

// Supports reports whether def can run at the given frequency
func Supports(def Definition, frequency Frequency) bool {
	for _, f := range def.Frequencies() {
		if f == frequency {
			return true
		}
	}
	return false
}
