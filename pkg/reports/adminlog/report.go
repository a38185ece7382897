package adminlog

import (
	"context"
	"fmt"

	"github.com/de-tools/reporter/pkg/adapters"
	"github.com/de-tools/reporter/pkg/models/domain"
	"github.com/de-tools/reporter/pkg/models/store"
	"github.com/de-tools/reporter/pkg/services/discovery"
	"github.com/de-tools/reporter/pkg/services/registry"
	sqlstore "github.com/de-tools/reporter/pkg/store/sql"
)

const Name = "admin_log"

// Report exports the admin action log, broken down by user
type Report struct {
	store      sqlstore.AdminLogStore
	recipients []string
}

func New(store sqlstore.AdminLogStore, recipients []string) *Report {
	return &Report{store: store, recipients: recipients}
}

// Register returns the reports hook of the admin app
func Register(store sqlstore.AdminLogStore, recipients []string) discovery.RegisterFunc {
	return func(reg *registry.Registry) error {
		return reg.Register(New(store, recipients))
	}
}

func (r *Report) Name() string {
	return Name
}

func (r *Report) Description() string {
	return "Send full admin log info for the day, broken down by user"
}

func (r *Report) Frequencies() []domain.Frequency {
	return []domain.Frequency{domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly}
}

func (r *Report) DefaultRecipients(_ context.Context, _ domain.RunParams) ([]string, error) {
	return append([]string(nil), r.recipients...), nil
}

func (r *Report) Subject(params domain.RunParams) string {
	return fmt.Sprintf("[%s] Admin log for %s", params.Frequency.Title(), params.DateString())
}

func (r *Report) Rows(ctx context.Context, params domain.RunParams) ([][]string, error) {
	period, err := Period(params)
	if err != nil {
		return nil, err
	}

	entries, err := r.store.ListEntries(ctx, period)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, adapters.AdminLogHeader)
	for _, e := range entries {
		rows = append(rows, adapters.MapLogEntryToRow(e))
	}
	return rows, nil
}

// Period returns the action time window covered by a run. Daily runs cover the
// anchor date; weekly and monthly runs end before tomorrow.
func Period(params domain.RunParams) (store.Period, error) {
	switch params.Frequency {
	case domain.FrequencyDaily:
		return store.Period{Start: params.Date, End: params.Tomorrow, StartInclusive: true}, nil
	case domain.FrequencyWeekly:
		return store.Period{Start: params.OneWeek, End: params.Tomorrow}, nil
	case domain.FrequencyMonthly:
		return store.Period{Start: params.OneMonth, End: params.Tomorrow}, nil
	default:
		return store.Period{}, fmt.Errorf("%w: %q", domain.ErrInvalidFrequency, params.Frequency)
	}
}
