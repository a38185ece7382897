package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/reporter/pkg/models/store"
	"github.com/rs/zerolog"
)

const adminLogQuery = `
		SELECT
			u.username,
			l.action_time,
			l.action_flag,
			COALESCE(ct.model, ''),
			l.object_id,
			l.object_repr
		FROM django_admin_log AS l
		JOIN auth_user AS u ON u.id = l.user_id
		LEFT JOIN django_content_type AS ct ON ct.id = l.content_type_id
		WHERE l.action_time %s ?
			AND l.action_time < ?
		ORDER BY u.username, l.action_time`

// sqliteTimeLayout matches the naive UTC text Django writes to sqlite
// datetime columns, which are compared as strings.
const sqliteTimeLayout = "2006-01-02 15:04:05"

type AdminLogStore interface {
	ListEntries(ctx context.Context, period store.Period) ([]store.LogEntry, error)
}

type adminLogStore struct {
	db     *sql.DB
	driver string
}

func NewAdminLogStore(db *sql.DB, driver string) AdminLogStore {
	return &adminLogStore{
		db:     db,
		driver: driver,
	}
}

func (a *adminLogStore) ListEntries(ctx context.Context, period store.Period) ([]store.LogEntry, error) {
	logger := zerolog.Ctx(ctx)

	op := ">"
	if period.StartInclusive {
		op = ">="
	}
	query := Rebind(a.driver, fmt.Sprintf(adminLogQuery, op))

	rows, err := a.db.QueryContext(ctx, query, bindTime(a.driver, period.Start), bindTime(a.driver, period.End))
	if err != nil {
		return nil, fmt.Errorf("admin log query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close admin log query rows")
		}
	}(rows)

	var entries []store.LogEntry
	for rows.Next() {
		var (
			username, contentType string
			actionTime            time.Time
			actionFlag            int
			objectID, objectRepr  sql.NullString
		)
		if err := rows.Scan(&username, &actionTime, &actionFlag, &contentType, &objectID, &objectRepr); err != nil {
			return nil, err
		}

		entries = append(entries, store.LogEntry{
			Username:    username,
			ActionTime:  actionTime,
			ActionFlag:  actionFlag,
			ContentType: contentType,
			ObjectID:    objectID.String,
			ObjectRepr:  objectRepr.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("admin log rows: %w", err)
	}

	return entries, nil
}

func bindTime(driver string, t time.Time) any {
	if driver == DriverSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t
}
