package store

import "time"

// LogEntry is one row of the admin action log
type LogEntry struct {
	Username    string
	ActionTime  time.Time
	ActionFlag  int
	ContentType string
	ObjectID    string
	ObjectRepr  string
}

// Period bounds a query on a timestamp column. End is always exclusive.
type Period struct {
	Start          time.Time
	End            time.Time
	StartInclusive bool
}
