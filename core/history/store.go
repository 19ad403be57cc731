package history

import (
	"context"
	"sort"
	"time"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Record captures one updater run.
type Record struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	Status     string    `json:"status"`
	Count      int       `json:"count"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	DurationMS int64     `json:"duration_ms"`
	DryRun     bool      `json:"dry_run,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Query defines filters for retrieving records. Limit keeps only the most
// recent matches; zero means no limit.
type Query struct {
	Start  time.Time
	End    time.Time
	Status string
	Limit  int
}

// Store persists run records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore drops every record. It is used when history is disabled.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }

func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}

// finish orders records chronologically and applies the limit.
func (q Query) finish(res []Record) []Record {
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	if q.Limit > 0 && len(res) > q.Limit {
		res = res[len(res)-q.Limit:]
	}
	return res
}
