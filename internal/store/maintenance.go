package store

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Maintainer runs periodic housekeeping on the competition database: a WAL
// checkpoint to bound the log file and ANALYZE to keep the query planner
// honest after bulk setup imports. It never deletes rows; audit history is
// kept for the life of the database.
type Maintainer struct {
	store *Store
	cron  *cron.Cron
}

// NewMaintainer creates a Maintainer on the given cron schedule
// (standard 5-field expression, validated at config load).
func NewMaintainer(s *Store, schedule string) (*Maintainer, error) {
	m := &Maintainer{store: s, cron: cron.New()}
	if _, err := m.cron.AddFunc(schedule, m.runOnce); err != nil {
		return nil, err
	}
	return m, nil
}

// Start launches the schedule in the background.
func (m *Maintainer) Start() {
	m.cron.Start()
}

// Stop halts the schedule. A job already running finishes.
func (m *Maintainer) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Maintainer) runOnce() {
	for _, stmt := range []string{
		"PRAGMA wal_checkpoint(TRUNCATE)",
		"ANALYZE",
	} {
		if _, err := m.store.db.Exec(stmt); err != nil {
			log.Printf("[store] maintenance %q failed: %v", stmt, err)
			return
		}
	}
	log.Printf("[store] maintenance pass complete")
}
