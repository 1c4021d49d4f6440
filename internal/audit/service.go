package audit

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// recentKeyTTL bounds the in-process idempotency cache. The unique index on
// idempotency_key is the authority; the cache just avoids queueing rows the
// database would drop anyway.
const recentKeyTTL = 10 * time.Minute

// insertAttempts is the bounded inline retry for a failed batch flush.
const insertAttempts = 3

// Service provides the async audit writer. Record performs a non-blocking
// channel send (drops on overflow, loudly); a background goroutine flushes
// batches to the Repo.
type Service struct {
	repo      *Repo
	queue     chan Entry
	batchSize int
	interval  time.Duration

	recentKeys *xsync.Map[string, time.Time]

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// ServiceConfig configures the audit service.
type ServiceConfig struct {
	Repo          *Repo
	QueueSize     int
	FlushBatch    int
	FlushInterval time.Duration
}

// NewService creates a new audit service.
func NewService(cfg ServiceConfig) *Service {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 8192
	}
	batchSize := cfg.FlushBatch
	if batchSize <= 0 {
		batchSize = 512
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Service{
		repo:       cfg.Repo,
		queue:      make(chan Entry, queueSize),
		batchSize:  batchSize,
		interval:   interval,
		recentKeys: xsync.NewMap[string, time.Time](),
		stopCh:     make(chan struct{}),
	}
}

// Start launches the background flush goroutine.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.flushLoop()
}

// Stop signals the flush loop to stop, drains remaining entries, and returns.
func (s *Service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Record enqueues an audit entry. Best-effort: the caller's mutation has
// already committed, so overflow drops the entry rather than blocking.
// Old/new values are sanitized here, before they can reach disk.
func (s *Service) Record(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	e.OldValue = Sanitize(e.OldValue)
	e.NewValue = Sanitize(e.NewValue)

	if e.IdempotencyKey != "" && s.seenRecently(e.IdempotencyKey) {
		return
	}

	select {
	case s.queue <- e:
	default:
		log.Printf("[audit] queue full, dropping entry entity=%s/%s action=%s",
			e.EntityType, e.EntityID, e.Action)
	}
}

// seenRecently records the key and reports whether it was already present
// within the TTL.
func (s *Service) seenRecently(key string) bool {
	now := time.Now()
	seen := false
	s.recentKeys.Compute(key, func(old time.Time, loaded bool) (time.Time, xsync.ComputeOp) {
		if loaded && now.Sub(old) < recentKeyTTL {
			seen = true
			return old, xsync.CancelOp
		}
		return now, xsync.UpdateOp
	})
	return seen
}

// Repo returns the underlying repository for query access.
func (s *Service) Repo() *Repo {
	return s.repo
}

func (s *Service) flushLoop() {
	defer s.wg.Done()

	batch := make([]Entry, 0, s.batchSize)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= s.batchSize {
				s.flush(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = batch[:0]
			}
			s.expireRecentKeys()

		case <-s.stopCh:
			s.drainAndFlush(batch)
			return
		}
	}
}

func (s *Service) drainAndFlush(batch []Entry) {
	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= s.batchSize {
				s.flush(batch)
				batch = batch[:0]
			}
		default:
			if len(batch) > 0 {
				s.flush(batch)
			}
			return
		}
	}
}

func (s *Service) flush(entries []Entry) {
	var lastErr error
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		n, err := s.repo.InsertBatch(entries)
		if err == nil {
			if n > 0 {
				log.Printf("[audit] flushed %d entries", n)
			}
			return
		}
		lastErr = err
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	log.Printf("[audit] flush %d entries failed after %d attempts: %v",
		len(entries), insertAttempts, lastErr)
}

func (s *Service) expireRecentKeys() {
	cutoff := time.Now().Add(-recentKeyTTL)
	s.recentKeys.Range(func(key string, at time.Time) bool {
		if at.Before(cutoff) {
			s.recentKeys.Delete(key)
		}
		return true
	})
}
