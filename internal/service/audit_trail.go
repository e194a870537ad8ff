package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/norte-express/fleet-api/internal/observability"
)

// AuditTrail decouples audit recording from the request that triggered it.
// Actor services enqueue an entry after their primary mutation has committed;
// a worker goroutine performs the append and reports failures through the
// log and metrics instead of the request path. A full queue drops the entry
// rather than block the caller.
type AuditTrail struct {
	service ActivityService
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger

	queue chan auditJob
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type auditJob struct {
	entry ActivityEntry
	// flush, when set, marks a barrier: the worker closes it once every job
	// enqueued before it has been handled.
	flush chan struct{}
}

// NewAuditTrail constructs the dispatcher and starts its worker. The NATS
// connection is optional; when present, every recorded entry is also
// published to subject for downstream consumers.
func NewAuditTrail(service ActivityService, natsConn *nats.Conn, subject string, queueSize int, logger zerolog.Logger) *AuditTrail {
	if queueSize <= 0 {
		queueSize = 256
	}

	t := &AuditTrail{
		service: service,
		nats:    natsConn,
		subject: subject,
		logger:  logger.With().Str("component", "audit_trail").Logger(),
		queue:   make(chan auditJob, queueSize),
	}

	t.wg.Add(1)
	go t.run()
	return t
}

// Record enqueues an audit entry without blocking. The caller's context is
// deliberately not carried into the append: the audited mutation has already
// committed, and cancelling the request must not orphan its audit entry.
func (t *AuditTrail) Record(_ context.Context, entry ActivityEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	select {
	case t.queue <- auditJob{entry: entry}:
	default:
		observability.AuditAppends().WithLabelValues(observability.AuditOutcomeDropped).Inc()
		t.logger.Warn().
			Str("category", string(entry.Category)).
			Str("user_id", entry.UserID).
			Msg("audit queue full, entry dropped")
	}
}

// Flush blocks until every entry enqueued before the call has been handled.
// The barrier is enqueued with a non-blocking send under the mutex so that a
// full queue never holds the lock and Record stays non-blocking while a drain
// is waiting.
func (t *AuditTrail) Flush() {
	done := make(chan struct{})
	for {
		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			return
		}
		select {
		case t.queue <- auditJob{flush: done}:
			t.mu.Unlock()
			<-done
			return
		default:
		}
		t.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
}

// Close drains the queue and stops the worker.
func (t *AuditTrail) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.queue)
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *AuditTrail) run() {
	defer t.wg.Done()

	for job := range t.queue {
		if job.flush != nil {
			close(job.flush)
			continue
		}

		record, err := t.service.Append(context.Background(), job.entry)
		if err != nil {
			observability.AuditAppends().WithLabelValues(observability.AuditOutcomeFailed).Inc()
			t.logger.Warn().Err(err).
				Str("category", string(job.entry.Category)).
				Str("user_id", job.entry.UserID).
				Msg("audit append failed")
			continue
		}

		observability.AuditAppends().WithLabelValues(observability.AuditOutcomeRecorded).Inc()
		t.publish(record)
	}
}

func (t *AuditTrail) publish(record interface{}) {
	if t.nats == nil || t.subject == "" {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		t.logger.Warn().Err(err).Msg("failed to marshal audit record for publish")
		return
	}
	if err := t.nats.Publish(t.subject, payload); err != nil {
		t.logger.Warn().Err(err).Msg("failed to publish audit record")
	}
}
