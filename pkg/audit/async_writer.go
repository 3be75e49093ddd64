package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/payrollguard/pkg/logger"
)

// Writer persists audit records in bulk. Implementations should insert the
// whole batch or fail as a whole.
type Writer interface {
	StoreBatch(ctx context.Context, records []Record) error
}

// Enqueuer accepts records without blocking the caller.
type Enqueuer interface {
	Enqueue(rec Record) error
}

// AsyncOptions configures buffering and batching.
type AsyncOptions struct {
	BufferSize     int           // records held in memory before Enqueue rejects
	BatchSize      int           // records per StoreBatch call
	BatchTimeout   time.Duration // max wait before flushing a partial batch
	StorageTimeout time.Duration // per-batch storage deadline
	Fallback       *slog.Logger  // receives records that could not be stored
}

// AsyncStats is a point-in-time snapshot of writer counters.
type AsyncStats struct {
	Enqueued uint64
	Stored   uint64
	Failed   uint64
	Rejected uint64
}

// AsyncWriter batches records on a background goroutine. Enqueue never
// blocks: a full buffer rejects the record and the caller decides what to do
// with it.
type AsyncWriter struct {
	writer   Writer
	records  chan Record
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	options  AsyncOptions
	fallback *slog.Logger

	enqueued atomic.Uint64
	stored   atomic.Uint64
	failed   atomic.Uint64
	rejected atomic.Uint64
}

// NewAsyncWriter starts the batch worker and returns the writer with its
// close function.
func NewAsyncWriter(w Writer, opts AsyncOptions) (*AsyncWriter, func(context.Context) error) {
	if w == nil {
		panic(ErrNilWriter)
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = logger.Discard()
	}

	aw := &AsyncWriter{
		writer:   w,
		records:  make(chan Record, opts.BufferSize),
		done:     make(chan struct{}),
		options:  opts,
		fallback: fallback.With(logger.Component("audit")),
	}

	aw.wg.Add(1)
	go aw.worker()

	return aw, aw.Close
}

// Enqueue hands rec to the worker. It returns ErrBufferFull or
// ErrWriterClosed instead of waiting.
func (aw *AsyncWriter) Enqueue(rec Record) error {
	aw.mu.RLock()
	defer aw.mu.RUnlock()

	if aw.closed {
		aw.rejected.Add(1)
		return ErrWriterClosed
	}

	select {
	case aw.records <- rec:
		aw.enqueued.Add(1)
		return nil
	default:
		aw.rejected.Add(1)
		return ErrBufferFull
	}
}

// Close stops accepting records, flushes what is buffered and waits for the
// worker or ctx, whichever comes first.
func (aw *AsyncWriter) Close(ctx context.Context) error {
	aw.mu.Lock()
	if aw.closed {
		aw.mu.Unlock()
		return nil
	}
	aw.closed = true
	close(aw.done)
	aw.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		aw.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the current counters.
func (aw *AsyncWriter) Stats() AsyncStats {
	return AsyncStats{
		Enqueued: aw.enqueued.Load(),
		Stored:   aw.stored.Load(),
		Failed:   aw.failed.Load(),
		Rejected: aw.rejected.Load(),
	}
}

func (aw *AsyncWriter) worker() {
	defer aw.wg.Done()

	batch := make([]Record, 0, aw.options.BatchSize)
	ticker := time.NewTicker(aw.options.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		aw.store(batch)
		batch = make([]Record, 0, aw.options.BatchSize)
	}

	for {
		select {
		case rec := <-aw.records:
			batch = append(batch, rec)
			if len(batch) >= aw.options.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-aw.done:
			// No sends happen after done is closed, so draining is final.
			for {
				select {
				case rec := <-aw.records:
					batch = append(batch, rec)
					if len(batch) >= aw.options.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (aw *AsyncWriter) store(batch []Record) {
	ctx, cancel := context.WithTimeout(context.Background(), aw.options.StorageTimeout)
	defer cancel()

	err := aw.safeStore(ctx, batch)
	if err == nil {
		aw.stored.Add(uint64(len(batch)))
		return
	}

	aw.failed.Add(uint64(len(batch)))
	aw.fallback.Error("audit batch not stored",
		logger.Error(err),
		slog.Int("records", len(batch)),
	)
	for _, rec := range batch {
		logRecord(aw.fallback, slog.LevelError, "audit record dropped", rec)
	}
}

func (aw *AsyncWriter) safeStore(ctx context.Context, batch []Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Join(ErrStorageFailed, errors.New("writer panicked"))
		}
	}()
	if err := aw.writer.StoreBatch(ctx, batch); err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

// logRecord writes rec to l so that it survives when storage is unavailable.
func logRecord(l *slog.Logger, level slog.Level, msg string, rec Record) {
	l.LogAttrs(context.Background(), level, msg,
		slog.String("audit_id", rec.ID),
		slog.String("kind", string(rec.Kind)),
		logger.UserID(rec.UserID),
		logger.Role(rec.UserRole),
		logger.Permission(rec.RequiredPermission),
		slog.String("required_role", rec.RequiredRole),
		logger.Resource(rec.Resource),
		slog.String("action", rec.Action),
		slog.String("reason", rec.Reason),
		logger.RequestID(rec.RequestID),
		slog.String("user_agent", rec.UserAgent),
		slog.String("ip", rec.IP),
		slog.Time("timestamp", rec.Timestamp),
	)
}
