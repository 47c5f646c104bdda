package sync

import (
	"context"
	"log/slog"
	stdsync "sync"

	"github.com/google/uuid"

	"pairtrack/internal/board"
	"pairtrack/internal/delivery"
	"pairtrack/internal/logging"
)

// Patcher is the subset of the store the dispatcher needs.
type Patcher interface {
	Patch(ctx context.Context, id int64, fields map[string]any, changedBy string) (*board.Pair, error)
}

// Dispatcher funnels every fire-and-forget remote call through one ordered
// queue consumed by a single goroutine. Submissions never block the caller
// and failures never roll back local state; the default completion behavior
// is to log and swallow. There is deliberately no retry, no backoff, and no
// deduplication of in-flight calls for the same pair: last write wins at the
// remote end.
type Dispatcher struct {
	logger   *slog.Logger
	patcher  Patcher
	delivery delivery.Service

	queue  chan task
	ctx    context.Context
	cancel context.CancelFunc

	pending stdsync.WaitGroup
	once    stdsync.Once
	done    chan struct{}
}

type task struct {
	correlationID string
	operation     string
	run           func(ctx context.Context) error
	complete      func(err error)
}

// New constructs a dispatcher and starts its worker goroutine.
func New(logger *slog.Logger, patcher Patcher, svc delivery.Service, queueSize int) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		logger:   logger.With(logging.String(logging.FieldComponent, "sync")),
		patcher:  patcher,
		delivery: svc,
		queue:    make(chan task, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// SubmitPatch queues a partial field patch. done may be nil. Returns false
// when the queue is full or the dispatcher is shut down; the call is then
// dropped (and logged), matching the best-effort contract.
func (d *Dispatcher) SubmitPatch(id int64, fields map[string]any, changedBy string, done func(error)) bool {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return d.submit("patch", func(ctx context.Context) error {
		_, err := d.patcher.Patch(ctx, id, copied, changedBy)
		return err
	}, done)
}

// SubmitDeliver queues a delivery call. done may be nil.
func (d *Dispatcher) SubmitDeliver(pairNumber int, done func(*delivery.Result, error)) bool {
	var result *delivery.Result
	return d.submit("deliver", func(ctx context.Context) error {
		var err error
		result, err = d.delivery.Deliver(ctx, pairNumber)
		return err
	}, func(err error) {
		if done != nil {
			done(result, err)
		}
	})
}

// SubmitDescriptionSync queues a description sync. done may be nil.
func (d *Dispatcher) SubmitDescriptionSync(pairNumber int, text string, done func(error)) bool {
	return d.submit("description_sync", func(ctx context.Context) error {
		return d.delivery.SyncDescription(ctx, pairNumber, text)
	}, done)
}

// SubmitEffects routes reducer effects to their outbound calls. The deliver
// completion, when present, receives the delivery outcome; other effects are
// best-effort with log-only failure handling.
func (d *Dispatcher) SubmitEffects(pairID int64, effects []board.Effect, changedBy string, onDeliver func(*delivery.Result, error)) {
	for _, effect := range effects {
		switch eff := effect.(type) {
		case board.PatchEffect:
			d.SubmitPatch(pairID, eff.Fields, changedBy, nil)
		case board.DeliverEffect:
			d.SubmitDeliver(eff.PairNumber, onDeliver)
		case board.DescriptionSyncEffect:
			d.SubmitDescriptionSync(eff.PairNumber, eff.Description, nil)
		}
	}
}

func (d *Dispatcher) submit(operation string, run func(ctx context.Context) error, complete func(err error)) bool {
	t := task{
		correlationID: uuid.NewString(),
		operation:     operation,
		run:           run,
		complete:      complete,
	}
	if d.ctx.Err() != nil {
		d.logger.Warn("dropped outbound call: dispatcher stopped",
			logging.String(logging.FieldOperation, operation))
		return false
	}
	d.pending.Add(1)
	select {
	case d.queue <- t:
		return true
	default:
		d.pending.Done()
		d.logger.Warn("dropped outbound call: queue full",
			logging.String(logging.FieldOperation, operation),
			logging.String(logging.FieldCorrelationID, t.correlationID))
		return false
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.ctx.Done():
			d.drain()
			return
		case t := <-d.queue:
			d.execute(t)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case t := <-d.queue:
			d.execute(t)
		default:
			return
		}
	}
}

func (d *Dispatcher) execute(t task) {
	defer d.pending.Done()
	err := t.run(d.ctx)
	if err != nil && d.ctx.Err() != nil {
		err = d.ctx.Err()
	}
	if err != nil {
		d.logger.Error("outbound call failed",
			logging.String(logging.FieldOperation, t.operation),
			logging.String(logging.FieldCorrelationID, t.correlationID),
			logging.Error(err))
	} else {
		d.logger.Debug("outbound call completed",
			logging.String(logging.FieldOperation, t.operation),
			logging.String(logging.FieldCorrelationID, t.correlationID))
	}
	if t.complete != nil {
		t.complete(err)
	}
}

// Flush blocks until every queued call has completed. Intended for tests and
// shutdown paths.
func (d *Dispatcher) Flush() {
	d.pending.Wait()
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.pending.Wait()
		d.cancel()
		<-d.done
	})
}
