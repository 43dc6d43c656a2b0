package customer

import (
	"context"
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	coreport "github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
)

const (
	queueCapacity    = 100
	queueIdleTimeout = time.Minute
)

// customerQueue runs card operations for the same customer one at a time, so a
// gateway call and the local write that follows it are never interleaved with
// another operation on that customer's cards
type customerQueue struct {
	logger coreport.Logger

	// idleTimeout retires a customer's worker after it has had nothing to do
	idleTimeout time.Duration

	// Customer-based queues for strict ordering
	queues sync.Map // map[uint64]chan *queuedOperation
	wg     sync.WaitGroup

	// mu guards closed and worker retirement against sends in flight
	mu     sync.RWMutex
	closed bool
}

type queuedOperation struct {
	ctx  context.Context
	run  func(context.Context) error
	done chan error
}

func newCustomerQueue(logger coreport.Logger) *customerQueue {
	return &customerQueue{logger: logger, idleTimeout: queueIdleTimeout}
}

// Do queues run behind any earlier operation on customerID and waits for its result
func (q *customerQueue) Do(ctx context.Context, customerID uint64, run func(context.Context) error) error {
	op := &queuedOperation{ctx: ctx, run: run, done: make(chan error, 1)}

	if err := q.enqueue(ctx, customerID, op); err != nil {
		return err
	}

	select {
	case err := <-op.done:
		return err
	case <-ctx.Done():
		q.logger.Warn("Context canceled while waiting for card operation", map[string]any{
			"customer_id": customerID,
			"error":       ctx.Err().Error(),
		})
		return ctx.Err()
	}
}

func (q *customerQueue) enqueue(ctx context.Context, customerID uint64, op *queuedOperation) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return errs.ErrShuttingDown
	}

	queueIface, loaded := q.queues.LoadOrStore(customerID, make(chan *queuedOperation, queueCapacity))
	queue, ok := queueIface.(chan *queuedOperation)
	if !ok {
		return errs.ErrShuttingDown
	}

	if !loaded {
		q.logger.Debug("Starting card operation worker", map[string]any{"customer_id": customerID})
		q.wg.Add(1)
		go q.work(customerID, queue)
	}

	select {
	case queue <- op:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *customerQueue) work(customerID uint64, queue chan *queuedOperation) {
	defer q.wg.Done()

	idle := time.NewTimer(q.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case op, ok := <-queue:
			if !ok {
				q.logger.Debug("Card operation worker stopped", map[string]any{"customer_id": customerID})
				return
			}
			if err := op.ctx.Err(); err != nil {
				op.done <- err
			} else {
				op.done <- op.run(op.ctx)
			}
			idle.Reset(q.idleTimeout)

		case <-idle.C:
			if q.retire(customerID, queue) {
				q.logger.Debug("Card operation worker retired", map[string]any{"customer_id": customerID})
				return
			}
			idle.Reset(q.idleTimeout)
		}
	}
}

// retire removes an idle, empty queue so the next operation starts a fresh
// worker. It backs off while a sender holds the read lock.
func (q *customerQueue) retire(customerID uint64, queue chan *queuedOperation) bool {
	if !q.mu.TryLock() {
		return false
	}
	defer q.mu.Unlock()

	if q.closed || len(queue) > 0 {
		return false
	}
	return q.queues.CompareAndDelete(customerID, queue)
}

// Shutdown stops accepting operations and waits for queued ones to finish
func (q *customerQueue) Shutdown() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.queues.Range(func(_, queueIface any) bool {
		if queue, ok := queueIface.(chan *queuedOperation); ok {
			close(queue)
		}
		return true
	})
	q.mu.Unlock()

	q.wg.Wait()
}
