package customer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerQueueReturnsResult(t *testing.T) {
	q := newCustomerQueue(logger.NewNoopLogger())
	defer q.Shutdown()

	boom := errors.New("gateway down")
	err := q.Do(context.Background(), 1, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	err = q.Do(context.Background(), 1, func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestCustomerQueueSerializesPerCustomer(t *testing.T) {
	q := newCustomerQueue(logger.NewNoopLogger())
	defer q.Shutdown()

	var running, overlaps int32
	var order []int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := q.Do(context.Background(), 7, func(context.Context) error {
				if atomic.AddInt32(&running, 1) > 1 {
					atomic.AddInt32(&overlaps, 1)
				}
				time.Sleep(2 * time.Millisecond)
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				atomic.AddInt32(&running, -1)
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&overlaps))
	assert.Len(t, order, 10)
}

func TestCustomerQueueRunsCustomersIndependently(t *testing.T) {
	q := newCustomerQueue(logger.NewNoopLogger())
	defer q.Shutdown()

	release := make(chan struct{})
	blocked := make(chan error, 1)
	go func() {
		blocked <- q.Do(context.Background(), 1, func(context.Context) error {
			<-release
			return nil
		})
	}()

	done := make(chan error, 1)
	go func() {
		done <- q.Do(context.Background(), 2, func(context.Context) error { return nil })
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("second customer waited on the first")
	}

	close(release)
	assert.NoError(t, <-blocked)
}

func TestCustomerQueueContextCanceled(t *testing.T) {
	q := newCustomerQueue(logger.NewNoopLogger())
	defer q.Shutdown()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = q.Do(context.Background(), 1, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	var ran int32
	result := make(chan error, 1)
	go func() {
		result <- q.Do(ctx, 1, func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}()

	cancel()
	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("canceled operation did not return")
	}

	close(release)
	q.Shutdown()
	assert.Zero(t, atomic.LoadInt32(&ran))
}

func TestCustomerQueueShutdown(t *testing.T) {
	q := newCustomerQueue(logger.NewNoopLogger())

	var ran int32
	require.NoError(t, q.Do(context.Background(), 3, func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}))

	q.Shutdown()
	q.Shutdown()

	err := q.Do(context.Background(), 3, func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	assert.ErrorIs(t, err, errs.ErrShuttingDown)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestCustomerQueueRetiresIdleWorkers(t *testing.T) {
	q := newCustomerQueue(logger.NewNoopLogger())
	q.idleTimeout = 20 * time.Millisecond
	defer q.Shutdown()

	active := func(customerID uint64) bool {
		_, ok := q.queues.Load(customerID)
		return ok
	}

	for _, id := range []uint64{1, 2, 3} {
		require.NoError(t, q.Do(context.Background(), id, func(context.Context) error { return nil }))
	}

	require.Eventually(t, func() bool {
		return !active(1) && !active(2) && !active(3)
	}, 5*time.Second, 10*time.Millisecond)

	var ran int32
	require.NoError(t, q.Do(context.Background(), 1, func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestCustomerQueueSerializesAcrossRetirement(t *testing.T) {
	q := newCustomerQueue(logger.NewNoopLogger())
	q.idleTimeout = 5 * time.Millisecond
	defer q.Shutdown()

	var overlaps, running int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := q.Do(context.Background(), 9, func(context.Context) error {
				if atomic.AddInt32(&running, 1) > 1 {
					atomic.AddInt32(&overlaps, 1)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
		time.Sleep(3 * time.Millisecond)
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&overlaps))
}
