package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"photojay_admin/internal/queue"
)

const (
	DefaultWorkerCount  = 2
	DefaultBatchSize    = 10
	DefaultBlockTimeout = 5 * time.Second

	// readErrorBackoff is how long a worker sleeps after a failed XREADGROUP.
	readErrorBackoff = time.Second
)

// ManagerConfig holds configuration for the worker manager.
// Zero values fall back to the defaults above and the moderation stream.
type ManagerConfig struct {
	WorkerCount  int
	BatchSize    int64
	BlockTimeout time.Duration

	Stream string // queue.StreamModeration
	Group  string // queue.ConsumerGroupNotify
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

// ManagerStats counts processed stream entries since Start.
type ManagerStats struct {
	Handled int64 // handler returned nil
	Failed  int64 // handler returned an error; still acknowledged
}

// Manager runs a pool of consumers on one stream/group pair.
// Each worker is a distinct consumer, so Redis spreads entries across them.
type Manager struct {
	consumer queue.Consumer
	handler  *Handler
	cfg      ManagerConfig

	handled atomic.Int64
	failed  atomic.Int64

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}
	if cfg.Stream == "" {
		cfg.Stream = queue.StreamModeration
	}
	if cfg.Group == "" {
		cfg.Group = queue.ConsumerGroupNotify
	}
	return &Manager{consumer: consumer, handler: handler, cfg: cfg}
}

// Start creates the consumer group if needed and launches the workers.
// Workers run until ctx is cancelled or Stop is called.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.consumer.EnsureGroup(ctx, m.cfg.Stream, m.cfg.Group); err != nil {
		return err
	}

	ctx, m.cancel = context.WithCancel(ctx)
	for i := 1; i <= m.cfg.WorkerCount; i++ {
		m.wg.Add(1)
		go m.run(ctx, i)
	}

	log.Printf("[Manager] Started %d workers: stream=%s group=%s", m.cfg.WorkerCount, m.cfg.Stream, m.cfg.Group)
	return nil
}

// Stop cancels the workers and waits for in-flight batches. Safe before Start.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()

	s := m.Stats()
	log.Printf("[Manager] Stopped: handled=%d failed=%d", s.Handled, s.Failed)
}

func (m *Manager) Stats() ManagerStats {
	return ManagerStats{Handled: m.handled.Load(), Failed: m.failed.Load()}
}

func (m *Manager) run(ctx context.Context, workerID int) {
	defer m.wg.Done()

	name := fmt.Sprintf("worker-%d", workerID)

	// Entries this consumer took but never acked, e.g. before a crash
	m.drainPending(ctx, workerID, name)

	for ctx.Err() == nil {
		msgs, err := m.consumer.Read(ctx, m.cfg.Stream, m.cfg.Group, name, m.cfg.BatchSize, m.cfg.BlockTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[Worker-%d] Read FAILED: %v", workerID, err)
			select {
			case <-ctx.Done():
			case <-time.After(readErrorBackoff):
			}
			continue
		}
		m.process(ctx, workerID, msgs)
	}

	log.Printf("[Worker-%d] Shutting down", workerID)
}

func (m *Manager) drainPending(ctx context.Context, workerID int, name string) {
	for ctx.Err() == nil {
		msgs, err := m.consumer.ReadPending(ctx, m.cfg.Stream, m.cfg.Group, name, m.cfg.BatchSize)
		if err != nil {
			log.Printf("[Worker-%d] ReadPending FAILED: %v", workerID, err)
			return
		}
		if len(msgs) == 0 {
			return
		}
		log.Printf("[Worker-%d] Recovering %d pending entries", workerID, len(msgs))
		m.process(ctx, workerID, msgs)
	}
}

// process handles and acks each entry. Failed entries are acked too: a
// malformed event or a vanished owner will not improve on redelivery.
func (m *Manager) process(ctx context.Context, workerID int, msgs []queue.Message) {
	for _, msg := range msgs {
		if err := m.handler.HandleEvent(ctx, msg.Event); err != nil {
			m.failed.Add(1)
			log.Printf("[Worker-%d] Handle FAILED: msgID=%s err=%v", workerID, msg.ID, err)
		} else {
			m.handled.Add(1)
		}

		if err := m.consumer.Ack(ctx, m.cfg.Stream, m.cfg.Group, msg.ID); err != nil {
			log.Printf("[Worker-%d] Ack FAILED: msgID=%s err=%v", workerID, msg.ID, err)
		}
	}
}
