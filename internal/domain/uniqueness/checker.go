package uniqueness

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStale проверку обогнала более новая проверка того же поля
var ErrStale = errors.New("stale uniqueness check")

// ProbeFunc спрашивает у бэкенда, занято ли значение
type ProbeFunc func(ctx context.Context, resource, field, value, exceptID string) (bool, error)

// Key поле формы, для которого одновременно может идти только одна проверка
type Key struct {
	Session  string
	Resource string
	Field    string
}

// Result ответ проверки с номером, по которому клиент отличает свежие ответы от старых
type Result struct {
	Exists bool   `json:"exists"`
	Seq    uint64 `json:"seq"`
}

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// Checker проверки уникальности названий с задержкой (debounce).
// Новая проверка поля отменяет предыдущую; ответ, чей номер уже не последний,
// отбрасывается с ErrStale даже если бэкенд успел ответить.
type Checker struct {
	delay time.Duration
	probe ProbeFunc

	seq      atomic.Uint64
	mu       sync.Mutex
	inflight map[Key]inflight
}

func NewChecker(delay time.Duration, probe ProbeFunc) *Checker {
	return &Checker{
		delay:    delay,
		probe:    probe,
		inflight: make(map[Key]inflight),
	}
}

// Check ждет delay и выполняет проверку, если за это время не пришла более новая
func (c *Checker) Check(ctx context.Context, key Key, value, exceptID string) (Result, error) {
	seq := c.seq.Add(1)
	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if prev, ok := c.inflight[key]; ok {
		prev.cancel()
	}
	c.inflight[key] = inflight{seq: seq, cancel: cancel}
	c.mu.Unlock()

	defer c.release(key, seq)

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		select {
		case <-timer.C:
		case <-probeCtx.Done():
			timer.Stop()
			return Result{Seq: seq}, c.cancelReason(ctx, key, seq)
		}
	}

	exists, err := c.probe(probeCtx, key.Resource, key.Field, value, exceptID)

	if !c.isLatest(key, seq) {
		return Result{Seq: seq}, ErrStale
	}
	if err != nil {
		return Result{Seq: seq}, err
	}
	return Result{Exists: exists, Seq: seq}, nil
}

// InFlight количество полей с незавершенной проверкой
func (c *Checker) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

func (c *Checker) isLatest(key Key, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.inflight[key]
	return ok && cur.seq == seq
}

func (c *Checker) release(key Key, seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.inflight[key]; ok && cur.seq == seq {
		delete(c.inflight, key)
	}
}

// cancelReason: отмена родительского контекста важнее вытеснения новой проверкой
func (c *Checker) cancelReason(parent context.Context, key Key, seq uint64) error {
	if err := parent.Err(); err != nil {
		return err
	}
	if !c.isLatest(key, seq) {
		return ErrStale
	}
	return context.Canceled
}
