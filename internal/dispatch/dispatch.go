package dispatch

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"deskbell/internal/eventbus"
	"deskbell/internal/kit"
	"deskbell/internal/lifecycle"
	"deskbell/pkg/logx"
)

var (
	ErrQueueFull = errors.New("dispatch queue full")
	ErrStopped   = errors.New("dispatch stopped")
)

// Sender displays one notification. *deskbell.Notifier satisfies this.
type Sender interface {
	Create(title string, o kit.Options) *lifecycle.Handle
}

// Request is one queued notification.
type Request struct {
	Title   string
	Options kit.Options
}

// Config tunes the pipeline. Zero values select the defaults.
type Config struct {
	Workers         int
	QueueSize       int
	RatePerSec      int
	DedupWindow     time.Duration // 0 disables dedup
	DedupMaxEntries int
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 128
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 3
	}
	if c.DedupMaxEntries <= 0 {
		c.DedupMaxEntries = 1000
	}
	return c
}

type job struct {
	req Request
}

// Service is the pipeline. Safe for concurrent use.
type Service struct {
	mu sync.Mutex

	log    logx.Logger
	sender Sender
	bus    eventbus.Bus

	cfg     Config
	limiter *rate.Limiter

	accepting bool
	queue     chan job
	enqueueWG sync.WaitGroup
	workerWG  sync.WaitGroup

	runCtx    context.Context
	runCancel context.CancelFunc

	// dedup: key -> suppress until
	dmu   sync.Mutex
	dedup map[string]time.Time
}

func New(cfg Config, sender Sender, log logx.Logger, bus eventbus.Bus) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		log:     log,
		sender:  sender,
		bus:     bus,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
		dedup:   map[string]time.Time{},
	}
}

// Start spins up the worker pool. Calling it on a running service is a
// no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.queue != nil {
		s.mu.Unlock()
		return
	}
	s.queue = make(chan job, s.cfg.QueueSize)
	s.accepting = true
	s.runCtx, s.runCancel = context.WithCancel(ctx)
	workers := s.cfg.Workers
	q := s.queue
	s.mu.Unlock()

	for i := 0; i < workers; i++ {
		s.workerWG.Add(1)
		go func() {
			defer s.workerWG.Done()
			s.workerLoop(q)
		}()
	}
}

// Stop blocks intake, drains the queue best-effort until ctx expires, then
// cancels in-flight work.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	q := s.queue
	cancel := s.runCancel
	if q == nil {
		s.mu.Unlock()
		return
	}
	s.accepting = false
	s.mu.Unlock()

	// In-flight Enqueues finish before the queue closes under them.
	s.enqueueWG.Wait()
	close(q)

	done := make(chan struct{})
	go func() {
		s.workerWG.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}
	cancel()

	s.mu.Lock()
	s.queue = nil
	s.runCtx = nil
	s.runCancel = nil
	s.mu.Unlock()
}

// Enqueue queues one request. Duplicate requests inside the dedup window
// are accepted and silently suppressed (that is the feature, not an
// error); a full queue is an error so producers can tell they are too
// fast.
func (s *Service) Enqueue(ctx context.Context, req Request) error {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.mu.Lock()
	if !s.accepting || s.queue == nil {
		s.mu.Unlock()
		return ErrStopped
	}
	q := s.queue
	window := s.cfg.DedupWindow
	maxEntries := s.cfg.DedupMaxEntries
	s.enqueueWG.Add(1)
	s.mu.Unlock()
	defer s.enqueueWG.Done()

	if window > 0 && !s.dedupAllow(dedupKey(req), window, maxEntries) {
		s.publish(eventbus.TopicDeduped, req, "")
		return nil
	}

	select {
	case q <- job{req: req}:
		s.publish(eventbus.TopicQueued, req, "")
		return nil
	default:
		s.publish(eventbus.TopicDropped, req, ErrQueueFull.Error())
		return ErrQueueFull
	}
}

func (s *Service) workerLoop(q chan job) {
	s.mu.Lock()
	runCtx := s.runCtx
	lim := s.limiter
	s.mu.Unlock()

	for j := range q {
		if runCtx != nil {
			if err := lim.Wait(runCtx); err != nil {
				return // stopping
			}
		}
		s.sender.Create(j.req.Title, j.req.Options)
		s.publish(eventbus.TopicSent, j.req, "")
		s.log.Debug("dispatched notification",
			logx.String("title", j.req.Title), logx.String("tag", j.req.Options.Tag))
	}
}

func (s *Service) publish(topic eventbus.Topic, req Request, errStr string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{
		Topic: topic,
		Title: req.Title,
		Tag:   req.Options.Tag,
		Err:   errStr,
	})
}

func dedupKey(req Request) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(req.Title))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(req.Options.Body))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(req.Options.Tag))
	return fmt.Sprintf("%x", h.Sum64())
}

// dedupAllow reports whether key may pass, and records it. Expired entries
// are pruned opportunistically; if the map still exceeds maxEntries, the
// soonest-to-expire entries go first.
func (s *Service) dedupAllow(key string, window time.Duration, maxEntries int) bool {
	now := time.Now()

	s.dmu.Lock()
	defer s.dmu.Unlock()

	if until, ok := s.dedup[key]; ok && now.Before(until) {
		return false
	}
	s.dedup[key] = now.Add(window)

	for k, until := range s.dedup {
		if !now.Before(until) {
			delete(s.dedup, k)
		}
	}
	for len(s.dedup) > maxEntries {
		var (
			minKey string
			minT   time.Time
			set    bool
		)
		for k, t := range s.dedup {
			if !set || t.Before(minT) {
				minKey, minT, set = k, t, true
			}
		}
		if !set {
			break
		}
		delete(s.dedup, minKey)
	}
	return true
}
