package scheduler

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler owns the recurring trigger of the scan engine. It guarantees at
// most one scan cycle in flight: a tick arriving while the previous cycle is
// still running is skipped, not queued.
type Scheduler struct {
	engine   *Engine
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	busy   atomic.Bool
	wg     sync.WaitGroup
	pokeCh chan struct{}
}

func New(engine *Engine, interval time.Duration) *Scheduler {
	return &Scheduler{
		engine:   engine,
		interval: interval,
		pokeCh:   make(chan struct{}, 1),
	}
}

// Start begins periodic scanning, running the first cycle immediately.
// Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		log.Println("scheduler: already running")
		return
	}
	s.running = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
}

// Stop cancels future ticks and waits for the in-flight cycle, if any, to
// complete. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
	s.wg.Wait()
}

// Running reports whether the scheduler has been started and not stopped.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Poke requests an immediate scan, e.g. right after a reminder was created.
// Non-blocking: if a poke is already pending it is coalesced.
func (s *Scheduler) Poke() {
	select {
	case s.pokeCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	log.Println("scheduler: started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: stopped")
			return
		case <-ticker.C:
			s.tick()
		case <-s.pokeCh:
			log.Println("scheduler: triggered by poke")
			s.tick()
		}
	}
}

// tick launches one scan cycle unless the previous one is still running.
// Cycles run on a background context: Stop only prevents future ticks, an
// in-flight cycle always completes its dispatches and store writes.
func (s *Scheduler) tick() {
	if !s.busy.CompareAndSwap(false, true) {
		log.Println("scheduler: previous scan still running, skipping tick")
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.busy.Store(false)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("scheduler: scan cycle panicked: %v", r)
			}
		}()
		s.engine.RunCycle(context.Background())
	}()
}
