// Package animation drives the popup shake shown while the watch vibrates.
package animation

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains shake timing values.
type Config struct {
	// Amplitude is the horizontal offset in pixels at each swing.
	Amplitude float32
	Swing     Range
	Pause     Range
	// Burst is the number of swings between pauses.
	Burst int
}

// DefaultConfig returns a short buzz pattern.
func DefaultConfig() Config {
	return Config{
		Amplitude: 6,
		Swing:     Range{Min: 35 * time.Millisecond, Max: 50 * time.Millisecond},
		Pause:     Range{Min: 120 * time.Millisecond, Max: 180 * time.Millisecond},
		Burst:     4,
	}
}

// Engine moves a widget back and forth until stopped.
type Engine struct {
	mu      sync.Mutex
	config  Config
	offset  func(float32)
	cancel  context.CancelFunc
	done    chan struct{}
	rng     *rand.Rand
	running bool
}

// New creates a new animation engine. offset receives the horizontal
// displacement to apply; it is called with 0 when a shake ends.
func New(config Config, offset func(float32)) *Engine {
	if config.Burst <= 0 {
		config.Burst = 1
	}
	return &Engine{
		config: config,
		offset: offset,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartShake shakes for duration, replacing any shake in progress.
func (engine *Engine) StartShake(ctx context.Context, duration time.Duration) {
	engine.start(ctx, func(runCtx context.Context) {
		deadline := time.Now().Add(duration)
		defer engine.offset(0)
		for time.Now().Before(deadline) {
			for swing := 0; swing < engine.config.Burst; swing++ {
				direction := float32(1)
				if swing%2 == 1 {
					direction = -1
				}
				engine.offset(direction * engine.config.Amplitude)
				if !sleepWithContext(runCtx, engine.config.Swing.Random(engine.rng)) {
					return
				}
			}
			engine.offset(0)
			if !sleepWithContext(runCtx, engine.config.Pause.Random(engine.rng)) {
				return
			}
		}
	})
}

// Stop terminates any active shake and waits for it to settle.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel, engine.done = nil, nil
	engine.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	engine.mu.Lock()
	engine.running = false
	engine.mu.Unlock()
}

// Running reports whether a shake is in progress.
func (engine *Engine) Running() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.running
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.Stop()

	engine.mu.Lock()
	runCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	engine.cancel, engine.done = cancel, done
	engine.running = true
	engine.mu.Unlock()

	go func() {
		defer close(done)
		run(runCtx)
		engine.mu.Lock()
		if engine.done == done {
			engine.running = false
		}
		engine.mu.Unlock()
	}()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
