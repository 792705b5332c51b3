package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/genricoloni/tunecord/internal/domain"
	"go.uber.org/zap"
)

// minCallTimeout bounds a single tick's collaborator calls when the poll interval is short
const minCallTimeout = 10 * time.Second

// errStillStopping is returned by Start while the previous worker has not exited yet
var errStillStopping = errors.New("engine is still stopping")

// Engine runs the poll-reconcile-push loop.
// It reads the current track from the probe, looks its cover up, keeps the
// presence connection alive and pushes an update when something changed.
type Engine struct {
	logger *zap.Logger
	cfg    domain.ConfigProvider
	probe  domain.Probe
	covers domain.CoverResolver
	sink   domain.PresenceSink

	now          func() time.Time
	onTransition func(domain.ConnectionState) // observer for state changes, may be nil

	// lifecycle, guarded by mu. running stays set until the worker has exited.
	mu       sync.Mutex
	running  bool
	stopping bool
	stopCh   chan struct{}
	doneCh   chan struct{}

	status atomic.Pointer[domain.EngineStatus]

	// worker-owned state; only touched from the loop goroutine
	state      domain.ConnectionState
	attempts   int
	connErr    string
	lastKey    *domain.UpdateKey // key of the last successful push, nil when nothing is displayed
	lastProbe  string
	tickNumber uint64
}

// NewEngine creates a new reconciliation engine
func NewEngine(
	logger *zap.Logger,
	cfg domain.ConfigProvider,
	probe domain.Probe,
	covers domain.CoverResolver,
	sink domain.PresenceSink,
) *Engine {
	e := &Engine{
		logger: logger,
		cfg:    cfg,
		probe:  probe,
		covers: covers,
		sink:   sink,
		now:    time.Now,
		state:  domain.StateDisconnected,
	}
	e.status.Store(&domain.EngineStatus{
		State:   domain.StateDisconnected,
		Discord: "not started",
		Music:   "waiting",
		Tier:    domain.TierRed,
		Tooltip: tooltip("not started", "waiting"),
		Menu:    menuLine(nil),
	})
	return e
}

// Start launches the engine's loop in a goroutine.
// It returns immediately (non-blocking); calling it while running is a no-op.
// It fails while a stopped worker is still finishing its last tick.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		if e.stopping {
			return errStillStopping
		}
		return nil
	}

	settings := e.cfg.Current()
	if settings.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval %v", settings.PollInterval)
	}

	e.running = true
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})

	e.logger.Info("Engine starting...",
		zap.Duration("pollInterval", settings.PollInterval),
		zap.Bool("showTimestamp", settings.ShowTimestamp))

	// The start context belongs to the caller (fx cancels it after startup);
	// the loop only ends through Stop.
	go e.runLoop(context.WithoutCancel(ctx), e.stopCh, e.doneCh)
	return nil
}

// Stop signals the loop to exit after the current tick and waits for it.
// The presence connection is closed before the worker exits. Idempotent;
// after a timed out Stop, calling it again waits for the same worker.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	if !e.stopping {
		e.stopping = true
		close(e.stopCh)
	}
	done := e.doneCh
	e.mu.Unlock()

	e.logger.Info("Engine stopping...")

	select {
	case <-done:
		e.logger.Info("Engine stopped")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine did not stop in time, worker will finish in background")
		return ctx.Err()
	}
}

// CurrentStatus returns the last published status. Never blocks.
func (e *Engine) CurrentStatus() domain.EngineStatus {
	return *e.status.Load()
}

// runLoop is the worker: one tick per poll interval until stopCh closes
func (e *Engine) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	defer e.markExited()
	defer e.shutdown()

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		settings := e.cfg.Current()
		e.tick(ctx, settings)

		timer := time.NewTimer(settings.PollInterval)
		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// markExited releases the engine for the next Start once the worker is done
// with its state
func (e *Engine) markExited() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.stopping = false
}

// shutdown disconnects the sink and publishes the final status
func (e *Engine) shutdown() {
	if err := callSafely(func() error { return e.sink.Disconnect() }); err != nil {
		e.logger.Warn("Failed to disconnect presence sink", zap.Error(err))
	}
	e.transition(domain.StateDisconnected)
	e.lastKey = nil
	e.attempts = 0
	e.connErr = ""

	prev := e.CurrentStatus()
	e.publish(domain.EngineStatus{
		State:     domain.StateDisconnected,
		Discord:   "stopped",
		Music:     prev.Music,
		Tier:      domain.TierRed,
		Tooltip:   tooltip("stopped", prev.Music),
		Menu:      prev.Menu,
		Track:     prev.Track,
		Cover:     prev.Cover,
		Tick:      e.tickNumber,
		UpdatedAt: e.now(),
	})
}

// tick runs one poll-reconcile-push cycle. Collaborator failures are recorded
// in the status and never abort the tick.
func (e *Engine) tick(parent context.Context, settings domain.Settings) {
	e.tickNumber++

	timeout := settings.PollInterval
	if timeout < minCallTimeout {
		timeout = minCallTimeout
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	var lastErr string

	// 1. Probe
	var snap *domain.TrackSnapshot
	err := callSafely(func() error {
		var err error
		snap, err = e.probe.Snapshot(ctx)
		return err
	})
	if err != nil {
		snap = nil
		e.lastProbe = "error: " + err.Error()
		lastErr = e.lastProbe
		e.logger.Debug("Probe failed", zap.String("kind", errorKind(err)), zap.Error(err))
	} else {
		e.lastProbe = musicText(snap)
	}

	// 2. Cover
	var cover string
	if snap != nil {
		_ = callSafely(func() error {
			cover, _ = e.covers.ResolveCover(ctx, snap.Title, snap.Artist)
			return nil
		})
	}

	// 3. Connection maintenance
	if e.state == domain.StateDisconnected || e.state == domain.StateFailed {
		e.connect(ctx)
	}

	// 4-5. Push or clear
	if e.state == domain.StateConnected {
		now := e.now()
		if snap != nil {
			if shouldPush(e.lastKey, *snap, settings.ShowTimestamp, now) {
				e.push(ctx, buildActivity(*snap, cover, settings, now), snap.Key())
			}
		} else if e.lastKey != nil {
			e.clear(ctx)
		}
	}

	if e.connErr != "" {
		lastErr = e.connErr
	}

	// 6. Publish
	discord := e.discordText()
	e.publish(domain.EngineStatus{
		State:     e.state,
		Discord:   discord,
		Music:     e.lastProbe,
		LastError: lastErr,
		Tier:      iconTier(e.state, snap),
		Tooltip:   tooltip(discord, e.lastProbe),
		Menu:      menuLine(snap),
		Track:     snap,
		Cover:     cover,
		Attempts:  e.attempts,
		Tick:      e.tickNumber,
		UpdatedAt: e.now(),
	})
}

func (e *Engine) connect(ctx context.Context) {
	e.attempts++
	e.transition(domain.StateConnecting)

	err := callSafely(func() error { return e.sink.Connect(ctx) })
	if err != nil {
		e.transition(domain.StateFailed)
		e.connErr = err.Error()
		e.logger.Debug("Presence connection attempt failed",
			zap.Int("attempt", e.attempts),
			zap.String("kind", errorKind(err)),
			zap.Error(err))
		return
	}

	e.logger.Info("Presence connected", zap.Int("attempts", e.attempts))
	e.transition(domain.StateConnected)
	e.attempts = 0
	e.connErr = ""
	e.lastKey = nil
}

func (e *Engine) push(ctx context.Context, activity domain.Activity, key domain.UpdateKey) {
	if err := callSafely(func() error { return e.sink.Push(ctx, activity) }); err != nil {
		e.demote(err)
		return
	}
	e.lastKey = &key
	e.logger.Info("Presence updated",
		zap.String("title", key.Title),
		zap.String("artist", key.Artist),
		zap.Bool("playing", key.IsPlaying),
		zap.String("cover", activity.LargeImage))
}

func (e *Engine) clear(ctx context.Context) {
	if err := callSafely(func() error { return e.sink.Clear(ctx) }); err != nil {
		e.demote(err)
		return
	}
	e.lastKey = nil
	e.logger.Info("Presence cleared (no active track)")
}

// demote marks the connection failed after a push or clear error.
// The next tick reconnects; nothing is retried within this tick.
func (e *Engine) demote(err error) {
	e.logger.Warn("Presence update failed, reconnecting on next tick",
		zap.String("kind", errorKind(err)),
		zap.Error(err))
	e.transition(domain.StateFailed)
	e.attempts = 0
	e.connErr = err.Error()
	e.lastKey = nil
}

func (e *Engine) transition(s domain.ConnectionState) {
	if e.state == s {
		return
	}
	e.logger.Debug("Connection state change",
		zap.Stringer("from", e.state),
		zap.Stringer("to", s))
	e.state = s
	if e.onTransition != nil {
		e.onTransition(s)
	}
}

func (e *Engine) discordText() string {
	switch e.state {
	case domain.StateConnected:
		return "connected"
	case domain.StateFailed:
		if e.connErr != "" {
			return fmt.Sprintf("error: %s (attempt %d)", e.connErr, e.attempts)
		}
		return "failed"
	default:
		return e.state.String()
	}
}

func (e *Engine) publish(s domain.EngineStatus) {
	e.status.Store(&s)
}

// callSafely runs a collaborator call, turning a panic into an error so a
// misbehaving collaborator cannot kill the worker
func callSafely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// errorKind names the failing subsystem for an error, for logs and tests
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrProbe):
		return "probe"
	case errors.Is(err, domain.ErrConnection):
		return "connection"
	case errors.Is(err, domain.ErrPush):
		return "push"
	case errors.Is(err, domain.ErrResolver):
		return "resolver"
	default:
		return "unknown"
	}
}
