package shell

import (
	"context"
	"sync"
	"time"

	"github.com/genricoloni/tunecord/internal/domain"
	"go.uber.org/zap"
)

const defaultRefresh = time.Second

// Shell is the headless status surface.
// It samples the engine status and logs whenever the icon tier, tooltip or
// menu line would change, the way a tray icon would be redrawn.
type Shell struct {
	logger  *zap.Logger
	source  domain.StatusSource
	refresh time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// render state, owned by the loop goroutine
	shown *view
}

// view is what the shell currently displays
type view struct {
	tier    domain.IconTier
	tooltip string
	menu    string
}

// NewShell creates a shell reading from the given status source
func NewShell(logger *zap.Logger, source domain.StatusSource) *Shell {
	return &Shell{
		logger:  logger,
		source:  source,
		refresh: defaultRefresh,
	}
}

// Start begins rendering in the background. Idempotent.
func (s *Shell) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(loopCtx, s.done)
	return nil
}

// Stop ends rendering and renders the final status once
func (s *Shell) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		s.render(s.source.CurrentStatus())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shell) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	s.render(s.source.CurrentStatus())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.render(s.source.CurrentStatus())
		}
	}
}

// render logs the status when its visible part changed and reports whether it did
func (s *Shell) render(status domain.EngineStatus) bool {
	next := &view{tier: status.Tier, tooltip: status.Tooltip, menu: status.Menu}
	if s.shown != nil && *s.shown == *next {
		return false
	}
	s.shown = next

	fields := []zap.Field{
		zap.Stringer("icon", status.Tier),
		zap.String("discord", status.Discord),
		zap.String("music", status.Music),
		zap.String("menu", status.Menu),
	}
	if status.LastError != "" {
		fields = append(fields, zap.String("error", status.LastError))
	}
	if status.Tier == domain.TierRed {
		s.logger.Warn("Status changed", fields...)
	} else {
		s.logger.Info("Status changed", fields...)
	}
	return true
}
