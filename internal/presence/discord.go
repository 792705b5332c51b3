package presence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/genricoloni/tunecord/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_maxButtonLabel = 32
	_maxButtonURL   = 512
	_closeTimeout   = time.Second
)

// DiscordSink publishes activities to a local Discord client over its IPC socket
type DiscordSink struct {
	logger   *zap.Logger
	cfg      domain.ConfigProvider
	dial     func(ctx context.Context) (io.ReadWriteCloser, error)
	pid      int
	newNonce func() string

	mu   sync.Mutex
	conn io.ReadWriteCloser

	noDeadlineWarning sync.Once
}

// NewDiscordSink creates a sink that is not yet connected
func NewDiscordSink(logger *zap.Logger, cfg domain.ConfigProvider) *DiscordSink {
	return &DiscordSink{
		logger:   logger,
		cfg:      cfg,
		dial:     dialDiscord,
		pid:      os.Getpid(),
		newNonce: uuid.NewString,
	}
}

// Connect dials the Discord socket and performs the handshake.
// An existing connection is dropped first.
func (s *DiscordSink) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	s.applyDeadline(ctx, conn)

	clientID := s.cfg.Current().ClientID
	if err := writeFrame(conn, opHandshake, handshake{Version: 1, ClientID: clientID}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	f, err := readFrame(conn)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	switch f.op {
	case opClose:
		_ = conn.Close()
		var cp closePayload
		_ = json.Unmarshal(f.payload, &cp)
		return fmt.Errorf("%w: handshake rejected (%d): %s", domain.ErrConnection, cp.Code, cp.Message)
	case opFrame:
		var resp response
		if err := json.Unmarshal(f.payload, &resp); err != nil || resp.Evt != "READY" {
			_ = conn.Close()
			return fmt.Errorf("%w: unexpected handshake reply %q", domain.ErrConnection, resp.Evt)
		}
		s.logger.Info("Connected to Discord",
			zap.String("clientID", clientID),
			zap.String("user", resp.Data.User.Username))
	default:
		_ = conn.Close()
		return fmt.Errorf("%w: unexpected opcode %d during handshake", domain.ErrConnection, f.op)
	}

	s.conn = conn
	return nil
}

// Push replaces the displayed activity
func (s *DiscordSink) Push(ctx context.Context, activity domain.Activity) error {
	return s.setActivity(ctx, toPayload(activity))
}

// Clear removes the displayed activity
func (s *DiscordSink) Clear(ctx context.Context) error {
	return s.setActivity(ctx, nil)
}

// Disconnect sends a close frame and closes the socket. Safe to call when not connected.
func (s *DiscordSink) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	// The deadline left by the last command may already have passed
	ctx, cancel := context.WithTimeout(context.Background(), _closeTimeout)
	defer cancel()
	s.applyDeadline(ctx, s.conn)

	err := multierr.Combine(
		writeFrame(s.conn, opClose, struct{}{}),
		s.conn.Close(),
	)
	s.conn = nil

	s.logger.Info("Disconnected from Discord")
	return err
}

func (s *DiscordSink) setActivity(ctx context.Context, activity *activityPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("%w: %w", domain.ErrPush, domain.ErrNotConnected)
	}
	s.applyDeadline(ctx, s.conn)

	nonce := s.newNonce()
	cmd := command{
		Cmd:   "SET_ACTIVITY",
		Args:  commandArgs{PID: s.pid, Activity: activity},
		Nonce: nonce,
	}

	if err := writeFrame(s.conn, opFrame, cmd); err != nil {
		s.dropLocked()
		return fmt.Errorf("%w: %w", domain.ErrPush, err)
	}

	resp, err := s.awaitReply(nonce)
	if err != nil {
		s.dropLocked()
		return fmt.Errorf("%w: %w", domain.ErrPush, err)
	}
	if resp.Evt == "ERROR" {
		return fmt.Errorf("%w: discord error %d: %s", domain.ErrPush, resp.Data.Code, resp.Data.Message)
	}
	return nil
}

// awaitReply reads frames until the reply carrying nonce arrives,
// answering pings along the way
func (s *DiscordSink) awaitReply(nonce string) (response, error) {
	for {
		f, err := readFrame(s.conn)
		if err != nil {
			return response{}, err
		}

		switch f.op {
		case opPing:
			if err := writePong(s.conn, f.payload); err != nil {
				return response{}, err
			}
		case opClose:
			var cp closePayload
			_ = json.Unmarshal(f.payload, &cp)
			return response{}, fmt.Errorf("connection closed by discord (%d): %s", cp.Code, cp.Message)
		case opFrame:
			var resp response
			if err := json.Unmarshal(f.payload, &resp); err != nil {
				return response{}, fmt.Errorf("failed to decode reply: %w", err)
			}
			if resp.Nonce == nonce {
				return resp, nil
			}
			s.logger.Debug("Ignoring unrelated frame", zap.String("evt", resp.Evt), zap.String("cmd", resp.Cmd))
		default:
			return response{}, fmt.Errorf("unexpected opcode %d", f.op)
		}
	}
}

// dropLocked forgets a connection that failed mid-command
func (s *DiscordSink) dropLocked() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

func writePong(w io.Writer, payload []byte) error {
	var body any
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &body); err != nil {
			return fmt.Errorf("failed to decode ping: %w", err)
		}
	}
	return writeFrame(w, opPong, body)
}

// toPayload converts an activity into the IPC representation
func toPayload(a domain.Activity) *activityPayload {
	p := &activityPayload{
		Type:    activityTypeListening,
		Details: a.Details,
		State:   a.State,
	}

	if a.LargeImage != "" || a.LargeText != "" || a.SmallImage != "" || a.SmallText != "" {
		p.Assets = &assetsPayload{
			LargeImage: a.LargeImage,
			LargeText:  a.LargeText,
			SmallImage: a.SmallImage,
			SmallText:  a.SmallText,
		}
	}

	if a.Start != nil {
		p.Timestamps = &timestampsPayload{Start: a.Start.UnixMilli()}
		if a.End != nil {
			p.Timestamps.End = a.End.UnixMilli()
		}
	}

	for _, b := range a.Buttons {
		if b.Label == "" || b.URL == "" || len(b.URL) > _maxButtonURL {
			continue
		}
		p.Buttons = append(p.Buttons, buttonPayload{Label: truncate(b.Label, _maxButtonLabel), URL: b.URL})
	}

	return p
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

type deadliner interface {
	SetDeadline(t time.Time) error
}

// applyDeadline mirrors the context deadline onto the connection when it supports one.
// Windows pipes opened as files don't; a stalled Discord then blocks the caller.
func (s *DiscordSink) applyDeadline(ctx context.Context, conn io.ReadWriteCloser) {
	d, ok := conn.(deadliner)
	if !ok {
		return
	}
	// A zero deadline clears any previous one.
	deadline, _ := ctx.Deadline()
	if err := d.SetDeadline(deadline); err != nil {
		if errors.Is(err, os.ErrNoDeadline) {
			s.noDeadlineWarning.Do(func() {
				s.logger.Warn("Discord connection does not support deadlines, calls may block", zap.Error(err))
			})
			return
		}
		s.logger.Debug("Failed to set connection deadline", zap.Error(err))
	}
}
