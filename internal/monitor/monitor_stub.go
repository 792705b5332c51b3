//go:build !linux
// +build !linux

package monitor

import (
	"context"
	"fmt"

	"github.com/genricoloni/tunecord/internal/domain"
	"go.uber.org/zap"
)

// MprisProbe stub for non-Linux platforms
type MprisProbe struct {
	logger *zap.Logger
}

// NewMprisProbe creates a stub probe that returns an error on non-Linux platforms
func NewMprisProbe(logger *zap.Logger, _ domain.ConfigProvider) *MprisProbe {
	logger.Warn("MPRIS monitoring is only supported on Linux systems")
	return &MprisProbe{logger: logger}
}

// Snapshot returns an error indicating MPRIS monitoring is not supported on this platform
func (m *MprisProbe) Snapshot(ctx context.Context) (*domain.TrackSnapshot, error) {
	return nil, fmt.Errorf("%w: MPRIS: %w", domain.ErrProbe, domain.ErrUnsupported)
}

// Close is a no-op on non-Linux platforms
func (m *MprisProbe) Close() error {
	return nil
}
