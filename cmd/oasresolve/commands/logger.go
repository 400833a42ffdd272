package commands

import (
	"fmt"

	"github.com/erraggy/oasresolve/resolver"
	"go.uber.org/zap"
)

// ZapAdapter wraps a *zap.Logger to implement resolver.Logger.
type ZapAdapter struct {
	logger *zap.SugaredLogger
}

// NewZapAdapter creates a ZapAdapter. A nil logger discards everything.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAdapter{logger: logger.Sugar()}
}

// Debug implements resolver.Logger.
func (z *ZapAdapter) Debug(msg string, attrs ...any) { z.logger.Debugw(msg, attrs...) }

// Info implements resolver.Logger.
func (z *ZapAdapter) Info(msg string, attrs ...any) { z.logger.Infow(msg, attrs...) }

// Warn implements resolver.Logger.
func (z *ZapAdapter) Warn(msg string, attrs ...any) { z.logger.Warnw(msg, attrs...) }

// Error implements resolver.Logger.
func (z *ZapAdapter) Error(msg string, attrs ...any) { z.logger.Errorw(msg, attrs...) }

// With implements resolver.Logger.
func (z *ZapAdapter) With(attrs ...any) resolver.Logger {
	return &ZapAdapter{logger: z.logger.With(attrs...)}
}

var _ resolver.Logger = (*ZapAdapter)(nil)

// newZapLogger returns a development logger on stderr when verbose and a
// no-op logger otherwise.
func newZapLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("commands: creating logger: %w", err)
	}
	return l, nil
}
