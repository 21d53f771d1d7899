package session

import (
	"errors"

	"github.com/optomech/go-apt/logger"
)

// config holds per-session settings.
type config struct {
	logger logger.Logger
}

// Option is a functional option for configuring a Session.
type Option interface {
	apply(*config) error
}

type optFunc func(*config) error

func (f optFunc) apply(cfg *config) error { return f(cfg) }

// WithLogger sets the logger for the session.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *config) error {
		if l == nil {
			return errors.New("session: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
