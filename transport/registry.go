package transport

import (
	"errors"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/optomech/go-apt/logger"
)

// OpenFunc opens the underlying link for a port name (e.g. "/dev/ttyUSB0"
// or "devserver:4001") and wraps it as a Channel.
type OpenFunc func(name string) (Channel, error)

// Registry maps port names to singleton Channels.
//
// Some platforms only allow one open handle per serial port, so anything
// that opens channels should share one Registry: the first Get for a name
// opens the channel, later Gets return the same handle until Close or
// CloseAll removes it. The lifecycle is explicit; there is no hidden
// global state.
//
// Registry is safe for concurrent use.
type Registry struct {
	open     OpenFunc
	channels *xsync.MapOf[string, Channel]
	logger   logger.Logger
}

// NewRegistry creates a Registry that opens channels with open.
func NewRegistry(open OpenFunc) *Registry {
	return &Registry{
		open:     open,
		channels: xsync.NewMapOf[string, Channel](),
		logger:   logger.GetLogger(),
	}
}

// Get returns the Channel for name, opening it on first use.
//
// When two goroutines race to open the same name, one channel wins the
// registry slot and the loser is closed; both callers get the winner.
func (r *Registry) Get(name string) (Channel, error) {
	if ch, ok := r.channels.Load(name); ok {
		return ch, nil
	}

	ch, err := r.open(name)
	if err != nil {
		return nil, fmt.Errorf("transport: open %q: %w", name, err)
	}

	actual, loaded := r.channels.LoadOrStore(name, ch)
	if loaded {
		// Lost the race; keep the registered handle.
		if cerr := ch.Close(); cerr != nil {
			r.logger.Warn("transport: failed to close duplicate channel",
				"name", name, "error", cerr)
		}

		return actual, nil
	}

	r.logger.Debug("transport: channel opened", "name", name)

	return ch, nil
}

// Close closes and removes the channel registered under name.
// Closing an unknown name is a no-op.
func (r *Registry) Close(name string) error {
	ch, loaded := r.channels.LoadAndDelete(name)
	if !loaded {
		return nil
	}

	if err := ch.Close(); err != nil {
		return fmt.Errorf("transport: close %q: %w", name, err)
	}

	r.logger.Debug("transport: channel closed", "name", name)

	return nil
}

// CloseAll closes and removes every registered channel, joining any
// close errors.
func (r *Registry) CloseAll() error {
	var errs error

	r.channels.Range(func(name string, ch Channel) bool {
		if err := ch.Close(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("transport: close %q: %w", name, err))
		}

		return true
	})

	r.channels.Clear()

	return errs
}

// Len returns the number of open channels.
func (r *Registry) Len() int {
	return r.channels.Size()
}
