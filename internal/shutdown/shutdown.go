// Package shutdown turns an interrupt signal into a stop request polled by the listen loop.
package shutdown

import (
	"errors"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// ErrInstalled is returned when a handler is already installed for the process.
var ErrInstalled = errors.New("signal handler already installed")

// Flag records a stop request. The zero value is "not requested".
type Flag struct {
	stop atomic.Bool
}

// Request marks the flag as stopped. Calling it again has no further effect.
func (f *Flag) Request() {
	f.stop.Store(true)
}

// Requested reports whether a stop was requested.
func (f *Flag) Requested() bool {
	return f.stop.Load()
}

var (
	installMu sync.Mutex
	installed bool
)

// Install registers the process interrupt handler that requests a stop on f.
// The returned func unregisters it.
func Install(f *Flag, logf func(string, ...any)) (func(), error) {
	if f == nil {
		return nil, errors.New("nil shutdown flag")
	}
	installMu.Lock()
	defer installMu.Unlock()
	if installed {
		return nil, ErrInstalled
	}
	installed = true

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		defer close(done)
		watch(ch, f, logf)
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(ch)
			close(ch)
			<-done
			installMu.Lock()
			installed = false
			installMu.Unlock()
		})
	}
	return stop, nil
}

func watch(ch <-chan os.Signal, f *Flag, logf func(string, ...any)) {
	for sig := range ch {
		if logf != nil {
			logf("[shutdown] received %v", sig)
		}
		f.Request()
	}
}
