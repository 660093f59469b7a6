package devices

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mobile-next/displaycli/utils"
)

// RefreshRestorer is a device that can undo its frame rate requests
type RefreshRestorer interface {
	ID() string
	RestoreRefreshRate() error
}

// ShutdownHook collects cleanup work for SIGINT/SIGTERM or a server shutdown:
// stopping the server and handing devices their refresh rate settings back.
type ShutdownHook struct {
	mu        sync.Mutex
	hooks     []namedHook
	restoring map[string]bool
}

type namedHook struct {
	name string
	fn   func() error
}

func NewShutdownHook() *ShutdownHook {
	return &ShutdownHook{
		restoring: make(map[string]bool),
	}
}

// Register adds a cleanup function. Hooks run in reverse registration order,
// so devices touched while serving are restored before the server stops.
func (s *ShutdownHook) Register(name string, cleanupFn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, namedHook{name: name, fn: cleanupFn})
	utils.Verbose("Registered shutdown hook: %s", name)
}

// RestoreOnShutdown registers a refresh rate restore for device, at most once
// per device id until the next Shutdown.
func (s *ShutdownHook) RestoreOnShutdown(device RefreshRestorer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := device.ID()
	if s.restoring[id] {
		return
	}
	s.restoring[id] = true

	name := "restore-refresh-rate:" + id
	s.hooks = append(s.hooks, namedHook{name: name, fn: device.RestoreRefreshRate})
	utils.Verbose("Registered shutdown hook: %s", name)
}

// Shutdown runs and clears every registered hook. A failing hook does not
// stop the others; all failures are joined into the returned error.
func (s *ShutdownHook) Shutdown() error {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.restoring = make(map[string]bool)
	s.mu.Unlock()

	if len(hooks) == 0 {
		return nil
	}

	utils.Verbose("Executing %d shutdown hook(s)", len(hooks))

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		if err := hook.fn(); err != nil {
			utils.Warn("Shutdown hook %s failed: %v", hook.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", hook.name, err))
		}
	}

	return errors.Join(errs...)
}

// Count returns the number of pending hooks
func (s *ShutdownHook) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hooks)
}
