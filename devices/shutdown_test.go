package devices

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

type fakeRestorer struct {
	id       string
	err      error
	restored int
	order    *[]string
}

func (f *fakeRestorer) ID() string { return f.id }

func (f *fakeRestorer) RestoreRefreshRate() error {
	f.restored++
	if f.order != nil {
		*f.order = append(*f.order, "restore "+f.id)
	}
	return f.err
}

func TestShutdownHook_RunsInReverseOrder(t *testing.T) {
	hook := NewShutdownHook()

	var order []string
	hook.Register("server", func() error {
		order = append(order, "server")
		return nil
	})
	hook.RestoreOnShutdown(&fakeRestorer{id: "emulator-5554", order: &order})

	if err := hook.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}

	want := "restore emulator-5554,server"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("hook order = %s, want %s", got, want)
	}
	if hook.Count() != 0 {
		t.Errorf("expected hooks to be cleared, got %d", hook.Count())
	}
}

func TestShutdownHook_RestoreOncePerDevice(t *testing.T) {
	hook := NewShutdownHook()
	device := &fakeRestorer{id: "R5CR1234567"}

	hook.RestoreOnShutdown(device)
	hook.RestoreOnShutdown(device)
	hook.RestoreOnShutdown(&fakeRestorer{id: "R5CR1234567"})

	if hook.Count() != 1 {
		t.Fatalf("expected 1 hook, got %d", hook.Count())
	}

	if err := hook.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if device.restored != 1 {
		t.Errorf("device restored %d times, want 1", device.restored)
	}

	// a new serving session registers the device again
	hook.RestoreOnShutdown(device)
	if hook.Count() != 1 {
		t.Errorf("expected device to be registered again after shutdown, got %d", hook.Count())
	}
}

func TestShutdownHook_JoinsErrors(t *testing.T) {
	hook := NewShutdownHook()
	errAdb := errors.New("adb: device offline")

	ok := &fakeRestorer{id: "emulator-5554"}
	hook.RestoreOnShutdown(ok)
	hook.RestoreOnShutdown(&fakeRestorer{id: "R5CR1234567", err: errAdb})
	hook.Register("failure", func() error { return errors.New("cleanup failed") })

	err := hook.Shutdown()
	if !errors.Is(err, errAdb) {
		t.Errorf("Shutdown() error = %v, want it to wrap %v", err, errAdb)
	}
	if err == nil || !strings.Contains(err.Error(), "restore-refresh-rate:R5CR1234567") {
		t.Errorf("Shutdown() error = %v, want the failing hook name", err)
	}
	if ok.restored != 1 {
		t.Error("remaining hooks must still run after a failure")
	}
	if hook.Count() != 0 {
		t.Errorf("expected hooks to be cleared even after error, got %d", hook.Count())
	}
}

func TestShutdownHook_EmptyShutdown(t *testing.T) {
	if err := NewShutdownHook().Shutdown(); err != nil {
		t.Errorf("empty shutdown should not error: %v", err)
	}
}

func TestShutdownHook_HookMayRegister(t *testing.T) {
	hook := NewShutdownHook()
	hook.Register("server", func() error {
		// must not deadlock
		hook.Register("late", func() error { return nil })
		return nil
	})

	if err := hook.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if hook.Count() != 1 {
		t.Errorf("expected the late hook to be pending, got %d", hook.Count())
	}
}

func TestShutdownHook_ConcurrentRestore(t *testing.T) {
	hook := NewShutdownHook()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hook.RestoreOnShutdown(&fakeRestorer{id: fmt.Sprintf("emulator-%d", 5554+2*(n%5))})
		}(i)
	}
	wg.Wait()

	if hook.Count() != 5 {
		t.Errorf("expected 5 hooks, got %d", hook.Count())
	}
}
