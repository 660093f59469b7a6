package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mobile-next/displaycli/cli"
	"github.com/mobile-next/displaycli/devices"
)

func main() {
	// cleanup hooks run on SIGINT/SIGTERM
	hook := devices.NewShutdownHook()
	cli.SetShutdownHook(hook)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	select {
	case <-sigChan:
		serving := hook.Count() > 0
		if err := hook.Shutdown(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		// a running server drains its connections before exiting
		if serving {
			<-done
		}
		os.Exit(0)
	case err := <-done:
		// a server stopped over rpc still owes its device restores
		if shutdownErr := hook.Shutdown(); shutdownErr != nil {
			fmt.Fprintln(os.Stderr, shutdownErr)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
