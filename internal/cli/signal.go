package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// InterruptHandler cancels the running operation on the first interrupt and
// exits on the second.
type InterruptHandler struct {
	cancel  context.CancelFunc
	sigChan chan os.Signal
	output  io.Writer
	exit    func(code int)
	done    chan struct{}
}

// NewInterruptHandler derives a cancellable context from parent and starts
// listening for SIGINT and SIGTERM.
func NewInterruptHandler(parent context.Context, output io.Writer) (context.Context, *InterruptHandler) {
	ctx, cancel := context.WithCancel(parent)
	h := &InterruptHandler{
		cancel:  cancel,
		sigChan: make(chan os.Signal, 2),
		output:  output,
		exit:    os.Exit,
		done:    make(chan struct{}),
	}
	signal.Notify(h.sigChan, os.Interrupt, syscall.SIGTERM)
	go h.handleSignals()
	return ctx, h
}

func (h *InterruptHandler) handleSignals() {
	select {
	case <-h.sigChan:
	case <-h.done:
		return
	}
	fmt.Fprintln(h.output, "\n⚠️  Interrupted, cancelling... (press Ctrl+C again to force quit)")
	h.cancel()

	select {
	case <-h.sigChan:
		h.exit(130) // Standard exit code for SIGINT
	case <-h.done:
	}
}

// Stop releases the signal handler and the derived context
func (h *InterruptHandler) Stop() {
	signal.Stop(h.sigChan)
	close(h.done)
	h.cancel()
}
