package cli

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the handler goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInterruptHandler_FirstSignalCancels(t *testing.T) {
	out := &syncBuffer{}
	ctx, h := NewInterruptHandler(context.Background(), out)
	defer h.Stop()

	exitCodes := make(chan int, 1)
	h.exit = func(code int) { exitCodes <- code }

	h.sigChan <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not cancelled")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Contains(t, out.String(), "Interrupted")
	assert.Empty(t, exitCodes)
}

func TestInterruptHandler_SecondSignalExits(t *testing.T) {
	ctx, h := NewInterruptHandler(context.Background(), &syncBuffer{})
	defer h.Stop()

	exitCodes := make(chan int, 1)
	h.exit = func(code int) { exitCodes <- code }

	h.sigChan <- os.Interrupt
	<-ctx.Done()
	h.sigChan <- os.Interrupt

	select {
	case code := <-exitCodes:
		assert.Equal(t, 130, code)
	case <-time.After(2 * time.Second):
		t.Fatal("second interrupt did not exit")
	}
}

func TestInterruptHandler_StopCancels(t *testing.T) {
	ctx, h := NewInterruptHandler(context.Background(), &syncBuffer{})
	h.Stop()

	require.Error(t, ctx.Err())
}
