//go:build !windows

package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pkg/term"
)

// DefaultTTY is the controlling terminal
const DefaultTTY = "/dev/tty"

// Keyboard reads single key presses from a terminal in cbreak mode
type Keyboard struct {
	t *term.Term
}

// OpenKeyboard puts the terminal into cbreak mode. Reads time out every
// 100ms so the reader can notice cancellation.
func OpenKeyboard(path string) (*Keyboard, error) {
	if path == "" {
		path = DefaultTTY
	}
	t, err := term.Open(path, term.CBreakMode, term.ReadTimeout(100*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("open keyboard %s: %w", path, err)
	}
	return &Keyboard{t: t}, nil
}

// Keys delivers key presses until ctx is done or the terminal fails.
// The channel is closed on return.
func (k *Keyboard) Keys(ctx context.Context) <-chan byte {
	keys := make(chan byte, 16)
	go func() {
		defer close(keys)
		buf := make([]byte, 8)
		for ctx.Err() == nil {
			n, err := k.t.Read(buf)
			if errors.Is(err, io.EOF) {
				continue // read timeout
			}
			if err != nil {
				return
			}
			for _, b := range buf[:n] {
				select {
				case keys <- b:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return keys
}

// Close restores the terminal mode and closes it
func (k *Keyboard) Close() error {
	restoreErr := k.t.Restore()
	closeErr := k.t.Close()
	return errors.Join(restoreErr, closeErr)
}
