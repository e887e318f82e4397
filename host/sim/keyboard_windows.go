package sim

import (
	"context"
	"errors"
)

// DefaultTTY is unused on Windows
const DefaultTTY = ""

var errNoKeyboard = errors.New("keyboard input needs a posix terminal")

// Keyboard is not available on Windows
type Keyboard struct{}

// OpenKeyboard always fails on Windows
func OpenKeyboard(string) (*Keyboard, error) {
	return nil, errNoKeyboard
}

// Keys returns a closed channel
func (k *Keyboard) Keys(context.Context) <-chan byte {
	keys := make(chan byte)
	close(keys)
	return keys
}

// Close does nothing
func (k *Keyboard) Close() error {
	return nil
}
