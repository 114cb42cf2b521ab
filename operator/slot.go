// Package operator turns keyboard input into a steady stream of motion
// commands for the controller.
package operator

import "sync/atomic"

// NoKey is the value of an empty KeySlot.
const NoKey byte = 0

// KeySlot holds the most recent key press. A newer press overwrites an
// unconsumed one and every press is taken at most once.
type KeySlot struct {
	key atomic.Uint32
}

func (s *KeySlot) Store(key byte) {
	s.key.Store(uint32(key))
}

// Take returns the pending key, or NoKey, and clears the slot.
func (s *KeySlot) Take() byte {
	return byte(s.key.Swap(uint32(NoKey)))
}
