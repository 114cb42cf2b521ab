package operator

import (
	"context"
	"io"
	"time"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/protocol"
	"github.com/pkg/errors"
)

const DefaultTick = 100 * time.Millisecond

// Encoder sends one command per tick built from the latest key press.
type Encoder struct {
	Slot   *KeySlot
	Mapper *Mapper
	Out    io.Writer
	Tick   time.Duration
}

func NewEncoder(slot *KeySlot, mapper *Mapper, out io.Writer, tick time.Duration) *Encoder {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Encoder{
		Slot:   slot,
		Mapper: mapper,
		Out:    out,
		Tick:   tick,
	}
}

// Step consumes the pending key and writes its command.
func (e *Encoder) Step() (protocol.Command, error) {
	c := e.Mapper.Map(e.Slot.Take())
	if err := protocol.WriteCommand(e.Out, c); err != nil {
		return c, errors.Wrap(err, "could not send command")
	}
	log.Debug.Printf("sent: %s", c)
	return c, nil
}

// Run calls Step every tick until ctx is done or a write fails.
func (e *Encoder) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := e.Step(); err != nil {
				return err
			}
		}
	}
}
