package hardware

import (
	"fmt"
	"io"
	"sync"

	"github.com/tarm/serial"
)

// SerialBridge drives PWM outputs owned by a microcontroller attached over a
// serial line. Each update is one text line:
//
//	F<hz>\n            set the PWM frequency of every channel
//	P<ch> <num>/<den>\n set the duty cycle of a channel
type SerialBridge struct {
	lock sync.Mutex
	port io.Writer
}

// OpenSerialBridge opens the serial port and programs the PWM frequency.
func OpenSerialBridge(name string, baud, frequency int) (*SerialBridge, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, err
	}

	b := NewSerialBridge(port)
	if err := b.SetFrequency(frequency); err != nil {
		port.Close()
		return nil, err
	}
	return b, nil
}

func NewSerialBridge(port io.Writer) *SerialBridge {
	return &SerialBridge{port: port}
}

func (b *SerialBridge) SetFrequency(hz int) error {
	return b.put(fmt.Sprintf("F%d\n", hz))
}

// Channel returns the output for one channel of the bridge.
func (b *SerialBridge) Channel(ch int) DutyCycler {
	return &bridgeChannel{bridge: b, channel: ch}
}

func (b *SerialBridge) Close() error {
	if c, ok := b.port.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *SerialBridge) put(line string) error {
	// channels share one port, keep lines whole
	b.lock.Lock()
	defer b.lock.Unlock()

	_, err := io.WriteString(b.port, line)
	return err
}

type bridgeChannel struct {
	bridge  *SerialBridge
	channel int
}

func (c *bridgeChannel) SetDutyCycleFraction(num, denom uint16) error {
	if err := checkFraction(num, denom); err != nil {
		return err
	}
	return c.bridge.put(fmt.Sprintf("P%d %d/%d\n", c.channel, num, denom))
}
