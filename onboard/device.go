package onboard

import (
	"io"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/onboard/hardware"

	rcerrors "github.com/CodedInternet/rclink/onboard/errors"
)

// Device is the drivetrain built from the pwm section of the config, plus
// whatever needs releasing when the controller stops.
type Device struct {
	*hardware.Drivetrain

	// Simulated is set when the simulated driver is in use.
	Simulated *hardware.SimulatedDrivetrain

	closers []io.Closer
}

func NewDevice(config PWMConfig) (d *Device, err error) {
	d = new(Device)
	ch := config.Channels

	switch config.Driver {
	case DriverSimulated:
		d.Simulated = hardware.NewSimulatedDrivetrain()
		d.Drivetrain = d.Simulated.Drivetrain

	case DriverSysfs:
		outputs := make([]hardware.DutyCycler, 0, 4)
		for _, n := range []int{ch.LeftForward, ch.LeftBackward, ch.RightForward, ch.RightBackward} {
			var p *hardware.SysfsPWM
			p, err = hardware.OpenSysfsPWM(hardware.SysfsRoot, config.Chip, n, config.Frequency)
			if err != nil {
				d.Close()
				return nil, err
			}
			d.closers = append(d.closers, p)
			outputs = append(outputs, p)
		}
		d.Drivetrain = hardware.NewDrivetrain(outputs[0], outputs[1], outputs[2], outputs[3])

	case DriverSerial:
		var bridge *hardware.SerialBridge
		bridge, err = hardware.OpenSerialBridge(config.Port, config.Baud, config.Frequency)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, bridge)
		d.Drivetrain = hardware.NewDrivetrain(
			bridge.Channel(ch.LeftForward),
			bridge.Channel(ch.LeftBackward),
			bridge.Channel(ch.RightForward),
			bridge.Channel(ch.RightBackward),
		)

	default:
		return nil, rcerrors.UnknownDriverError{Driver: config.Driver}
	}

	log.Info.Printf("pwm driver %s ready", config.Driver)
	return d, nil
}

// Close stops the motors and releases the outputs.
func (d *Device) Close() (err error) {
	if d.Drivetrain != nil {
		err = d.Stop()
	}
	for _, c := range d.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return
}
