package errors

import "fmt"

// ChannelError reports which of the four motor outputs failed to accept a
// duty cycle.
type ChannelError struct {
	Channel string
	Err     error
}

func (err ChannelError) Error() string {
	if len(err.Channel) == 0 {
		err.Channel = "UNKNOWN"
	}

	return fmt.Sprintf("set duty cycle on %s: %v", err.Channel, err.Err)
}

func (err ChannelError) Cause() error {
	return err.Err
}

func (err ChannelError) Unwrap() error {
	return err.Err
}

// ConfigVersionError is returned when a config file was written for a
// different major version of the controller.
type ConfigVersionError struct {
	Version    string
	Constraint string
}

func (err ConfigVersionError) Error() string {
	return fmt.Sprintf("unable to use config version %s - require %s", err.Version, err.Constraint)
}

// UnknownDriverError is returned for an unsupported pwm.driver setting.
type UnknownDriverError struct {
	Driver string
}

func (err UnknownDriverError) Error() string {
	return fmt.Sprintf("no such pwm driver %q", err.Driver)
}
