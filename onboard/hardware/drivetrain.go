package hardware

import (
	"github.com/CodedInternet/rclink/protocol"

	rcerrors "github.com/CodedInternet/rclink/onboard/errors"
)

// Output names, in the order they are driven.
const (
	LeftForward   = "left-forward"
	LeftBackward  = "left-backward"
	RightForward  = "right-forward"
	RightBackward = "right-backward"
)

// Wheel is the pair of outputs driving one side of the robot. At most one of
// them is ever given a non-zero duty.
type Wheel struct {
	Forward, Backward DutyCycler
}

// Duties is the full actuator state for one command.
type Duties struct {
	LeftForward   uint16 `json:"left_forward"`
	LeftBackward  uint16 `json:"left_backward"`
	RightForward  uint16 `json:"right_forward"`
	RightBackward uint16 `json:"right_backward"`
}

// DutiesFor splits a signed command into the four duty numerators.
func DutiesFor(c protocol.Command) Duties {
	return Duties{
		LeftForward:   Forward(c.Left),
		LeftBackward:  Backward(c.Left),
		RightForward:  Forward(c.Right),
		RightBackward: Backward(c.Right),
	}
}

// Drivetrain owns the four outputs of a differential drive.
type Drivetrain struct {
	Left, Right Wheel
}

func NewDrivetrain(lf, lb, rf, rb DutyCycler) *Drivetrain {
	return &Drivetrain{
		Left:  Wheel{Forward: lf, Backward: lb},
		Right: Wheel{Forward: rf, Backward: rb},
	}
}

// Apply drives both wheels for c. Outputs are always set in the order
// left-forward, left-backward, right-forward, right-backward, and the first
// failure stops the sequence.
func (d *Drivetrain) Apply(c protocol.Command) (Duties, error) {
	duties := DutiesFor(c)

	steps := []struct {
		name string
		out  DutyCycler
		num  uint16
	}{
		{LeftForward, d.Left.Forward, duties.LeftForward},
		{LeftBackward, d.Left.Backward, duties.LeftBackward},
		{RightForward, d.Right.Forward, duties.RightForward},
		{RightBackward, d.Right.Backward, duties.RightBackward},
	}

	for _, s := range steps {
		if err := s.out.SetDutyCycleFraction(s.num, DutyDenominator); err != nil {
			return duties, rcerrors.ChannelError{Channel: s.name, Err: err}
		}
	}

	return duties, nil
}

// Stop sets every output to zero.
func (d *Drivetrain) Stop() error {
	_, err := d.Apply(protocol.Neutral)
	return err
}
