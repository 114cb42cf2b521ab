package hardware

import (
	"sync"
)

// SimulatedPWM is an in-memory output that remembers the last fraction it was
// given. It rejects fractions above one like real hardware does.
type SimulatedPWM struct {
	mu         sync.Mutex
	num, denom uint16
	sets       int
	err        error
}

func (p *SimulatedPWM) SetDutyCycleFraction(num, denom uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	if err := checkFraction(num, denom); err != nil {
		return err
	}

	p.num, p.denom = num, denom
	p.sets++
	return nil
}

// Fail makes every following set return err. A nil err clears the fault.
func (p *SimulatedPWM) Fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Duty returns the current duty cycle in the range 0-1.
func (p *SimulatedPWM) Duty() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.denom == 0 {
		return 0
	}
	return float64(p.num) / float64(p.denom)
}

// Sets is the number of accepted duty updates.
func (p *SimulatedPWM) Sets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}

// SimulatedDrivetrain is a Drivetrain backed by four SimulatedPWM outputs.
type SimulatedDrivetrain struct {
	*Drivetrain
	Outputs [4]*SimulatedPWM // left-forward, left-backward, right-forward, right-backward
}

func NewSimulatedDrivetrain() *SimulatedDrivetrain {
	s := new(SimulatedDrivetrain)
	for i := range s.Outputs {
		s.Outputs[i] = new(SimulatedPWM)
	}
	s.Drivetrain = NewDrivetrain(s.Outputs[0], s.Outputs[1], s.Outputs[2], s.Outputs[3])
	return s
}

// WheelDuties returns the signed duty of each wheel, -1 (full reverse) to 1.
func (s *SimulatedDrivetrain) WheelDuties() (left, right float64) {
	left = s.Outputs[0].Duty() - s.Outputs[1].Duty()
	right = s.Outputs[2].Duty() - s.Outputs[3].Duty()
	return
}
