package onboard

import (
	"context"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is the simulated position of the robot, in metres and radians.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Odometry integrates the wheel duties of a simulated drivetrain into a
// pose using a differential drive model.
type Odometry struct {
	Track    float64 // distance between the wheels
	MaxSpeed float64 // wheel speed at full duty

	wheels func() (left, right float64)

	lock     sync.Mutex
	position mgl64.Vec2
	heading  float64
}

func NewOdometry(config SimulationConfig, wheels func() (left, right float64)) *Odometry {
	return &Odometry{
		Track:    config.Track,
		MaxSpeed: config.MaxSpeed,
		wheels:   wheels,
	}
}

// Step advances the pose by dt at the current wheel duties.
func (o *Odometry) Step(dt time.Duration) {
	left, right := o.wheels()
	vl := mgl64.Clamp(left, -1, 1) * o.MaxSpeed
	vr := mgl64.Clamp(right, -1, 1) * o.MaxSpeed
	secs := dt.Seconds()

	o.lock.Lock()
	defer o.lock.Unlock()

	forward := mgl64.Vec2{(vl + vr) / 2 * secs, 0}
	o.position = o.position.Add(mgl64.Rotate2D(o.heading).Mul2x1(forward))
	if o.Track > 0 {
		o.heading += (vr - vl) / o.Track * secs
	}
}

func (o *Odometry) Pose() Pose {
	o.lock.Lock()
	defer o.lock.Unlock()

	return Pose{X: o.position.X(), Y: o.position.Y(), Heading: o.heading}
}

// Reset puts the robot back at the origin facing along X.
func (o *Odometry) Reset() {
	o.lock.Lock()
	o.position = mgl64.Vec2{}
	o.heading = 0
	o.lock.Unlock()
}

// Run steps the model every interval until ctx is done.
func (o *Odometry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Step(interval)
		}
	}
}
