package operator

import (
	"sync"

	"github.com/CodedInternet/rclink/protocol"
)

const (
	MinSpeed     = 1
	MaxSpeed     = 5
	DefaultSpeed = 3

	// side scales in percent
	DefaultLeftScale  = 100
	DefaultRightScale = 50
)

// keys
const (
	KeyForward   = 'w'
	KeyReverse   = 's'
	KeySpinLeft  = 'a'
	KeySpinRight = 'd'
	KeyArcLeft   = 'q'
	KeyArcRight  = 'e'
	KeySpeedUp   = 'o'
	KeySpeedDown = 'l'
)

// motions holds the unscaled left/right pair of every motion key.
var motions = map[byte]protocol.Command{
	KeyForward:   {Left: 100, Right: 100},
	KeyReverse:   {Left: -100, Right: -100},
	KeySpinLeft:  {Left: -100, Right: 100},
	KeySpinRight: {Left: 100, Right: -100},
	KeyArcLeft:   {Left: 50, Right: 100},
	KeyArcRight:  {Left: 100, Right: 50},
}

// Speed is the persistent speed multiplier, clamped to [MinSpeed, MaxSpeed].
type Speed struct {
	lock  sync.Mutex
	level int
}

func NewSpeed(level int) *Speed {
	return &Speed{level: clampSpeed(level)}
}

func (s *Speed) Up() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.level = clampSpeed(s.level + 1)
	return s.level
}

func (s *Speed) Down() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.level = clampSpeed(s.level - 1)
	return s.level
}

func (s *Speed) Level() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.level
}

func clampSpeed(level int) int {
	if level < MinSpeed {
		return MinSpeed
	}
	if level > MaxSpeed {
		return MaxSpeed
	}
	return level
}

// Scale applies a side scale in percent and a speed level to base. The
// operations truncate in this exact order; reordering them changes results,
// e.g. Scale(100, 50, 4) is 40.
func Scale(base, side, level int) int {
	return base * side / 100 * level / MaxSpeed
}

// Mapper converts key presses to commands.
type Mapper struct {
	LeftScale  int
	RightScale int
	Speed      *Speed
}

func NewMapper(leftScale, rightScale, speed int) *Mapper {
	return &Mapper{
		LeftScale:  leftScale,
		RightScale: rightScale,
		Speed:      NewSpeed(speed),
	}
}

// Map returns the command for key. The speed keys adjust the speed level and
// produce a neutral command, as does any unmapped key or NoKey.
func (m *Mapper) Map(key byte) protocol.Command {
	switch key {
	case KeySpeedUp:
		m.Speed.Up()
		return protocol.Neutral
	case KeySpeedDown:
		m.Speed.Down()
		return protocol.Neutral
	}

	base, ok := motions[key]
	if !ok {
		return protocol.Neutral
	}

	level := m.Speed.Level()
	return protocol.Command{
		Left:  Scale(base.Left, m.LeftScale, level),
		Right: Scale(base.Right, m.RightScale, level),
	}
}
