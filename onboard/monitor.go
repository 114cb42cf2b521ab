package onboard

import (
	"sync"
	"time"

	"github.com/CodedInternet/rclink/onboard/hardware"
	"github.com/CodedInternet/rclink/protocol"
)

// Snapshot is what the controller is doing right now.
type Snapshot struct {
	Remote    string           `json:"remote,omitempty"`
	Connected bool             `json:"connected"`
	State     protocol.Command `json:"state"`
	Duties    hardware.Duties  `json:"duties"`
	Valid     bool             `json:"valid"`
	Lines     int              `json:"lines"`
	Invalid   int              `json:"invalid"`
	Updated   time.Time        `json:"updated"`
	Pose      *Pose            `json:"pose,omitempty"`
}

// Monitor keeps the latest Snapshot for the HTTP API and fans updates out to
// subscribers. Slow subscribers miss updates instead of stalling the server.
type Monitor struct {
	Odometry *Odometry

	lock sync.RWMutex
	snap Snapshot
	subs map[chan Snapshot]struct{}
}

func NewMonitor(odometry *Odometry) *Monitor {
	return &Monitor{
		Odometry: odometry,
		subs:     make(map[chan Snapshot]struct{}),
	}
}

func (m *Monitor) Opened(remote string) {
	m.update(func(s *Snapshot) {
		*s = Snapshot{Remote: remote, Connected: true}
	})
}

func (m *Monitor) Applied(remote string, state protocol.Command, duties hardware.Duties, valid bool) {
	m.update(func(s *Snapshot) {
		s.Remote = remote
		s.State = state
		s.Duties = duties
		s.Valid = valid
		s.Lines++
		if !valid {
			s.Invalid++
		}
	})
}

func (m *Monitor) Closed(remote string, err error) {
	m.update(func(s *Snapshot) {
		s.Connected = false
	})
}

func (m *Monitor) Snapshot() Snapshot {
	m.lock.RLock()
	snap := m.snap
	m.lock.RUnlock()

	if m.Odometry != nil {
		pose := m.Odometry.Pose()
		snap.Pose = &pose
	}
	return snap
}

// Subscribe returns a channel receiving every later snapshot and a function
// that cancels the subscription.
func (m *Monitor) Subscribe() (<-chan Snapshot, func()) {
	c := make(chan Snapshot, 8)

	m.lock.Lock()
	m.subs[c] = struct{}{}
	m.lock.Unlock()

	var once sync.Once
	return c, func() {
		once.Do(func() {
			m.lock.Lock()
			delete(m.subs, c)
			m.lock.Unlock()
			close(c)
		})
	}
}

func (m *Monitor) update(f func(s *Snapshot)) {
	var pose *Pose
	if m.Odometry != nil {
		p := m.Odometry.Pose()
		pose = &p
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	f(&m.snap)
	m.snap.Updated = time.Now()
	snap := m.snap
	snap.Pose = pose

	for c := range m.subs {
		select {
		case c <- snap:
		default:
		}
	}
}
