package onboard

import (
	"sync"
	"time"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/onboard/hardware"
	"github.com/CodedInternet/rclink/protocol"
	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/index"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// JournalLockTimeout is how long OpenJournal waits for another process to
// release the database.
const JournalLockTimeout = time.Second

// ErrJournalLocked is returned when another process, usually a running
// rcserver, holds the journal open.
var ErrJournalLocked = errors.New("journal is in use by another process")

// Session is the journal record of one served connection.
type Session struct {
	ID      int              `storm:"increment" json:"id"`
	Remote  string           `json:"remote"`
	Opened  time.Time        `json:"opened"`
	Closed  time.Time        `json:"closed,omitempty"`
	Lines   int              `json:"lines"`
	Invalid int              `json:"invalid"`
	Final   protocol.Command `json:"final"`
	Error   string           `json:"error,omitempty"`
}

// Journal records served connections in a storm database. Counters are kept
// in memory while a connection is open and written when it closes.
type Journal struct {
	db *storm.DB

	lock    sync.Mutex
	current *Session
}

func OpenJournal(path string) (*Journal, error) {
	db, err := storm.Open(path, storm.BoltOptions(0600, &bolt.Options{Timeout: JournalLockTimeout}))
	if errors.Cause(err) == bolt.ErrTimeout {
		return nil, ErrJournalLocked
	}
	if err != nil {
		return nil, errors.Wrap(err, "open journal")
	}

	if err := db.Init(&Session{}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init journal")
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) Opened(remote string) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.current = &Session{Remote: remote, Opened: time.Now()}
	if err := j.db.Save(j.current); err != nil {
		log.Error.Printf("journal: %v", err)
	}
}

func (j *Journal) Applied(remote string, state protocol.Command, duties hardware.Duties, valid bool) {
	j.lock.Lock()
	defer j.lock.Unlock()

	if j.current == nil {
		return
	}
	j.current.Lines++
	if !valid {
		j.current.Invalid++
	}
	j.current.Final = state
}

func (j *Journal) Closed(remote string, err error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	if j.current == nil {
		return
	}
	j.current.Closed = time.Now()
	if err != nil {
		j.current.Error = err.Error()
	}
	if err := j.db.Save(j.current); err != nil {
		log.Error.Printf("journal: %v", err)
	}
	j.current = nil
}

// Sessions returns the most recent sessions first. A limit of zero returns
// all of them.
func (j *Journal) Sessions(limit int) ([]Session, error) {
	options := []func(*index.Options){storm.Reverse()}
	if limit > 0 {
		options = append(options, storm.Limit(limit))
	}

	var sessions []Session
	if err := j.db.All(&sessions, options...); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
}
