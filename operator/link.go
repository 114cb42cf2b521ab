package operator

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/CodedInternet/rclink/log"
)

// Link is the operator's end of the controller connection. Writes are
// serialised so lines from different senders never interleave.
type Link struct {
	conn net.Conn
	lock sync.Mutex
}

func NewLink(conn net.Conn) *Link {
	return &Link{conn: conn}
}

func (l *Link) Write(p []byte) (int, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.conn.Write(p)
}

// Drain reads and discards everything the controller sends until the
// connection ends. EOF is not an error.
func (l *Link) Drain() error {
	r := bufio.NewReader(l.conn)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			log.Debug.Printf("reply: %s", strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (l *Link) Close() error {
	return l.conn.Close()
}
