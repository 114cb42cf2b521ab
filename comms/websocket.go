package comms

import (
	"net/http"
	"time"

	"github.com/CodedInternet/rclink/log"
	"github.com/gorilla/websocket"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamState pushes the current snapshot and then every change as JSON text
// frames until the peer goes away.
func (a *API) streamState(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := a.State.Subscribe()
	defer cancel()

	// the read side only exists to notice the peer closing
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeSnapshot(conn, a.State.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := writeSnapshot(conn, snap); err != nil {
				log.Debug.Printf("websocket %s: %v", r.RemoteAddr, err)
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
