package onboard

import (
	"bufio"
	"context"
	"io"
	"net"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/onboard/hardware"
	"github.com/CodedInternet/rclink/protocol"
	"github.com/pkg/errors"
)

// Actuator drives the motors for one command.
type Actuator interface {
	Apply(c protocol.Command) (hardware.Duties, error)
}

// Observer is told about every connection and every applied command. It is
// called from the serving goroutine and must not block.
type Observer interface {
	Opened(remote string)
	Applied(remote string, state protocol.Command, duties hardware.Duties, valid bool)
	Closed(remote string, err error)
}

// Server accepts operator connections one at a time and drives the actuator
// from the command lines they send.
type Server struct {
	Actuator  Actuator
	Observers []Observer
}

func NewServer(actuator Actuator, observers ...Observer) *Server {
	return &Server{Actuator: actuator, Observers: observers}
}

// session is the motor state of a single connection.
type session struct {
	remote string
	state  protocol.Command
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	log.Info.Printf("listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve runs the accept loop until ctx is done or accepting fails. Each
// connection is served to completion before the next one is accepted.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "accept")
		}

		s.serveConn(ctx, conn)
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	sess := &session{remote: conn.RemoteAddr().String()}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	log.Info.Printf("connection from %s", sess.remote)
	for _, o := range s.Observers {
		o.Opened(sess.remote)
	}

	err := s.handle(conn, sess)
	if err != nil && ctx.Err() == nil {
		log.Error.Printf("%s: %v", sess.remote, err)
	} else {
		log.Info.Printf("%s disconnected", sess.remote)
	}

	for _, o := range s.Observers {
		o.Closed(sess.remote, err)
	}
}

// handle runs the read, parse, reply, actuate cycle until the peer closes
// the connection or something fails.
func (s *Server) handle(conn net.Conn, sess *session) error {
	reader := bufio.NewReader(conn)

	for {
		line, rerr := reader.ReadString('\n')
		if len(line) > 0 {
			if err := s.step(conn, sess, line); err != nil {
				return err
			}
		}

		if rerr == io.EOF {
			log.Debug.Println("EOF")
			return nil
		}
		if rerr != nil {
			return errors.Wrap(rerr, "read")
		}
	}
}

func (s *Server) step(w io.Writer, sess *session, line string) error {
	log.Debug.Printf("line: %q", line)

	c, err := protocol.ParseCommand(line)
	valid := err == nil
	if valid {
		sess.state = c
	} else if _, err := io.WriteString(w, protocol.InvalidReply); err != nil {
		return errors.Wrap(err, "write")
	}

	if err := protocol.WriteStatus(w, sess.state); err != nil {
		return errors.Wrap(err, "write")
	}

	duties, err := s.Actuator.Apply(sess.state)
	if err != nil {
		return err
	}
	log.Debug.Printf("duties: %+v", duties)

	for _, o := range s.Observers {
		o.Applied(sess.remote, sess.state, duties, valid)
	}
	return nil
}
