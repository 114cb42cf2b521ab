package onboard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/CodedInternet/rclink/onboard/hardware"
	"github.com/CodedInternet/rclink/protocol"
	. "github.com/smartystreets/goconvey/convey"
)

// testOutput records every duty it is given into a log shared by all four
// outputs of a drivetrain.
type testOutput struct {
	name string
	log  *dutyLog
}

type dutyLog struct {
	lock  sync.Mutex
	calls []string
	fail  error
}

func (o testOutput) SetDutyCycleFraction(num, denom uint16) error {
	o.log.lock.Lock()
	defer o.log.lock.Unlock()

	if o.log.fail != nil {
		return o.log.fail
	}
	o.log.calls = append(o.log.calls, fmt.Sprintf("%s=%d/%d", o.name, num, denom))
	return nil
}

func (l *dutyLog) snapshot() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *dutyLog) setFail(err error) {
	l.lock.Lock()
	l.fail = err
	l.lock.Unlock()
}

func newTestDrivetrain() (*hardware.Drivetrain, *dutyLog) {
	l := new(dutyLog)
	return hardware.NewDrivetrain(
		testOutput{"lf", l},
		testOutput{"lb", l},
		testOutput{"rf", l},
		testOutput{"rb", l},
	), l
}

func startServer(s *Server) (addr string, stop func()) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	return ln.Addr().String(), func() {
		cancel()
		<-done
	}
}

type testClient struct {
	conn    net.Conn
	replies *bufio.Reader
}

func dial(addr string) *testClient {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		panic(err)
	}
	return &testClient{conn: conn, replies: bufio.NewReader(conn)}
}

func (c *testClient) send(line string) {
	if _, err := c.conn.Write([]byte(line)); err != nil {
		panic(err)
	}
}

func (c *testClient) reply() string {
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.replies.ReadString('\n')
	if err != nil {
		return "error: " + err.Error()
	}
	return line
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestServer(t *testing.T) {
	Convey("with a server on a loopback port", t, func() {
		drivetrain, duties := newTestDrivetrain()
		monitor := NewMonitor(nil)
		addr, stop := startServer(NewServer(drivetrain, monitor))
		defer stop()

		client := dial(addr)
		defer client.conn.Close()

		Convey("a valid line is echoed as status and actuated", func() {
			client.send("10 -10\n")
			So(client.reply(), ShouldEqual, "l=10 r=-10\n")

			So(waitFor(func() bool { return len(duties.snapshot()) == 4 }), ShouldBeTrue)
			So(duties.snapshot(), ShouldResemble, []string{"lf=10/100", "lb=0/100", "rf=0/100", "rb=10/100"})
		})

		Convey("a malformed line keeps the previous state", func() {
			client.send("20 30\n")
			So(client.reply(), ShouldEqual, "l=20 r=30\n")

			client.send("abc\n")
			So(client.reply(), ShouldEqual, protocol.InvalidReply)
			So(client.reply(), ShouldEqual, "l=20 r=30\n")

			Convey("and the actuator is still refreshed", func() {
				So(waitFor(func() bool { return len(duties.snapshot()) == 8 }), ShouldBeTrue)
				So(duties.snapshot()[4:], ShouldResemble, duties.snapshot()[:4])
			})

			Convey("and a following valid line takes effect", func() {
				client.send("10 -10\n")
				So(client.reply(), ShouldEqual, "l=10 r=-10\n")
			})
		})

		Convey("a malformed first line reports the neutral state", func() {
			client.send("abc\n")
			So(client.reply(), ShouldEqual, "invalid command\n")
			So(client.reply(), ShouldEqual, "l=0 r=0\n")
		})

		Convey("sequential commands each drive all four outputs", func() {
			client.send("0 0\n")
			client.send("100 -100\n")
			So(client.reply(), ShouldEqual, "l=0 r=0\n")
			So(client.reply(), ShouldEqual, "l=100 r=-100\n")

			So(waitFor(func() bool { return len(duties.snapshot()) == 8 }), ShouldBeTrue)
			So(duties.snapshot(), ShouldResemble, []string{
				"lf=0/100", "lb=0/100", "rf=0/100", "rb=0/100",
				"lf=100/100", "lb=0/100", "rf=0/100", "rb=100/100",
			})
			So(monitor.Snapshot().State, ShouldResemble, protocol.Command{Left: 100, Right: -100})
		})

		Convey("a second connection waits for the first to close", func() {
			client.send("0 0\n")
			So(client.reply(), ShouldEqual, "l=0 r=0\n")

			second := dial(addr)
			defer second.conn.Close()
			second.send("5 5\n")

			time.Sleep(50 * time.Millisecond)
			So(len(duties.snapshot()), ShouldEqual, 4)

			client.send("100 -100\n")
			So(client.reply(), ShouldEqual, "l=100 r=-100\n")
			client.conn.Close()

			So(second.reply(), ShouldEqual, "l=5 r=5\n")
			So(waitFor(func() bool { return len(duties.snapshot()) == 12 }), ShouldBeTrue)
			So(duties.snapshot()[4:8], ShouldResemble, []string{"lf=100/100", "lb=0/100", "rf=0/100", "rb=100/100"})
			So(duties.snapshot()[8:], ShouldResemble, []string{"lf=5/100", "lb=0/100", "rf=5/100", "rb=0/100"})
		})

		Convey("state does not carry over between connections", func() {
			client.send("40 40\n")
			So(client.reply(), ShouldEqual, "l=40 r=40\n")
			client.conn.Close()

			next := dial(addr)
			defer next.conn.Close()
			next.send("x\n")
			So(next.reply(), ShouldEqual, "invalid command\n")
			So(next.reply(), ShouldEqual, "l=0 r=0\n")
		})

		Convey("a final line without a newline is still handled", func() {
			client.send("7 8")
			client.conn.(*net.TCPConn).CloseWrite()
			So(client.reply(), ShouldEqual, "l=7 r=8\n")
			So(waitFor(func() bool { return !monitor.Snapshot().Connected }), ShouldBeTrue)
		})

		Convey("an actuator fault ends only the current connection", func() {
			duties.setFail(errors.New("timer fault"))
			client.send("1 1\n")
			So(client.reply(), ShouldEqual, "l=1 r=1\n")
			So(client.reply(), ShouldStartWith, "error: ")

			duties.setFail(nil)
			next := dial(addr)
			defer next.conn.Close()
			next.send("2 2\n")
			So(next.reply(), ShouldEqual, "l=2 r=2\n")
		})
	})

	Convey("stopping the server while a peer is connected returns", t, func() {
		drivetrain, _ := newTestDrivetrain()
		addr, stop := startServer(NewServer(drivetrain))

		client := dial(addr)
		defer client.conn.Close()
		client.send("0 0\n")
		So(client.reply(), ShouldEqual, "l=0 r=0\n")

		stopped := make(chan struct{})
		go func() {
			stop()
			close(stopped)
		}()

		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			So("server did not stop", ShouldBeEmpty)
		}
	})
}
