package operator

import (
	"io"
	"strings"
	"time"

	"github.com/CodedInternet/rclink/protocol"
	"github.com/abiosoft/ishell/v2"
)

// Console drives the link by hand while the encoder keeps running.
type Console struct {
	Slot   *KeySlot
	Mapper *Mapper
	Link   io.Writer
	Tick   time.Duration
}

// Press feeds keys into the slot one tick apart, as if typed.
func (c *Console) Press(keys string) {
	for i := 0; i < len(keys); i++ {
		if i > 0 {
			time.Sleep(c.Tick)
		}
		c.Slot.Store(keys[i])
	}
}

// Send writes text as a raw protocol line, valid or not.
func (c *Console) Send(text string) error {
	_, err := io.WriteString(c.Link, text+"\n")
	return err
}

// Stop sends a neutral command straight away.
func (c *Console) Stop() error {
	return protocol.WriteCommand(c.Link, protocol.Neutral)
}

func (c *Console) Speed() int {
	return c.Mapper.Speed.Level()
}

// Shell returns an interactive shell around the console.
func (c *Console) Shell() *ishell.Shell {
	shell := ishell.New()
	shell.Println("rclink operator shell")

	shell.AddCmd(&ishell.Cmd{
		Name: "key",
		Help: "key <keys>, press keys one tick apart (w/s/a/d/q/e move, o/l speed)",
		Func: func(ctx *ishell.Context) {
			if len(ctx.Args) == 0 {
				ctx.Println("usage: key <keys>")
				return
			}
			c.Press(strings.Join(ctx.Args, ""))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "speed",
		Help: "show the speed level",
		Func: func(ctx *ishell.Context) {
			ctx.Printf("speed %d/%d\n", c.Speed(), MaxSpeed)
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "send",
		Help: "send <text>, write a raw line to the controller",
		Func: func(ctx *ishell.Context) {
			if err := c.Send(strings.Join(ctx.Args, " ")); err != nil {
				ctx.Err(err)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "send a neutral command",
		Func: func(ctx *ishell.Context) {
			if err := c.Stop(); err != nil {
				ctx.Err(err)
			}
		},
	})

	return shell
}
