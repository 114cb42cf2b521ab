package commands

import (
	"context"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/operator"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "interactive shell for sending keys and raw lines",
	Args:  cobra.MaximumNArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		link, err := connect(cmd, config)
		if err != nil {
			return err
		}
		defer link.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		console := &operator.Console{
			Slot:   new(operator.KeySlot),
			Mapper: config.Mapper(),
			Link:   link,
			Tick:   config.Tick,
		}
		shell := console.Shell()

		encoder := operator.NewEncoder(console.Slot, console.Mapper, link, config.Tick)
		encoded := make(chan error, 1)
		go func() {
			err := encoder.Run(ctx)
			if err != nil {
				log.Error.Printf("%v", err)
				shell.Close()
			}
			encoded <- err
		}()

		shell.Run()
		cancel()
		return <-encoded
	},
}
