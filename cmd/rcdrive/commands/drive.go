package commands

import (
	"context"
	"os"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/operator"
	"github.com/spf13/cobra"
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "drives with w/s/a/d/q/e, o/l change speed, ctrl-c quits",
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

		keys, err := operator.OpenTerminalKeys(os.Stdin)
		if err != nil {
			return err
		}
		defer keys.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		slot := new(operator.KeySlot)
		encoder := operator.NewEncoder(slot, config.Mapper(), link, config.Tick)
		sampler := &operator.Sampler{Keys: keys, Slot: slot}

		encoded := make(chan error, 1)
		go func() { encoded <- encoder.Run(ctx) }()
		sampled := make(chan error, 1)
		go func() { sampled <- sampler.Run() }()

		select {
		case err := <-encoded:
			return err
		case err := <-sampled:
			if err == operator.ErrInterrupted {
				cancel()
				<-encoded
				return nil
			}
			// keep sending neutral commands without a keyboard
			log.Error.Printf("keyboard: %v", err)
			return <-encoded
		}
	},
}
