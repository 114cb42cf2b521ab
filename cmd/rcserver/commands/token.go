package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/CodedInternet/rclink/comms"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "issues a token for the monitor api",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		if config.Monitor.Secret == "" {
			return errors.New("no monitor secret configured, the api is open")
		}

		token, err := comms.NewToken([]byte(config.Monitor.Secret), issuer, args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}
