package commands

import (
	"fmt"
	"os"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/onboard"
	"github.com/spf13/cobra"
)

var (
	Version   string
	BuildTime string
)

// issuer of monitor api tokens
const issuer = "rclink"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "rcserver",
	Short: "rcserver drives the motors from commands received over tcp",

	// errors are printed once by Execute
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	// parse flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	serveCmd.Flags().StringVar(&listen, "listen", "", "address to accept commands on (default 0.0.0.0:1380)")
	serveCmd.Flags().BoolVar(&simulate, "sim", false, "use the simulated pwm driver")
	serveCmd.Flags().BoolVar(&exitOnError, "exit-on-error", false, "exit instead of idling when setup fails")

	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifespan (default 1h)")

	sessionsCmd.Flags().IntVar(&sessionLimit, "limit", 20, "number of sessions to show, 0 for all")

	// add commands
	rootCmd.AddCommand(serveCmd, tokenCmd, sessionsCmd, versionCmd)

	// execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment and sets up logging.
func loadConfig() (onboard.Config, error) {
	config, err := onboard.LoadConfig(configPath)
	if err != nil {
		return config, err
	}
	if err := config.ApplyEnv(); err != nil {
		return config, err
	}

	if verbose || config.Debug {
		log.SetLevel(log.DebugLevel)
	}
	return config, nil
}
