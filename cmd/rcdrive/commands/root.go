package commands

import (
	"fmt"
	"os"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/operator"
	"github.com/spf13/cobra"
)

var (
	Version   string
	BuildTime string
)

var (
	configPath string
	addr       string
	proxyURL   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "rcdrive",
	Short: "rcdrive steers an rcserver controller from the keyboard",

	// errors are printed once by Execute
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	// parse flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the yaml config file")
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "controller address (default 127.0.0.1:1380)")
	rootCmd.PersistentFlags().StringVar(&proxyURL, "proxy", "", "dial through a proxy, e.g. socks5://127.0.0.1:1080")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// add commands
	rootCmd.AddCommand(driveCmd, shellCmd, versionCmd)

	// execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, environment and flags and sets up
// logging.
func loadConfig() (operator.Config, error) {
	config, err := operator.LoadConfig(configPath)
	if err != nil {
		return config, err
	}
	if err := config.ApplyEnv(); err != nil {
		return config, err
	}
	if addr != "" {
		config.Addr = addr
	}
	if proxyURL != "" {
		config.Proxy = proxyURL
	}

	if verbose || config.Debug {
		log.SetLevel(log.DebugLevel)
	}
	return config, nil
}

// connect dials the controller and starts draining its replies.
func connect(cmd *cobra.Command, config operator.Config) (*operator.Link, error) {
	fmt.Println("Connecting...")
	conn, err := operator.Dial(cmd.Context(), config.Addr, config.Proxy)
	if err != nil {
		return nil, err
	}
	fmt.Println("Connected")

	link := operator.NewLink(conn)
	go func() {
		if err := link.Drain(); err != nil {
			log.Debug.Printf("link: %v", err)
		}
	}()
	return link, nil
}
