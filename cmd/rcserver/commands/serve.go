package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CodedInternet/rclink/comms"
	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/onboard"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// how often the simulated pose is integrated
const odometryInterval = 20 * time.Millisecond

var (
	listen      string
	simulate    bool
	exitOnError bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "accepts operator connections and drives the motors",
	Long: `Accepts one operator connection at a time on the command port and
applies every received command to the four pwm outputs.

Setup failures are logged and the process then idles, so a supervisor does
not keep restarting a controller with broken hardware. Use --exit-on-error to
exit instead.`,
	Args: cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := func() error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				config.Listen = listen
			}
			if simulate {
				config.PWM.Driver = onboard.DriverSimulated
			}
			return serve(ctx, config)
		}()
		if err == nil {
			return
		}

		log.Error.Printf("%v", err)
		if exitOnError {
			os.Exit(1)
		}
		log.Info.Println("idling until stopped")
		<-ctx.Done()
	},
}

// serve runs the controller until ctx is done or something fails.
func serve(ctx context.Context, config onboard.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	device, err := onboard.NewDevice(config.PWM)
	if err != nil {
		return errors.Wrap(err, "could not set up pwm")
	}
	defer device.Close()

	var odometry *onboard.Odometry
	if device.Simulated != nil {
		odometry = onboard.NewOdometry(config.Simulation, device.Simulated.WheelDuties)
		go odometry.Run(ctx, odometryInterval)
	}

	monitor := onboard.NewMonitor(odometry)
	observers := []onboard.Observer{monitor}
	api := &comms.API{
		State:  monitor,
		Secret: []byte(config.Monitor.Secret),
		Issuer: issuer,
	}

	if config.Journal != "" {
		journal, err := onboard.OpenJournal(config.Journal)
		if err != nil {
			return err
		}
		defer journal.Close()
		observers = append(observers, journal)
		api.Sessions = journal
	}

	errs := make(chan error, 2)
	if config.Monitor.Listen != "" {
		go func() {
			errs <- errors.Wrap(api.ListenAndServe(ctx, config.Monitor.Listen), "monitor")
		}()
	}
	go func() {
		errs <- onboard.NewServer(device, observers...).ListenAndServe(ctx, config.Listen)
	}()

	return <-errs
}
