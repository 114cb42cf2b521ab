package onboard

import (
	"io/ioutil"
	"strconv"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/protocol"
	"github.com/Masterminds/semver"
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	rcerrors "github.com/CodedInternet/rclink/onboard/errors"
)

const (
	ConfigVersion           = "1.0.0"
	ConfigVersionConstraint = "^1.0.0"
)

// PWM drivers
const (
	DriverSimulated = "simulated"
	DriverSysfs     = "sysfs"
	DriverSerial    = "serial"
)

type Config struct {
	Version    string
	Listen     string
	Debug      bool
	Journal    string
	PWM        PWMConfig `yaml:"pwm"`
	Monitor    MonitorConfig
	Simulation SimulationConfig
}

type PWMConfig struct {
	Driver    string
	Frequency int
	Chip      int
	Port      string
	Baud      int
	Channels  struct {
		LeftForward   int `yaml:"left_forward"`
		LeftBackward  int `yaml:"left_backward"`
		RightForward  int `yaml:"right_forward"`
		RightBackward int `yaml:"right_backward"`
	}
}

type MonitorConfig struct {
	Listen string
	Secret string
}

// SimulationConfig describes the robot modelled by the simulated driver.
type SimulationConfig struct {
	Track    float64 // distance between the wheels in metres
	MaxSpeed float64 `yaml:"max_speed"` // wheel speed at full duty in m/s
}

// EnvConfig holds the environment overrides, applied on top of the file.
type EnvConfig struct {
	Listen        string `env:"RCLINK_LISTEN"`
	Driver        string `env:"RCLINK_PWM_DRIVER"`
	MonitorListen string `env:"RCLINK_MONITOR_LISTEN"`
	Secret        string `env:"RCLINK_JWT_SECRET"`
	Journal       string `env:"RCLINK_JOURNAL"`
	Debug         bool   `env:"RCLINK_DEBUG" envDefault:"false"`
}

func DefaultConfig() Config {
	c := Config{
		Version: ConfigVersion,
		Listen:  defaultListen(),
	}
	c.PWM.Driver = DriverSimulated
	c.PWM.Frequency = 50
	c.PWM.Baud = 115200
	c.PWM.Channels.LeftForward = 0
	c.PWM.Channels.LeftBackward = 1
	c.PWM.Channels.RightForward = 2
	c.PWM.Channels.RightBackward = 3
	c.Simulation.Track = 0.15
	c.Simulation.MaxSpeed = 0.5
	return c
}

// LoadConfig reads a YAML config file on top of the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	log.Info.Printf("loading config file: %s", path)
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not open config file")
	}
	return ParseConfig(yamlFile)
}

func ParseConfig(yamlFile []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(yamlFile, &config); err != nil {
		return Config{}, errors.Wrap(err, "could not parse config file")
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ApplyEnv overrides config values with any RCLINK_* variables that are set.
func (c *Config) ApplyEnv() error {
	var e EnvConfig
	if err := env.Parse(&e); err != nil {
		return errors.Wrap(err, "could not parse environment")
	}

	if e.Listen != "" {
		c.Listen = e.Listen
	}
	if e.Driver != "" {
		c.PWM.Driver = e.Driver
	}
	if e.MonitorListen != "" {
		c.Monitor.Listen = e.MonitorListen
	}
	if e.Secret != "" {
		c.Monitor.Secret = e.Secret
	}
	if e.Journal != "" {
		c.Journal = e.Journal
	}
	c.Debug = c.Debug || e.Debug

	return c.Validate()
}

func (c *Config) Validate() error {
	version, err := semver.NewVersion(c.Version)
	if err != nil {
		return errors.Wrapf(err, "bad config version %q", c.Version)
	}
	constraint, err := semver.NewConstraint(ConfigVersionConstraint)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return rcerrors.ConfigVersionError{Version: c.Version, Constraint: ConfigVersionConstraint}
	}

	switch c.PWM.Driver {
	case DriverSimulated, DriverSysfs, DriverSerial:
	default:
		return rcerrors.UnknownDriverError{Driver: c.PWM.Driver}
	}

	if c.PWM.Frequency <= 0 {
		return errors.Errorf("pwm frequency must be positive, got %d", c.PWM.Frequency)
	}
	if c.PWM.Driver == DriverSerial && c.PWM.Port == "" {
		return errors.New("serial pwm driver needs a port")
	}
	if c.Listen == "" {
		c.Listen = defaultListen()
	}

	return nil
}

func defaultListen() string {
	return "0.0.0.0:" + strconv.Itoa(protocol.DefaultPort)
}
