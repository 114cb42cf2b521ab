package operator

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/protocol"
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Addr       string
	Proxy      string
	Tick       time.Duration
	LeftScale  int `yaml:"left_scale"`
	RightScale int `yaml:"right_scale"`
	Speed      int
	Debug      bool
}

// EnvConfig holds the environment overrides, applied on top of the file.
type EnvConfig struct {
	Addr  string `env:"RCLINK_ADDR"`
	Proxy string `env:"RCLINK_PROXY"`
	Debug bool   `env:"RCLINK_DEBUG" envDefault:"false"`
}

func DefaultConfig() Config {
	return Config{
		Addr:       fmt.Sprintf("127.0.0.1:%d", protocol.DefaultPort),
		Tick:       DefaultTick,
		LeftScale:  DefaultLeftScale,
		RightScale: DefaultRightScale,
		Speed:      DefaultSpeed,
	}
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

	if e.Addr != "" {
		c.Addr = e.Addr
	}
	if e.Proxy != "" {
		c.Proxy = e.Proxy
	}
	c.Debug = c.Debug || e.Debug

	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("no controller address")
	}
	if c.Tick <= 0 {
		return errors.Errorf("tick must be positive, got %s", c.Tick)
	}
	if c.Speed < MinSpeed || c.Speed > MaxSpeed {
		return errors.Errorf("speed must be between %d and %d, got %d", MinSpeed, MaxSpeed, c.Speed)
	}
	return nil
}

// Mapper builds the key mapper described by the config.
func (c Config) Mapper() *Mapper {
	return NewMapper(c.LeftScale, c.RightScale, c.Speed)
}
