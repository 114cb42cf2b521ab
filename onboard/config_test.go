package onboard

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	rcerrors "github.com/CodedInternet/rclink/onboard/errors"
)

const testYaml = `
version: 1.2.0
listen: 127.0.0.1:1381
journal: /tmp/rclink.db
pwm:
  driver: sysfs
  chip: 1
  frequency: 1000
  channels:
    left_forward: 4
    right_backward: 7
monitor:
  listen: "127.0.0.1:8080"
simulation:
  max_speed: 1.5
`

func TestConfigParsing(t *testing.T) {
	Convey("parsing is successful", t, func() {
		config, err := ParseConfig([]byte(testYaml))
		So(err, ShouldBeNil)

		Convey("file values are set", func() {
			So(config.Listen, ShouldEqual, "127.0.0.1:1381")
			So(config.PWM.Driver, ShouldEqual, DriverSysfs)
			So(config.PWM.Chip, ShouldEqual, 1)
			So(config.PWM.Frequency, ShouldEqual, 1000)
			So(config.PWM.Channels.LeftForward, ShouldEqual, 4)
			So(config.PWM.Channels.RightBackward, ShouldEqual, 7)
			So(config.Monitor.Listen, ShouldEqual, "127.0.0.1:8080")
			So(config.Simulation.MaxSpeed, ShouldEqual, 1.5)
		})

		Convey("missing values keep their defaults", func() {
			So(config.PWM.Channels.LeftBackward, ShouldEqual, 1)
			So(config.PWM.Channels.RightForward, ShouldEqual, 2)
			So(config.PWM.Baud, ShouldEqual, 115200)
			So(config.Simulation.Track, ShouldEqual, DefaultConfig().Simulation.Track)
		})
	})

	Convey("defaults listen on the protocol port with the simulator", t, func() {
		config, err := LoadConfig("")
		So(err, ShouldBeNil)
		So(config.Listen, ShouldEqual, "0.0.0.0:1380")
		So(config.PWM.Driver, ShouldEqual, DriverSimulated)
	})

	Convey("invalid files are rejected", t, func() {
		Convey("unknown keys", func() {
			_, err := ParseConfig([]byte("version: 1.0.0\nspeed: 3\n"))
			So(err, ShouldNotBeNil)
		})

		Convey("incompatible versions", func() {
			_, err := ParseConfig([]byte("version: 2.0.0\n"))
			_, ok := err.(rcerrors.ConfigVersionError)
			So(ok, ShouldBeTrue)
		})

		Convey("unknown drivers", func() {
			_, err := ParseConfig([]byte("pwm:\n  driver: ledc\n"))
			So(err, ShouldResemble, rcerrors.UnknownDriverError{Driver: "ledc"})
		})

		Convey("serial without a port", func() {
			_, err := ParseConfig([]byte("pwm:\n  driver: serial\n"))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("config files are read from disk", t, func() {
		dir, err := ioutil.TempDir("", "rclink-config")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "rclink.yaml")
		So(ioutil.WriteFile(path, []byte(testYaml), 0644), ShouldBeNil)

		config, err := LoadConfig(path)
		So(err, ShouldBeNil)
		So(config.PWM.Chip, ShouldEqual, 1)

		_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
		So(err, ShouldNotBeNil)
	})
}

func TestConfigEnv(t *testing.T) {
	Convey("environment overrides the file", t, func() {
		os.Setenv("RCLINK_LISTEN", "127.0.0.1:9999")
		os.Setenv("RCLINK_JWT_SECRET", "s3cret")
		os.Setenv("RCLINK_DEBUG", "true")
		defer os.Unsetenv("RCLINK_LISTEN")
		defer os.Unsetenv("RCLINK_JWT_SECRET")
		defer os.Unsetenv("RCLINK_DEBUG")

		config := DefaultConfig()
		So(config.ApplyEnv(), ShouldBeNil)
		So(config.Listen, ShouldEqual, "127.0.0.1:9999")
		So(config.Monitor.Secret, ShouldEqual, "s3cret")
		So(config.Debug, ShouldBeTrue)
		So(config.PWM.Driver, ShouldEqual, DriverSimulated)
	})

	Convey("a bad driver from the environment fails validation", t, func() {
		os.Setenv("RCLINK_PWM_DRIVER", "nope")
		defer os.Unsetenv("RCLINK_PWM_DRIVER")

		config := DefaultConfig()
		So(config.ApplyEnv(), ShouldNotBeNil)
	})
}
