package operator

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const testYaml = `
addr: robot.local:1380
proxy: socks5://127.0.0.1:1080
tick: 50ms
right_scale: 100
speed: 5
`

func TestConfig(t *testing.T) {
	Convey("parsing is successful", t, func() {
		config, err := ParseConfig([]byte(testYaml))
		So(err, ShouldBeNil)

		So(config.Addr, ShouldEqual, "robot.local:1380")
		So(config.Proxy, ShouldEqual, "socks5://127.0.0.1:1080")
		So(config.Tick, ShouldEqual, 50*time.Millisecond)
		So(config.RightScale, ShouldEqual, 100)
		So(config.LeftScale, ShouldEqual, DefaultLeftScale)
		So(config.Speed, ShouldEqual, MaxSpeed)

		Convey("and builds a matching mapper", func() {
			m := config.Mapper()
			So(m.Speed.Level(), ShouldEqual, MaxSpeed)
			So(m.RightScale, ShouldEqual, 100)
		})
	})

	Convey("defaults point at the local controller", t, func() {
		config, err := LoadConfig("")
		So(err, ShouldBeNil)
		So(config.Addr, ShouldEqual, "127.0.0.1:1380")
		So(config.Tick, ShouldEqual, DefaultTick)
	})

	Convey("bad files are rejected", t, func() {
		for _, doc := range []string{
			"speed: 6\n",
			"tick: 0s\n",
			"addr: \"\"\n",
			"turbo: true\n",
		} {
			_, err := ParseConfig([]byte(doc))
			So(err, ShouldNotBeNil)
		}
	})

	Convey("files are read from disk", t, func() {
		dir, err := ioutil.TempDir("", "rcdrive")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "rcdrive.yaml")
		So(ioutil.WriteFile(path, []byte(testYaml), 0644), ShouldBeNil)

		config, err := LoadConfig(path)
		So(err, ShouldBeNil)
		So(config.Addr, ShouldEqual, "robot.local:1380")

		_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
		So(err, ShouldNotBeNil)
	})

	Convey("the environment overrides the file", t, func() {
		os.Setenv("RCLINK_ADDR", "10.0.0.2:1380")
		defer os.Unsetenv("RCLINK_ADDR")

		config := DefaultConfig()
		So(config.ApplyEnv(), ShouldBeNil)
		So(config.Addr, ShouldEqual, "10.0.0.2:1380")
		So(config.Proxy, ShouldEqual, "")
	})
}
