package operator

import (
	"testing"

	"github.com/CodedInternet/rclink/protocol"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyTable(t *testing.T) {
	Convey("at full speed with even scales keys map to their base pairs", t, func() {
		m := NewMapper(100, 100, MaxSpeed)

		cases := []struct {
			key  byte
			want protocol.Command
		}{
			{'w', protocol.Command{Left: 100, Right: 100}},
			{'s', protocol.Command{Left: -100, Right: -100}},
			{'a', protocol.Command{Left: -100, Right: 100}},
			{'d', protocol.Command{Left: 100, Right: -100}},
			{'q', protocol.Command{Left: 50, Right: 100}},
			{'e', protocol.Command{Left: 100, Right: 50}},
			{'x', protocol.Neutral},
			{'W', protocol.Neutral},
			{NoKey, protocol.Neutral},
		}
		for _, c := range cases {
			So(m.Map(c.key), ShouldResemble, c.want)
		}
	})

	Convey("with the default scales and speed", t, func() {
		m := NewMapper(DefaultLeftScale, DefaultRightScale, DefaultSpeed)

		So(m.Map('w'), ShouldResemble, protocol.Command{Left: 60, Right: 30})
		So(m.Map('s'), ShouldResemble, protocol.Command{Left: -60, Right: -30})
		So(m.Map('q'), ShouldResemble, protocol.Command{Left: 30, Right: 30})
	})
}

func TestSpeed(t *testing.T) {
	Convey("speed keys change the level and send nothing", t, func() {
		m := NewMapper(100, 100, DefaultSpeed)

		So(m.Map('o'), ShouldResemble, protocol.Neutral)
		So(m.Speed.Level(), ShouldEqual, 4)
		So(m.Map('l'), ShouldResemble, protocol.Neutral)
		So(m.Map('l'), ShouldResemble, protocol.Neutral)
		So(m.Speed.Level(), ShouldEqual, 2)
	})

	Convey("the level is clamped to its range", t, func() {
		m := NewMapper(100, 100, DefaultSpeed)

		for i := 0; i < 10; i++ {
			m.Map('o')
		}
		So(m.Speed.Level(), ShouldEqual, MaxSpeed)
		So(m.Map('w'), ShouldResemble, protocol.Command{Left: 100, Right: 100})

		for i := 0; i < 10; i++ {
			m.Map('l')
		}
		So(m.Speed.Level(), ShouldEqual, MinSpeed)
		So(m.Map('w'), ShouldResemble, protocol.Command{Left: 20, Right: 20})
	})

	Convey("out of range initial levels are clamped", t, func() {
		So(NewSpeed(0).Level(), ShouldEqual, MinSpeed)
		So(NewSpeed(9).Level(), ShouldEqual, MaxSpeed)
	})
}

func TestScale(t *testing.T) {
	Convey("scaling truncates in a fixed order", t, func() {
		So(Scale(100, 50, 4), ShouldEqual, 40)
		So(Scale(100, 100, 3), ShouldEqual, 60)
		So(Scale(-100, 50, 3), ShouldEqual, -30)
		So(Scale(50, 50, 3), ShouldEqual, 15)
		So(Scale(100, 50, 1), ShouldEqual, 10)
	})

	Convey("a different order gives a different answer", t, func() {
		// side first: 7*50/100 = 3, 3*3/5 = 1
		// level first: 7*3/5 = 4, 4*50/100 = 2
		So(Scale(7, 50, 3), ShouldEqual, 1)
		So(7*3/MaxSpeed*50/100, ShouldEqual, 2)
		So(7*50*3/(100*MaxSpeed), ShouldEqual, 2)
	})
}
