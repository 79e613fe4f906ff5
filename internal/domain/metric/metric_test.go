package metric_test

import (
	"testing"

	"github.com/oradba/solahist/internal/domain/metric"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseLegTime(t *testing.T) {
	Convey("Given raw leg time values", t, func() {
		Convey("When the value is an H:MM:SS clock string", func() {
			sec, err := metric.ParseLegTime("00:22:10")

			Convey("Then it converts to whole seconds", func() {
				So(err, ShouldBeNil)
				So(sec, ShouldEqual, 1330)
			})
		})

		Convey("When the value is an MM:SS clock string", func() {
			sec, err := metric.ParseLegTime("22:10")

			Convey("Then minutes and seconds apply", func() {
				So(err, ShouldBeNil)
				So(sec, ShouldEqual, 1330)
			})
		})

		Convey("When the value has hours", func() {
			sec, err := metric.ParseLegTime("1:02:30")

			So(err, ShouldBeNil)
			So(sec, ShouldEqual, 3750)
		})

		Convey("When the value is an Excel day fraction", func() {
			sec, err := metric.ParseLegTime("0.0153935185185185")

			Convey("Then it scales by 86400", func() {
				So(err, ShouldBeNil)
				So(sec, ShouldEqual, 1330)
			})
		})

		Convey("When the value is plain seconds", func() {
			sec, err := metric.ParseLegTime("1330")

			So(err, ShouldBeNil)
			So(sec, ShouldEqual, 1330)
		})

		Convey("When the value is zero", func() {
			_, err := metric.ParseLegTime("0")

			Convey("Then it reports ErrNonPositiveTime", func() {
				So(err, ShouldWrap, metric.ErrNonPositiveTime)
			})
		})

		Convey("When the value is negative", func() {
			_, err := metric.ParseLegTime("-45")

			So(err, ShouldWrap, metric.ErrNonPositiveTime)
		})

		Convey("When the clock string is zero", func() {
			_, err := metric.ParseLegTime("0:00:00")

			So(err, ShouldWrap, metric.ErrNonPositiveTime)
		})

		Convey("When the value is garbage", func() {
			_, err := metric.ParseLegTime("n/a")

			So(err, ShouldWrap, metric.ErrUnparsableTime)
		})

		Convey("When the value is empty", func() {
			_, err := metric.ParseLegTime("  ")

			So(err, ShouldWrap, metric.ErrUnparsableTime)
		})
	})
}

func TestDerive(t *testing.T) {
	Convey("Given a deriver with the default ceiling", t, func() {
		d := metric.NewDeriver()

		Convey("When deriving the reference scenario", func() {
			sec, pace, err := d.Derive("00:22:10", 5.0)

			Convey("Then time is 1330 s and pace 266 s/km", func() {
				So(err, ShouldBeNil)
				So(sec, ShouldEqual, 1330)
				So(pace, ShouldEqual, 266)
			})
		})

		Convey("When the time exceeds the ceiling", func() {
			_, _, err := d.Derive("7:00:00", 5.0)

			Convey("Then it reports ErrImplausibleTime", func() {
				So(err, ShouldWrap, metric.ErrImplausibleTime)
			})
		})

		Convey("When the leg distance is zero", func() {
			_, _, err := d.Derive("00:22:10", 0)

			Convey("Then it reports the structural ErrInvalidDistance", func() {
				So(err, ShouldWrap, metric.ErrInvalidDistance)
			})
		})
	})

	Convey("Given a deriver with a tightened ceiling", t, func() {
		d := metric.NewDeriver(metric.WithMaxLegSeconds(1800))

		Convey("When the time is above the custom ceiling", func() {
			_, _, err := d.Derive("0:45:00", 5.0)

			So(err, ShouldWrap, metric.ErrImplausibleTime)
		})

		Convey("When the time is below the custom ceiling", func() {
			sec, _, err := d.Derive("0:25:00", 5.0)

			So(err, ShouldBeNil)
			So(sec, ShouldEqual, 1500)
		})
	})
}

func TestPaceRounding(t *testing.T) {
	Convey("Given pace computation", t, func() {
		Convey("When the division is exact", func() {
			So(metric.Pace(1330, 5.0), ShouldEqual, 266)
		})

		Convey("When the division rounds up", func() {
			// 1000 / 3 = 333.33 -> 333; 1001 / 2 = 500.5 -> 501
			So(metric.Pace(1000, 3.0), ShouldEqual, 333)
			So(metric.Pace(1001, 2.0), ShouldEqual, 501)
		})
	})
}

func TestFormatting(t *testing.T) {
	Convey("Given display formatting helpers", t, func() {
		Convey("When formatting seconds", func() {
			So(metric.FormatSeconds(3665), ShouldEqual, "1:01:05")
			So(metric.FormatSeconds(1330), ShouldEqual, "0:22:10")
			So(metric.FormatSeconds(0), ShouldEqual, "")
			So(metric.FormatSeconds(-5), ShouldEqual, "")
		})

		Convey("When formatting pace", func() {
			So(metric.FormatPace(330), ShouldEqual, "05:30 min/km")
			So(metric.FormatPace(266), ShouldEqual, "04:26 min/km")
			So(metric.FormatPace(0), ShouldEqual, "")
		})
	})
}
