package wallclock_test

import (
	"testing"

	"github.com/okian/greenroom/internal/domain/wallclock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseMinutes(t *testing.T) {
	Convey("Given wall-clock time strings", t, func() {
		Convey("When parsing HH:MM", func() {
			m, err := wallclock.ParseMinutes("09:30")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, 9*60+30)
		})

		Convey("When parsing midnight", func() {
			m, err := wallclock.ParseMinutes("00:00")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, 0)
		})

		Convey("When parsing the last minute of the day", func() {
			m, err := wallclock.ParseMinutes("23:59")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, 23*60+59)
		})

		Convey("When the string carries seconds", func() {
			Convey("Then seconds are validated but ignored", func() {
				m, err := wallclock.ParseMinutes("09:00:59")
				So(err, ShouldBeNil)
				So(m, ShouldEqual, 9*60)
			})

			Convey("And out-of-range seconds are rejected", func() {
				_, err := wallclock.ParseMinutes("09:00:61")
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, wallclock.ErrBadClock)
			})
		})

		Convey("When the string has surrounding whitespace", func() {
			m, err := wallclock.ParseMinutes(" 14:00 ")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, 14*60)
		})

		Convey("When the string is malformed", func() {
			for _, bad := range []string{"", "14", "14:", ":30", "xx:30", "14:yy", "25:00", "14:60", "14-30", "14:00:00:00", "-1:00"} {
				_, err := wallclock.ParseMinutes(bad)
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, wallclock.ErrBadClock)
			}
		})
	})
}

func TestFormatMinutes(t *testing.T) {
	Convey("Given minutes-of-day values", t, func() {
		Convey("When formatting within the day", func() {
			So(wallclock.FormatMinutes(0), ShouldEqual, "00:00")
			So(wallclock.FormatMinutes(9*60+5), ShouldEqual, "09:05")
			So(wallclock.FormatMinutes(23*60+59), ShouldEqual, "23:59")
		})

		Convey("When a value rolls past midnight", func() {
			// 23:50 + 30 minutes ends at 00:20 the next morning.
			So(wallclock.FormatMinutes(23*60+50+30), ShouldEqual, "00:20")
			So(wallclock.FormatMinutes(24*60), ShouldEqual, "00:00")
			So(wallclock.FormatMinutes(48*60+1), ShouldEqual, "00:01")
		})

		Convey("When a value is negative", func() {
			So(wallclock.FormatMinutes(-10), ShouldEqual, "23:50")
		})
	})
}
