package seedclock_test

import (
	"fmt"
	"testing"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/seedclock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDraw(t *testing.T) {
	Convey("Given the seeded clock", t, func() {
		Convey("When drawing with the same seed repeatedly", func() {
			a := seedclock.Draw("instagram-2025-01-10")
			b := seedclock.Draw("instagram-2025-01-10")

			Convey("Then output should be identical", func() {
				So(a, ShouldEqual, b)
			})
		})

		Convey("When drawing with many seeds", func() {
			Convey("Then every value should be in [0, 1)", func() {
				for i := 0; i < 1000; i++ {
					v := seedclock.Draw(fmt.Sprintf("seed-%d", i))
					So(v, ShouldBeGreaterThanOrEqualTo, 0)
					So(v, ShouldBeLessThan, 1)
				}
			})
		})

		Convey("When seeds differ by one character", func() {
			a := seedclock.Draw("facebook-2025-03-01")
			b := seedclock.Draw("facebook-2025-03-02")

			Convey("Then output should differ", func() {
				So(a, ShouldNotEqual, b)
			})
		})

		Convey("When the seed is empty", func() {
			v := seedclock.Draw("")

			Convey("Then output should still be in [0, 1)", func() {
				So(v, ShouldBeGreaterThanOrEqualTo, 0)
				So(v, ShouldBeLessThan, 1)
			})
		})
	})
}

func TestDrawIndex(t *testing.T) {
	Convey("Given index draws", t, func() {
		Convey("When drawing over a positive bound", func() {
			Convey("Then every index should be in [0, n)", func() {
				const n = 7
				for i := 0; i < 500; i++ {
					idx := seedclock.DrawIndex(fmt.Sprintf("s%d", i), n)
					So(idx, ShouldBeGreaterThanOrEqualTo, 0)
					So(idx, ShouldBeLessThan, n)
				}
			})

			Convey("Then across many seeds every index should occur", func() {
				seen := make(map[int]bool)
				for i := 0; i < 400; i++ {
					seen[seedclock.DrawIndex(fmt.Sprintf("w%d", i), 4)] = true
				}
				So(len(seen), ShouldEqual, 4)
			})
		})

		Convey("When the bound is zero or negative", func() {
			Convey("Then the index should be zero", func() {
				So(seedclock.DrawIndex("x", 0), ShouldEqual, 0)
				So(seedclock.DrawIndex("x", -3), ShouldEqual, 0)
			})
		})
	})
}
