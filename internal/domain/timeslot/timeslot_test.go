package timeslot_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/timeslot"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

func toMinutes(t *testing.T, hhmm string) int {
	t.Helper()
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		t.Fatalf("bad time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		t.Fatal(err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		t.Fatal(err)
	}
	return h*60 + m
}

func inWindows(minutes int, ws []window.Window) bool {
	for _, w := range ws {
		if minutes >= w.StartMinutes && minutes <= w.EndMinutes {
			return true
		}
	}
	return false
}

func TestAssign(t *testing.T) {
	Convey("Given time assignment", t, func() {
		thursday, _ := model.ParseDate("2025-01-09")
		friday, _ := model.ParseDate("2025-01-10")

		Convey("When assigning with a fixed seed", func() {
			a := timeslot.Assign(thursday, "", "batch-2025-01-09")
			b := timeslot.Assign(thursday, "", "batch-2025-01-09")

			Convey("Then the time should be identical across calls", func() {
				So(a, ShouldEqual, b)
			})
		})

		Convey("When assigning across many seeds and platforms", func() {
			platforms := []model.Platform{"", model.PlatformInstagram, model.PlatformFacebook, model.PlatformTikTok}

			Convey("Then every time should fall inside a window on the 5-minute grid", func() {
				for _, p := range platforms {
					for day := 0; day < 7; day++ {
						date := thursday.AddDate(0, 0, day)
						ws := window.For(int(date.Weekday()), p)
						for i := 0; i < 40; i++ {
							got := timeslot.Assign(date, p, fmt.Sprintf("s-%d", i))
							minutes := toMinutes(t, got)
							So(inWindows(minutes, ws), ShouldBeTrue)
							start := matchingStart(minutes, ws)
							So((minutes-start)%5, ShouldEqual, 0)
						}
					}
				}
			})
		})

		Convey("When a weekday has two disjoint windows", func() {
			ws := window.For(int(friday.Weekday()), "")
			So(len(ws), ShouldEqual, 2)

			Convey("Then across many seeds both windows should be selectable", func() {
				hitFirst, hitSecond := false, false
				for i := 0; i < 200 && !(hitFirst && hitSecond); i++ {
					minutes := toMinutes(t, timeslot.Assign(friday, "", fmt.Sprintf("fri-%d", i)))
					if minutes <= ws[0].EndMinutes {
						hitFirst = true
					} else {
						hitSecond = true
					}
				}
				So(hitFirst, ShouldBeTrue)
				So(hitSecond, ShouldBeTrue)
			})
		})

		Convey("When both window ends are reachable", func() {
			// A window with N slots must be able to draw slot 0 and slot N-1.
			ws := window.For(int(thursday.Weekday()), "")
			seenStart, seenEnd := false, false
			for i := 0; i < 3000 && !(seenStart && seenEnd); i++ {
				minutes := toMinutes(t, timeslot.Assign(thursday, "", fmt.Sprintf("edge-%d", i)))
				if minutes == ws[0].StartMinutes {
					seenStart = true
				}
				if minutes == ws[0].EndMinutes {
					seenEnd = true
				}
			}

			Convey("Then the grid should be inclusive of both ends", func() {
				So(seenStart, ShouldBeTrue)
				So(seenEnd, ShouldBeTrue)
			})
		})
	})
}

func matchingStart(minutes int, ws []window.Window) int {
	for _, w := range ws {
		if minutes >= w.StartMinutes && minutes <= w.EndMinutes {
			return w.StartMinutes
		}
	}
	return 0
}

func TestSeed(t *testing.T) {
	Convey("Given seed derivation", t, func() {
		date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

		Convey("When the revision is zero", func() {
			Convey("Then the seed should omit the revision component", func() {
				So(timeslot.Seed("instagram-week2", date, 0), ShouldEqual, "instagram-week2-2025-01-10")
			})
		})

		Convey("When the revision advances", func() {
			s0 := timeslot.Seed("instagram-week2", date, 0)
			s1 := timeslot.Seed("instagram-week2", date, 1)
			s2 := timeslot.Seed("instagram-week2", date, 2)

			Convey("Then each revision should draw a distinct seed", func() {
				So(s1, ShouldNotEqual, s0)
				So(s2, ShouldNotEqual, s1)
				So(s1, ShouldEqual, "instagram-week2-2025-01-10-r1")
			})

			Convey("Then the same revision should reproduce its time", func() {
				a := timeslot.Assign(date, model.PlatformInstagram, s1)
				b := timeslot.Assign(date, model.PlatformInstagram, s1)
				So(a, ShouldEqual, b)
			})
		})
	})
}
