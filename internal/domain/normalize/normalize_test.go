package normalize_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	normalize "github.com/ywutian/admitscore/internal/domain/normalize"
)

func TestGPA(t *testing.T) {
	Convey("Given the GPA normalizer", t, func() {
		Convey("When the GPA is already on the 4.0 scale", func() {
			Convey("Then normalization should be the identity", func() {
				for _, g := range []float64{0, 1.7, 2.5, 3.0, 3.5, 4.0} {
					So(normalize.GPA(g, 4.0), ShouldEqual, g)
				}
			})
		})

		Convey("When the GPA is on the 5.0 scale", func() {
			Convey("Then it should rescale proportionally", func() {
				So(normalize.GPA(4.5, 5.0), ShouldAlmostEqual, 3.6, 1e-9)
				So(normalize.GPA(5.0, 5.0), ShouldAlmostEqual, 4.0, 1e-9)
			})
		})

		Convey("When the GPA is on the 100-point scale", func() {
			Convey("Then it should rescale proportionally", func() {
				So(normalize.GPA(90, 100), ShouldAlmostEqual, 3.6, 1e-9)
				So(normalize.GPA(100, 100), ShouldAlmostEqual, 4.0, 1e-9)
			})
		})

		Convey("When the scale is a data error", func() {
			Convey("Then a zero scale should substitute the native 4.0 scale", func() {
				So(normalize.GPA(3.5, 0), ShouldEqual, 3.5)
			})
			Convey("And a negative scale should substitute the native 4.0 scale", func() {
				So(normalize.GPA(3.5, -1), ShouldEqual, 3.5)
			})
			Convey("And a NaN scale should substitute the native 4.0 scale", func() {
				So(normalize.GPA(3.5, math.NaN()), ShouldEqual, 3.5)
			})
		})

		Convey("When the value is a data error", func() {
			Convey("Then NaN and negative values should normalize to zero", func() {
				So(normalize.GPA(math.NaN(), 4.0), ShouldEqual, 0.0)
				So(normalize.GPA(-2, 4.0), ShouldEqual, 0.0)
			})
		})
	})
}

func TestRangeBounds(t *testing.T) {
	Convey("Given the textual range parser", t, func() {
		Convey("When parsing hyphenated ranges", func() {
			lo, hi, ok := normalize.RangeBounds("1320-1520")
			Convey("Then both bounds should be extracted", func() {
				So(ok, ShouldBeTrue)
				So(lo, ShouldEqual, 1320.0)
				So(hi, ShouldEqual, 1520.0)
			})
		})

		Convey("When parsing en-dash and em-dash ranges", func() {
			Convey("Then both bounds should be extracted", func() {
				lo, hi, ok := normalize.RangeBounds("31–34")
				So(ok, ShouldBeTrue)
				So(lo, ShouldEqual, 31.0)
				So(hi, ShouldEqual, 34.0)

				lo, hi, ok = normalize.RangeBounds("1400—1550")
				So(ok, ShouldBeTrue)
				So(lo, ShouldEqual, 1400.0)
				So(hi, ShouldEqual, 1550.0)
			})
		})

		Convey("When parsing verbose and noisy ranges", func() {
			Convey("Then separators, percent signs and commas should be tolerated", func() {
				lo, hi, ok := normalize.RangeBounds("1,350 to 1,500")
				So(ok, ShouldBeTrue)
				So(lo, ShouldEqual, 1350.0)
				So(hi, ShouldEqual, 1500.0)

				lo, hi, ok = normalize.RangeBounds(" 4% ~ 9% ")
				So(ok, ShouldBeTrue)
				So(lo, ShouldEqual, 4.0)
				So(hi, ShouldEqual, 9.0)
			})
		})

		Convey("When parsing an inverted range", func() {
			Convey("Then the bounds should be reordered", func() {
				lo, hi, ok := normalize.RangeBounds("1520-1320")
				So(ok, ShouldBeTrue)
				So(lo, ShouldEqual, 1320.0)
				So(hi, ShouldEqual, 1520.0)
			})
		})

		Convey("When parsing a single number", func() {
			Convey("Then it should become a zero-width range", func() {
				lo, hi, ok := normalize.RangeBounds("1450")
				So(ok, ShouldBeTrue)
				So(lo, ShouldEqual, 1450.0)
				So(hi, ShouldEqual, 1450.0)
			})
		})

		Convey("When parsing garbage", func() {
			Convey("Then ok should be false", func() {
				_, _, ok := normalize.RangeBounds("n/a")
				So(ok, ShouldBeFalse)
				_, _, ok = normalize.RangeBounds("")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestRangeMidpoint(t *testing.T) {
	Convey("Given the range midpoint helper", t, func() {
		Convey("When parsing a two-ended range", func() {
			Convey("Then the midpoint should be returned", func() {
				mid, ok := normalize.RangeMidpoint("1320-1520")
				So(ok, ShouldBeTrue)
				So(mid, ShouldEqual, 1420.0)
			})
		})

		Convey("When parsing a single number", func() {
			Convey("Then the number itself should be returned", func() {
				mid, ok := normalize.RangeMidpoint("33")
				So(ok, ShouldBeTrue)
				So(mid, ShouldEqual, 33.0)
			})
		})

		Convey("When parsing garbage", func() {
			Convey("Then ok should be false", func() {
				_, ok := normalize.RangeMidpoint("TBD")
				So(ok, ShouldBeFalse)
			})
		})
	})
}
