package scoring_test

import (
	"errors"
	"testing"

	scoring "github.com/okian/gradeboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDescriber_Describe(t *testing.T) {
	Convey("Given a default describer", t, func() {
		d := scoring.NewDescriber()

		Convey("When describing an odd number of scores", func() {
			dist, err := d.Describe([]int{90, 70, 80})

			Convey("Then the summary statistics should be correct", func() {
				So(err, ShouldBeNil)
				So(dist.Count, ShouldEqual, 3)
				So(dist.Min, ShouldEqual, 70)
				So(dist.Max, ShouldEqual, 90)
				So(dist.Mean, ShouldEqual, 80.0)
				So(dist.Median, ShouldEqual, 80.0)
				So(dist.StdDev, ShouldAlmostEqual, 8.1649658, 0.0001)
			})

			Convey("And the histogram should have ten buckets", func() {
				So(len(dist.Buckets), ShouldEqual, 10)
				So(dist.Buckets[7], ShouldResemble, scoring.Bucket{Lower: 70, Upper: 79, Count: 1})
				So(dist.Buckets[8], ShouldResemble, scoring.Bucket{Lower: 80, Upper: 89, Count: 1})
				So(dist.Buckets[9], ShouldResemble, scoring.Bucket{Lower: 90, Upper: 100, Count: 1})
			})
		})

		Convey("When describing an even number of scores", func() {
			dist, err := d.Describe([]int{70, 90})

			Convey("Then the median should be the midpoint", func() {
				So(err, ShouldBeNil)
				So(dist.Median, ShouldEqual, 80.0)
			})
		})

		Convey("When a score is perfect or above range", func() {
			dist, err := d.Describe([]int{100, 120})

			Convey("Then both should land in the last bucket", func() {
				So(err, ShouldBeNil)
				So(dist.Buckets[9].Count, ShouldEqual, 2)
			})
		})

		Convey("When the input is not sorted", func() {
			in := []int{90, 10, 50}
			_, err := d.Describe(in)

			Convey("Then the caller's slice should be untouched", func() {
				So(err, ShouldBeNil)
				So(in, ShouldResemble, []int{90, 10, 50})
			})
		})

		Convey("When describing no scores", func() {
			_, err := d.Describe(nil)

			Convey("Then it should fail with ErrNoScores", func() {
				So(errors.Is(err, scoring.ErrNoScores), ShouldBeTrue)
			})
		})
	})
}

func TestDescriberOptions(t *testing.T) {
	Convey("Given custom histogram options", t, func() {
		Convey("When using a bucket width of 25", func() {
			d := scoring.NewDescriber(scoring.WithBucketWidth(25))
			dist, err := d.Describe([]int{10, 30, 60, 99})

			Convey("Then there should be four buckets", func() {
				So(err, ShouldBeNil)
				So(len(dist.Buckets), ShouldEqual, 4)
				for _, b := range dist.Buckets {
					So(b.Count, ShouldEqual, 1)
				}
				So(dist.Buckets[3].Upper, ShouldEqual, 100)
			})
		})

		Convey("When the width does not divide the range", func() {
			d := scoring.NewDescriber(scoring.WithBucketWidth(30))
			dist, _ := d.Describe([]int{95})

			Convey("Then the last bucket should be clipped at the max score", func() {
				So(len(dist.Buckets), ShouldEqual, 4)
				So(dist.Buckets[3], ShouldResemble, scoring.Bucket{Lower: 90, Upper: 100, Count: 1})
			})
		})

		Convey("When invalid values are given", func() {
			d := scoring.NewDescriber(scoring.WithBucketWidth(0), scoring.WithMaxScore(-5))
			dist, _ := d.Describe([]int{50})

			Convey("Then the defaults should be kept", func() {
				So(len(dist.Buckets), ShouldEqual, 10)
			})
		})
	})
}
