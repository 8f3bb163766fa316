package model_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/spotfinder/internal/domain/model"
)

func TestEvictionBucket(t *testing.T) {
	Convey("Given the eviction bucket order", t, func() {
		Convey("When comparing ranks", func() {
			So(model.Bucket0To5.Rank(), ShouldBeLessThan, model.Bucket5To10.Rank())
			So(model.Bucket5To10.Rank(), ShouldBeLessThan, model.Bucket10To15.Rank())
			So(model.Bucket10To15.Rank(), ShouldBeLessThan, model.Bucket15To20.Rank())
			So(model.Bucket15To20.Rank(), ShouldBeLessThan, model.Bucket20Plus.Rank())

			Convey("Then unknown ranks above every labelled bucket", func() {
				So(model.BucketUnknown.Rank(), ShouldBeGreaterThan, model.Bucket20Plus.Rank())
			})
		})

		Convey("When bounding with AtMost", func() {
			So(model.Bucket0To5.AtMost(model.Bucket5To10), ShouldBeTrue)
			So(model.Bucket5To10.AtMost(model.Bucket5To10), ShouldBeTrue)
			So(model.Bucket10To15.AtMost(model.Bucket5To10), ShouldBeFalse)

			Convey("Then an unknown bucket never satisfies a bound", func() {
				So(model.BucketUnknown.AtMost(model.Bucket20Plus), ShouldBeFalse)
			})
		})

		Convey("When parsing labels", func() {
			b, ok := model.ParseEvictionBucket("10-15")
			So(ok, ShouldBeTrue)
			So(b, ShouldEqual, model.Bucket10To15)

			_, ok = model.ParseEvictionBucket("0-99")
			So(ok, ShouldBeFalse)

			Convey("Then the unknown label is not accepted as user input", func() {
				_, ok := model.ParseEvictionBucket("unknown")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When checking Known", func() {
			So(model.Bucket20Plus.Known(), ShouldBeTrue)
			So(model.BucketUnknown.Known(), ShouldBeFalse)
		})
	})
}

func TestParseArchitecture(t *testing.T) {
	Convey("Given architecture input aliases", t, func() {
		cases := map[string]model.Architecture{
			"x64":   model.ArchX64,
			"amd64": model.ArchX64,
			"arm64": model.ArchARM64,
			"ARM64": model.ArchARM64,
		}
		for in, want := range cases {
			arch, ok := model.ParseArchitecture(in)
			So(ok, ShouldBeTrue)
			So(arch, ShouldEqual, want)
		}

		Convey("When the input is unrecognized", func() {
			_, ok := model.ParseArchitecture("riscv")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestParseStrategy(t *testing.T) {
	Convey("Given strategy input", t, func() {
		Convey("When parsing the supported strategies", func() {
			for _, s := range []string{"cost", "reliability", "performance", "balanced"} {
				got, ok := model.ParseStrategy(s)
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, model.Strategy(s))
			}
		})

		Convey("When the input is empty", func() {
			got, ok := model.ParseStrategy("")

			Convey("Then balanced is the default", func() {
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, model.StrategyBalanced)
			})
		})

		Convey("When the input is unknown", func() {
			_, ok := model.ParseStrategy("cheapest")
			So(ok, ShouldBeFalse)
		})
	})
}
