package filter_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	filter "github.com/okian/spotfinder/internal/domain/filter"
	"github.com/okian/spotfinder/internal/domain/model"
)

func candidate(name string, vcpus int, memoryGB float64, zones ...string) model.Candidate {
	return model.Candidate{
		Spec: model.SkuSpec{
			Name:         name,
			Architecture: model.ArchX64,
			VCPUs:        vcpus,
			MemoryGB:     memoryGB,
			Zones:        zones,
			SupportsSpot: true,
		},
	}
}

func withPrice(c model.Candidate, price float64) model.Candidate {
	c.Pricing = &model.PricingInfo{CurrencyCode: "USD", HourlyPrice: price}
	return c
}

func withEviction(c model.Candidate, b model.EvictionBucket) model.Candidate {
	c.Eviction = &b
	return c
}

func TestMatches(t *testing.T) {
	Convey("Given a plain x64 candidate", t, func() {
		cand := candidate("Standard_D8s_v3", 8, 32, "1", "2")

		Convey("When no constraints are set", func() {
			So(filter.Matches(cand, model.Constraints{}), ShouldBeTrue)
		})

		Convey("When an architecture constraint is set", func() {
			arm := model.ArchARM64
			x64 := model.ArchX64
			So(filter.Matches(cand, model.Constraints{Architecture: &arm}), ShouldBeFalse)
			So(filter.Matches(cand, model.Constraints{Architecture: &x64}), ShouldBeTrue)
		})

		Convey("When a vCPU ceiling is set", func() {
			four := 4
			eight := 8
			Convey("Then an 8-vCPU candidate fails max_vcpus=4", func() {
				So(filter.Matches(cand, model.Constraints{MaxVCPUs: &four}), ShouldBeFalse)
			})
			Convey("And the bound is inclusive", func() {
				So(filter.Matches(cand, model.Constraints{MaxVCPUs: &eight}), ShouldBeTrue)
			})
		})

		Convey("When a memory ceiling is set", func() {
			sixteen := 16.0
			thirtyTwo := 32.0
			So(filter.Matches(cand, model.Constraints{MaxMemoryGB: &sixteen}), ShouldBeFalse)
			So(filter.Matches(cand, model.Constraints{MaxMemoryGB: &thirtyTwo}), ShouldBeTrue)
		})

		Convey("When a zone floor is set", func() {
			So(filter.Matches(cand, model.Constraints{MinZones: 3}), ShouldBeFalse)
			So(filter.Matches(cand, model.Constraints{MinZones: 2}), ShouldBeTrue)
		})
	})

	Convey("Given a GPU candidate", t, func() {
		gpu := candidate("Standard_NC6s_v3", 6, 112, "1")
		gpu.Spec.HasGPU = true

		Convey("Then the default excludes it and gpu=true admits it", func() {
			So(filter.Matches(gpu, model.Constraints{}), ShouldBeFalse)
			So(filter.Matches(gpu, model.Constraints{GPU: true}), ShouldBeTrue)
		})
	})

	Convey("Given a cost-bounded query", t, func() {
		bound := 0.10
		c := model.Constraints{MaxHourlyCost: &bound}

		Convey("When the candidate has pricing attached", func() {
			So(filter.Matches(withPrice(candidate("a", 2, 8, "1"), 0.08), c), ShouldBeTrue)
			So(filter.Matches(withPrice(candidate("b", 2, 8, "1"), 0.10), c), ShouldBeTrue)
			So(filter.Matches(withPrice(candidate("c", 2, 8, "1"), 0.12), c), ShouldBeFalse)
		})

		Convey("When the candidate has no pricing", func() {
			Convey("Then it cannot verify the bound and is excluded", func() {
				So(filter.Matches(candidate("d", 2, 8, "1"), c), ShouldBeFalse)
			})
		})
	})

	Convey("Given an eviction-bounded query of 5-10", t, func() {
		bound := model.Bucket5To10
		c := model.Constraints{MaxEvictionRate: &bound}

		Convey("Then lower and equal buckets pass", func() {
			So(filter.Matches(withEviction(candidate("a", 2, 8, "1"), model.Bucket0To5), c), ShouldBeTrue)
			So(filter.Matches(withEviction(candidate("b", 2, 8, "1"), model.Bucket5To10), c), ShouldBeTrue)
		})

		Convey("And higher buckets fail", func() {
			So(filter.Matches(withEviction(candidate("c", 2, 8, "1"), model.Bucket10To15), c), ShouldBeFalse)
			So(filter.Matches(withEviction(candidate("d", 2, 8, "1"), model.Bucket20Plus), c), ShouldBeFalse)
		})

		Convey("And unknown or absent data fails the active bound", func() {
			So(filter.Matches(withEviction(candidate("e", 2, 8, "1"), model.BucketUnknown), c), ShouldBeFalse)
			So(filter.Matches(candidate("f", 2, 8, "1"), c), ShouldBeFalse)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given a mixed candidate list", t, func() {
		four := 4
		cands := []model.Candidate{
			candidate("Standard_D2s_v3", 2, 8, "1"),
			candidate("Standard_D8s_v3", 8, 32, "1"),
			candidate("Standard_F4s_v2", 4, 8, "1"),
		}

		Convey("When applying a vCPU ceiling", func() {
			out := filter.Apply(cands, model.Constraints{MaxVCPUs: &four})

			Convey("Then matches survive in input order", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Spec.Name, ShouldEqual, "Standard_D2s_v3")
				So(out[1].Spec.Name, ShouldEqual, "Standard_F4s_v2")
			})

			Convey("And a second pass over the same input is identical", func() {
				again := filter.Apply(cands, model.Constraints{MaxVCPUs: &four})
				So(again, ShouldResemble, out)
			})
		})
	})
}
