package scoring_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/spotfinder/internal/domain/model"
	scoring "github.com/okian/spotfinder/internal/domain/scoring"
)

func candidate(name string, vcpus int, memoryGB, price float64, bucket model.EvictionBucket, zones ...string) model.Candidate {
	return model.Candidate{
		Spec: model.SkuSpec{
			Name:         name,
			Architecture: model.ArchX64,
			VCPUs:        vcpus,
			MemoryGB:     memoryGB,
			Zones:        zones,
			SupportsSpot: true,
		},
		Pricing:  &model.PricingInfo{CurrencyCode: "USD", HourlyPrice: price},
		Eviction: &bucket,
	}
}

func TestScorer_Rank(t *testing.T) {
	Convey("Given a scorer and a fully enriched candidate set", t, func() {
		ranker := scoring.New()
		ctx := context.Background()
		cands := []model.Candidate{
			candidate("Standard_D2s_v3", 2, 8, 0.04, model.Bucket0To5, "1", "2", "3"),
			candidate("Standard_D4s_v3", 4, 16, 0.08, model.Bucket10To15, "1", "2"),
			candidate("Standard_E4s_v5", 4, 32, 0.12, model.Bucket5To10, "1"),
		}

		Convey("When ranking under the cost strategy", func() {
			out := ranker.Rank(ctx, cands, scoring.Criteria{Strategy: model.StrategyCost})

			Convey("Then the cheapest low-risk candidate ranks first", func() {
				So(out, ShouldHaveLength, 3)
				So(out[0].Spec.Name, ShouldEqual, "Standard_D2s_v3")
			})

			Convey("And every score is within [0,1]", func() {
				for _, sc := range out {
					So(sc.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(sc.Score, ShouldBeLessThanOrEqualTo, 1)
				}
			})

			Convey("And breakdown contributions sum to the score", func() {
				for _, sc := range out {
					sum := 0.0
					for _, v := range sc.Breakdown {
						sum += v
					}
					So(sum, ShouldAlmostEqual, sc.Score, 1e-9)
				}
			})

			Convey("And scores are non-increasing", func() {
				for i := 1; i < len(out); i++ {
					So(out[i].Score, ShouldBeLessThanOrEqualTo, out[i-1].Score)
				}
			})
		})

		Convey("When ranking under the reliability strategy", func() {
			out := ranker.Rank(ctx, cands, scoring.Criteria{Strategy: model.StrategyReliability})

			Convey("Then the lowest eviction bucket dominates", func() {
				So(out[0].Spec.Name, ShouldEqual, "Standard_D2s_v3")
				So(out[0].Breakdown[scoring.FactorReliability], ShouldAlmostEqual, 0.5*1.0, 1e-9)
			})
		})

		Convey("When a limit is set", func() {
			out := ranker.Rank(ctx, cands, scoring.Criteria{Strategy: model.StrategyBalanced, Limit: 2})

			Convey("Then only the top entries return", func() {
				So(out, ShouldHaveLength, 2)
			})
		})

		Convey("When two candidates differ only in price", func() {
			cheap := candidate("Standard_D4s_v3", 4, 16, 0.04, model.Bucket0To5, "1", "2")
			dear := candidate("Standard_D4as_v4", 4, 16, 0.08, model.Bucket0To5, "1", "2")
			out := ranker.Rank(ctx, []model.Candidate{dear, cheap}, scoring.Criteria{Strategy: model.StrategyCost})

			Convey("Then the cheaper one ranks first", func() {
				So(out[0].Spec.Name, ShouldEqual, "Standard_D4s_v3")
			})
		})

		Convey("When two candidates tie exactly", func() {
			a := candidate("Standard_Z2_b", 2, 8, 0.05, model.Bucket0To5, "1")
			b := candidate("Standard_Z2_a", 2, 8, 0.05, model.Bucket0To5, "1")
			out := ranker.Rank(ctx, []model.Candidate{a, b}, scoring.Criteria{Strategy: model.StrategyBalanced})

			Convey("Then name ascending breaks the tie", func() {
				So(out[0].Score, ShouldEqual, out[1].Score)
				So(out[0].Spec.Name, ShouldEqual, "Standard_Z2_a")
				So(out[1].Spec.Name, ShouldEqual, "Standard_Z2_b")
			})
		})
	})

	Convey("Given candidates without enrichment data", t, func() {
		ranker := scoring.New()
		ctx := context.Background()
		bare := model.Candidate{
			Spec: model.SkuSpec{Name: "Standard_D2s_v3", Architecture: model.ArchX64, VCPUs: 2, MemoryGB: 8, Zones: []string{"1"}},
		}

		Convey("When ranking a single bare candidate under balanced weights", func() {
			out := ranker.Rank(ctx, []model.Candidate{bare}, scoring.Criteria{Strategy: model.StrategyBalanced})

			Convey("Then missing pricing scores neutral and missing eviction scores below neutral", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Breakdown[scoring.FactorPrice], ShouldAlmostEqual, 0.25*0.5, 1e-9)
				So(out[0].Breakdown[scoring.FactorReliability], ShouldAlmostEqual, 0.25*0.3, 1e-9)
			})
		})

		Convey("When the candidate set is empty", func() {
			out := ranker.Rank(ctx, nil, scoring.Criteria{Strategy: model.StrategyCost})

			Convey("Then the result is empty, not an error", func() {
				So(out, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an architecture preference", t, func() {
		ranker := scoring.New()
		ctx := context.Background()
		arm := model.ArchARM64

		x64 := candidate("Standard_D2s_v3", 2, 8, 0.05, model.Bucket0To5, "1")
		armCand := candidate("Standard_D2pls_v5", 2, 8, 0.05, model.Bucket0To5, "1")
		armCand.Spec.Architecture = model.ArchARM64

		Convey("When ranking with the preference set", func() {
			out := ranker.Rank(ctx, []model.Candidate{x64, armCand}, scoring.Criteria{
				Strategy:       model.StrategyBalanced,
				ArchPreference: &arm,
			})

			Convey("Then the matching architecture ranks first", func() {
				So(out[0].Spec.Architecture, ShouldEqual, model.ArchARM64)
			})

			Convey("And the architecture factor appears in the breakdown", func() {
				So(out[0].Breakdown, ShouldContainKey, scoring.FactorArchitecture)
				So(out[0].Breakdown[scoring.FactorArchitecture], ShouldAlmostEqual, 0.1*1.0, 1e-9)
				So(out[1].Breakdown[scoring.FactorArchitecture], ShouldAlmostEqual, 0.1*0.3, 1e-9)
			})

			Convey("And breakdown contributions still sum to the score", func() {
				for _, sc := range out {
					sum := 0.0
					for _, v := range sc.Breakdown {
						sum += v
					}
					So(sum, ShouldAlmostEqual, sc.Score, 1e-9)
				}
			})
		})

		Convey("When ranking without the preference", func() {
			out := ranker.Rank(ctx, []model.Candidate{x64, armCand}, scoring.Criteria{Strategy: model.StrategyBalanced})

			Convey("Then the architecture factor is absent", func() {
				So(out[0].Breakdown, ShouldNotContainKey, scoring.FactorArchitecture)
			})
		})
	})

	Convey("Given a configured default limit", t, func() {
		ranker := scoring.New(scoring.WithDefaultLimit(1))
		ctx := context.Background()
		cands := []model.Candidate{
			candidate("Standard_D2s_v3", 2, 8, 0.04, model.Bucket0To5, "1"),
			candidate("Standard_D4s_v3", 4, 16, 0.08, model.Bucket0To5, "1"),
		}

		Convey("When no per-request limit is given", func() {
			out := ranker.Rank(ctx, cands, scoring.Criteria{Strategy: model.StrategyCost})

			Convey("Then the default applies", func() {
				So(out, ShouldHaveLength, 1)
			})
		})
	})
}
