package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/spotfinder/internal/config"
)

var configEnvVars = []string{
	"SPOTFINDER_CONFIG",
	"SPOTFINDER_ADDR",
	"SPOTFINDER_LOG_LEVEL",
	"SPOTFINDER_SUBSCRIPTION_ID",
	"SPOTFINDER_RESULT_CACHE_TTL_MINUTES",
	"SPOTFINDER_PRICING_CACHE_TTL_MINUTES",
	"SPOTFINDER_RECOMMENDATION_LIMIT",
	"SPOTFINDER_DEFAULT_CURRENCY",
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ResultCacheTTLMinutes, convey.ShouldEqual, 30)
				convey.So(cfg.PricingCacheTTLMinutes, convey.ShouldEqual, 240)
				convey.So(cfg.RecommendationLimit, convey.ShouldEqual, 5)
				convey.So(cfg.MaxListLimit, convey.ShouldEqual, 1000)
				convey.So(cfg.PricingBatchSize, convey.ShouldEqual, 10)
				convey.So(cfg.DefaultCurrency, convey.ShouldEqual, "USD")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("SPOTFINDER_ADDR", ":8080")
			_ = os.Setenv("SPOTFINDER_SUBSCRIPTION_ID", "sub-123")
			_ = os.Setenv("SPOTFINDER_RESULT_CACHE_TTL_MINUTES", "15")
			_ = os.Setenv("SPOTFINDER_DEFAULT_CURRENCY", "EUR")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SubscriptionID, convey.ShouldEqual, "sub-123")
				convey.So(cfg.ResultCacheTTLMinutes, convey.ShouldEqual, 15)
				convey.So(cfg.DefaultCurrency, convey.ShouldEqual, "EUR")
				convey.So(cfg.PricingCacheTTLMinutes, convey.ShouldEqual, 240)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()
			yamlContent := `
addr: ":9090"
subscription_id: "sub-yaml"
recommendation_limit: 10
`
			path := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("SPOTFINDER_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the file overrides defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SubscriptionID, convey.ShouldEqual, "sub-yaml")
				convey.So(cfg.RecommendationLimit, convey.ShouldEqual, 10)
			})

			convey.Convey("And env vars still win over the file", func() {
				_ = os.Setenv("SPOTFINDER_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("SPOTFINDER_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a validated field is set out of range", func() {
			clearConfigEnvVars()
			_ = os.Setenv("SPOTFINDER_RESULT_CACHE_TTL_MINUTES", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with an invalid-config error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
