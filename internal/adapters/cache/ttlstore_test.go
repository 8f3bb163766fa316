package cache_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	cache "github.com/okian/spotfinder/internal/adapters/cache"
)

func TestTTLStore(t *testing.T) {
	Convey("Given a TTL store with an injected clock", t, func() {
		ctx := context.Background()
		now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		store := cache.NewTTLStore(
			cache.WithName("test"),
			cache.WithDefaultTTL(30*time.Minute),
			cache.WithClock(clock),
		)

		Convey("When a value is set and read back within the TTL", func() {
			store.Set(ctx, "k1", "v1", 0)

			Convey("Then the lookup hits", func() {
				v, ok := store.Get(ctx, "k1")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "v1")
			})
		})

		Convey("When the TTL elapses", func() {
			store.Set(ctx, "k1", "v1", 10*time.Minute)
			now = now.Add(11 * time.Minute)

			Convey("Then the lookup misses and the entry is dropped", func() {
				_, ok := store.Get(ctx, "k1")
				So(ok, ShouldBeFalse)
				So(store.Len(), ShouldEqual, 0)
			})
		})

		Convey("When time stops just short of the deadline", func() {
			store.Set(ctx, "k1", "v1", 10*time.Minute)
			now = now.Add(10 * time.Minute)

			Convey("Then the entry is still live", func() {
				_, ok := store.Get(ctx, "k1")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When a key is overwritten", func() {
			store.Set(ctx, "k1", "v1", 0)
			store.Set(ctx, "k1", "v2", 0)

			Convey("Then the last write wins and the count stays one", func() {
				v, ok := store.Get(ctx, "k1")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "v2")
				So(store.Len(), ShouldEqual, 1)
			})
		})

		Convey("When a missing key is read", func() {
			_, ok := store.Get(ctx, "absent")

			Convey("Then the lookup misses", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a store bounded to two entries", t, func() {
		ctx := context.Background()
		store := cache.NewTTLStore(
			cache.WithName("bounded"),
			cache.WithMaxEntries(2),
		)

		Convey("When a third entry is inserted", func() {
			store.Set(ctx, "a", 1, 0)
			store.Set(ctx, "b", 2, 0)
			store.Set(ctx, "c", 3, 0)

			Convey("Then the oldest entry is evicted", func() {
				So(store.Len(), ShouldEqual, 2)
				_, ok := store.Get(ctx, "a")
				So(ok, ShouldBeFalse)
				_, ok = store.Get(ctx, "b")
				So(ok, ShouldBeTrue)
				_, ok = store.Get(ctx, "c")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When an existing key is rewritten at the bound", func() {
			store.Set(ctx, "a", 1, 0)
			store.Set(ctx, "b", 2, 0)
			store.Set(ctx, "b", 22, 0)

			Convey("Then no eviction happens", func() {
				So(store.Len(), ShouldEqual, 2)
				_, ok := store.Get(ctx, "a")
				So(ok, ShouldBeTrue)
			})
		})
	})
}
