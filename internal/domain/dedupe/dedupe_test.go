package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/skipperlabs/skipper/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeduper(t *testing.T) {
	Convey("Given a bounded deduper", t, func() {
		ctx := context.Background()
		d := dedupe.New(dedupe.WithMaxSize(3))

		Convey("When recording a new key", func() {
			seen := d.SeenAndRecord(ctx, "batch-1")

			Convey("Then it reports unseen and remembers it", func() {
				So(seen, ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "batch-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a recorded key is unrecorded", func() {
			d.SeenAndRecord(ctx, "batch-1")
			d.Unrecord(ctx, "batch-1")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "batch-1"), ShouldBeFalse)
			})
		})

		Convey("When the bound is exceeded", func() {
			for i := 0; i < 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("batch-%d", i))
			}

			Convey("Then the oldest key is evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "batch-0"), ShouldBeFalse) // evicted, so unseen again
				So(d.SeenAndRecord(ctx, "batch-3"), ShouldBeTrue)
			})
		})

		Convey("When unrecording an unknown key", func() {
			d.Unrecord(ctx, "never-seen")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}
