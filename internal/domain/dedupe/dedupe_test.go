package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	dedupe "github.com/ywutian/admitscore/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should have default configuration", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When creating a deduper with custom options", func() {
			d := dedupe.NewInMemoryDeduper(
				dedupe.WithMaxSize(100),
			)

			Convey("Then it should have custom configuration", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording submissions", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the submission is new", func() {
				seen := d.SeenAndRecord(context.Background(), "sub-1")

				Convey("Then it should return false and record the ID", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the submission was already seen", func() {
				d.SeenAndRecord(context.Background(), "sub-1")

				seen := d.SeenAndRecord(context.Background(), "sub-1")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And multiple submissions are recorded", func() {
				ids := []string{"sub-1", "sub-2", "sub-3", "sub-4", "sub-5"}

				for _, id := range ids {
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all IDs should be recorded", func() {
					So(d.Size(), ShouldEqual, int64(len(ids)))

					for _, id := range ids {
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})

		Convey("When unrecording submissions", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the ID exists", func() {
				d.SeenAndRecord(context.Background(), "sub-1")
				So(d.Size(), ShouldEqual, 1)

				d.Unrecord(context.Background(), "sub-1")

				Convey("Then it should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					seen := d.SeenAndRecord(context.Background(), "sub-1")
					So(seen, ShouldBeFalse)
				})
			})

			Convey("And the ID doesn't exist", func() {
				d.Unrecord(context.Background(), "nonexistent")

				Convey("Then it should not affect the size", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})

			Convey("And multiple IDs are unrecorded", func() {
				ids := []string{"sub-1", "sub-2", "sub-3"}

				for _, id := range ids {
					d.SeenAndRecord(context.Background(), id)
				}
				So(d.Size(), ShouldEqual, int64(len(ids)))

				for _, id := range ids {
					d.Unrecord(context.Background(), id)
				}

				Convey("Then all IDs should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					for _, id := range ids {
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeFalse)
					}
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			Convey("And the deduper is at capacity", func() {
				ids := []string{"sub-1", "sub-2", "sub-3"}
				for _, id := range ids {
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}
				So(d.Size(), ShouldEqual, 3)

				seen := d.SeenAndRecord(context.Background(), "sub-4")

				Convey("Then it should evict the oldest and add the new one", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)

					// The oldest ID was evicted, so re-adding it records it
					// fresh and forces another eviction; the size stays put.
					originalSize := d.Size()
					seen1 := d.SeenAndRecord(context.Background(), "sub-1")
					So(seen1, ShouldBeFalse)
					So(d.Size(), ShouldEqual, originalSize)
				})
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

			Convey("And many submissions are recorded", func() {
				const numIDs = 1000
				for i := 0; i < numIDs; i++ {
					id := fmt.Sprintf("sub-%d", i)
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all IDs should be recorded without eviction", func() {
					So(d.Size(), ShouldEqual, int64(numIDs))

					for i := 0; i < numIDs; i++ {
						id := fmt.Sprintf("sub-%d", i)
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1000))
		const numGoroutines = 10
		const idsPerGoroutine = 100

		Convey("When multiple goroutines record concurrently", func() {
			var wg sync.WaitGroup

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < idsPerGoroutine; j++ {
						id := fmt.Sprintf("sub-%d-%d", goroutineID, j)
						d.SeenAndRecord(context.Background(), id)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then all IDs should be recorded successfully", func() {
				So(d.Size(), ShouldEqual, int64(numGoroutines*idsPerGoroutine))
			})
		})

		Convey("When multiple goroutines unrecord concurrently", func() {
			const numIDs = 500
			for i := 0; i < numIDs; i++ {
				d.SeenAndRecord(context.Background(), fmt.Sprintf("sub-%d", i))
			}

			So(d.Size(), ShouldEqual, int64(numIDs))

			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < numIDs/numGoroutines; j++ {
						id := fmt.Sprintf("sub-%d", goroutineID*(numIDs/numGoroutines)+j)
						d.Unrecord(context.Background(), id)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then all IDs should be unrecorded successfully", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestDedupeEdgeCases(t *testing.T) {
	Convey("Given a deduper with edge cases", t, func() {
		Convey("When recording an empty string", func() {
			d := dedupe.NewInMemoryDeduper()

			seen := d.SeenAndRecord(context.Background(), "")

			Convey("Then it should handle the empty string", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				seen2 := d.SeenAndRecord(context.Background(), "")
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When recording very long IDs", func() {
			d := dedupe.NewInMemoryDeduper()

			longID := strings.Repeat("a", 10000)
			seen := d.SeenAndRecord(context.Background(), longID)

			Convey("Then it should handle long IDs", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				seen2 := d.SeenAndRecord(context.Background(), longID)
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When using a nil context", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should not panic", func() {
				So(func() { d.SeenAndRecord(nil, "sub-1") }, ShouldNotPanic)
				So(func() { d.Unrecord(nil, "sub-1") }, ShouldNotPanic)
			})
		})

		Convey("When using a max size of one", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1))

			Convey("And adding multiple IDs", func() {
				seen1 := d.SeenAndRecord(context.Background(), "sub-1")
				So(seen1, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// Second ID evicts the first.
				seen2 := d.SeenAndRecord(context.Background(), "sub-2")
				So(seen2, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				seen1Again := d.SeenAndRecord(context.Background(), "sub-1")
				So(seen1Again, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When using negative max size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-1))

			Convey("Then it should be unbounded", func() {
				const numIDs = 1000
				for i := 0; i < numIDs; i++ {
					id := fmt.Sprintf("sub-%d", i)
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				So(d.Size(), ShouldEqual, int64(numIDs))
			})
		})
	})
}

func TestDedupeOptions(t *testing.T) {
	Convey("Given dedupe options", t, func() {
		Convey("When using WithMaxSize", func() {
			Convey("Then it should set the max size", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(500))
				So(d, ShouldNotBeNil)
			})

			Convey("And when max size is zero", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
				So(d, ShouldNotBeNil)
			})

			Convey("And when max size is negative", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-100))
				So(d, ShouldNotBeNil)
			})
		})
	})
}
