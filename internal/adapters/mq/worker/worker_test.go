package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	queue "github.com/skipperlabs/skipper/internal/adapters/mq/queue"
	worker "github.com/skipperlabs/skipper/internal/adapters/mq/worker"
	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
	"github.com/skipperlabs/skipper/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// memSink collects stored batches and signals each Put.
type memSink struct {
	mu      sync.Mutex
	batches map[string]model.Batch
	putCh   chan string
}

func newMemSink() *memSink {
	return &memSink{
		batches: make(map[string]model.Batch),
		putCh:   make(chan string, 16),
	}
}

func (s *memSink) Put(_ context.Context, b model.Batch) error {
	s.mu.Lock()
	s.batches[b.BatchID] = b
	s.mu.Unlock()
	s.putCh <- b.BatchID
	return nil
}

func (s *memSink) get(id string) (model.Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	return b, ok
}

func waitFor(t *testing.T, s *memSink, id string) model.Batch {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-s.putCh:
			if got == id {
				b, _ := s.get(id)
				return b
			}
		case <-deadline:
			t.Fatalf("batch %s was never stored", id)
		}
	}
}

func TestWorkerPipeline(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Convey("Given a running worker", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewMemoryQueue(queue.WithCapacity(8))
		sink := newMemSink()
		w := worker.NewWorker(q, scoring.NewEngine(), sink, worker.WithName("test-worker"))
		go w.Run(ctx)

		weights := model.Weights{Win: 0.4, Close: 0.2, Player: 0.2, Strategy: 0.2}

		Convey("When a valid job is enqueued", func() {
			job := worker.Job{
				BatchID: "batch-ok",
				Weights: weights,
				Records: []model.CaptainRecord{
					{Name: "A", MatchesPlayed: 10, MatchesWon: 8},
					{Name: "B", MatchesPlayed: 10, MatchesWon: 2},
				},
			}
			So(q.Enqueue(ctx, job), ShouldBeTrue)

			Convey("Then the scored batch lands in the sink", func() {
				b := waitFor(t, sink, "batch-ok")
				So(b.Failed(), ShouldBeFalse)
				So(b.Entries, ShouldHaveLength, 2)
				So(b.Entries[0].Name, ShouldEqual, "A")
				So(b.Summary.BestCaptain, ShouldEqual, "A")
				So(b.Summary.Captains, ShouldEqual, 2)
				So(b.CreatedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When a job fails validation", func() {
			job := worker.Job{
				BatchID: "batch-bad",
				Weights: weights,
				Records: []model.CaptainRecord{
					{Name: "Broken", MatchesPlayed: 1, MatchesWon: 5},
				},
			}
			So(q.Enqueue(ctx, job), ShouldBeTrue)

			Convey("Then a failed batch with the message and no entries is stored", func() {
				b := waitFor(t, sink, "batch-bad")
				So(b.Failed(), ShouldBeTrue)
				So(b.Err, ShouldContainSubstring, "Broken")
				So(b.Entries, ShouldBeEmpty)
			})
		})

		Convey("When the worker is shut down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(ctx, time.Second)
			defer shutdownCancel()

			So(w.Shutdown(shutdownCtx), ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Convey("Given a worker pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewMemoryQueue(queue.WithCapacity(32))
		sink := newMemSink()
		pool := worker.NewPool(3, q, scoring.NewEngine(), sink)

		Convey("Then the requested worker count is honored", func() {
			So(pool.Size(), ShouldEqual, 3)
		})

		Convey("And a non-positive count falls back to the default", func() {
			So(worker.NewPool(0, q, scoring.NewEngine(), sink).Size(), ShouldEqual, 4)
		})

		Convey("When jobs flow through the pool", func() {
			pool.Start(ctx)
			defer pool.Stop()

			for _, id := range []string{"p1", "p2", "p3"} {
				So(q.Enqueue(ctx, worker.Job{
					BatchID: id,
					Weights: model.Weights{Win: 1},
					Records: []model.CaptainRecord{{Name: "cap", MatchesPlayed: 4, MatchesWon: 2}},
				}), ShouldBeTrue)
			}

			Convey("Then every batch is scored and stored", func() {
				for _, id := range []string{"p1", "p2", "p3"} {
					b := waitFor(t, sink, id)
					So(b.Failed(), ShouldBeFalse)
					So(b.Entries[0].CaptaincyScore, ShouldEqual, 50.0)
				}
			})
		})
	})
}
