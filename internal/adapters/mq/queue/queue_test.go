package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory job queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueuing within capacity", func() {
			ok1 := q.Enqueue(ctx, queue.Job{PlanID: "a"})
			ok2 := q.Enqueue(ctx, queue.Job{PlanID: "b"})

			Convey("Then both jobs should be accepted", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("Then a third job should hit backpressure", func() {
				So(q.Enqueue(ctx, queue.Job{PlanID: "c"}), ShouldBeFalse)
			})
		})

		Convey("When dequeuing", func() {
			q.Enqueue(ctx, queue.Job{PlanID: "x"})
			ch := q.Dequeue(ctx)

			Convey("Then the job should arrive in order", func() {
				select {
				case j := <-ch:
					So(j.PlanID, ShouldEqual, "x")
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for job")
				}
			})
		})

		Convey("When closing the queue", func() {
			q.Enqueue(ctx, queue.Job{PlanID: "last"})
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue should be rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Job{PlanID: "late"}), ShouldBeFalse)
			})

			Convey("Then buffered jobs should drain before the channel closes", func() {
				ch := q.Dequeue(ctx)
				j, open := <-ch
				So(open, ShouldBeTrue)
				So(j.PlanID, ShouldEqual, "last")
				_, open = <-ch
				So(open, ShouldBeFalse)
			})

			Convey("Then closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the dequeue context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			ch := q.Dequeue(cctx)
			cancel()

			Convey("Then the consumer channel should close", func() {
				select {
				case _, open := <-ch:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("consumer channel did not close")
				}
			})
		})
	})

	Convey("Given a queue under concurrent producers", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(1000))

		Convey("When 100 producers each enqueue 10 jobs", func() {
			done := make(chan struct{})
			for p := 0; p < 100; p++ {
				go func(p int) {
					for i := 0; i < 10; i++ {
						q.Enqueue(ctx, queue.Job{PlanID: fmt.Sprintf("%d-%d", p, i)})
					}
					done <- struct{}{}
				}(p)
			}
			for p := 0; p < 100; p++ {
				<-done
			}

			Convey("Then all jobs should be buffered", func() {
				So(q.Len(ctx), ShouldEqual, 1000)
			})
		})
	})
}
