package realtime_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/realtime"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Feed", func() {
	var (
		bus  *events.EventBus
		feed *realtime.Feed
		ctx  context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		feed = realtime.NewFeed(bus, logger)
		ctx = context.Background()
	})

	It("delivers changes of the subscribed tables for the user", func() {
		sub := feed.Subscribe(1, events.TableExpenses, events.TableShoppingItems)
		defer sub.Close()

		feed.Notify(ctx, 1, events.TableExpenses, events.OpInsert, 10)

		var change realtime.Change
		Eventually(sub.C()).Should(Receive(&change))
		Expect(change.Table).To(Equal(events.TableExpenses))
		Expect(change.Op).To(Equal(events.OpInsert))
		Expect(change.RowID).To(Equal(int64(10)))
		Expect(change.OccurredAt).NotTo(BeZero())
	})

	It("filters out other users and other tables", func() {
		sub := feed.Subscribe(1, events.TableExpenses)
		defer sub.Close()

		feed.Notify(ctx, 2, events.TableExpenses, events.OpInsert, 1)
		feed.Notify(ctx, 1, events.TableTasks, events.OpInsert, 1)

		Consistently(sub.C(), "50ms").ShouldNot(Receive())
	})

	It("ignores notifications without a user", func() {
		sub := feed.Subscribe(0, events.TableExpenses)
		defer sub.Close()

		feed.Notify(ctx, 0, events.TableExpenses, events.OpInsert, 1)
		Consistently(sub.C(), "50ms").ShouldNot(Receive())
	})

	It("registers one handler per table even when listed twice", func() {
		sub := feed.Subscribe(1, events.TableTasks, events.TableTasks)
		defer sub.Close()

		Expect(bus.HandlerCount(events.ChangeEventType(events.TableTasks))).To(Equal(1))
	})

	It("unsubscribes and closes the channel on Close, twice without panic", func() {
		sub := feed.Subscribe(1, events.TableExpenses, events.TableEvents)
		Expect(bus.HandlerCount(events.ChangeEventType(events.TableExpenses))).To(Equal(1))

		sub.Close()
		sub.Close()

		Expect(bus.HandlerCount(events.ChangeEventType(events.TableExpenses))).To(BeZero())
		Expect(bus.HandlerCount(events.ChangeEventType(events.TableEvents))).To(BeZero())
		Eventually(sub.C()).Should(BeClosed())

		feed.Notify(ctx, 1, events.TableExpenses, events.OpDelete, 3)
	})
})
