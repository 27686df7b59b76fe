package shopping_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	appErrors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/expense"
	"github.com/frahmantamala/mibu/internal/shopping"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// FakeLedger records calls and keeps the set of purchased items. With a gate
// set, writes signal entered and then wait for the gate before answering.
type FakeLedger struct {
	mu        sync.Mutex
	recorded  []expense.RecordExpenseDTO
	removed   []expense.RemoveExpenseDTO
	purchased map[int64]bool
	failErr   error
	readErr   error
	gate      chan struct{}
	entered   chan struct{}
}

func (f *FakeLedger) wait(ctx context.Context) error {
	gate := f.gate
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failErr
}

func (f *FakeLedger) RecordExpense(ctx context.Context, userID int64, dto expense.RecordExpenseDTO) (*expense.Expense, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, dto)
	f.setPurchased(*dto.ShoppingItemID, true)
	return &expense.Expense{ID: int64(len(f.recorded)), UserID: userID, AmountIDR: dto.AmountIDR, ShoppingItemID: dto.ShoppingItemID}, nil
}

func (f *FakeLedger) RemoveExpense(ctx context.Context, _ int64, dto expense.RemoveExpenseDTO) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, dto)
	f.setPurchased(*dto.ShoppingItemID, false)
	return nil
}

func (f *FakeLedger) PurchasedItemIDs(context.Context, int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	ids := make(map[int64]bool, len(f.purchased))
	for id, ok := range f.purchased {
		ids[id] = ok
	}
	return ids, nil
}

// MarkPurchased changes the purchased set the way a write elsewhere would.
func (f *FakeLedger) MarkPurchased(itemID int64, purchased bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setPurchased(itemID, purchased)
}

func (f *FakeLedger) setPurchased(itemID int64, purchased bool) {
	if f.purchased == nil {
		f.purchased = make(map[int64]bool)
	}
	if purchased {
		f.purchased[itemID] = true
		return
	}
	delete(f.purchased, itemID)
}

func (f *FakeLedger) SetFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failErr = err
}

var _ = Describe("Shopping List", func() {
	var (
		ledger *FakeLedger
		list   *shopping.List
		ctx    context.Context
		rice   shopping.Item
		eggs   shopping.Item
	)

	BeforeEach(func() {
		ledger = &FakeLedger{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		list = shopping.NewList(1, ledger, logger)
		ctx = context.Background()

		rice = shopping.Item{ID: 1, UserID: 1, Name: "Beras", UnitPriceIDR: 65_000, Quantity: 1}
		eggs = shopping.Item{ID: 2, UserID: 1, Name: "Telur", UnitPriceIDR: 2_500, Quantity: 10}
		list.Replace([]shopping.Item{rice, eggs})
	})

	It("records unit price times quantity against the item", func() {
		item, err := list.Toggle(ctx, eggs.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(item.Purchased).To(BeTrue())
		Expect(list.Phase(eggs.ID)).To(Equal(shopping.PhaseCommitted))

		Expect(ledger.recorded).To(HaveLen(1))
		Expect(ledger.recorded[0].AmountIDR).To(Equal(int64(25_000)))
		Expect(ledger.recorded[0].Name).To(Equal("Telur"))
		Expect(*ledger.recorded[0].ShoppingItemID).To(Equal(eggs.ID))
	})

	It("returns to the starting state after toggling twice", func() {
		_, err := list.Toggle(ctx, rice.ID)
		Expect(err).NotTo(HaveOccurred())
		item, err := list.Toggle(ctx, rice.ID)
		Expect(err).NotTo(HaveOccurred())

		Expect(item).To(Equal(rice))
		Expect(ledger.recorded).To(HaveLen(1))
		Expect(ledger.removed).To(HaveLen(1))
		Expect(*ledger.removed[0].ShoppingItemID).To(Equal(rice.ID))
	})

	It("restores the exact prior item when the ledger fails", func() {
		ledger.SetFail(appErrors.NewBackendError("failed to record expense", errors.New("network down")))

		item, err := list.Toggle(ctx, rice.ID)
		Expect(err).To(HaveOccurred())
		Expect(item).To(Equal(rice))
		Expect(list.Phase(rice.ID)).To(Equal(shopping.PhaseRolledBack))

		current, ok := list.Get(rice.ID)
		Expect(ok).To(BeTrue())
		Expect(current).To(Equal(rice))
		Expect(ledger.recorded).To(BeEmpty())
	})

	It("unpurchases an item whose expense was recorded elsewhere", func() {
		ledger.MarkPurchased(rice.ID, true)

		item, err := list.Toggle(ctx, rice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(item.Purchased).To(BeFalse())
		Expect(ledger.recorded).To(BeEmpty())
		Expect(ledger.removed).To(HaveLen(1))
	})

	It("purchases an item whose expense was removed elsewhere", func() {
		_, err := list.Toggle(ctx, rice.ID)
		Expect(err).NotTo(HaveOccurred())
		ledger.MarkPurchased(rice.ID, false)

		item, err := list.Toggle(ctx, rice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(item.Purchased).To(BeTrue())
		Expect(ledger.recorded).To(HaveLen(2))
		Expect(ledger.removed).To(BeEmpty())
	})

	It("leaves the item untouched when today's purchases cannot be read", func() {
		ledger.readErr = appErrors.NewBackendError("failed to load purchased items", errors.New("timeout"))

		item, err := list.Toggle(ctx, rice.ID)
		Expect(err).To(HaveOccurred())
		Expect(item).To(Equal(rice))
		Expect(list.Phase(rice.ID)).To(Equal(shopping.PhaseIdle))
		Expect(ledger.recorded).To(BeEmpty())
	})

	It("returns not found for unknown items", func() {
		_, err := list.Toggle(ctx, 99)
		Expect(errors.Is(err, appErrors.ErrShoppingItemNotFound)).To(BeTrue())
	})

	Context("while a toggle is pending", func() {
		var (
			done    chan error
			release func()
		)

		BeforeEach(func() {
			gate := make(chan struct{})
			var once sync.Once
			release = func() { once.Do(func() { close(gate) }) }

			ledger.gate = gate
			ledger.entered = make(chan struct{}, 4)
			done = make(chan error, 1)
			go func() {
				_, err := list.Toggle(ctx, rice.ID)
				done <- err
			}()
			Eventually(ledger.entered).Should(Receive())
		})

		AfterEach(func() {
			release()
			Eventually(done).Should(Receive())
		})

		It("shows the optimistic flip to readers", func() {
			Expect(list.Phase(rice.ID)).To(Equal(shopping.PhasePending))
			item, _ := list.Get(rice.ID)
			Expect(item.Purchased).To(BeTrue())
		})

		It("keeps the pending item when storage is re-read", func() {
			stale := rice
			stale.Name = "Beras Premium"
			list.Replace([]shopping.Item{eggs, stale})

			item, ok := list.Get(rice.ID)
			Expect(ok).To(BeTrue())
			Expect(item.Purchased).To(BeTrue())
			Expect(item.Name).To(Equal("Beras"))
		})

		It("keeps the pending item even when the re-read omits it", func() {
			list.Replace([]shopping.Item{eggs})
			_, ok := list.Get(rice.ID)
			Expect(ok).To(BeTrue())
			Expect(list.Items()).To(HaveLen(2))
		})

		It("makes a second toggle of the same item wait", func() {
			waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()

			_, err := list.Toggle(waitCtx, rice.ID)
			Expect(err).To(HaveOccurred())
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(appErrors.ErrCodeToggleInProgress))
			Expect(ledger.entered).NotTo(Receive())
		})

		It("makes a hold on the same item wait", func() {
			waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()

			_, err := list.Hold(waitCtx, rice.ID)
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(appErrors.ErrCodeToggleInProgress))
		})

		It("gives up a waiting toggle when the item is removed", func() {
			second := make(chan error, 1)
			go func() {
				_, err := list.Toggle(ctx, rice.ID)
				second <- err
			}()
			Consistently(second, 20*time.Millisecond).ShouldNot(Receive())

			list.Remove(rice.ID)
			release()
			var err error
			Eventually(second).Should(Receive(&err))
			Expect(errors.Is(err, appErrors.ErrShoppingItemNotFound)).To(BeTrue())
		})

		It("lets other items toggle independently", func() {
			second := make(chan error, 1)
			go func() {
				_, err := list.Toggle(ctx, eggs.ID)
				second <- err
			}()
			Eventually(ledger.entered).Should(Receive())
			Expect(list.Phase(eggs.ID)).To(Equal(shopping.PhasePending))

			release()
			Eventually(second).Should(Receive(BeNil()))
		})
	})
})
