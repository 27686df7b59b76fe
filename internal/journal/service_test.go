package journal_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	appErrors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	journalDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/journal"
	"github.com/frahmantamala/mibu/internal/journal"
	"github.com/frahmantamala/mibu/internal/realtime"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type MockRepository struct {
	rows      map[int64]*journalDatamodel.JournalEntry
	nextID    int64
	lastLimit int
	err       error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{rows: make(map[int64]*journalDatamodel.JournalEntry)}
}

func (m *MockRepository) List(ctx context.Context, userID int64, limit int) ([]*journalDatamodel.JournalEntry, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	var out []*journalDatamodel.JournalEntry
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRepository) Create(ctx context.Context, e *journalDatamodel.JournalEntry) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	e.ID = m.nextID
	cp := *e
	m.rows[e.ID] = &cp
	return nil
}

func (m *MockRepository) Update(ctx context.Context, e *journalDatamodel.JournalEntry) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	r, ok := m.rows[e.ID]
	if !ok || r.UserID != e.UserID {
		return false, nil
	}
	cp := *e
	m.rows[e.ID] = &cp
	return true, nil
}

func (m *MockRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	r, ok := m.rows[id]
	if !ok || r.UserID != userID {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

var _ = Describe("Journal Service", func() {
	const userID int64 = 8

	var (
		ctx     context.Context
		repo    *MockRepository
		service *journal.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = NewMockRepository()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		clk := clock.Fixed(time.Date(2024, time.June, 15, 22, 0, 0, 0, time.FixedZone("WIB", 7*3600)))
		service = journal.NewService(repo, realtime.NopNotifier{}, clk, slogger)
	})

	It("dates a new entry today and normalizes the mood", func() {
		entry, err := service.CreateEntry(ctx, userID, journal.EntryDTO{Title: "Hari yang panjang", Content: "Capek", Mood: " Sedih "})
		Expect(err).NotTo(HaveOccurred())
		Expect(entry.ID).To(Equal(int64(1)))
		Expect(entry.Mood).To(Equal("sedih"))
		Expect(entry.EntryDate).To(Equal(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
	})

	It("rejects an unknown mood", func() {
		_, err := service.CreateEntry(ctx, userID, journal.EntryDTO{Title: "Catatan", Mood: "bingung"})
		Expect(err).To(MatchError(ContainSubstring("mood")))
		Expect(repo.rows).To(BeEmpty())
	})

	It("replaces an entry of the caller only", func() {
		entry, err := service.CreateEntry(ctx, userID, journal.EntryDTO{Title: "Draft"})
		Expect(err).NotTo(HaveOccurred())

		_, err = service.UpdateEntry(ctx, userID+1, entry.ID, journal.EntryDTO{Title: "Bukan milikku"})
		Expect(err).To(MatchError(appErrors.ErrJournalNotFound))

		updated, err := service.UpdateEntry(ctx, userID, entry.ID, journal.EntryDTO{Title: "Final", EntryDate: "2024-06-14"})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Title).To(Equal("Final"))
		Expect(repo.rows[entry.ID].EntryDate).To(Equal(time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)))
	})

	It("clamps the page size", func() {
		_, err := service.ListEntries(ctx, userID, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.lastLimit).To(Equal(50))

		_, err = service.ListEntries(ctx, userID, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.lastLimit).To(Equal(10))
	})

	It("deletes entries and reports missing ones", func() {
		entry, err := service.CreateEntry(ctx, userID, journal.EntryDTO{Title: "Sementara"})
		Expect(err).NotTo(HaveOccurred())

		Expect(service.DeleteEntry(ctx, userID, entry.ID)).To(Succeed())
		Expect(service.DeleteEntry(ctx, userID, entry.ID)).To(MatchError(appErrors.ErrJournalNotFound))
	})

	It("wraps storage failures as backend errors", func() {
		repo.err = errors.New("connection reset")

		_, err := service.ListEntries(ctx, userID, 0)
		appErr, ok := appErrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(appErrors.ErrCodeBackendUnavailable))
	})
})
