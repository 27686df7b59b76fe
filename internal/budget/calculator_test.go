package budget_test

import (
	"time"

	"github.com/frahmantamala/mibu/internal/budget"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Budget Calculator", func() {
	DescribeTable("DaysInMonth",
		func(year int, month time.Month, expected int) {
			Expect(budget.DaysInMonth(year, month)).To(Equal(expected))
		},
		Entry("leap February", 2024, time.February, 29),
		Entry("common February", 2023, time.February, 28),
		Entry("century February", 1900, time.February, 28),
		Entry("April", 2024, time.April, 30),
		Entry("June", 2024, time.June, 30),
		Entry("December", 2024, time.December, 31),
	)

	DescribeTable("ComputeDailyLimit",
		func(salary, fixed int64, year int, month time.Month, expected int64) {
			Expect(budget.ComputeDailyLimit(salary, fixed, year, month)).To(Equal(expected))
		},
		Entry("rounds 1,000,000 over 29 days up", int64(1_000_000), int64(0), 2024, time.February, int64(34483)),
		Entry("fixed expenses exceed salary", int64(500_000), int64(600_000), 2024, time.June, int64(0)),
		Entry("fixed expenses equal salary", int64(600_000), int64(600_000), 2024, time.June, int64(0)),
		Entry("salary 3,000,000 minus 900,000 in June", int64(3_000_000), int64(900_000), 2024, time.June, int64(70_000)),
		Entry("no salary", int64(0), int64(0), 2024, time.June, int64(0)),
		Entry("exact half rounds away from zero", int64(15), int64(0), 2024, time.June, int64(1)),
		Entry("just below half rounds down", int64(14), int64(0), 2024, time.June, int64(0)),
		Entry("negative salary counts as zero", int64(-1_000_000), int64(0), 2024, time.June, int64(0)),
		Entry("negative fixed expenses count as zero", int64(300_000), int64(-90_000), 2024, time.June, int64(10_000)),
		Entry("31 day month", int64(3_100_000), int64(0), 2024, time.January, int64(100_000)),
	)

	It("never returns a negative limit", func() {
		amounts := []int64{0, 1, 999, 50_000, 1_000_000, 7_654_321, 25_000_000}
		for _, salary := range amounts {
			for _, fixed := range amounts {
				for month := time.January; month <= time.December; month++ {
					Expect(budget.ComputeDailyLimit(salary, fixed, 2025, month)).To(BeNumerically(">=", 0))
				}
			}
		}
	})

	Describe("IsOverBudget", func() {
		It("is never over budget when the limit is zero", func() {
			for _, spent := range []int64{0, 1, 90_000, 10_000_000} {
				Expect(budget.IsOverBudget(0, spent)).To(BeFalse())
			}
		})

		It("is over budget only when spending exceeds the limit", func() {
			Expect(budget.IsOverBudget(70_000, 90_000)).To(BeTrue())
			Expect(budget.IsOverBudget(70_000, 70_000)).To(BeFalse())
			Expect(budget.IsOverBudget(70_000, 10_000)).To(BeFalse())
		})
	})

	Describe("Overage and Remaining", func() {
		It("reports the amount spent past the limit", func() {
			Expect(budget.Overage(70_000, 90_000)).To(Equal(int64(20_000)))
			Expect(budget.Remaining(70_000, 90_000)).To(Equal(int64(0)))
		})

		It("reports what is left while under the limit", func() {
			Expect(budget.Overage(70_000, 40_000)).To(Equal(int64(0)))
			Expect(budget.Remaining(70_000, 40_000)).To(Equal(int64(30_000)))
		})

		It("has no overage without salary data", func() {
			Expect(budget.Overage(0, 50_000)).To(Equal(int64(0)))
		})
	})
})
