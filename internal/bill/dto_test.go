package bill_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/billed-app/bill-service/internal/bill"
)

var _ = Describe("SubmitBillDTO", func() {
	Describe("AmountValue", func() {
		DescribeTable("parsing",
			func(raw string, want int) {
				dto := bill.SubmitBillDTO{Amount: raw}
				Expect(dto.AmountValue()).To(Equal(want))
			},
			Entry("plain integer", "348", 348),
			Entry("fraction truncated", "12.5", 12),
			Entry("trailing junk ignored", "42abc", 42),
			Entry("negative", "-7", -7),
			Entry("empty", "", 0),
			Entry("non-numeric", "abc", 0),
		)
	})

	Describe("PctValue", func() {
		DescribeTable("parsing with the 20 fallback",
			func(raw string, want int) {
				dto := bill.SubmitBillDTO{Pct: raw}
				Expect(dto.PctValue()).To(Equal(want))
			},
			Entry("explicit value", "15", 15),
			Entry("empty falls back", "", 20),
			Entry("non-numeric falls back", "abc", 20),
			Entry("zero falls back too", "0", 20),
			Entry("fraction truncated", "10.9", 10),
		)
	})
})
