package bill_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/billed-app/bill-service/internal/bill"
)

var _ = Describe("SortDescending", func() {
	It("orders display dates newest first", func() {
		views := []bill.View{
			{Name: "oldest", Date: "1 Jan. 01"},
			{Name: "newest", Date: "4 Avr. 04"},
			{Name: "middle", Date: "2 Mar. 03"},
		}

		bill.SortDescending(views)

		Expect(views[0].Date).To(Equal("4 Avr. 04"))
		Expect(views[1].Date).To(Equal("2 Mar. 03"))
		Expect(views[2].Date).To(Equal("1 Jan. 01"))
	})

	It("leaves an already sorted slice untouched", func() {
		views := []bill.View{
			{Date: "4 Avr. 04"},
			{Date: "2 Mar. 03"},
			{Date: "1 Jan. 01"},
		}

		bill.SortDescending(views)

		Expect(views[0].Date).To(Equal("4 Avr. 04"))
		Expect(views[2].Date).To(Equal("1 Jan. 01"))
	})

	It("keeps the incoming order of equal dates", func() {
		views := []bill.View{
			{Name: "first", Date: "2 Mar. 03"},
			{Name: "second", Date: "2 Mar. 03"},
			{Name: "third", Date: "1 Jan. 01"},
		}

		bill.SortDescending(views)

		Expect(views[0].Name).To(Equal("first"))
		Expect(views[1].Name).To(Equal("second"))
	})

	It("handles empty and single-element slices", func() {
		Expect(func() { bill.SortDescending(nil) }).ToNot(Panic())

		one := []bill.View{{Date: "1 Jan. 01"}}
		bill.SortDescending(one)
		Expect(one).To(HaveLen(1))
	})
})
