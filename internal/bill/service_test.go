package bill_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/billed-app/bill-service/internal"
	"github.com/billed-app/bill-service/internal/bill"
)

var _ = Describe("Service", func() {
	var (
		store   *mockRemoteStore
		service *bill.Service
	)

	BeforeEach(func() {
		store = newMockRemoteStore()
		service = bill.NewService(store, testLogger)
	})

	Describe("ListBills", func() {
		It("formats dates and statuses and returns newest first", func() {
			store.listResult = []bill.Bill{
				{Name: "oldest", Date: "2001-01-01", Status: bill.StatusRefused},
				{Name: "newest", Date: "2004-04-04", Status: bill.StatusPending},
				{Name: "middle", Date: "2003-03-03", Status: bill.StatusAccepted},
			}

			views, err := service.ListBills(context.Background())

			Expect(err).ToNot(HaveOccurred())
			Expect(views).To(HaveLen(3))
			Expect(views[0].Date).To(Equal("4 Avr. 04"))
			Expect(views[0].Status).To(Equal("En attente"))
			Expect(views[1].Date).To(Equal("2 Mar. 03"))
			Expect(views[1].Status).To(Equal("Accepté"))
			Expect(views[2].Date).To(Equal("1 Jan. 01"))
			Expect(views[2].Status).To(Equal("Refused"))
		})

		It("keeps a corrupted date as-is instead of dropping the bill", func() {
			store.listResult = []bill.Bill{
				{Name: "broken", Date: "not-a-date", Status: bill.StatusPending},
			}

			views, err := service.ListBills(context.Background())

			Expect(err).ToNot(HaveOccurred())
			Expect(views).To(HaveLen(1))
			Expect(views[0].Date).To(Equal("not-a-date"))
		})

		It("passes the store error through untouched", func() {
			store.listErr = internal.NewExternalError("Erreur 500", nil)

			views, err := service.ListBills(context.Background())

			Expect(views).To(BeNil())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal("Erreur 500"))
		})

		It("returns an empty list when the store holds nothing", func() {
			views, err := service.ListBills(context.Background())

			Expect(err).ToNot(HaveOccurred())
			Expect(views).To(BeEmpty())
		})
	})
})
