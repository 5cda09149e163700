package bill_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/billed-app/bill-service/internal/bill"
)

var _ = Describe("ValidateFile", func() {
	DescribeTable("accepted receipt types",
		func(mimeType string) {
			validation := bill.ValidateFile(bill.FileMeta{Name: "receipt", MimeType: mimeType})

			Expect(validation.Accepted).To(BeTrue())
			Expect(validation.Reason).To(BeEmpty())
		},
		Entry("jpeg", "image/jpeg"),
		Entry("jpg", "image/jpg"),
		Entry("png", "image/png"),
	)

	DescribeTable("rejected types",
		func(mimeType string) {
			validation := bill.ValidateFile(bill.FileMeta{Name: "doc", MimeType: mimeType})

			Expect(validation.Accepted).To(BeFalse())
			Expect(validation.Reason).To(Equal(bill.RejectedFileMessage))
		},
		Entry("plain text", "text/plain"),
		Entry("pdf", "application/pdf"),
		Entry("gif", "image/gif"),
		Entry("uppercase variant of an accepted type", "IMAGE/PNG"),
		Entry("empty", ""),
	)

	It("only consults the declared type, never the file name", func() {
		validation := bill.ValidateFile(bill.FileMeta{Name: "receipt.png", MimeType: "application/pdf"})

		Expect(validation.Accepted).To(BeFalse())
	})

	It("carries the file name through either verdict", func() {
		accepted := bill.ValidateFile(bill.FileMeta{Name: "a.png", MimeType: "image/png"})
		rejected := bill.ValidateFile(bill.FileMeta{Name: "b.txt", MimeType: "text/plain"})

		Expect(accepted.FileName).To(Equal("a.png"))
		Expect(rejected.FileName).To(Equal("b.txt"))
	})

	It("judges each file independently of previous outcomes", func() {
		first := bill.ValidateFile(bill.FileMeta{Name: "bad.txt", MimeType: "text/plain"})
		second := bill.ValidateFile(bill.FileMeta{Name: "good.png", MimeType: "image/png"})

		Expect(first.Accepted).To(BeFalse())
		Expect(second.Accepted).To(BeTrue())
		Expect(second.ErrorDisplay().Present).To(BeFalse())
	})
})

var _ = Describe("ErrorDisplay", func() {
	It("is present with the message after a rejection", func() {
		display := bill.ValidateFile(bill.FileMeta{MimeType: "text/plain"}).ErrorDisplay()

		Expect(display.Present).To(BeTrue())
		Expect(display.Message).To(Equal(bill.RejectedFileMessage))
	})

	It("is absent after an acceptance", func() {
		display := bill.ValidateFile(bill.FileMeta{MimeType: "image/jpeg"}).ErrorDisplay()

		Expect(display).To(Equal(bill.ErrorDisplay{}))
	})
})
