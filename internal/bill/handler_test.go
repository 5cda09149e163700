package bill_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/billed-app/bill-service/internal"
	"github.com/billed-app/bill-service/internal/bill"
)

func multipartBody(fieldName, fileName, mimeType string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	Expect(err).ToNot(HaveOccurred())
	_, err = part.Write(content)
	Expect(err).ToNot(HaveOccurred())
	Expect(writer.Close()).To(Succeed())

	return body, writer.FormDataContentType()
}

func authedRequest(method, target string, body *bytes.Buffer, email string) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(internal.ContextWithEmail(req.Context(), email))
}

var _ = Describe("Handler", func() {
	var (
		store   *mockRemoteStore
		handler *bill.Handler
	)

	BeforeEach(func() {
		store = newMockRemoteStore()
		manager := bill.NewManager(store, testLogger)
		service := bill.NewService(store, testLogger)
		handler = bill.NewHandler(manager, service)
	})

	Describe("HandleFileChange", func() {
		It("answers 200 with the acceptance for a png receipt", func() {
			body, contentType := multipartBody("file", "receipt.png", "image/png", []byte("png-bytes"))
			req := authedRequest(http.MethodPost, "/api/v1/bills/file", body, "a@a")
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			handler.HandleFileChange(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp struct {
				Accepted bool              `json:"accepted"`
				FileName string            `json:"fileName"`
				Error    bill.ErrorDisplay `json:"error"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Accepted).To(BeTrue())
			Expect(resp.FileName).To(Equal("receipt.png"))
			Expect(resp.Error.Present).To(BeFalse())

			Eventually(store.createCallCount).Should(Equal(1))
			Expect(store.lastCreateCall().Email).To(Equal("a@a"))
		})

		It("answers 200 with the rejection message for a text file", func() {
			body, contentType := multipartBody("file", "notes.txt", "text/plain", []byte("text"))
			req := authedRequest(http.MethodPost, "/api/v1/bills/file", body, "a@a")
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			handler.HandleFileChange(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp struct {
				Accepted bool              `json:"accepted"`
				Error    bill.ErrorDisplay `json:"error"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Accepted).To(BeFalse())
			Expect(resp.Error.Present).To(BeTrue())
			Expect(resp.Error.Message).To(Equal(bill.RejectedFileMessage))

			Consistently(store.createCallCount).Should(Equal(0))
		})

		It("rejects a request without an authenticated email", func() {
			body, contentType := multipartBody("file", "receipt.png", "image/png", []byte("png"))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/file", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			handler.HandleFileChange(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a request missing the file part", func() {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			Expect(writer.WriteField("other", "x")).To(Succeed())
			Expect(writer.Close()).To(Succeed())

			req := authedRequest(http.MethodPost, "/api/v1/bills/file", body, "a@a")
			req.Header.Set("Content-Type", writer.FormDataContentType())
			rec := httptest.NewRecorder()

			handler.HandleFileChange(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("HandleSubmit", func() {
		submitAccepted := func(email string) {
			body, contentType := multipartBody("file", "receipt.png", "image/png", []byte("png"))
			req := authedRequest(http.MethodPost, "/api/v1/bills/file", body, email)
			req.Header.Set("Content-Type", contentType)
			handler.HandleFileChange(httptest.NewRecorder(), req)
			Eventually(store.createCallCount).ShouldNot(BeZero())
		}

		It("answers 204 with the navigation target when the gate passes", func() {
			submitAccepted("a@a")

			payload := bytes.NewBufferString(`{"type":"Transports","name":"vol","amount":"100","date":"2004-04-04","vat":"20","pct":""}`)
			req := authedRequest(http.MethodPost, "/api/v1/bills", payload, "a@a")
			rec := httptest.NewRecorder()

			handler.HandleSubmit(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(rec.Header().Get("Location")).To(Equal(bill.RouteBills))

			Eventually(store.updateCallCount).Should(Equal(1))
			persisted, _ := store.lastUpdate()
			Expect(persisted.Email).To(Equal("a@a"))
			Expect(persisted.Status).To(Equal(bill.StatusPending))
			Expect(persisted.Pct).To(Equal(20))
		})

		It("answers 204 without a Location when the gate is closed", func() {
			payload := bytes.NewBufferString(`{"name":"no file yet"}`)
			req := authedRequest(http.MethodPost, "/api/v1/bills", payload, "a@a")
			rec := httptest.NewRecorder()

			handler.HandleSubmit(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(rec.Header().Get("Location")).To(BeEmpty())
			Consistently(store.updateCallCount).Should(Equal(0))
		})

		It("rejects an unreadable body", func() {
			req := authedRequest(http.MethodPost, "/api/v1/bills",
				bytes.NewBufferString("{not json"), "a@a")
			rec := httptest.NewRecorder()

			handler.HandleSubmit(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("hands out a fresh submission after a successful submit", func() {
			submitAccepted("a@a")

			payload := bytes.NewBufferString(`{"name":"first"}`)
			req := authedRequest(http.MethodPost, "/api/v1/bills", payload, "a@a")
			handler.HandleSubmit(httptest.NewRecorder(), req)

			// the released slot means a second submit hits a closed gate
			again := authedRequest(http.MethodPost, "/api/v1/bills",
				bytes.NewBufferString(`{"name":"second"}`), "a@a")
			rec := httptest.NewRecorder()
			handler.HandleSubmit(rec, again)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(rec.Header().Get("Location")).To(BeEmpty())
			Eventually(store.updateCallCount).Should(Equal(1))
			Consistently(store.updateCallCount).Should(Equal(1))
		})
	})

	Describe("ListBills", func() {
		It("returns the formatted, sorted bills", func() {
			store.listResult = []bill.Bill{
				{Name: "old", Date: "2001-01-01", Status: bill.StatusRefused},
				{Name: "new", Date: "2004-04-04", Status: bill.StatusPending},
			}

			req := authedRequest(http.MethodGet, "/api/v1/bills", nil, "a@a")
			rec := httptest.NewRecorder()

			handler.ListBills(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp struct {
				Bills []bill.View `json:"bills"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Bills).To(HaveLen(2))
			Expect(resp.Bills[0].Name).To(Equal("new"))
			Expect(resp.Bills[0].Date).To(Equal("4 Avr. 04"))
			Expect(resp.Bills[1].Status).To(Equal("Refused"))
		})

		It("surfaces the store error text verbatim", func() {
			store.listErr = internal.NewExternalError("Erreur 404", nil)

			req := authedRequest(http.MethodGet, "/api/v1/bills", nil, "a@a")
			rec := httptest.NewRecorder()

			handler.ListBills(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadGateway))
			Expect(strings.TrimSpace(rec.Body.String())).To(ContainSubstring("Erreur 404"))
		})
	})
})
