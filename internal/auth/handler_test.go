package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/billed-app/bill-service/internal"
	"github.com/billed-app/bill-service/internal/auth"
)

var _ = Describe("Handler", func() {
	var (
		handler *auth.Handler
		service *auth.Service
	)

	BeforeEach(func() {
		hash, err := auth.HashPassword("employee", bcrypt.MinCost)
		Expect(err).ToNot(HaveOccurred())

		directory := auth.StaticDirectory{"employee@test.tld": hash}
		tokens := auth.NewJWTTokenGenerator("test-secret", time.Minute)
		service = auth.NewService(directory, tokens, testLogger)
		handler = auth.NewHandler(service)
	})

	Describe("Login", func() {
		It("answers 200 with the token payload", func() {
			body := bytes.NewBufferString(`{"email":"employee@test.tld","password":"employee"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var tokens auth.AuthTokens
			Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(Succeed())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.TokenType).To(Equal("Bearer"))
		})

		It("answers 401 for bad credentials", func() {
			body := bytes.NewBufferString(`{"email":"employee@test.tld","password":"wrong"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("answers 400 for an unreadable body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
				bytes.NewBufferString("{broken"))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("AuthMiddleware", func() {
		var next http.Handler

		BeforeEach(func() {
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Email", internal.EmailFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})
		})

		It("resolves the bearer token to the employee email", func() {
			result, err := service.Authenticate(auth.LoginDTO{
				Email:    "employee@test.tld",
				Password: "employee",
			})
			Expect(err).ToNot(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil)
			req.Header.Set("Authorization", "Bearer "+result.AccessToken)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("X-Email")).To(Equal("employee@test.tld"))
		})

		It("rejects a request without a token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a forged token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil)
			req.Header.Set("Authorization", "Bearer forged.token.here")
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Logout", func() {
		It("always answers 204", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})
	})
})
