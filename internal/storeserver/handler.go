package storeserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billed-app/bill-service/internal/bill"
	"github.com/billed-app/bill-service/internal/transport"
)

const maxUploadSize = 10 << 20

// Handler implements the store's HTTP contract: create a bill record from a
// receipt upload, overwrite it by key, list everything, serve the stored
// files.
type Handler struct {
	*transport.BaseHandler
	DB        *gorm.DB
	Storage   Storage
	PublicURL string
}

func NewHandler(db *gorm.DB, storage Storage, publicURL string) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		DB:          db,
		Storage:     storage,
		PublicURL:   strings.TrimRight(publicURL, "/"),
	}
}

// Routes mounts the store contract on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/ping", h.Ping)
	r.Post("/bills", h.CreateBill)
	r.Patch("/bills/{id}", h.UpdateBill)
	r.Get("/bills", h.ListBills)
	r.Get("/files/{name}", h.ServeFile)
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// CreateBill receives a receipt upload and opens a pending bill record for
// it. The answer carries the stored file's URL and the record key.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "unreadable file")
		return
	}

	email := r.FormValue("email")

	key := uuid.NewString()
	storedName, err := h.Storage.Save(fmt.Sprintf("%s_%s", key, header.Filename), content)
	if err != nil {
		h.Logger.Error("saving receipt file", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	record := BillRecord{
		ID:       key,
		Email:    email,
		FileURL:  fmt.Sprintf("%s/files/%s", h.PublicURL, storedName),
		FileName: header.Filename,
		Status:   bill.StatusPending,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		h.Logger.Error("creating bill record", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to create bill")
		return
	}

	h.Logger.Info("bill record opened", "key", key, "email", email, "file", header.Filename)

	h.WriteJSON(w, http.StatusCreated, bill.CreateFileResult{
		FileURL: record.FileURL,
		Key:     record.ID,
	})
}

// UpdateBill overwrites the record behind the key with the submitted bill.
// The file fields already on the record win over nulls in the payload, so an
// early submit cannot erase an upload that landed in between.
func (h *Handler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var record BillRecord
	if err := h.DB.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.WriteError(w, http.StatusNotFound, "bill not found")
			return
		}
		h.Logger.Error("loading bill record", "error", err, "id", id)
		h.WriteError(w, http.StatusInternalServerError, "failed to load bill")
		return
	}

	var payload bill.Bill
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record.Email = payload.Email
	record.Type = payload.Type
	record.Name = payload.Name
	record.Amount = payload.Amount
	record.Date = payload.Date
	record.Vat = payload.Vat
	record.Pct = payload.Pct
	record.Commentary = payload.Commentary
	record.Status = payload.Status
	if payload.FileURL != nil {
		record.FileURL = *payload.FileURL
	}
	if payload.FileName != nil {
		record.FileName = *payload.FileName
	}

	if err := h.DB.Save(&record).Error; err != nil {
		h.Logger.Error("updating bill record", "error", err, "id", id)
		h.WriteError(w, http.StatusInternalServerError, "failed to update bill")
		return
	}

	h.Logger.Info("bill record updated", "key", id, "status", record.Status)
	h.WriteJSON(w, http.StatusOK, record.ToBill())
}

// ListBills returns every stored bill as the wire shape.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	var records []BillRecord
	query := h.DB.Order("created_at ASC")
	if email := r.URL.Query().Get("email"); email != "" {
		query = query.Where("email = ?", email)
	}
	if err := query.Find(&records).Error; err != nil {
		h.Logger.Error("listing bill records", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list bills")
		return
	}

	bills := make([]bill.Bill, 0, len(records))
	for i := range records {
		bills = append(bills, records[i].ToBill())
	}

	h.WriteJSON(w, http.StatusOK, bills)
}

// ServeFile streams a stored receipt back.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := h.Storage.Get(name)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("writing file response", "error", err, "file", name)
	}
}
