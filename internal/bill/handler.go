package bill

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/billed-app/bill-service/internal"
	"github.com/billed-app/bill-service/internal/transport"
)

// maxReceiptSize caps how much of an uploaded receipt is read into memory.
const maxReceiptSize = 10 << 20

type Handler struct {
	*transport.BaseHandler
	Manager *Manager
	Service *Service
}

func NewHandler(manager *Manager, service *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Manager:     manager,
		Service:     service,
	}
}

// fileChangeResponse mirrors the validation outcome back to the form: the
// verdict plus the declarative error-display state to apply.
type fileChangeResponse struct {
	Accepted bool         `json:"accepted"`
	FileName string       `json:"fileName"`
	Error    ErrorDisplay `json:"error"`
}

// HandleFileChange is the file-change event: validate the receipt, open the
// upload when accepted. A rejected file is a normal outcome, not an HTTP
// error.
func (h *Handler) HandleFileChange(w http.ResponseWriter, r *http.Request) {
	email := internal.EmailFromContext(r.Context())
	if email == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		h.Logger.Error("HandleFileChange: invalid multipart body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.Logger.Error("HandleFileChange: missing file part", "error", err)
		h.WriteError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		h.Logger.Error("HandleFileChange: reading file", "error", err)
		h.WriteError(w, http.StatusBadRequest, "unreadable file")
		return
	}

	meta := FileMeta{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
	}

	validation := h.Manager.For(email).HandleFileChange(r.Context(), meta, content)

	h.WriteJSON(w, http.StatusOK, fileChangeResponse{
		Accepted: validation.Accepted,
		FileName: validation.FileName,
		Error:    validation.ErrorDisplay(),
	})
}

// HandleSubmit is the form-submit event. When the gate passes, the Location
// header carries the navigation target; the persistence call is already
// running and is not waited for. A closed gate is a silent no-op.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	email := internal.EmailFromContext(r.Context())
	if email == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitBillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("HandleSubmit: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	route, submitted := h.Manager.For(email).HandleSubmit(r.Context(), dto)
	if submitted {
		h.Manager.Release(email)
		w.Header().Set("Location", route)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBills returns the employee's bills in display form, newest first.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	email := internal.EmailFromContext(r.Context())
	if email == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	views, err := h.Service.ListBills(r.Context())
	if err != nil {
		// The store's error text reaches the display surface verbatim.
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		h.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bills": views,
	})
}
