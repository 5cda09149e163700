package bill

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// RouteBills is where the form navigates after a submit.
const RouteBills = "#employee/bills"

// CreateFileRequest is the payload of a receipt upload. NoContentType tells
// the store client to skip its default content-type negotiation so the
// multipart encoding sets its own.
type CreateFileRequest struct {
	FileName      string
	MimeType      string
	Content       []byte
	Email         string
	NoContentType bool
}

// CreateFileResult is the store's answer to an upload: where the file lives
// and the key of the bill record it opened for it.
type CreateFileResult struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// RemoteStore is the persistence collaborator. The core never talks to the
// store any other way.
type RemoteStore interface {
	CreateBill(ctx context.Context, req CreateFileRequest) (CreateFileResult, error)
	UpdateBill(ctx context.Context, data []byte, selector string) error
	ListBills(ctx context.Context) ([]Bill, error)
}

// Verdict is the acceptance gate: the outcome of the most recent file
// validation, consulted before allowing submission.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictAccepted
	VerdictRejected
)

// Submission drives one employee's bill through the form lifecycle: a
// file-change event validates the receipt and, when accepted, starts the
// upload in the background; an independently-timed submit event assembles
// the bill and hands it to the store. The submit gate reads the last
// validation verdict only; it does not wait for the upload to resolve, so
// a bill submitted early carries whichever upload fields have landed by
// then, possibly none.
type Submission struct {
	email  string
	store  RemoteStore
	logger *slog.Logger

	mu        sync.Mutex
	verdict   Verdict
	billID    *string
	fileURL   *string
	fileName  *string
	submitted bool
}

func NewSubmission(email string, store RemoteStore, logger *slog.Logger) *Submission {
	return &Submission{
		email:  email,
		store:  store,
		logger: logger,
	}
}

// HandleFileChange validates the chosen file and records the verdict as the
// new gate value. An accepted file starts its upload immediately,
// fire-and-forget; a rejected one leaves any earlier upload fields in place.
//
// A second file chosen while a previous upload is still in flight does not
// cancel it: whichever result resolves last overwrites the recorded fields.
// The form inherited this race and it is kept, not patched.
func (s *Submission) HandleFileChange(ctx context.Context, file FileMeta, content []byte) FileValidation {
	validation := ValidateFile(file)

	s.mu.Lock()
	if validation.Accepted {
		s.verdict = VerdictAccepted
	} else {
		s.verdict = VerdictRejected
	}
	s.mu.Unlock()

	if !validation.Accepted {
		s.logger.Info("file rejected", "email", s.email, "file", file.Name, "mime_type", file.MimeType)
		return validation
	}

	// The upload outlives the triggering event, so it does not run under the
	// event's context.
	go s.uploadFile(context.Background(), file, content)

	return validation
}

func (s *Submission) uploadFile(ctx context.Context, file FileMeta, content []byte) {
	result, err := s.store.CreateBill(ctx, CreateFileRequest{
		FileName:      file.Name,
		MimeType:      file.MimeType,
		Content:       content,
		Email:         s.email,
		NoContentType: true,
	})
	if err != nil {
		// Logged only; the upload fields stay unset and the gate is
		// untouched. The employee is not told.
		s.logger.Error("receipt upload failed", "email", s.email, "file", file.Name, "error", err)
		return
	}

	s.mu.Lock()
	s.billID = &result.Key
	s.fileURL = &result.FileURL
	name := file.Name
	s.fileName = &name
	s.mu.Unlock()

	s.logger.Info("receipt uploaded", "email", s.email, "bill_id", result.Key, "file_url", result.FileURL)
}

// HandleSubmit processes a submit event with whatever state exists at that
// instant. When the gate is closed (the last file was rejected, no file was
// ever validated, or the bill already went out) the submit is a no-op and
// no navigation happens. Otherwise the bill is assembled, persistence is
// started in the background and the navigation target is returned at once.
func (s *Submission) HandleSubmit(ctx context.Context, dto SubmitBillDTO) (string, bool) {
	s.mu.Lock()
	if s.verdict != VerdictAccepted || s.submitted {
		s.mu.Unlock()
		s.logger.Info("submit ignored", "email", s.email, "verdict", s.verdict, "already_submitted", s.submitted)
		return "", false
	}

	b := Bill{
		Email:      s.email,
		Type:       dto.Type,
		Name:       dto.Name,
		Amount:     dto.AmountValue(),
		Date:       dto.Date,
		Vat:        dto.Vat,
		Pct:        dto.PctValue(),
		Commentary: dto.Commentary,
		FileURL:    s.fileURL,
		FileName:   s.fileName,
		BillID:     s.billID,
		Status:     StatusPending,
	}

	var selector string
	if s.billID != nil {
		selector = *s.billID
	}
	s.submitted = true
	s.mu.Unlock()

	go s.persistBill(context.Background(), b, selector)

	return RouteBills, true
}

func (s *Submission) persistBill(ctx context.Context, b Bill, selector string) {
	data, err := json.Marshal(b)
	if err != nil {
		s.logger.Error("bill serialization failed", "email", s.email, "error", err)
		return
	}

	if err := s.store.UpdateBill(ctx, data, selector); err != nil {
		// Navigation already happened and is not reversed; no retry.
		s.logger.Error("bill persistence failed", "email", s.email, "bill_id", selector, "error", err)
		return
	}

	s.logger.Info("bill persisted", "email", s.email, "bill_id", selector)
}

// Manager hands out one Submission per employee, so the gate and upload
// fields of different employees never share state.
type Manager struct {
	store  RemoteStore
	logger *slog.Logger

	mu     sync.Mutex
	active map[string]*Submission
}

func NewManager(store RemoteStore, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		active: make(map[string]*Submission),
	}
}

// For returns the employee's current submission, creating one on first use.
func (m *Manager) For(email string) *Submission {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.active[email]; ok {
		return s
	}
	s := NewSubmission(email, m.store, m.logger)
	m.active[email] = s
	return s
}

// Release drops the employee's submission. Called after a successful submit:
// resubmission within one instance is not supported, the next bill starts
// fresh.
func (m *Manager) Release(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, email)
}
