// Package storeclient talks to the remote bill store over HTTP. It is the
// only RemoteStore implementation the service ships; everything above it
// sees the bill.RemoteStore interface.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/billed-app/bill-service/internal"
	"github.com/billed-app/bill-service/internal/bill"
)

type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// errorFromStatus turns a non-2xx store answer into the error the display
// surface shows. The text is a contract: "Erreur 404", "Erreur 500".
func errorFromStatus(status int) error {
	return internal.NewExternalError(fmt.Sprintf("Erreur %d", status), nil)
}

// CreateBill uploads a receipt as multipart form data with the owning
// employee's email. With NoContentType set the request carries only the
// multipart encoding's own content type, nothing negotiated on top.
func (c *Client) CreateBill(ctx context.Context, req bill.CreateFileRequest) (bill.CreateFileResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.FileName))
	header.Set("Content-Type", req.MimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return bill.CreateFileResult{}, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(req.Content); err != nil {
		return bill.CreateFileResult{}, fmt.Errorf("writing file part: %w", err)
	}

	if err := writer.WriteField("email", req.Email); err != nil {
		return bill.CreateFileResult{}, fmt.Errorf("writing email field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return bill.CreateFileResult{}, fmt.Errorf("closing multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bills", &body)
	if err != nil {
		return bill.CreateFileResult{}, fmt.Errorf("creating request: %w", err)
	}
	if req.NoContentType {
		httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	} else {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return bill.CreateFileResult{}, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return bill.CreateFileResult{}, errorFromStatus(resp.StatusCode)
	}

	var result bill.CreateFileResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return bill.CreateFileResult{}, fmt.Errorf("decoding upload response: %w", err)
	}

	c.logger.Debug("receipt uploaded to store", "key", result.Key, "file_url", result.FileURL)
	return result, nil
}

// UpdateBill overwrites the bill record behind selector with the serialized
// bill.
func (c *Client) UpdateBill(ctx context.Context, data []byte, selector string) error {
	url := fmt.Sprintf("%s/bills/%s", c.baseURL, selector)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("update request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errorFromStatus(resp.StatusCode)
	}
	return nil
}

// ListBills fetches every stored bill.
func (c *Client) ListBills(ctx context.Context) ([]bill.Bill, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bills", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromStatus(resp.StatusCode)
	}

	var bills []bill.Bill
	if err := json.NewDecoder(resp.Body).Decode(&bills); err != nil {
		return nil, fmt.Errorf("decoding list response: %w", err)
	}
	return bills, nil
}

// Ping checks the store is reachable; used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errorFromStatus(resp.StatusCode)
	}
	return nil
}
