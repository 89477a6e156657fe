package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/amishk599/talentlens/internal/model"
)

// DefaultBaseURL is used when neither config nor environment name a backend.
const DefaultBaseURL = "http://localhost:8000/api/v1"

const (
	pathJobDescription     = "/uploads/job-description"
	pathJobDescriptionText = "/uploads/job-description-text"
	pathResume             = "/uploads/resume"
	pathAnalysis           = "/analysis/"

	// maxResponseBytes caps how much of a response body is read. Analysis
	// responses embed both parsed documents, so this is generous.
	maxResponseBytes = 32 << 20
)

// Ensure Backend implements model.Backend.
var _ model.Backend = (*Backend)(nil)

// uploadResponse is returned by every upload endpoint.
type uploadResponse struct {
	FileID string `json:"file_id"`
}

type textUploadRequest struct {
	Text string `json:"text"`
}

// Backend talks to the screening service's REST API.
type Backend struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

// NewBackend creates a client for the screening API rooted at baseURL
// (e.g. http://localhost:8000/api/v1).
func NewBackend(baseURL string, client *http.Client, logger *slog.Logger) *Backend {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// SetUserAgent sets the User-Agent header sent with every request.
func (b *Backend) SetUserAgent(ua string) {
	b.userAgent = ua
}

// UploadJobDescription uploads a job description file as multipart field "file".
func (b *Backend) UploadJobDescription(ctx context.Context, doc model.Document) (model.RemoteID, error) {
	return b.uploadFile(ctx, pathJobDescription, doc, "job description upload failed")
}

// UploadJobDescriptionText uploads pasted job description text.
func (b *Backend) UploadJobDescriptionText(ctx context.Context, text string) (model.RemoteID, error) {
	body, err := json.Marshal(textUploadRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("marshal job description text: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+pathJobDescriptionText, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("job description text upload: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out uploadResponse
	if err := b.do(req, &out, "job description upload failed"); err != nil {
		return "", err
	}
	return checkFileID(out, pathJobDescriptionText)
}

// UploadResume uploads a single resume file as multipart field "file".
func (b *Backend) UploadResume(ctx context.Context, doc model.Document) (model.RemoteID, error) {
	return b.uploadFile(ctx, pathResume, doc, "resume upload failed")
}

// Analyze asks the backend to score one uploaded resume against an uploaded
// job description.
func (b *Backend) Analyze(ctx context.Context, ar model.AnalysisRequest) (model.AnalysisResult, error) {
	body, err := json.Marshal(ar)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("marshal analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+pathAnalysis, bytes.NewReader(body))
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result model.AnalysisResult
	if err := b.do(req, &result, "analysis failed"); err != nil {
		return model.AnalysisResult{}, err
	}
	if result.ResumeID == "" {
		result.ResumeID = ar.ResumeID
	}
	return result, nil
}

func (b *Backend) uploadFile(ctx context.Context, path string, doc model.Document, generic string) (model.RemoteID, error) {
	body, contentType, err := multipartBody(doc)
	if err != nil {
		return "", fmt.Errorf("build upload for %s: %w", doc.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", doc.Name, err)
	}
	req.Header.Set("Content-Type", contentType)

	var out uploadResponse
	if err := b.do(req, &out, generic); err != nil {
		return "", err
	}
	return checkFileID(out, path)
}

// multipartBody encodes doc as the single "file" part of a multipart form.
func multipartBody(doc model.Document) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	ctype := mime.TypeByExtension(strings.ToLower(filepath.Ext(doc.Name)))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, doc.Name))
	h.Set("Content-Type", ctype)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// do sends req and decodes a 2xx JSON body into out. Non-2xx responses become
// *model.HTTPError with the server's detail when present and generic otherwise.
func (b *Backend) do(req *http.Request, out any, generic string) error {
	req.Header.Set("Accept", "application/json")
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}
	if id := RequestIDFrom(req.Context()); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	b.logger.Debug("backend request", "method", req.Method, "path", req.URL.Path)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}

	b.logger.Debug("backend response", "path", req.URL.Path, "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Detail:     parseDetail(body),
			Err:        errors.New(generic),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func checkFileID(out uploadResponse, path string) (model.RemoteID, error) {
	if out.FileID == "" {
		return "", fmt.Errorf("%s response has no file_id", path)
	}
	return model.RemoteID(out.FileID), nil
}
