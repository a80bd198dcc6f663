package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Client talks to the internship portal API. The portal is the sole source of
// truth between page loads; the client never caches extraction results.
type Client struct {
	BaseURL string
	HTTPC   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPC:   &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadText submits pasted certificate text for extraction.
func (c *Client) UploadText(ctx context.Context, text string) (UploadResult, error) {
	payload, _ := json.Marshal(map[string]string{"text": text})
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/upload_certificate", bytes.NewReader(payload))
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doUpload(req)
}

// UploadFile submits a certificate file for extraction as multipart form data.
func (c *Client) UploadFile(ctx context.Context, filename string, data []byte) (UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := fw.Write(data); err != nil {
		return UploadResult{}, err
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/upload_certificate", &buf)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.doUpload(req)
}

func (c *Client) doUpload(req *http.Request) (UploadResult, error) {
	resp, err := c.HTTPC.Do(req)
	if err != nil {
		return UploadResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		x, _ := io.ReadAll(resp.Body)
		return UploadResult{}, fmt.Errorf("upload_certificate %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}
	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, err
	}
	return out, nil
}

// GetUpload fetches the stored extraction result for an earlier upload.
func (c *Client) GetUpload(ctx context.Context, uploadID string) (UploadResult, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/api/upload/"+url.PathEscape(uploadID), nil)
	if err != nil {
		return UploadResult{}, err
	}
	resp, err := c.HTTPC.Do(req)
	if err != nil {
		return UploadResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		x, _ := io.ReadAll(resp.Body)
		return UploadResult{}, fmt.Errorf("get upload %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}
	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, err
	}
	return out, nil
}

// SubmitInternship posts the reviewed form. Returns the portal's redirect
// target (the student result page).
func (c *Client) SubmitInternship(ctx context.Context, sub Submission) (string, error) {
	if err := validate.Struct(sub); err != nil {
		return "", fmt.Errorf("invalid submission: %w", err)
	}
	payload, _ := json.Marshal(sub)
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/submit_internship", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPC.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("submit_internship %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}
	var out struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.RedirectURL, nil
}

// UploadIDFromRedirect pulls the upload_id out of the review-page redirect
// (/student_form?upload_id=...&from_upload=1). Empty string if absent.
func UploadIDFromRedirect(redirect string) string {
	u, err := url.Parse(redirect)
	if err != nil {
		return ""
	}
	return u.Query().Get("upload_id")
}

// AbsoluteURL resolves a portal-relative redirect against the base URL.
func (c *Client) AbsoluteURL(redirect string) string {
	if strings.HasPrefix(redirect, "http://") || strings.HasPrefix(redirect, "https://") {
		return redirect
	}
	return c.BaseURL + "/" + strings.TrimLeft(redirect, "/")
}
