package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"resume-builder/pkg/ai/formatters"
)

// ErrUpstream is matched by every failure that originates in ai-service or
// the template catalogue.
var ErrUpstream = errors.New("ai upstream error")

// UpstreamError describes a non-200 answer or an unreadable body.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: ai-service returned non-200 status: %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Options configures a Client. Zero values fall back to the in-cluster
// defaults.
type Options struct {
	BaseURL      string
	TemplatesURL string
	RetryMax     int
	Timeout      time.Duration
}

// Client calls the internal ai-service for section edits, generation and
// ATS analysis, and the template catalogue for starter documents.
type Client struct {
	BaseURL      string
	TemplatesURL string
	HTTP         *http.Client
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://ai-service:8000"
	}
	if opts.TemplatesURL == "" {
		opts.TemplatesURL = opts.BaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}

	cl := retryablehttp.NewClient()
	cl.RetryMax = opts.RetryMax
	cl.RetryWaitMin = 100 * time.Millisecond
	cl.RetryWaitMax = 2 * time.Second
	cl.Logger = slog.Default()
	// Hand the final response back so callers can report its status.
	cl.ErrorHandler = retryablehttp.PassthroughErrorHandler
	cl.HTTPClient.Timeout = opts.Timeout

	return &Client{
		BaseURL:      strings.TrimRight(opts.BaseURL, "/"),
		TemplatesURL: strings.TrimRight(opts.TemplatesURL, "/"),
		HTTP:         cl.StandardClient(),
	}
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any) (*http.Response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, op, req)
}

func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UpstreamError{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		slog.Warn("ai-service request failed", "op", op, "status", resp.StatusCode)
		return nil, &UpstreamError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}

// Generate sends a free-form prompt to the chat endpoint and returns the
// answer converted from Markdown to HTML. The caller sanitizes it.
func (c *Client) Generate(ctx context.Context, input string) (string, error) {
	resp, err := c.postJSON(ctx, "generate", "/v1/chat", map[string]any{
		"agent": "auto",
		"input": input,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var chatResp struct {
		Agent  string `json:"agent"`
		Output string `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &UpstreamError{Op: "generate", Err: err}
	}
	return formatters.MarkdownToHTML(chatResp.Output)
}

// EditRequest asks ai-service to rewrite HTML following an instruction.
// SectionHTML narrows the edit to one block; HTML carries the whole
// document for context.
type EditRequest struct {
	HTML        string `json:"html,omitempty"`
	SectionHTML string `json:"sectionHtml,omitempty"`
	Instruction string `json:"instruction"`
}

// EditHTML posts req to the edit endpoint and concatenates the streamed
// response. A code fence around the answer is removed.
func (c *Client) EditHTML(ctx context.Context, req EditRequest) (string, error) {
	if strings.TrimSpace(req.Instruction) == "" {
		return "", errors.New("instruction is required")
	}
	resp, err := c.postJSON(ctx, "edit", "/v1/edit", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, rerr := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", &UpstreamError{Op: "edit", Err: rerr}
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return formatters.StripCodeFence(sb.String()), nil
}

// ATSIssue is one finding of an ATS analysis.
type ATSIssue struct {
	Severity   string `json:"severity"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// ATSReport is the normalised result of AnalyzeATS.
type ATSReport struct {
	Score     int        `json:"score"`
	Summary   string     `json:"summary"`
	Strengths []string   `json:"strengths"`
	Issues    []ATSIssue `json:"issues"`
	Keywords  struct {
		Found   []string `json:"found"`
		Missing []string `json:"missing"`
	} `json:"keywords"`
}

// AnalyzeATS scores resumeText for applicant tracking systems.
func (c *Client) AnalyzeATS(ctx context.Context, resumeText string) (*ATSReport, error) {
	resp, err := c.postJSON(ctx, "ats", "/v1/ats", map[string]any{"resumeText": resumeText})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Op: "ats", Err: err}
	}
	var report ATSReport
	if err := formatters.DecodeJSONObject(string(body), &report); err != nil {
		return nil, &UpstreamError{Op: "ats", Body: string(body), Err: err}
	}
	report.normalize()
	return &report, nil
}

func (r *ATSReport) normalize() {
	r.Score = min(max(r.Score, 0), 100)
	for i := range r.Issues {
		switch s := strings.ToLower(strings.TrimSpace(r.Issues[i].Severity)); s {
		case "high", "medium", "low":
			r.Issues[i].Severity = s
		default:
			r.Issues[i].Severity = "low"
		}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Issues == nil {
		r.Issues = []ATSIssue{}
	}
	if r.Keywords.Found == nil {
		r.Keywords.Found = []string{}
	}
	if r.Keywords.Missing == nil {
		r.Keywords.Missing = []string{}
	}
}

// Template is a starter document from the catalogue.
type Template struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Author      string          `json:"author,omitempty"`
	Description string          `json:"description,omitempty"`
	ThemeID     string          `json:"themeId,omitempty"`
	Document    json.RawMessage `json:"document,omitempty"`
}

type TemplateQuery struct {
	Page   int
	Limit  int
	Author string
}

type TemplatePage struct {
	Data     []Template `json:"data"`
	Metadata struct {
		Total int `json:"total"`
		Limit int `json:"limit"`
	} `json:"metadata"`
}

// ListTemplates reads one page of the template catalogue.
func (c *Client) ListTemplates(ctx context.Context, q TemplateQuery) (*TemplatePage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Author != "" {
		params.Set("author", q.Author)
	}
	u := c.TemplatesURL + "/templates"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, "templates", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var page TemplatePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &UpstreamError{Op: "templates", Err: err}
	}
	if page.Data == nil {
		page.Data = []Template{}
	}
	return &page, nil
}
