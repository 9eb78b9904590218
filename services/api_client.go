package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sponsorship_console/config"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FilePart is one file of a multipart request
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// Request describes one call to the backend. Body is sent as JSON; when Form
// or Files is set the request is multipart instead and Body is ignored.
type Request struct {
	Method   string
	Endpoint string
	Query    url.Values
	Body     any
	Form     map[string]string
	Files    []FilePart
	// KeepSession reports a 401 as an ordinary APIError instead of ending
	// the session, for endpoints that use 401 for a wrong password.
	KeepSession bool
}

func (r Request) multipart() bool {
	return len(r.Form) > 0 || len(r.Files) > 0
}

// Response is a settled backend response
type Response struct {
	Status      int
	Body        []byte
	ContentType string
	Header      http.Header
}

// Decode unmarshals a JSON body into v
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

// Download is a file fetched from the backend
type Download struct {
	Body        []byte
	ContentType string
	FileName    string
}

// envelope is the status part every JSON response may carry
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

// APIClient is the one shared way to call the backend
type APIClient struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewAPIClient builds a client for cfg.BackendURL
func NewAPIClient(cfg *config.Config, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BackendURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	var limiter *rate.Limiter
	if cfg.BackendRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.BackendRPS), cfg.BackendRPS)
	}

	return &APIClient{client: client, limiter: limiter, logger: logger}
}

// Do sends req on behalf of sess. A 401 on an authenticated session
// invalidates it and returns ErrSessionExpired. Nothing is retried.
func (a *APIClient) Do(ctx context.Context, sess *SessionContext, req Request) (*Response, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	r := a.client.R().SetContext(ctx)

	authenticated := sess != nil && sess.Token() != ""
	if authenticated {
		r.SetAuthToken(sess.Token())
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}

	if req.multipart() {
		// The client sets the multipart boundary itself
		if len(req.Form) > 0 {
			r.SetMultipartFormData(req.Form)
		}
		for _, f := range req.Files {
			r.SetMultipartField(f.Field, f.FileName, f.ContentType, bytes.NewReader(f.Data))
		}
	} else {
		r.SetHeader("Content-Type", "application/json")
		if req.Body != nil {
			r.SetBody(req.Body)
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	resp, err := r.Execute(method, req.Endpoint)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		a.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("endpoint", req.Endpoint),
			zap.Error(err))
		return nil, &NetworkError{Op: method + " " + req.Endpoint, Err: err}
	}

	a.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("endpoint", req.Endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("latency", time.Since(start)))

	out := &Response{
		Status:      resp.StatusCode(),
		Body:        resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
		Header:      resp.Header(),
	}

	if out.Status == http.StatusUnauthorized && authenticated && !req.KeepSession {
		sess.Invalidate(ErrSessionExpired)
		return nil, ErrSessionExpired
	}

	ok := out.Status >= 200 && out.Status < 300

	if !isJSON(out.ContentType) {
		if !ok {
			return nil, &APIError{Status: out.Status, Message: fmt.Sprintf("Request failed with status %d", out.Status)}
		}
		return out, nil
	}

	var env envelope
	if len(out.Body) > 0 {
		if err := json.Unmarshal(out.Body, &env); err != nil {
			if !ok {
				return nil, &APIError{Status: out.Status, Message: fmt.Sprintf("Request failed with status %d", out.Status)}
			}
			// Arrays and other non-object bodies carry no envelope
			return out, nil
		}
	}

	if !ok {
		return nil, &APIError{Status: out.Status, Message: env.message(out.Status)}
	}
	if env.Success != nil && !*env.Success {
		return nil, &APIError{Status: out.Status, Message: env.message(out.Status)}
	}

	return out, nil
}

func (e envelope) message(status int) string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Detail != "":
		return e.Detail
	default:
		return fmt.Sprintf("Request failed with status %d", status)
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// GetJSON fetches endpoint and decodes the body into out
func (a *APIClient) GetJSON(ctx context.Context, sess *SessionContext, endpoint string, query url.Values, out any) error {
	resp, err := a.Do(ctx, sess, Request{Method: http.MethodGet, Endpoint: endpoint, Query: query})
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// PostJSON sends body as JSON and decodes the reply into out (which may be nil)
func (a *APIClient) PostJSON(ctx context.Context, sess *SessionContext, endpoint string, body, out any) error {
	resp, err := a.Do(ctx, sess, Request{Method: http.MethodPost, Endpoint: endpoint, Body: body})
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// PostMultipart sends form fields and files
func (a *APIClient) PostMultipart(ctx context.Context, sess *SessionContext, endpoint string, form map[string]string, files []FilePart, out any) error {
	resp, err := a.Do(ctx, sess, Request{Method: http.MethodPost, Endpoint: endpoint, Form: form, Files: files})
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// Delete sends a DELETE request
func (a *APIClient) Delete(ctx context.Context, sess *SessionContext, endpoint string, out any) error {
	resp, err := a.Do(ctx, sess, Request{Method: http.MethodDelete, Endpoint: endpoint})
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// Download fetches a file and reads its name from Content-Disposition
func (a *APIClient) Download(ctx context.Context, sess *SessionContext, endpoint string) (*Download, error) {
	resp, err := a.Do(ctx, sess, Request{Method: http.MethodGet, Endpoint: endpoint})
	if err != nil {
		return nil, err
	}
	return &Download{
		Body:        resp.Body,
		ContentType: resp.ContentType,
		FileName:    dispositionFileName(resp.Header.Get("Content-Disposition")),
	}, nil
}

func decodeInto(resp *Response, out any) error {
	if out == nil {
		return nil
	}
	if w, ok := out.(io.Writer); ok {
		_, err := w.Write(resp.Body)
		return err
	}
	return resp.Decode(out)
}

func dispositionFileName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// IsCanceled reports whether err came from a superseded request
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
