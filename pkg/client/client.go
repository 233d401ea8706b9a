// Package client is a typed HTTP client for the TalentDesk API.
//
// Payloads are validated locally before any request is sent, and error
// responses come back as *errors.AppError so callers can branch with
// errors.IsNotFound, errors.IsValidation and friends. The client performs no
// retries, caching or local locking; the server owns every invariant.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	goahttp "goa.design/goa/v3/http"

	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

// Client calls the API at a base URL
type Client struct {
	baseURL string
	doer    goahttp.Doer

	mu    sync.RWMutex
	token string
}

// New creates a client. A nil doer uses http.DefaultClient.
func New(baseURL string, doer goahttp.Doer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), doer: doer}
}

// SetToken sets the bearer token sent with authenticated calls
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a token and keeps it for later calls
func (c *Client) Login(ctx context.Context, username, password string) (*api.LoginResult, error) {
	body := &api.LoginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := api.Validate(body); err != nil {
		return nil, err
	}
	var out api.LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Health reports service health
func (c *Client) Health(ctx context.Context) (*api.Health, error) {
	var out api.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitInquiry sends the public contact form. Invalid input, such as a
// malformed email, is rejected before any network call.
func (c *Client) SubmitInquiry(ctx context.Context, in *api.InquirySubmission) (*api.Inquiry, error) {
	body := *in
	body.Normalize()
	if err := api.Validate(&body); err != nil {
		return nil, err
	}
	var out api.Inquiry
	if err := c.do(ctx, http.MethodPost, "/contactinquiry", nil, &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInquiries returns one page of inquiries matching q
func (c *Client) ListInquiries(ctx context.Context, q api.InquiryQuery) (*api.Page[api.Inquiry], error) {
	var out api.Page[api.Inquiry]
	if err := c.do(ctx, http.MethodGet, "/contactinquiry", q.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInquiry loads one inquiry
func (c *Client) GetInquiry(ctx context.Context, id uint) (*api.Inquiry, error) {
	var out api.Inquiry
	if err := c.do(ctx, http.MethodGet, inquiryPath(id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClaimInquiry takes ownership of a New, unassigned inquiry. A lost race is
// a result with IsSuccess=false, not an error.
func (c *Client) ClaimInquiry(ctx context.Context, id uint) (*api.ClaimResult, error) {
	var out api.ClaimResult
	if err := c.do(ctx, http.MethodPost, inquiryPath(id, "/claim"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeStatus moves an inquiry to a new status. A rejected transition
// returns the server's result together with an INVALID_TRANSITION error.
func (c *Client) ChangeStatus(ctx context.Context, id uint, in *api.ChangeStatusRequest) (*api.ChangeStatusResult, error) {
	if err := api.Validate(in); err != nil {
		return nil, err
	}
	var out api.ChangeStatusResult
	err := c.do(ctx, http.MethodPut, inquiryPath(id, "/change-status"), nil, in, &out)
	if err == nil {
		return &out, nil
	}
	var rejected *transitionRejected
	if errors.As(err, &rejected) {
		result := rejected.result
		return &result, &apperrors.AppError{
			Code:    apperrors.ErrCodeInvalidTransition,
			Message: result.Message,
			Field:   "newStatus",
		}
	}
	return nil, err
}

// AvailableTransitions asks the server which statuses the caller may move
// the inquiry to
func (c *Client) AvailableTransitions(ctx context.Context, id uint) ([]api.InquiryStatus, error) {
	var out []api.InquiryStatus
	if err := c.do(ctx, http.MethodGet, inquiryPath(id, "/available-status-transitions"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InquiryHistory returns the audited claims and status changes
func (c *Client) InquiryHistory(ctx context.Context, id uint) ([]api.HistoryEntry, error) {
	var out []api.HistoryEntry
	if err := c.do(ctx, http.MethodGet, inquiryPath(id, "/history"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteInquiry soft-deletes an inquiry (admin only)
func (c *Client) DeleteInquiry(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, inquiryPath(id, ""), nil, nil, nil)
}

func inquiryPath(id uint, suffix string) string {
	return "/contactinquiry/" + strconv.FormatUint(uint64(id), 10) + suffix
}

// do sends one request. body is JSON-encoded when non-nil and the response
// is decoded into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeBadRequest, "invalid request", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		if err := goahttp.RequestEncoder(req).Encode(body); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeBadRequest, "failed to encode request", err)
		}
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternalError, "unable to reach the server, please try again", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := goahttp.ResponseDecoder(resp).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternalError, "unexpected response from server", err)
	}
	return nil
}

// transitionRejected carries the change-status result of a 422 response
type transitionRejected struct {
	result api.ChangeStatusResult
}

func (e *transitionRejected) Error() string {
	return fmt.Sprintf("%s: %s", apperrors.ErrCodeInvalidTransition, e.result.Message)
}

// decodeError turns an error response into an *AppError. A 422 carries a
// change-status result instead of an error body.
func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to read error response", err)
	}
	replay := func() *http.Response {
		clone := *resp
		clone.Body = io.NopCloser(strings.NewReader(string(raw)))
		return &clone
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var result api.ChangeStatusResult
		if err := goahttp.ResponseDecoder(replay()).Decode(&result); err == nil && result.Message != "" {
			return &transitionRejected{result: result}
		}
	}

	var body api.ErrorBody
	if err := goahttp.ResponseDecoder(replay()).Decode(&body); err == nil && body.Code != "" {
		return &apperrors.AppError{
			Code:    apperrors.ErrorCode(body.Code),
			Message: body.Message,
			Field:   body.Field,
		}
	}
	return apperrors.New(codeForStatus(resp.StatusCode), http.StatusText(resp.StatusCode))
}

func codeForStatus(status int) apperrors.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return apperrors.ErrCodeBadRequest
	case http.StatusUnauthorized:
		return apperrors.ErrCodeUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrCodeForbidden
	case http.StatusNotFound:
		return apperrors.ErrCodeNotFound
	case http.StatusConflict:
		return apperrors.ErrCodeConflict
	case http.StatusUnprocessableEntity:
		return apperrors.ErrCodeInvalidTransition
	default:
		return apperrors.ErrCodeInternalError
	}
}
