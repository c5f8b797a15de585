package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	twiliosdk "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/troikatech/kisan-voicebot/pkg/circuitbreaker"
	"github.com/troikatech/kisan-voicebot/pkg/metrics"
)

const DefaultAPIBaseURL = "https://api.twilio.com"

// Client places outbound calls through the Twilio REST API.
type Client struct {
	accountSID string
	authToken  string
	rest       *twiliosdk.RestClient
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient builds a REST client. baseURL other than the public API host
// redirects every request there (a regional proxy or a test server).
func NewClient(baseURL, accountSID, authToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if target, err := url.Parse(strings.TrimRight(baseURL, "/")); err == nil && target.Host != "" && baseURL != DefaultAPIBaseURL {
		httpClient.Transport = &hostRewrite{target: target, next: http.DefaultTransport}
	}

	base := &twclient.Client{
		Credentials: twclient.NewCredentials(accountSID, authToken),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(accountSID)

	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		rest:       twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{Client: base}),
		breaker:    circuitbreaker.New(circuitbreaker.DefaultConfig()),
	}
}

// IsConfigured reports whether credentials are present.
func (c *Client) IsConfigured() bool {
	return c.accountSID != "" && c.authToken != ""
}

type CallRequest struct {
	To                   string
	From                 string
	URL                  string
	Timeout              int
	StatusCallback       string
	StatusCallbackEvents []string
	MachineDetection     string
}

type CallResponse struct {
	Sid    string
	Status string
	To     string
	From   string
}

// APIError is the error Twilio returns on non-2xx responses.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	MoreInfo   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twilio API error %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

// CreateCall asks Twilio to dial req.To. It is not retried: a timed-out
// request may still have placed the call.
func (c *Client) CreateCall(ctx context.Context, req CallRequest) (*CallResponse, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("twilio client not configured")
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(req.To)
	params.SetFrom(req.From)
	params.SetUrl(req.URL)
	if req.Timeout > 0 {
		params.SetTimeout(req.Timeout)
	}
	if req.StatusCallback != "" {
		params.SetStatusCallback(req.StatusCallback)
		params.SetStatusCallbackMethod(http.MethodPost)
		if len(req.StatusCallbackEvents) > 0 {
			params.SetStatusCallbackEvent(req.StatusCallbackEvents)
		}
	}
	if req.MachineDetection != "" {
		params.SetMachineDetection(req.MachineDetection)
	}

	start := time.Now()
	var result CallResponse
	err := c.breaker.Execute(ctx, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		call, err := c.rest.Api.CreateCall(params)
		if err != nil {
			return toAPIError(err)
		}
		result = CallResponse{
			Sid:  deref(call.Sid),
			To:   deref(call.To),
			From: deref(call.From),
		}
		if call.Status != nil {
			result.Status = fmt.Sprint(*call.Status)
		}
		return nil
	})

	metrics.RecordServiceCall("twilio", err == nil, time.Since(start))
	metrics.UpdateCircuitBreaker("twilio", c.breaker.GetState().String(), int64(c.breaker.Failures()))

	if err != nil {
		return nil, err
	}
	return &result, nil
}

func toAPIError(err error) error {
	var restErr *twclient.TwilioRestError
	if errors.As(err, &restErr) {
		return &APIError{
			StatusCode: restErr.Status,
			Code:       restErr.Code,
			Message:    restErr.Message,
			MoreInfo:   restErr.MoreInfo,
		}
	}
	return fmt.Errorf("create call: %w", err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// hostRewrite sends requests built for api.twilio.com to another origin.
type hostRewrite struct {
	target *url.URL
	next   http.RoundTripper
}

func (h *hostRewrite) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = h.target.Scheme
	out.URL.Host = h.target.Host
	out.Host = h.target.Host
	return h.next.RoundTrip(out)
}
