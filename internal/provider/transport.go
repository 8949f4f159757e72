package provider

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

const (
	// ClientTitle identifies the client to aggregators that attribute traffic
	ClientTitle = "commitsmith"

	// ClientURL is sent as HTTP-Referer
	ClientURL = "https://github.com/huimingz/commitsmith"
)

// Transport is the HTTP client shared by every API adapter
type Transport struct {
	Client  *http.Client
	Headers http.Header
}

// NewTransport creates a transport stamping the client identification headers
// on every outbound request.
func NewTransport(version string) *Transport {
	headers := ClientHeaders(version)
	return &Transport{
		Client: &http.Client{
			Transport: &headerRoundTripper{
				base:    http.DefaultTransport,
				headers: headers,
			},
		},
		Headers: headers,
	}
}

// ClientHeaders returns the fixed identification header set
func ClientHeaders(version string) http.Header {
	if version == "" {
		version = "dev"
	}
	h := http.Header{}
	h.Set("User-Agent", ClientTitle+"/"+version)
	h.Set("X-Title", ClientTitle)
	h.Set("HTTP-Referer", ClientURL)
	return h
}

type headerRoundTripper struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for key, values := range t.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	return t.base.RoundTrip(req)
}

// withDeadline arms the per-call deadline. Callers must defer the returned
// cancel so the timer is released on every path.
func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// classifyFailure maps a failed call onto the error taxonomy. A done parent
// context means the caller aborted; a fired call deadline alone is a timeout.
func classifyFailure(parent, call context.Context, providerID string, err error) error {
	if parent.Err() != nil {
		return &Error{Kind: ErrCancelled, Provider: providerID, Err: parent.Err()}
	}
	if errors.Is(call.Err(), context.DeadlineExceeded) {
		return &Error{Kind: ErrTimeout, Provider: providerID, Err: context.DeadlineExceeded}
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}

	return &Error{
		Kind:       ErrProvider,
		Provider:   providerID,
		StatusCode: statusCode(err),
		Message:    err.Error(),
		Err:        err,
	}
}

var statusPatterns = []*regexp.Regexp{
	regexp.MustCompile(`status code: (\d{3})`),
	regexp.MustCompile(`^Error (\d{3}),`),
}

// statusCode digs the upstream HTTP status out of SDK errors
func statusCode(err error) int {
	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) {
		return withStatus.HTTPStatusCode()
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code
	}

	for _, pattern := range statusPatterns {
		if m := pattern.FindStringSubmatch(err.Error()); m != nil {
			code, _ := strconv.Atoi(m[1])
			return code
		}
	}
	return 0
}
