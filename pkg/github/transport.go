package github

import (
	"io"
	"net/http"
	"strings"
)

// HTTPFetcher abstracts HTTP calls for testability
type HTTPFetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// RealHTTPFetcher wraps http.Client for production use
type RealHTTPFetcher struct {
	client *http.Client
}

// NewRealHTTPFetcher creates a production HTTP fetcher
func NewRealHTTPFetcher(client *http.Client) HTTPFetcher {
	return &RealHTTPFetcher{client: client}
}

func (f *RealHTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}

type mockResponse struct {
	status int
	body   string
	header http.Header
}

// MockHTTPFetcher simulates HTTP responses for testing. Unknown URLs get a 404.
type MockHTTPFetcher struct {
	responses map[string]mockResponse
	errors    map[string]error
	// Requests records every request in the order it was made.
	Requests []*http.Request
}

// NewMockHTTPFetcher creates a mock HTTP fetcher
func NewMockHTTPFetcher() *MockHTTPFetcher {
	return &MockHTTPFetcher{
		responses: make(map[string]mockResponse),
		errors:    make(map[string]error),
	}
}

// AddResponse registers a mock response for a URL
func (m *MockHTTPFetcher) AddResponse(urlStr string, statusCode int, body string) {
	m.responses[urlStr] = mockResponse{status: statusCode, body: body, header: make(http.Header)}
}

// AddResponseWithHeaders registers a mock response carrying headers, e.g. rate-limit headers.
func (m *MockHTTPFetcher) AddResponseWithHeaders(urlStr string, statusCode int, body string, header http.Header) {
	m.responses[urlStr] = mockResponse{status: statusCode, body: body, header: header.Clone()}
}

// AddError registers a mock error for a URL
func (m *MockHTTPFetcher) AddError(urlStr string, err error) {
	m.errors[urlStr] = err
}

func (m *MockHTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	urlStr := req.URL.String()
	if err, ok := m.errors[urlStr]; ok {
		return nil, err
	}
	r, ok := m.responses[urlStr]
	if !ok {
		r = mockResponse{status: http.StatusNotFound, body: `{"message":"Not Found"}`, header: make(http.Header)}
	}
	// Fresh body per call so a registered response can be served repeatedly.
	return &http.Response{
		StatusCode: r.status,
		Body:       io.NopCloser(strings.NewReader(r.body)),
		Header:     r.header.Clone(),
		Request:    req,
	}, nil
}
