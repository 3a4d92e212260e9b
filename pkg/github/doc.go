// Package github is a small read-only client for the GitHub REST API.
//
// # Overview
//
// The repokit tools make at most one API call each: the index generator reads
// repository metadata and the link tool reads the authenticated identity.
// The client keeps no cache and makes a single attempt per call.
//
// # Identifiers
//
// Repository identifiers arrive in three shapes and are normalized to one
// canonical endpoint before any request is made:
//
//	https://api.github.com/repos/acme/widget  -> https://api.github.com/repos/acme/widget
//	https://github.com/acme/widget            -> https://api.github.com/repos/acme/widget
//	acme/widget                               -> https://api.github.com/repos/acme/widget
//
// GitHub Enterprise roots are supported through Endpoints.
//
// # Basic Usage
//
//	client := github.NewClient(os.Getenv("GITHUB_TOKEN"), github.DefaultTimeout)
//	endpoint, err := client.Endpoints().Normalize("acme/widget")
//	if err != nil {
//		return err
//	}
//	repo, err := client.Repository(ctx, endpoint)
//
// # Errors
//
// Failures are typed: NetworkError (transport), StatusError (non-2xx),
// RateLimitError (403/429 with an exhausted budget) and ParseError (body is not
// the expected JSON). NetworkError and ParseError unwrap to their cause.
//
// # Testing
//
// Inject a MockHTTPFetcher:
//
//	mock := github.NewMockHTTPFetcher()
//	mock.AddResponse("https://api.github.com/repos/acme/widget", 200, `{"name":"widget"}`)
//	client := github.NewClientWithHTTP(mock, "")
package github
