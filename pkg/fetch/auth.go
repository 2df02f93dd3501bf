package fetch

import (
	"net/http"

	"github.com/agentstation/appdirectory/pkg/errors"
)

// Authentication schemes accepted by NewAuthenticator.
const (
	AuthBearer = "bearer"
	AuthHeader = "header"
	AuthQuery  = "query"
	AuthNone   = "none"
)

// Default names used when a header or query scheme is selected without one.
const (
	DefaultAuthHeader = "X-API-Key"
	DefaultAuthParam  = "api_key"
)

// Authenticator attaches the API key to a catalog request.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NewAuthenticator returns the authenticator for scheme. name is the header
// or query parameter that carries the key; it is ignored by bearer and none.
// An empty scheme selects bearer.
func NewAuthenticator(scheme, name string) (Authenticator, error) {
	switch scheme {
	case "", AuthBearer:
		return &BearerAuth{}, nil
	case AuthHeader:
		if name == "" {
			name = DefaultAuthHeader
		}
		return &HeaderAuth{Header: name}, nil
	case AuthQuery:
		if name == "" {
			name = DefaultAuthParam
		}
		return &QueryAuth{Param: name}, nil
	case AuthNone:
		return &NoAuth{}, nil
	default:
		return nil, errors.NewValidationError("auth_scheme", scheme, "must be one of bearer, header, query, none")
	}
}

// NoAuth sends the key nowhere, for sources that sit behind other
// authentication.
type NoAuth struct{}

// Apply implements Authenticator.
func (a *NoAuth) Apply(*http.Request, string) {}

// BearerAuth sends "Authorization: Bearer <key>".
type BearerAuth struct{}

// Apply implements Authenticator.
func (a *BearerAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
}

// HeaderAuth sends the key verbatim in a named header.
type HeaderAuth struct {
	Header string
}

// Apply implements Authenticator.
func (a *HeaderAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set(a.Header, apiKey)
}

// QueryAuth appends the key to the request URL, keeping existing parameters.
type QueryAuth struct {
	Param string
}

// Apply implements Authenticator.
func (a *QueryAuth) Apply(req *http.Request, apiKey string) {
	if req.URL == nil {
		return
	}
	q := req.URL.Query()
	q.Set(a.Param, apiKey)
	req.URL.RawQuery = q.Encode()
}
