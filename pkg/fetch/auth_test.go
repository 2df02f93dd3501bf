package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/appdirectory/pkg/errors"
)

func TestAuthenticators(t *testing.T) {
	tests := []struct {
		name       string
		auth       Authenticator
		wantHeader http.Header
		wantQuery  string
	}{
		{name: "none", auth: &NoAuth{}, wantHeader: http.Header{}, wantQuery: "region=eu"},
		{name: "bearer", auth: &BearerAuth{}, wantHeader: http.Header{"Authorization": {"Bearer k"}}, wantQuery: "region=eu"},
		{name: "header", auth: &HeaderAuth{Header: "x-api-key"}, wantHeader: http.Header{"X-Api-Key": {"k"}}, wantQuery: "region=eu"},
		{name: "query", auth: &QueryAuth{Param: "key"}, wantHeader: http.Header{}, wantQuery: "key=k&region=eu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "https://apps.example.com/v1/apps?region=eu", nil)
			req.Header = http.Header{}

			tt.auth.Apply(req, "k")

			assert.Equal(t, tt.wantHeader, req.Header)
			assert.Equal(t, tt.wantQuery, req.URL.RawQuery)
		})
	}
}

func TestQueryAuth_NilURL(t *testing.T) {
	assert.NotPanics(t, func() {
		(&QueryAuth{Param: "key"}).Apply(&http.Request{Header: http.Header{}}, "k")
	})
}

func TestNewAuthenticator(t *testing.T) {
	tests := []struct {
		scheme, name string
		want         Authenticator
	}{
		{scheme: "", want: &BearerAuth{}},
		{scheme: AuthBearer, name: "ignored", want: &BearerAuth{}},
		{scheme: AuthHeader, want: &HeaderAuth{Header: DefaultAuthHeader}},
		{scheme: AuthHeader, name: "X-Directory-Key", want: &HeaderAuth{Header: "X-Directory-Key"}},
		{scheme: AuthQuery, want: &QueryAuth{Param: DefaultAuthParam}},
		{scheme: AuthQuery, name: "token", want: &QueryAuth{Param: "token"}},
		{scheme: AuthNone, want: &NoAuth{}},
	}

	for _, tt := range tests {
		t.Run(tt.scheme+"/"+tt.name, func(t *testing.T) {
			got, err := NewAuthenticator(tt.scheme, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NewAuthenticator("basic", "")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
