package appdirectory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/agentstation/appdirectory/pkg/apps"
	"github.com/agentstation/appdirectory/pkg/logging"
)

const (
	testURL    = "https://apps.example.com/v1/apps"
	testURLAlt = "https://apps.example.com/v2/apps"
)

// testStore is an in-memory Store that records writes.
type testStore struct {
	mu     sync.Mutex
	values map[string]string
	sets   []string
}

func newTestStore(values map[string]string) *testStore {
	s := &testStore{values: make(map[string]string)}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *testStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *testStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.sets = append(s.sets, key)
}

func (s *testStore) writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sets...)
}

// testFetcher answers every Fetch with the configured outcome and counts calls.
type testFetcher struct {
	calls   atomic.Int32
	mu      sync.Mutex
	urls    []string
	status  int
	body    string
	err     error
	onFetch func(ctx context.Context) error
}

func catalogFetcher(body string) *testFetcher {
	return &testFetcher{status: 200, body: body}
}

func (f *testFetcher) Fetch(ctx context.Context, url string) (Response, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.urls = append(f.urls, url)
	status, body, err, hook := f.status, f.body, f.err, f.onFetch
	f.mu.Unlock()

	if hook != nil {
		if herr := hook(ctx); herr != nil {
			return nil, herr
		}
	}
	if err != nil {
		return nil, err
	}
	return &testResponse{status: status, body: body}, nil
}

func (f *testFetcher) set(status int, body string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body, f.err = status, body, err
}

func (f *testFetcher) count() int {
	return int(f.calls.Load())
}

type testResponse struct {
	status int
	body   string
	closed bool
}

func (r *testResponse) OK() bool    { return r.status >= 200 && r.status < 300 }
func (r *testResponse) Status() int { return r.status }
func (r *testResponse) Close() error {
	r.closed = true
	return nil
}

func (r *testResponse) Decode(context.Context) (apps.Catalog, error) {
	return apps.ParseString(r.body)
}

// testReporter records every report.
type testReporter struct {
	mu        sync.Mutex
	corrupted []error
	succeeded []int
	failed    []error
}

func (r *testReporter) CacheCorrupted(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.corrupted = append(r.corrupted, err)
}

func (r *testReporter) RefreshSucceeded(_ string, apps int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.succeeded = append(r.succeeded, apps)
}

func (r *testReporter) RefreshFailed(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, err)
}

func (r *testReporter) counts() (corrupted, succeeded, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.corrupted), len(r.succeeded), len(r.failed)
}

var errNetwork = errors.New("dial tcp: connection refused")

// newTestDirectory builds a Directory with a silent logger and a recording
// reporter.
func newTestDirectory(t *testing.T, url string, store Store, fetcher Fetcher) (*Directory, *testReporter) {
	t.Helper()
	rep := &testReporter{}
	d := New(url, store, fetcher, WithLogger(logging.NewNopLogger()), WithReporter(rep))
	return d, rep
}

const (
	catalogAB = `[
	{"appId":"a","name":"A","manifest":"https://a/manifest.json","manifestType":"fdc3",
	 "intents":[{"name":"SendEmail","contexts":["fdc3.contact"]},{"name":"StartChat","contexts":["fdc3.contact","fdc3.instrument"]}]},
	{"appId":"b","name":"B","manifest":"https://b/manifest.json","manifestType":"fdc3",
	 "intents":[{"name":"StartChat","contexts":["fdc3.contact"]},{"name":"ShowChart","contexts":["fdc3.instrument"]}]}
]`

	catalogC = `[{"appId":"c","name":"C","manifest":"","manifestType":"","intents":[]}]`
)
