package appdirectory

import (
	"github.com/rs/zerolog"
)

// Reporter receives the outcomes the directory recovers from locally. None of
// these are ever returned to directory callers.
type Reporter interface {
	// CacheCorrupted is called when the cached catalog under key could not be
	// decoded at construction and was reset to empty.
	CacheCorrupted(key string, err error)

	// RefreshSucceeded is called after a catalog fetched from url replaced
	// the cached one.
	RefreshSucceeded(url string, apps int)

	// RefreshFailed is called when fetching from url failed and the previous
	// catalog was kept.
	RefreshFailed(url string, err error)
}

// NewLogReporter returns a Reporter that writes to logger.
func NewLogReporter(logger *zerolog.Logger) Reporter {
	return &logReporter{logger: logger}
}

type logReporter struct {
	logger *zerolog.Logger
}

func (r *logReporter) CacheCorrupted(key string, err error) {
	r.logger.Warn().
		Err(err).
		Str("key", key).
		Msg("Cached app directory is corrupt, resetting to empty")
}

func (r *logReporter) RefreshSucceeded(url string, apps int) {
	r.logger.Info().
		Str("source_url", url).
		Int("apps", apps).
		Msg("App directory refreshed")
}

func (r *logReporter) RefreshFailed(url string, err error) {
	r.logger.Error().
		Err(err).
		Str("source_url", url).
		Msg("App directory refresh failed, serving cached catalog")
}

// MultiReporter fans every report out to each of reporters in order.
func MultiReporter(reporters ...Reporter) Reporter {
	var rs multiReporter
	for _, r := range reporters {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return rs
}

type multiReporter []Reporter

func (m multiReporter) CacheCorrupted(key string, err error) {
	for _, r := range m {
		r.CacheCorrupted(key, err)
	}
}

func (m multiReporter) RefreshSucceeded(url string, apps int) {
	for _, r := range m {
		r.RefreshSucceeded(url, apps)
	}
}

func (m multiReporter) RefreshFailed(url string, err error) {
	for _, r := range m {
		r.RefreshFailed(url, err)
	}
}
