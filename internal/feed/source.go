package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbook/marketdata/internal/dates"
	"github.com/finbook/marketdata/internal/models"
)

// maxFeedBytes bounds a single feed download. The full fund NAV file is
// around 3MB; anything past this is not a price feed.
const maxFeedBytes = 16 << 20

// DefaultSourceTimeout bounds one source attempt so a hung endpoint cannot
// stall the whole chain.
const DefaultSourceTimeout = 10 * time.Second

// Source produces a snapshot for one instrument class from one endpoint.
// An empty snapshot or an error both mean "nothing usable here".
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*models.Snapshot, error)
}

// parseFunc is either ParseEquityFeed or ParseFundFeed.
type parseFunc func(raw string, day dates.Date) (*models.Snapshot, int)

// HTTPSource fetches raw feed text from a URL and runs it through a parser.
type HTTPSource struct {
	name    string
	url     string
	class   models.InstrumentClass
	parse   parseFunc
	client  *http.Client
	timeout time.Duration
	now     func() dates.Date
	log     zerolog.Logger
}

// NewHTTPSource builds a source for the given class and endpoint.
func NewHTTPSource(class models.InstrumentClass, url string, timeout time.Duration, log zerolog.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	s := &HTTPSource{
		name:    fmt.Sprintf("%s:%s", class, url),
		url:     url,
		class:   class,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		now:     dates.Today,
		log:     log,
	}
	switch class {
	case models.ClassFund:
		s.parse = ParseFundFeed
	default:
		s.parse = ParseEquityFeed
	}
	return s
}

func (s *HTTPSource) Name() string { return s.name }

// Fetch downloads and parses the feed. Network failures, bad statuses and
// unparseable payloads all surface as an error or an empty snapshot; the
// caller treats both the same way.
func (s *HTTPSource) Fetch(ctx context.Context) (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	snap, skipped := s.parse(string(body), s.now())
	if skipped > 0 {
		s.log.Debug().
			Str("source", s.name).
			Int("skipped", skipped).
			Int("records", snap.Len()).
			Msg("feed rows skipped")
	}
	return snap, nil
}

// Fetcher tries each class's sources in priority order and returns the
// first non-empty snapshot. It never returns an error: if every source
// fails, the result is an empty snapshot and the caller falls back further.
type Fetcher struct {
	sources map[models.InstrumentClass][]Source
	now     func() dates.Date
	log     zerolog.Logger
}

// NewFetcher builds a fetcher over ordered per-class endpoint lists.
func NewFetcher(equityURLs, fundURLs []string, timeout time.Duration, log zerolog.Logger) *Fetcher {
	sources := make(map[models.InstrumentClass][]Source)
	for _, u := range equityURLs {
		sources[models.ClassEquity] = append(sources[models.ClassEquity], NewHTTPSource(models.ClassEquity, u, timeout, log))
	}
	for _, u := range fundURLs {
		sources[models.ClassFund] = append(sources[models.ClassFund], NewHTTPSource(models.ClassFund, u, timeout, log))
	}
	return &Fetcher{sources: sources, now: dates.Today, log: log}
}

// NewFetcherFromSources builds a fetcher over explicit sources, used by
// tests to substitute fakes.
func NewFetcherFromSources(sources map[models.InstrumentClass][]Source, log zerolog.Logger) *Fetcher {
	return &Fetcher{sources: sources, now: dates.Today, log: log}
}

// Fetch resolves the current day's snapshot for class, first match wins.
func (f *Fetcher) Fetch(ctx context.Context, class models.InstrumentClass) *models.Snapshot {
	for _, src := range f.sources[class] {
		snap, err := src.Fetch(ctx)
		if err != nil {
			f.log.Warn().Err(err).Str("source", src.Name()).Msg("feed source failed")
			continue
		}
		if snap.Empty() {
			f.log.Warn().Str("source", src.Name()).Msg("feed source returned no usable records")
			continue
		}
		f.log.Info().
			Str("source", src.Name()).
			Int("records", snap.Len()).
			Msg("feed fetched")
		return snap
	}
	return models.NewSnapshot(class, f.now())
}
