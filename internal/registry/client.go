package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"predscan/internal/cache"
	"predscan/internal/model"
	"predscan/internal/util"
	"predscan/internal/worker"
)

// ErrNotFound reports that the registry has no record for an identifier.
// Callers treat it exactly like an unavailable registry: the candidate is
// scored with documented defaults, never skipped or failed.
var ErrNotFound = errors.New("registry: record not found")

const lookupMaxRetries = 3

// sleepFunc is the sleep used between retries (injectable for tests).
var sleepFunc = time.Sleep

// Client looks up device records from the external registry. Lookups are
// rate limited per host, retried with exponential backoff on transient
// failures, and cached across runs. An empty base URL disables the client;
// every lookup then reports ErrNotFound.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxRetries int
	limiter    *worker.Limiter
	store      cache.Cache // nil disables caching
	semaphore  chan struct{}
}

// NewClient creates a registry client. concurrency bounds simultaneous
// lookups; store may be nil.
func NewClient(cfg model.RegistryConfig, concurrency int, store cache.Cache) *Client {
	if concurrency <= 0 {
		concurrency = 4
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = lookupMaxRetries
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		maxRetries: maxRetries,
		limiter:    worker.NewLimiter(rps, cfg.BurstSize),
		store:      store,
		semaphore:  make(chan struct{}, concurrency),
	}
}

// cachedLookup is the cache payload; not-found responses are cached too so
// repeated runs do not re-query identifiers the registry does not know.
type cachedLookup struct {
	NotFound bool        `json:"not_found,omitempty"`
	Record   *wireRecord `json:"record,omitempty"`
}

// wireRecord is the registry response shape. Recall and event sections are
// optional; their absence means the registry holds no signal data for the
// record, which downgrades scoring to defaults rather than zeroes.
type wireRecord struct {
	Identifier   string `json:"identifier"`
	DeviceName   string `json:"device_name,omitempty"`
	Applicant    string `json:"applicant,omitempty"`
	ProductCode  string `json:"product_code,omitempty"`
	ReviewPanel  string `json:"review_panel,omitempty"`
	DecisionCode string `json:"decision_code,omitempty"`
	DecisionDate string `json:"decision_date,omitempty"` // YYYY-MM-DD

	Recalls *struct {
		Total  int `json:"total"`
		ClassI int `json:"class_i"`
	} `json:"recalls,omitempty"`

	Events *struct {
		Adverse int `json:"adverse"`
		Deaths  int `json:"deaths"`
	} `json:"events,omitempty"`

	Label string `json:"label,omitempty"` // predicate, reference, or empty
}

// Lookup fetches the record for one identifier. Returns ErrNotFound when
// the registry does not know the identifier or the client is disabled.
func (c *Client) Lookup(ctx context.Context, identifier string) (*model.DeviceRecord, error) {
	if c.baseURL == "" {
		return nil, ErrNotFound
	}

	key := cache.Key("record", identifier)
	if c.store != nil {
		if data, found := c.store.Get(key); found {
			var cached cachedLookup
			if err := json.Unmarshal(data, &cached); err == nil {
				if cached.NotFound {
					return nil, ErrNotFound
				}
				return cached.Record.toModel(), nil
			}
		}
	}

	record, err := c.fetchWithRetry(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.cacheResult(key, cachedLookup{NotFound: true})
		}
		return nil, err
	}

	c.cacheResult(key, cachedLookup{Record: record})
	return record.toModel(), nil
}

// LookupAll fetches records for many identifiers with bounded concurrency.
// Failed or missing lookups yield nil entries; a cancelled context abandons
// the remaining lookups and the pipeline proceeds with defaults.
func (c *Client) LookupAll(ctx context.Context, identifiers []string) map[string]*model.DeviceRecord {
	records := make(map[string]*model.DeviceRecord, len(identifiers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range identifiers {
		wg.Add(1)
		go func(identifier string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				mu.Lock()
				records[identifier] = nil
				mu.Unlock()
				return
			case c.semaphore <- struct{}{}:
			}
			defer func() { <-c.semaphore }()

			record, err := c.Lookup(ctx, identifier)
			mu.Lock()
			if err != nil {
				records[identifier] = nil
			} else {
				records[identifier] = record
			}
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return records
}

// Recalled reports whether an identifier's record carries any recall.
// Lookup failures resolve to false.
func (c *Client) Recalled(ctx context.Context, identifier string) bool {
	record, err := c.Lookup(ctx, identifier)
	if err != nil || record == nil || record.RecallCount == nil {
		return false
	}
	return *record.RecallCount > 0
}

func (c *Client) cacheResult(key string, payload cachedLookup) {
	if c.store == nil {
		return
	}
	if data, err := json.Marshal(payload); err == nil {
		_ = c.store.Set(key, data, 0)
	}
}

// fetchWithRetry retries transient failures with exponential backoff.
// Not-found is definitive and never retried.
func (c *Client) fetchWithRetry(ctx context.Context, identifier string) (*wireRecord, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		record, err := c.fetch(ctx, identifier)
		if err == nil || errors.Is(err, ErrNotFound) {
			return record, err
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
		if attempt < c.maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			sleepFunc(backoff)
		}
	}
	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, identifier string) (*wireRecord, error) {
	url := fmt.Sprintf("%s/records/%s", c.baseURL, identifier)

	if err := c.limiter.Wait(ctx, url); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{fmt.Errorf("registry request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &transientError{fmt.Errorf("registry status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("registry status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &transientError{fmt.Errorf("read registry response: %w", err)}
	}

	var record wireRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("parse registry response: %w", err)
	}
	if record.Identifier == "" {
		record.Identifier = identifier
	}

	return &record, nil
}

// transientError marks failures worth retrying.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// toModel converts the wire shape into the scoring model.
func (w *wireRecord) toModel() *model.DeviceRecord {
	if w == nil {
		return nil
	}

	record := &model.DeviceRecord{
		Identifier:   w.Identifier,
		DeviceName:   w.DeviceName,
		Applicant:    w.Applicant,
		ProductCode:  w.ProductCode,
		ReviewPanel:  w.ReviewPanel,
		DecisionCode: w.DecisionCode,
	}

	if w.DecisionDate != "" {
		if t, err := time.Parse("2006-01-02", w.DecisionDate); err == nil {
			record.DecisionDate = &t
		}
	}

	if w.Recalls != nil {
		total := w.Recalls.Total
		record.RecallCount = &total
		record.ClassIRecallCount = w.Recalls.ClassI
	}
	if w.Events != nil {
		adverse := w.Events.Adverse
		deaths := w.Events.Deaths
		record.AdverseEventCount = &adverse
		record.DeathEventCount = &deaths
	}

	switch strings.ToLower(w.Label) {
	case "predicate":
		record.OriginalLabel = model.LabelPredicate
	case "reference":
		record.OriginalLabel = model.LabelReference
	default:
		record.OriginalLabel = model.LabelUnknown
	}

	return record
}
