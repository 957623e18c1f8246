package corenlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/OFFIS-RIT/kgraph/internal/util"
	"github.com/OFFIS-RIT/kgraph/pkg/annotator"
	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"

	"golang.org/x/sync/semaphore"
)

// ErrStatus is returned when the server answers with a non-2xx status.
var ErrStatus = errors.New("corenlp: unexpected status")

// Metrics counts the requests made by a Client.
type Metrics struct {
	Requests   int64 `json:"requests"`
	Failures   int64 `json:"failures"`
	Sentences  int64 `json:"sentences"`
	DurationMs int64 `json:"duration_ms"`
}

// Client implements annotator.Annotator against a CoreNLP server.
//
// A Client should be created using NewClient.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	reqLock    *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     Metrics
}

// NewClientParams contains configuration options for creating a new Client.
//
// Timeout bounds one annotation request. MaxConcurrentRequests bounds the
// requests in flight across all callers, 0 means unbounded. ApiKey is sent as
// a bearer token when set.
type NewClientParams struct {
	BaseURL               string
	ApiKey                string
	Timeout               time.Duration
	MaxConcurrentRequests int64
	Transport             http.RoundTripper
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewClient creates a CoreNLP client for the server at params.BaseURL.
func NewClient(params NewClientParams) (*Client, error) {
	if strings.TrimSpace(params.BaseURL) == "" {
		return nil, errors.New("corenlp: base url is required")
	}
	u, err := url.Parse(strings.TrimRight(params.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("corenlp: invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("corenlp: invalid base url %q", params.BaseURL)
	}

	rt := params.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if params.ApiKey != "" {
		rt = &headerTransport{
			headers: map[string]string{"Authorization": "Bearer " + params.ApiKey},
			rt:      rt,
		}
	}

	var sem *semaphore.Weighted
	if params.MaxConcurrentRequests > 0 {
		sem = semaphore.NewWeighted(params.MaxConcurrentRequests)
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Transport: rt, Timeout: params.Timeout},
		reqLock:    sem,
	}, nil
}

// Annotate posts the request text to the server and maps the response.
func (c *Client) Annotate(ctx context.Context, req annotator.AnnotateRequest) (*common.Annotation, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, annotator.ErrEmptyText
	}

	if c.reqLock != nil {
		if err := c.reqLock.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer c.reqLock.Release(1)
	}

	start := time.Now()
	ann, err := c.annotate(ctx, req)
	c.record(start, ann, err)
	return ann, err
}

func (c *Client) annotate(ctx context.Context, req annotator.AnnotateRequest) (*common.Annotation, error) {
	props, err := Properties(req.LanguageOrDefault())
	if err != nil {
		return nil, util.Permanent(err)
	}

	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/"
	endpoint.RawQuery = "properties=" + url.QueryEscape(props)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewBufferString(req.Text))
	if err != nil {
		return nil, util.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", "text/plain; charset=UTF-8")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("corenlp: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("corenlp: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, util.Permanent(err)
		}
		return nil, err
	}

	return Decode(body)
}

func (c *Client) record(start time.Time, ann *common.Annotation, err error) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.Requests++
	c.metrics.DurationMs += time.Since(start).Milliseconds()
	if err != nil {
		c.metrics.Failures++
		logger.Debug("[Annotator] CoreNLP request failed", "err", err)
		return
	}
	c.metrics.Sentences += int64(len(ann.Sentences))
}

// Metrics returns a snapshot of the request counters.
func (c *Client) Metrics() Metrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

// ResetMetrics zeroes the counters.
func (c *Client) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = Metrics{}
}
