package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	pderrors "github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// StatusError is the cause of a STATUS error: the feed answered, but not with 2xx.
type StatusError struct {
	StatusCode int
	Status     string // e.g. "503 Service Unavailable"
	Body       string // first bytes of the body, for diagnostics
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s", e.Status, e.Body)
	}
	return e.Status
}

// Client fetches from one feed base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        logger.Logger
	userAgent  string
	newID      func() string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the http.Client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// withRequestIDs overrides request id generation (tests).
func withRequestIDs(fn func() string) ClientOption {
	return func(c *Client) {
		c.newID = fn
	}
}

// NewClient creates a client for the feed at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logger.Noop(),
		userAgent:  "plantdash",
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ParseBaseURL validates a feed base URL. Only http and https are accepted.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, pderrors.WrapWithCode(err, pderrors.ErrConfig,
			fmt.Sprintf("'%s' isn't a valid feed URL", raw),
			"Use something like http://localhost:8000")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, pderrors.New(pderrors.ErrConfig,
			fmt.Sprintf("'%s' isn't a valid feed URL", raw),
			"The feed URL needs an http:// or https:// scheme and a host, like http://localhost:8000")
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Fetch retrieves and decodes one strips poll. Elements of data that are not
// valid records are returned in Batch.Rejected instead of failing the poll.
func (c *Client) Fetch(ctx context.Context) (Batch, error) {
	var env StripsResponse
	reqID, err := c.getJSON(ctx, StripsPath, &env)
	if err != nil {
		return Batch{}, err
	}

	batch := Batch{
		Records:   make([]plant.RawMeasurement, 0, len(env.Data)),
		Positions: make([]int, 0, len(env.Data)),
		Meta: Meta{
			PlantCount:     env.PlantCount,
			PointsPerPlant: env.PointsPerPlant,
			TotalPoints:    env.TotalPoints,
			Timestamp:      env.Timestamp,
			RequestID:      reqID,
		},
	}
	for i, raw := range env.Data {
		var rec plant.RawMeasurement
		if err := json.Unmarshal(raw, &rec); err != nil {
			batch.Rejected = append(batch.Rejected, &plant.RecordError{
				Index: i,
				Err: pderrors.WrapWithCode(err, pderrors.ErrPayload,
					"Record is not a valid measurement", ""),
			})
			continue
		}
		batch.Records = append(batch.Records, rec)
		batch.Positions = append(batch.Positions, i)
	}

	c.log.Debug("fetched %d records (%d rejected) request=%s", len(batch.Records), len(batch.Rejected), reqID)
	return batch, nil
}

// Dispatch retrieves the recent dispatch records for one plant.
func (c *Client) Dispatch(ctx context.Context, plantID string) (DispatchResponse, error) {
	var resp DispatchResponse
	path := fmt.Sprintf(DispatchPathFmt, url.PathEscape(plantID))
	if _, err := c.getJSON(ctx, path, &resp); err != nil {
		return DispatchResponse{}, err
	}
	if resp.Error != "" {
		suggestion := "Check the plant id"
		if len(resp.AvailablePlants) > 0 {
			suggestion = "Available plants: " + strings.Join(resp.AvailablePlants, ", ")
		}
		return resp, pderrors.New(pderrors.ErrPayload, resp.Error, suggestion)
	}
	return resp, nil
}

// getJSON performs a GET against path and decodes a JSON object into out.
// It returns the request id that was sent.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) (string, error) {
	endpoint := c.baseURL.JoinPath(path).String()
	reqID := c.newID()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return reqID, pderrors.WrapWithCode(err, pderrors.ErrTransport,
			"Couldn't build feed request", "Check the feed URL")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reqID, pderrors.WrapWithCode(err, pderrors.ErrTransport,
			"No response from feed at "+c.baseURL.Host,
			"Check that the feed is running and reachable (try: plantdash simulate)")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return reqID, pderrors.WrapWithCode(err, pderrors.ErrTransport,
			"Feed response was cut off", "Check the network between you and the feed")
	}
	c.log.Debug("GET %s -> %d in %s request=%s", endpoint, resp.StatusCode, time.Since(start).Round(time.Millisecond), reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			Status:     statusLine(resp),
			Body:       snippet(body),
		}
		return reqID, pderrors.WrapWithCode(statusErr, pderrors.ErrStatus,
			"Feed returned "+statusErr.Status,
			"The feed is up but unhappy; check its logs")
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return reqID, pderrors.New(pderrors.ErrPayload,
			"Feed response is not a JSON object",
			"Check the feed URL points at the plant API")
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return reqID, pderrors.WrapWithCode(err, pderrors.ErrPayload,
			"Feed response could not be decoded",
			"Check the feed URL points at the plant API")
	}
	return reqID, nil
}

// statusLine returns "<code> <text>", using the standard text when the server sent none.
func statusLine(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return s
}

// AsStatusError extracts the StatusError from err, if any.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
