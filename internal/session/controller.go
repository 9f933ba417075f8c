package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	pderrors "github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// Poll interval bounds.
const (
	DefaultInterval = 30 * time.Second
	MinInterval     = time.Second
)

// Fetcher retrieves one poll from the upstream feed.
type Fetcher interface {
	Fetch(ctx context.Context) (feed.Batch, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (feed.Batch, error)

func (f FetcherFunc) Fetch(ctx context.Context) (feed.Batch, error) {
	return f(ctx)
}

// Controller polls a Fetcher on a fixed interval and publishes the results to
// a Store. At most one fetch is in flight; triggers that arrive while one is
// running are dropped.
type Controller struct {
	fetcher Fetcher
	store   *Store
	log     logger.Logger
	now     func() time.Time
	timeout time.Duration
	aggOpts []plant.Option

	inflight atomic.Bool
	// publish orders store writes between consecutive polls.
	publish sync.Mutex

	mu       sync.Mutex
	interval time.Duration
	running  bool
	loopCtx  context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	reset    chan struct{}
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithInterval sets the poll interval. Zero keeps DefaultInterval; other
// values below MinInterval are raised to it.
func WithInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.interval = clampInterval(d)
		}
	}
}

// WithFetchTimeout bounds each fetch. Zero disables the bound.
func WithFetchTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock sets the clock used to stamp LastUpdate.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAggregateOptions passes options through to plant.Aggregate.
func WithAggregateOptions(opts ...plant.Option) ControllerOption {
	return func(c *Controller) {
		c.aggOpts = append(c.aggOpts, opts...)
	}
}

// NewController creates a stopped controller.
func NewController(fetcher Fetcher, store *Store, opts ...ControllerOption) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		store:    store,
		log:      logger.Noop(),
		now:      time.Now,
		interval: DefaultInterval,
		reset:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the store the controller publishes to.
func (c *Controller) Store() *Store {
	return c.store
}

// Start polls once immediately and then every interval until ctx is done or
// Stop is called.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return pderrors.New(pderrors.ErrExec, "Refresh loop is already running", "")
	}
	if c.store.Closed() {
		return pderrors.New(pderrors.ErrExec, "Session has been torn down",
			"Create a new store and controller for a new session")
	}

	c.loopCtx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	c.running = true
	go c.loop(c.loopCtx, c.done)
	return nil
}

// Stop ends the refresh loop and closes the store. A fetch still in flight
// finishes on its own; its result is discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		c.store.Close()
		return
	}
	c.running = false
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done
	c.store.Close()
}

// Running reports whether the refresh loop is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Interval returns the current poll interval.
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// SetInterval changes the poll interval. A running loop picks up the new
// period without restarting.
func (c *Controller) SetInterval(d time.Duration) error {
	if d < MinInterval {
		return pderrors.New(pderrors.ErrConfig,
			fmt.Sprintf("Poll interval %s is too short", d),
			fmt.Sprintf("Use %s or more", MinInterval))
	}

	c.mu.Lock()
	changed := c.interval != d
	c.interval = d
	running := c.running
	c.mu.Unlock()

	if changed && running {
		select {
		case c.reset <- struct{}{}:
		default:
		}
		c.log.Info("poll interval set to %s", d)
	}
	return nil
}

// RetryNow requests an immediate poll. It returns false when the loop is not
// running or a fetch is already in flight.
func (c *Controller) RetryNow() bool {
	c.mu.Lock()
	running, ctx := c.running, c.loopCtx
	c.mu.Unlock()
	if !running || ctx.Err() != nil {
		return false
	}
	return c.trigger(ctx)
}

// PollOnce runs one poll synchronously and returns its error. It obeys the same
// single-flight rule as the loop.
func (c *Controller) PollOnce(ctx context.Context) error {
	if !c.inflight.CompareAndSwap(false, true) {
		return pderrors.New(pderrors.ErrExec, "A poll is already in flight", "Wait for it to finish")
	}
	return c.poll(ctx, false)
}

func (c *Controller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer c.loopEnded(done)

	c.trigger(ctx)

	ticker := time.NewTicker(c.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.trigger(ctx)
		case <-c.reset:
			ticker.Reset(c.Interval())
		}
	}
}

// trigger starts a fetch in the background unless one is already in flight.
func (c *Controller) trigger(ctx context.Context) bool {
	if !c.inflight.CompareAndSwap(false, true) {
		c.log.Debug("poll skipped: fetch already in flight")
		return false
	}
	go func() {
		_ = c.poll(ctx, true)
	}()
	return true
}

// loopEnded marks the controller stopped when the loop exits on its own, for
// example because the parent context was canceled.
func (c *Controller) loopEnded(done chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == done {
		c.running = false
	}
}

// poll runs one fetch for a caller that already holds inflight. inflight is
// released before the result is published, so a caller that observes the new
// phase can start the next poll straight away. With loopOwned set, a result
// that arrives after ctx is done is dropped instead of published.
func (c *Controller) poll(ctx context.Context, loopOwned bool) error {
	c.publish.Lock()
	c.store.BeginLoading()
	c.publish.Unlock()

	res, err := c.collect(ctx)

	c.publish.Lock()
	defer c.publish.Unlock()
	c.inflight.Store(false)

	if loopOwned && ctx.Err() != nil {
		c.log.Debug("poll result discarded: refresh loop ended")
		return ctx.Err()
	}
	if err != nil {
		c.log.Warn("poll failed: %s", pderrors.Summary(err))
		c.fail(err)
		return err
	}

	for _, skipped := range res.Skipped {
		c.log.Debug("skipped %s", skipped.Error())
	}
	if n := len(res.Skipped); n > 0 {
		c.log.Warn("skipped %d malformed records", n)
	}

	if !c.store.ApplySuccess(res, c.now()) {
		c.log.Debug("poll result discarded: session closed")
		return nil
	}
	c.log.Debug("poll ok: %d plants, %d points", len(res.Summaries), len(res.Details))
	return nil
}

// collect fetches and aggregates one poll. Skipped records carry their
// position in the feed's data array, in that order.
func (c *Controller) collect(ctx context.Context) (plant.Result, error) {
	fetchCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	batch, err := c.fetcher.Fetch(fetchCtx)
	if err != nil {
		return plant.Result{}, err
	}

	res := plant.Aggregate(batch.Records, c.aggOpts...)
	for _, skipped := range res.Skipped {
		skipped.Index = batch.WireIndex(skipped.Index)
	}
	if len(batch.Rejected) > 0 {
		skipped := make([]*plant.RecordError, 0, len(batch.Rejected)+len(res.Skipped))
		skipped = append(skipped, batch.Rejected...)
		skipped = append(skipped, res.Skipped...)
		sort.SliceStable(skipped, func(i, j int) bool {
			return skipped[i].Index < skipped[j].Index
		})
		res.Skipped = skipped
	}

	if len(res.Summaries) == 0 && len(res.Skipped) > 0 {
		return res, pderrors.New(pderrors.ErrPayload,
			fmt.Sprintf("All %d records in the feed were malformed", len(res.Skipped)),
			"Check that the feed sends plant, time and generation fields")
	}
	return res, nil
}

func (c *Controller) fail(err error) {
	if !c.store.ApplyFailure(err) {
		c.log.Debug("poll failure discarded: session closed")
	}
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	return d
}
