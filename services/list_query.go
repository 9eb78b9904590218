package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sponsorship_console/config"
	"sponsorship_console/models"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSuperseded is returned for a fetch whose result was discarded because a
// newer fetch was started after it
var ErrSuperseded = errors.New("superseded by a newer request")

// FilterAll is the "no restriction" value every filter accepts
const FilterAll = "all"

// ListQuery is the user-controlled state of a paged list
type ListQuery struct {
	Search   string
	Filters  map[string]string
	Page     int
	PageSize int
}

// Values encodes the query for the backend. Empty and "all" filters are omitted.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(1, q.Page)))
	v.Set("limit", strconv.Itoa(q.PageSize))
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	for field, value := range q.Filters {
		if value == "" || value == FilterAll {
			continue
		}
		v.Set(field, value)
	}
	return v
}

func (q ListQuery) clone() ListQuery {
	filters := make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		filters[k] = v
	}
	q.Filters = filters
	return q
}

// FilterSpec declares a filter a list accepts. Empty Allowed means free-form.
type FilterSpec struct {
	Field   string
	Label   string
	Allowed []string
}

func (f FilterSpec) accepts(value string) bool {
	if value == "" || value == FilterAll || len(f.Allowed) == 0 {
		return true
	}
	for _, a := range f.Allowed {
		if a == value {
			return true
		}
	}
	return false
}

// Fetcher loads one page for a query
type Fetcher[T any] func(ctx context.Context, q ListQuery) (models.Page[T], error)

// ListOptions configure a ListController
type ListOptions struct {
	Name     string
	PageSize int
	Debounce time.Duration
	Filters  []FilterSpec
	Logger   *zap.Logger
}

// ListSnapshot is an immutable view of a list's state
type ListSnapshot[T any] struct {
	Query      ListQuery
	Rows       []T
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
	Pages      []int
	Showing    string
	Loading    bool
	Loaded     bool
	Empty      bool
	Err        error
	Seq        uint64
}

// ListController owns the query state and rows of one paged list. Every
// fetch carries a sequence number; only the response to the newest fetch is
// applied. Failed fetches keep the previous rows visible.
type ListController[T any] struct {
	mu    sync.Mutex
	fetch Fetcher[T]
	opts  ListOptions

	query      ListQuery
	rows       []T
	totalCount int
	loading    bool
	loaded     bool
	lastErr    error

	seq      uint64
	inflight context.CancelFunc

	debounce      *time.Timer
	pendingSearch chan ListSnapshot[T]

	ctx    context.Context
	stop   context.CancelFunc
	closed bool
}

// NewListController creates a controller that loads pages with fetch
func NewListController[T any](fetch Fetcher[T], opts ListOptions) *ListController[T] {
	if opts.PageSize == 0 || !ValidPageSize(opts.PageSize) {
		opts.PageSize = DefaultPageSize
	}
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultSearchDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	filters := make(map[string]string, len(opts.Filters))
	for _, f := range opts.Filters {
		filters[f.Field] = FilterAll
	}

	ctx, stop := context.WithCancel(context.Background())
	return &ListController[T]{
		fetch: fetch,
		opts:  opts,
		query: ListQuery{Filters: filters, Page: 1, PageSize: opts.PageSize},
		rows:  []T{},
		ctx:   ctx,
		stop:  stop,
	}
}

// Query returns a copy of the current query state
func (c *ListController[T]) Query() ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.clone()
}

// Filters returns the declared filters
func (c *ListController[T]) Filters() []FilterSpec {
	return c.opts.Filters
}

// SetSearch updates the search text and resets to page 1. The fetch runs
// once typing has settled for the debounce interval. The returned channel
// yields the settled snapshot, or is closed empty when a later change
// supersedes this keystroke.
func (c *ListController[T]) SetSearch(q string) <-chan ListSnapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	done := make(chan ListSnapshot[T], 1)
	if c.closed {
		close(done)
		return done
	}

	c.cancelPendingSearchLocked()
	c.query.Search = q
	c.query.Page = 1
	c.pendingSearch = done

	c.debounce = time.AfterFunc(c.opts.Debounce, func() {
		c.mu.Lock()
		if c.pendingSearch != done {
			c.mu.Unlock()
			return
		}
		c.pendingSearch = nil
		c.debounce = nil
		c.mu.Unlock()

		snap, err := c.Fetch(c.ctx)
		if !errors.Is(err, ErrSuperseded) && !IsCanceled(err) {
			done <- snap
		}
		close(done)
	})

	return done
}

// SetFilter sets field to value, resets to page 1 and fetches immediately
func (c *ListController[T]) SetFilter(ctx context.Context, field, value string) (ListSnapshot[T], error) {
	spec, ok := c.filterSpec(field)
	if !ok {
		valErr := &ValidationError{}
		valErr.addProblem("Unknown filter %q", field)
		return c.Snapshot(), valErr
	}
	if !spec.accepts(value) {
		valErr := &ValidationError{}
		valErr.addProblem("%s must be one of: %s", labelOr(spec), strings.Join(append([]string{FilterAll}, spec.Allowed...), ", "))
		return c.Snapshot(), valErr
	}
	if value == "" {
		value = FilterAll
	}

	c.mu.Lock()
	c.cancelPendingSearchLocked()
	c.query.Filters[field] = value
	c.query.Page = 1
	c.mu.Unlock()

	return c.Fetch(ctx)
}

// SetPage moves to page n and fetches immediately
func (c *ListController[T]) SetPage(ctx context.Context, n int) (ListSnapshot[T], error) {
	c.mu.Lock()
	if c.loaded {
		n = ClampPage(n, TotalPages(c.totalCount, c.query.PageSize))
	} else {
		n = max(1, n)
	}
	c.query.Page = n
	c.mu.Unlock()

	return c.Fetch(ctx)
}

// SetPageSize changes the page size, resets to page 1 and fetches
func (c *ListController[T]) SetPageSize(ctx context.Context, n int) (ListSnapshot[T], error) {
	if !ValidPageSize(n) {
		valErr := &ValidationError{}
		valErr.addProblem("Page size must be one of 5, 10, 25, 50")
		return c.Snapshot(), valErr
	}

	c.mu.Lock()
	c.query.PageSize = n
	c.query.Page = 1
	c.mu.Unlock()

	return c.Fetch(ctx)
}

// Apply replaces the whole query (search, filters, page, size) and fetches
// once. Used by plain page loads that carry the full state in the URL. The
// requested page is ignored when anything but the page changed.
func (c *ListController[T]) Apply(ctx context.Context, q ListQuery) (ListSnapshot[T], error) {
	valErr := &ValidationError{}
	for field, value := range q.Filters {
		spec, ok := c.filterSpec(field)
		if !ok {
			continue
		}
		if !spec.accepts(value) {
			valErr.addProblem("%s must be one of: %s", labelOr(spec), strings.Join(append([]string{FilterAll}, spec.Allowed...), ", "))
		}
	}
	if q.PageSize != 0 && !ValidPageSize(q.PageSize) {
		valErr.addProblem("Page size must be one of 5, 10, 25, 50")
	}
	if valErr.HasProblems() {
		return c.Snapshot(), valErr
	}

	c.mu.Lock()
	c.cancelPendingSearchLocked()
	changed := c.query.Search != q.Search
	c.query.Search = q.Search
	for _, f := range c.opts.Filters {
		value := q.Filters[f.Field]
		if value == "" {
			value = FilterAll
		}
		if c.query.Filters[f.Field] != value {
			changed = true
		}
		c.query.Filters[f.Field] = value
	}
	if q.PageSize != 0 && q.PageSize != c.query.PageSize {
		changed = true
		c.query.PageSize = q.PageSize
	}
	// A new search, filter or page size starts over at page 1. The very
	// first load keeps the page so links into a later page still work.
	if changed && c.seq > 0 {
		c.query.Page = 1
	} else {
		c.query.Page = max(1, q.Page)
	}
	c.mu.Unlock()

	return c.Fetch(ctx)
}

// Fetch loads the page for the current query. A newer Fetch cancels this
// one and its result is discarded with ErrSuperseded.
func (c *ListController[T]) Fetch(ctx context.Context) (ListSnapshot[T], error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ListSnapshot[T]{}, context.Canceled
	}
	if c.inflight != nil {
		c.inflight()
	}
	c.seq++
	seq := c.seq
	query := c.query.clone()
	fetchCtx, cancel := context.WithCancel(ctx)
	c.inflight = cancel
	c.loading = true
	c.mu.Unlock()

	page, err := c.fetch(fetchCtx, query)

	c.mu.Lock()
	if seq != c.seq || c.closed {
		c.mu.Unlock()
		cancel()
		return c.Snapshot(), ErrSuperseded
	}
	c.inflight = nil
	cancel()
	c.loading = false

	if err != nil {
		if IsCanceled(err) {
			// Canceled by the caller with nothing newer in flight
			c.mu.Unlock()
			return c.Snapshot(), err
		}
		c.lastErr = err
		c.opts.Logger.Warn("list fetch failed",
			zap.String("list", c.opts.Name),
			zap.Uint64("seq", seq),
			zap.Error(err))
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, err
	}

	c.rows = page.Rows
	if c.rows == nil {
		c.rows = []T{}
	}
	c.totalCount = page.TotalCount
	c.loaded = true
	c.lastErr = nil
	current := query.Page
	if page.CurrentPage > 0 {
		current = page.CurrentPage
	}
	c.query.Page = ClampPage(current, TotalPages(c.totalCount, c.query.PageSize))

	snap := c.snapshotLocked()
	c.mu.Unlock()
	return snap, nil
}

// Snapshot returns the current state
func (c *ListController[T]) Snapshot() ListSnapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *ListController[T]) snapshotLocked() ListSnapshot[T] {
	rows := make([]T, len(c.rows))
	copy(rows, c.rows)

	totalPages := TotalPages(c.totalCount, c.query.PageSize)
	_, _, showing := RowRange(c.query.Page, c.query.PageSize, c.totalCount)

	return ListSnapshot[T]{
		Query:      c.query.clone(),
		Rows:       rows,
		TotalCount: c.totalCount,
		Page:       c.query.Page,
		PageSize:   c.query.PageSize,
		TotalPages: totalPages,
		Pages:      PageWindow(c.query.Page, totalPages),
		Showing:    showing,
		Loading:    c.loading,
		Loaded:     c.loaded,
		Empty:      c.loaded && len(c.rows) == 0,
		Err:        c.lastErr,
		Seq:        c.seq,
	}
}

// Close stops the debounce timer and cancels in-flight work
func (c *ListController[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancelPendingSearchLocked()
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.stop()
}

func (c *ListController[T]) cancelPendingSearchLocked() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	if c.pendingSearch != nil {
		close(c.pendingSearch)
		c.pendingSearch = nil
	}
}

func (c *ListController[T]) filterSpec(field string) (FilterSpec, bool) {
	for _, f := range c.opts.Filters {
		if f.Field == field {
			return f, true
		}
	}
	return FilterSpec{}, false
}

func labelOr(f FilterSpec) string {
	if f.Label != "" {
		return f.Label
	}
	return fmt.Sprintf("%q", f.Field)
}
