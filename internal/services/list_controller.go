package services

import (
	"context"
	"errors"
	"sync"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	"go.uber.org/zap"
)

// DefaultPageSize is the list page size when none is configured.
const DefaultPageSize = 10

// ErrSuperseded is returned by a fetch whose result was discarded because a
// newer fetch started before it completed.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

// ListController owns the filter state and pagination cursor of the lead
// list. It is safe for concurrent use; only the latest fetch is applied.
type ListController struct {
	lister   LeadLister
	pageSize int

	mu      sync.Mutex
	filter  models.LeadFilter
	cursor  models.Pagination
	items   []models.Lead
	loading bool
	err     error
	seq     uint64
	cancel  context.CancelFunc
}

// NewListController creates a controller with an unfiltered, unfetched list.
func NewListController(lister LeadLister, pageSize int) *ListController {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ListController{
		lister:   lister,
		pageSize: pageSize,
		cursor:   models.InitialPagination(),
		items:    []models.Lead{},
	}
}

// Mount fetches page 1 with the current filters.
func (c *ListController) Mount(ctx context.Context) error {
	return c.fetch(ctx, 1)
}

// SetSearch updates the search text; a change refetches page 1.
func (c *ListController) SetSearch(ctx context.Context, search string) (bool, error) {
	return c.updateFilter(ctx, func(f *models.LeadFilter) { f.Search = search })
}

// SetStage updates the stage filter; a change refetches page 1.
func (c *ListController) SetStage(ctx context.Context, stage models.StageFilter) (bool, error) {
	return c.updateFilter(ctx, func(f *models.LeadFilter) { f.Stage = stage })
}

// SetSource updates the source filter; a change refetches page 1.
func (c *ListController) SetSource(ctx context.Context, source models.SourceFilter) (bool, error) {
	return c.updateFilter(ctx, func(f *models.LeadFilter) { f.Source = source })
}

// SetFilters replaces all filters at once; a change refetches page 1.
func (c *ListController) SetFilters(ctx context.Context, filter models.LeadFilter) (bool, error) {
	return c.updateFilter(ctx, func(f *models.LeadFilter) { *f = filter })
}

func (c *ListController) updateFilter(ctx context.Context, apply func(*models.LeadFilter)) (bool, error) {
	c.mu.Lock()
	next := c.filter
	apply(&next)
	if next == c.filter {
		c.mu.Unlock()
		return false, nil
	}
	c.filter = next
	c.mu.Unlock()

	return true, c.fetch(ctx, 1)
}

// GoToPage fetches page n when 1 <= n <= totalPages and reports whether a
// fetch was dispatched.
func (c *ListController) GoToPage(ctx context.Context, n int) (bool, error) {
	c.mu.Lock()
	total := c.cursor.TotalPages
	c.mu.Unlock()

	if n < 1 || n > total {
		return false, nil
	}
	return true, c.fetch(ctx, n)
}

// NextPage moves one page forward.
func (c *ListController) NextPage(ctx context.Context) (bool, error) {
	c.mu.Lock()
	page := c.cursor.Page
	c.mu.Unlock()
	return c.GoToPage(ctx, page+1)
}

// PrevPage moves one page back.
func (c *ListController) PrevPage(ctx context.Context) (bool, error) {
	c.mu.Lock()
	page := c.cursor.Page
	c.mu.Unlock()
	return c.GoToPage(ctx, page-1)
}

// Filter returns the current filter state.
func (c *ListController) Filter() models.LeadFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *ListController) fetch(ctx context.Context, page int) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loading = true
	query := repository.ListQuery{Page: page, Limit: c.pageSize, Filter: c.filter}
	c.mu.Unlock()

	env, err := c.lister.List(fetchCtx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()

	if seq != c.seq {
		metrics.ListFetchTotal.WithLabelValues("stale").Inc()
		logger.Debug("Discarded stale lead list response", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		return ErrSuperseded
	}
	c.cancel = nil
	c.loading = false

	if err != nil {
		metrics.ListFetchTotal.WithLabelValues("error").Inc()
		if !apierrors.Is(err, apierrors.ErrUnauthorized) {
			logger.Error("Failed to fetch leads", zap.Error(err), zap.Int("page", page))
		}
		c.items = []models.Lead{}
		c.err = err
		return err
	}

	metrics.ListFetchTotal.WithLabelValues("applied").Inc()
	c.err = nil
	c.items = env.Leads
	if c.items == nil {
		c.items = []models.Lead{}
	}
	if env.Pagination != nil {
		c.cursor = *env.Pagination
	}
	return nil
}

// FilterView is the form representation of the filters. "all" marks an
// unfiltered select.
type FilterView struct {
	Search string `json:"search"`
	Stage  string `json:"stage"`
	Source string `json:"source"`
}

// ListView is an immutable snapshot of the list for rendering.
type ListView struct {
	Items    []models.Lead     `json:"items"`
	Cursor   models.Pagination `json:"pagination"`
	Filter   FilterView        `json:"filter"`
	PageSize int               `json:"pageSize"`
	Loading  bool              `json:"loading"`
	Error    string            `json:"error,omitempty"`
	Empty    bool              `json:"empty"`
	Showing  int               `json:"showing"`
	HasPrev  bool              `json:"hasPrev"`
	HasNext  bool              `json:"hasNext"`
}

// View snapshots the current state.
func (c *ListController) View() ListView {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.Lead, len(c.items))
	copy(items, c.items)

	showing := len(items)
	if showing > c.pageSize {
		showing = c.pageSize
	}

	v := ListView{
		Items:  items,
		Cursor: c.cursor,
		Filter: FilterView{
			Search: c.filter.Search,
			Stage:  c.filter.Stage.FormValue(),
			Source: c.filter.Source.FormValue(),
		},
		PageSize: c.pageSize,
		Loading:  c.loading,
		Empty:    len(items) == 0,
		Showing:  showing,
		HasPrev:  c.cursor.Page > 1,
		HasNext:  c.cursor.Page < c.cursor.TotalPages,
	}
	if c.err != nil {
		v.Error = apierrors.UserMessage(c.err, "Failed to fetch leads")
	}
	return v
}
