// Package pager paginates an already fetched result list. It never touches
// the store.
package pager

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
)

// View is the presentation mode of a result page.
type View string

const (
	ViewGrid View = "grid"
	ViewList View = "list"
)

// DefaultSize is the page size used until another allowed size is chosen.
const DefaultSize = 9

// AllowedSizes are the selectable page sizes.
var AllowedSizes = []int{6, 9, 12, 24}

// ErrInvalidSize is returned by SetSize for sizes outside AllowedSizes.
var ErrInvalidSize = fmt.Errorf("page size must be one of %v", AllowedSizes)

// ErrInvalidView is returned by SetView for unknown modes.
var ErrInvalidView = fmt.Errorf("view must be %q or %q", ViewGrid, ViewList)

// Pager holds paging state for one result list. Not safe for concurrent use.
type Pager struct {
	page  int
	size  int
	total int
	view  View
}

// New returns a pager on page 1 with the default size and grid view.
func New() *Pager {
	return &Pager{page: 1, size: DefaultSize, view: ViewGrid}
}

func (p *Pager) Page() int  { return p.page }
func (p *Pager) Size() int  { return p.size }
func (p *Pager) Total() int { return p.total }
func (p *Pager) View() View { return p.view }

// SetTotal records the result count. Any change of count returns to page 1.
func (p *Pager) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	if n != p.total {
		p.page = 1
	}
	p.total = n
}

// SetSize changes the page size and returns to page 1.
func (p *Pager) SetSize(size int) error {
	if !slices.Contains(AllowedSizes, size) {
		return ErrInvalidSize
	}
	p.size = size
	p.page = 1
	return nil
}

// SetView changes the presentation mode only.
func (p *Pager) SetView(v View) error {
	switch v {
	case ViewGrid, ViewList:
		p.view = v
		return nil
	default:
		return ErrInvalidView
	}
}

// TotalPages is ceil(total / size), 0 when there are no results.
func (p *Pager) TotalPages() int {
	return (p.total + p.size - 1) / p.size
}

// Next advances one page; at the last page it does nothing.
func (p *Pager) Next() {
	if p.page < p.TotalPages() {
		p.page++
	}
}

// Prev goes back one page; at the first page it does nothing.
func (p *Pager) Prev() {
	if p.page > 1 {
		p.page--
	}
}

// GoTo jumps to page n, clamped into [1, TotalPages].
func (p *Pager) GoTo(n int) {
	last := max(p.TotalPages(), 1)
	p.page = min(max(n, 1), last)
}

// HasNext reports whether Next would move.
func (p *Pager) HasNext() bool {
	return p.page < p.TotalPages()
}

// HasPrev reports whether Prev would move.
func (p *Pager) HasPrev() bool {
	return p.page > 1
}

// Range returns the 1-based inclusive item range of the current page, or
// (0, 0) when there are no results.
func (p *Pager) Range() (start, end int) {
	if p.total == 0 {
		return 0, 0
	}
	start = (p.page-1)*p.size + 1
	end = min(p.page*p.size, p.total)
	return start, end
}

// Summary renders the range line shown above a result page.
func (p *Pager) Summary() string {
	if p.total == 0 {
		return "No voters found"
	}
	start, end := p.Range()
	return fmt.Sprintf("Showing %s to %s of %s voters",
		humanize.Comma(int64(start)), humanize.Comma(int64(end)), humanize.Comma(int64(p.total)))
}

// State is a serialisable snapshot of the pager.
type State struct {
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	View       View   `json:"view"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
	Summary    string `json:"summary"`
}

// State returns a snapshot for rendering.
func (p *Pager) State() State {
	start, end := p.Range()
	return State{
		Page:       p.page,
		Size:       p.size,
		View:       p.view,
		Total:      p.total,
		TotalPages: p.TotalPages(),
		Start:      start,
		End:        end,
		HasNext:    p.HasNext(),
		HasPrev:    p.HasPrev(),
		Summary:    p.Summary(),
	}
}

// Slice returns the items on the pager's current page.
func Slice[T any](p *Pager, items []T) []T {
	start, end := p.Range()
	if start == 0 || start > len(items) {
		return []T{}
	}
	end = min(end, len(items))
	return items[start-1 : end]
}
