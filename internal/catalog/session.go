package catalog

import (
	"sync"
	"time"

	"marketplace-service/internal/debounce"
	"marketplace-service/internal/models"
)

// Session is one client's view over a product list: the current criteria,
// the filtered result and the current page. Filter changes recompute the view
// only after a debounce delay, and any change resets the page to 1.
type Session struct {
	mu       sync.Mutex
	source   []models.Product
	filters  FilterValues
	filtered []models.Product
	page     int
	perPage  int
	deb      *debounce.Debouncer
}

// NewSession builds a session over the given products.
func NewSession(source []models.Product, perPage int, delay time.Duration) *Session {
	if perPage <= 0 {
		perPage = 20
	}
	s := &Session{
		source:   source,
		filtered: Apply(source, FilterValues{}),
		page:     1,
		perPage:  perPage,
		deb:      debounce.New(delay),
	}
	return s
}

// SetFilters replaces the criteria, resets the page to 1 and schedules a
// recompute. A newer call supersedes the pending recompute.
func (s *Session) SetFilters(f FilterValues) {
	s.mu.Lock()
	s.filters = f
	s.page = 1
	s.mu.Unlock()

	s.deb.Trigger(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// The criteria may have changed again while the timer was pending;
		// always recompute from the latest state.
		s.filtered = Apply(s.source, s.filters)
	})
}

// SetPage moves to the given page without touching the criteria.
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.page = page
}

// Page returns the current page number.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// View returns the visible slice for the current page plus the total page
// count.
func (s *Session) View() ([]models.Product, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Paginate(s.filtered, s.page, s.perPage)
}

// Close cancels any pending recompute.
func (s *Session) Close() {
	s.deb.Stop()
}
