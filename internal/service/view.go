package service

import (
	"context"
	"log"
	"strings"

	"logineko/internal/apiclient"
)

// DefaultPageSize is the number of rows per table page.
const DefaultPageSize = 10

// MaxPageSize bounds the rows a caller may ask for on one page.
const MaxPageSize = 100

// Status is where a view is in its fetch lifecycle.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// View is the result of one fetch: either data or a failure message.
// A failed view still holds the zero T so pages render an empty list.
type View[T any] struct {
	Status  Status
	Data    T
	Err     error
	Message string
}

// OK reports whether the fetch succeeded.
func (v View[T]) OK() bool {
	return v.Status == Ready
}

// Load runs fetch and records the outcome. It never returns a view that is
// still Loading.
func Load[T any](ctx context.Context, what string, fetch func(context.Context) (T, error)) View[T] {
	v := View[T]{Status: Loading}
	data, err := fetch(ctx)
	if err != nil {
		log.Printf("Failed to load %s: %v", what, err)
		var zero T
		v.Status = Failed
		v.Data = zero
		v.Err = err
		v.Message = "Could not load " + what + ". " + apiclient.UserMessage(err)
		return v
	}
	v.Status = Ready
	v.Data = data
	return v
}

// Searchable is implemented by rows that can be matched by a search box.
type Searchable interface {
	SearchFields() []string
}

// Filter keeps the items where any search field contains query, ignoring
// case and surrounding spaces. An empty query keeps everything.
func Filter[T Searchable](items []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if q == "" || matches(item, q) {
			out = append(out, item)
		}
	}
	return out
}

func matches(item Searchable, q string) bool {
	for _, f := range item.SearchFields() {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items  []T
	Number int // 1-based
	Size   int
	Total  int
	Pages  int
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.Pages }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }

// First is the 1-based index of the first item on the page, 0 when empty.
func (p Page[T]) First() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Number-1)*p.Size + 1
}

// Last is the 1-based index of the last item on the page.
func (p Page[T]) Last() int {
	return p.First() + len(p.Items) - 1
}

// Paginate returns page number (1-based) of items. Out-of-range pages are
// clamped; a non-positive size means DefaultPageSize.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := total / size
	if total%size != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	start := (number - 1) * size
	end := start + min(size, total-start)
	return Page[T]{
		Items:  items[start:end],
		Number: number,
		Size:   size,
		Total:  total,
		Pages:  pages,
	}
}
