package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

// SortKey names an order list column the view can sort by.
type SortKey string

const (
	SortCreatedAt    SortKey = "created_at"
	SortDeadline     SortKey = "deadline"
	SortOrderNumber  SortKey = "order_number"
	SortCustomerName SortKey = "customer_name"
	SortPrice        SortKey = "price"
)

// ListView filters and sorts the engine's working set without mutating
// it. Results are memoized until the filter, sort, or the underlying
// set changes.
type ListView struct {
	engine *Engine

	filter    string
	key       SortKey
	ascending bool

	cached     []model.Order
	cachedGen  uint64
	cacheValid bool
}

// NewListView builds a view over the engine, unfiltered and sorted by
// creation time descending (newest first).
func NewListView(engine *Engine) *ListView {
	return &ListView{engine: engine, filter: "all", key: SortCreatedAt, ascending: false}
}

// SetFilter narrows the view to one status; "all" or "" shows everything.
func (v *ListView) SetFilter(status string) {
	if v.filter != status {
		v.filter = status
		v.cacheValid = false
	}
}

// SetSort selects the sort column and direction.
func (v *ListView) SetSort(key SortKey, ascending bool) {
	if v.key != key || v.ascending != ascending {
		v.key = key
		v.ascending = ascending
		v.cacheValid = false
	}
}

// Rows returns the filtered, sorted orders. Ties keep their listing
// order, so equal keys never jump around between renders.
func (v *ListView) Rows() []model.Order {
	gen := v.engine.Generation()
	if v.cacheValid && gen == v.cachedGen {
		return v.cached
	}

	rows := v.engine.Orders()
	if v.filter != "" && v.filter != "all" {
		filtered := rows[:0]
		for _, order := range rows {
			if string(order.Status) == v.filter {
				filtered = append(filtered, order)
			}
		}
		rows = filtered
	}

	sort.SliceStable(rows, func(i, j int) bool {
		less := v.less(rows[i], rows[j])
		if v.ascending {
			return less
		}
		return v.less(rows[j], rows[i])
	})

	v.cached = rows
	v.cachedGen = gen
	v.cacheValid = true
	return rows
}

// less orders a before b ascending by the active key. Missing values
// sort as zero (numbers) or the epoch (times).
func (v *ListView) less(a, b model.Order) bool {
	switch v.key {
	case SortDeadline:
		return timeOrEpoch(a.Deadline).Before(timeOrEpoch(b.Deadline))
	case SortOrderNumber:
		return intOrZero(a.OrderNumber) < intOrZero(b.OrderNumber)
	case SortCustomerName:
		return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
	case SortPrice:
		return intOrZero(a.Price) < intOrZero(b.Price)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func timeOrEpoch(t *time.Time) time.Time {
	if t == nil {
		return time.Unix(0, 0).UTC()
	}
	return *t
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
