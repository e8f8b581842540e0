package filter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"donortrack"
)

// Metrics holds the per-donator figures derived from the donation records.
// Totals are always recomputed from amount and paid amount, never from the
// server-supplied balance or status fields, so the classification used for
// filtering can never drift from the totals on screen.
type Metrics struct {
	TotalAmount  float64
	TotalPaid    float64
	TotalBalance float64
	Status       Status
}

// Derive computes the metrics for a single donator.
//
// A donator with no donations has totals of zero and classifies as PAID
// (paid >= pledged holds at 0 >= 0). Overpayment also classifies as PAID.
func Derive(d donortrack.Donator) Metrics {
	var m Metrics

	for _, donation := range d.Donations {
		m.TotalAmount += donation.Amount
		m.TotalPaid += donation.PaidAmount
	}
	m.TotalBalance = m.TotalAmount - m.TotalPaid

	switch {
	case m.TotalPaid >= m.TotalAmount:
		m.Status = StatusPaid
	case m.TotalPaid > 0:
		m.Status = StatusPartial
	default:
		m.Status = StatusPending
	}

	return m
}

// ProgressPercent returns how much of the pledged total has been paid, as a
// percentage. A donator with nothing pledged reads 0%, never NaN.
func ProgressPercent(m Metrics) float64 {
	if m.TotalAmount == 0 {
		return 0
	}
	return m.TotalPaid / m.TotalAmount * 100
}

// Row pairs a donator with its derived metrics for rendering.
type Row struct {
	Donator donortrack.Donator
	Metrics Metrics
}

// Result is the output of one engine pass: the ordered rows to render and
// the active-filter count for the badge.
type Result struct {
	Rows          []Row
	ActiveFilters int
}

// Engine applies a filter State to a donator list. It holds only the collator
// used for locale-aware name ordering; every Apply call is an independent,
// idempotent pass over its inputs.
type Engine struct {
	collator *collate.Collator
}

// New returns an engine that orders names with English collation rules,
// ignoring case.
func New() *Engine {
	return NewForTag(language.English)
}

// NewForTag returns an engine that orders names using the collation rules of
// the given language.
func NewForTag(tag language.Tag) *Engine {
	return &Engine{collator: collate.New(tag, collate.IgnoreCase)}
}

// Apply derives metrics for every donator, keeps those matching every active
// filter, orders them by the state's sort key, and reports the active-filter
// count. The input slice is never modified.
func (e *Engine) Apply(donators []donortrack.Donator, s State) Result {
	rows := make([]Row, 0, len(donators))

	for _, d := range donators {
		row := Row{Donator: d, Metrics: Derive(d)}
		if s.matches(row) {
			rows = append(rows, row)
		}
	}

	e.sortRows(rows, s.SortBy)

	return Result{Rows: rows, ActiveFilters: s.ActiveCount()}
}

// matches reports whether a row passes every active predicate. The predicates
// are AND-combined; ordering here is only a short-circuit optimization.
func (s State) matches(row Row) bool {
	return s.matchesSearch(row.Donator) &&
		s.matchesStatus(row.Metrics) &&
		s.matchesAmount(row.Metrics) &&
		s.matchesBalance(row.Metrics) &&
		s.matchesAddedBy(row.Donator) &&
		s.matchesCount(row.Donator) &&
		s.matchesPriority(row.Metrics)
}

func (s State) matchesSearch(d donortrack.Donator) bool {
	query := strings.ToLower(strings.TrimSpace(s.Search))
	if query == "" {
		return true
	}

	for _, field := range []string{d.Name, d.Phone, d.Address} {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}

	return false
}

func (s State) matchesStatus(m Metrics) bool {
	if !s.statusActive() {
		return true
	}
	return m.Status == s.Status
}

func (s State) matchesAmount(m Metrics) bool {
	if !s.amountActive() {
		return true
	}

	switch s.AmountRange {
	case AmountSmall:
		return m.TotalAmount < smallAmountMax
	case AmountMedium:
		return m.TotalAmount >= smallAmountMax && m.TotalAmount <= mediumAmountMax
	case AmountLarge:
		return m.TotalAmount > mediumAmountMax
	case AmountCustom:
		min, max := s.customBounds()
		return m.TotalAmount >= min && m.TotalAmount <= max
	}

	return true
}

func (s State) matchesBalance(m Metrics) bool {
	if !s.balanceActive() {
		return true
	}

	switch s.BalanceRange {
	case BalanceZero:
		return m.TotalBalance == 0
	case BalanceLow:
		return m.TotalBalance > 0 && m.TotalBalance <= lowBalanceMax
	case BalanceMedium:
		return m.TotalBalance > lowBalanceMax && m.TotalBalance <= mediumBalanceMax
	case BalanceHigh:
		return m.TotalBalance > mediumBalanceMax
	}

	return true
}

func (s State) matchesAddedBy(d donortrack.Donator) bool {
	if s.AddedBy == "" {
		return true
	}

	for _, donation := range d.Donations {
		if donation.User != nil && donation.User.Name == s.AddedBy {
			return true
		}
	}

	return false
}

func (s State) matchesCount(d donortrack.Donator) bool {
	switch s.DonationCount {
	case CountSingle:
		return len(d.Donations) == 1
	case CountMultiple:
		return len(d.Donations) > 1
	}

	return true
}

func (s State) matchesPriority(m Metrics) bool {
	switch s.Priority {
	case PriorityHigh:
		return m.TotalBalance > mediumBalanceMax
	case PriorityLow:
		return m.TotalBalance > 0 && m.TotalBalance <= lowBalanceMax
	}

	return true
}

// sortRows orders rows in place with the comparator selected by key. The
// sort is stable, so rows comparing equal keep their relative input order.
// Unknown keys fall back to the default name ordering.
func (e *Engine) sortRows(rows []Row, key SortKey) {
	byName := func(a, b Row) int {
		return e.collator.CompareString(a.Donator.Name, b.Donator.Name)
	}

	var compare func(a, b Row) int

	switch key {
	case SortNameDesc:
		compare = func(a, b Row) int { return byName(b, a) }
	case SortAmountAsc:
		compare = func(a, b Row) int { return cmp.Compare(a.Metrics.TotalAmount, b.Metrics.TotalAmount) }
	case SortAmountDesc:
		compare = func(a, b Row) int { return cmp.Compare(b.Metrics.TotalAmount, a.Metrics.TotalAmount) }
	case SortBalanceAsc:
		compare = func(a, b Row) int { return cmp.Compare(a.Metrics.TotalBalance, b.Metrics.TotalBalance) }
	case SortBalanceDesc:
		compare = func(a, b Row) int { return cmp.Compare(b.Metrics.TotalBalance, a.Metrics.TotalBalance) }
	case SortDonationsCount:
		// Descending by donation count only; ties keep input order.
		compare = func(a, b Row) int { return cmp.Compare(len(b.Donator.Donations), len(a.Donator.Donations)) }
	default:
		compare = byName
	}

	slices.SortStableFunc(rows, compare)
}
