// Package filter implements the donor-list aggregation and filter engine:
// per-donator metric derivation, multi-criterion filtering, multi-key stable
// sorting, and the active-filter count shown on the list screen's badge.
//
// The engine is a pure transformation over an already-fetched donator list.
// It performs no I/O, keeps no state between calls, and is total: any
// well-typed input produces a result, including donators with no donations
// and custom ranges with unparsable bounds.
package filter

import (
	"math"
	"strconv"
	"strings"
)

// Status classifies how much of a donator's pledged total has been paid.
type Status string

const (
	StatusAll     Status = "ALL"
	StatusPaid    Status = "PAID"
	StatusPartial Status = "PARTIAL"
	StatusPending Status = "PENDING"
)

// AmountRange buckets donators by total pledged amount.
type AmountRange string

const (
	AmountAll    AmountRange = "ALL"
	AmountSmall  AmountRange = "SMALL"  // total < 5000
	AmountMedium AmountRange = "MEDIUM" // 5000 <= total <= 25000
	AmountLarge  AmountRange = "LARGE"  // total > 25000
	AmountCustom AmountRange = "CUSTOM" // [MinAmount, MaxAmount]
)

// BalanceRange buckets donators by total outstanding balance.
type BalanceRange string

const (
	BalanceAll    BalanceRange = "ALL"
	BalanceZero   BalanceRange = "ZERO"   // balance == 0
	BalanceLow    BalanceRange = "LOW"    // 0 < balance <= 1000
	BalanceMedium BalanceRange = "MEDIUM" // 1000 < balance <= 10000
	BalanceHigh   BalanceRange = "HIGH"   // balance > 10000
)

// CountFilter selects donators by how many donations they have.
type CountFilter string

const (
	CountAll      CountFilter = "ALL"
	CountSingle   CountFilter = "SINGLE"   // exactly one donation
	CountMultiple CountFilter = "MULTIPLE" // more than one donation
)

// Priority flags donators worth chasing (large outstanding balance) or
// nearly settled (small but non-zero balance). A donator with exactly zero
// balance matches neither bucket.
type Priority string

const (
	PriorityAll  Priority = "ALL"
	PriorityHigh Priority = "HIGH_PRIORITY" // balance > 10000
	PriorityLow  Priority = "LOW_PRIORITY"  // 0 < balance <= 1000
)

// SortKey selects the comparator applied to the filtered list.
type SortKey string

const (
	SortNameAsc        SortKey = "name_asc"
	SortNameDesc       SortKey = "name_desc"
	SortAmountAsc      SortKey = "amount_asc"
	SortAmountDesc     SortKey = "amount_desc"
	SortBalanceAsc     SortKey = "balance_asc"
	SortBalanceDesc    SortKey = "balance_desc"
	SortDonationsCount SortKey = "donations_count"
)

// Shared bucket thresholds. The balance buckets and the priority buckets must
// agree on these cutoffs, so they are defined exactly once.
const (
	smallAmountMax   = 5000.0
	mediumAmountMax  = 25000.0
	lowBalanceMax    = 1000.0
	mediumBalanceMax = 10000.0
)

// State is the complete set of active filter selections on the donators list
// screen. The zero value of every field (or its *All constant) means
// "no constraint". States are created with neutral defaults, mutated by the
// UI, and reset wholesale; they are never persisted across sessions.
type State struct {
	Status        Status
	AmountRange   AmountRange
	MinAmount     string // custom lower bound; unparsable means 0
	MaxAmount     string // custom upper bound; unparsable means unbounded
	BalanceRange  BalanceRange
	AddedBy       string // staff name that recorded at least one donation
	DonationCount CountFilter
	Priority      Priority
	Search        string
	SortBy        SortKey
}

// NewState returns a State with every filter at its neutral value and the
// default sort key.
func NewState() State {
	return State{
		Status:        StatusAll,
		AmountRange:   AmountAll,
		BalanceRange:  BalanceAll,
		DonationCount: CountAll,
		Priority:      PriorityAll,
		SortBy:        SortNameAsc,
	}
}

// Reset restores every filter to its neutral value ("clear all").
func (s *State) Reset() {
	*s = NewState()
}

// ActiveCount returns the number of filter dimensions set to a non-neutral
// value, plus one when the trimmed search text is non-empty. The sort key is
// presentation, not filtering, and never counts.
func (s State) ActiveCount() int {
	count := 0
	if s.statusActive() {
		count++
	}
	if s.amountActive() {
		count++
	}
	if s.balanceActive() {
		count++
	}
	if s.AddedBy != "" {
		count++
	}
	if s.countActive() {
		count++
	}
	if s.priorityActive() {
		count++
	}
	if strings.TrimSpace(s.Search) != "" {
		count++
	}
	return count
}

func (s State) statusActive() bool {
	return s.Status != "" && s.Status != StatusAll
}

func (s State) amountActive() bool {
	return s.AmountRange != "" && s.AmountRange != AmountAll
}

func (s State) balanceActive() bool {
	return s.BalanceRange != "" && s.BalanceRange != BalanceAll
}

func (s State) countActive() bool {
	return s.DonationCount != "" && s.DonationCount != CountAll
}

func (s State) priorityActive() bool {
	return s.Priority != "" && s.Priority != PriorityAll
}

// customBounds parses the custom amount range. Unparsable or empty bounds
// fall back to 0 and unbounded respectively.
func (s State) customBounds() (min, max float64) {
	min, max = 0, math.Inf(1)

	if v, err := strconv.ParseFloat(strings.TrimSpace(s.MinAmount), 64); err == nil {
		min = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s.MaxAmount), 64); err == nil {
		max = v
	}

	return min, max
}
