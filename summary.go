package donortrack

// Summary holds the backend's aggregate totals shown on the dashboard.
type Summary struct {
	TotalDonators int     `json:"total_donators"`
	TotalAmount   float64 `json:"total_amount"`
	TotalPaid     float64 `json:"total_paid"`
	TotalBalance  float64 `json:"total_balance"`
	PaidCount     int     `json:"paid_count"`
	PartialCount  int     `json:"partial_count"`
	PendingCount  int     `json:"pending_count"`
}
