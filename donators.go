package donortrack

import "time"

// Payment methods accepted by the backend for a donation.
const (
	PaymentCash    = "Cash"
	PaymentOnline  = "Online"
	PaymentNotDone = "Not Done"
)

// Donator represents a person or entity who has made one or more donations,
// together with the nested donation records the backend returns for them.
type Donator struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Address   string     `json:"address,omitempty"`
	Email     string     `json:"email,omitempty"`
	Donations []Donation `json:"donations"`
	CreatedAt time.Time  `json:"created_at"`
}

// Donation represents a single pledged amount tied to one donator.
//
// Balance and Status are supplied by the backend for display, but clients
// computing totals or filtering should derive them from Amount and PaidAmount
// (see the filter package) so a stale server value can never disagree with
// what is shown.
type Donation struct {
	ID            int           `json:"id"`
	Amount        float64       `json:"amount"`
	PaidAmount    float64       `json:"paid_amount"`
	Balance       float64       `json:"balance"`
	PaymentMethod string        `json:"payment_method"`
	BookNumber    string        `json:"book_number,omitempty"`
	Status        string        `json:"status,omitempty"`
	User          *DonationUser `json:"user,omitempty"`
}

// DonationUser identifies the staff member who recorded a donation.
type DonationUser struct {
	Name string `json:"name"`
}

// normalize repairs shapes the engine must never see: a donator fetched
// without any donations comes back with a nil slice.
func (d *Donator) normalize() {
	if d.Donations == nil {
		d.Donations = []Donation{}
	}
}
