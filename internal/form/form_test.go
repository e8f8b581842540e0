package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDonatorForm(t *testing.T) {
	tests := []struct {
		name    string
		form    DonatorForm
		wantErr string
	}{
		{
			name: "valid with all fields",
			form: DonatorForm{Name: "Asha Rao", Phone: "+91 98400 12345", Address: "12 Temple Street", Email: "asha@example.com"},
		},
		{
			name: "valid with name only",
			form: DonatorForm{Name: "Asha Rao"},
		},
		{
			name:    "missing name",
			form:    DonatorForm{},
			wantErr: "Name",
		},
		{
			name:    "blank name",
			form:    DonatorForm{Name: "   "},
			wantErr: "Name",
		},
		{
			name:    "bad email",
			form:    DonatorForm{Name: "Asha Rao", Email: "not-an-email"},
			wantErr: "Email",
		},
		{
			name:    "bad phone",
			form:    DonatorForm{Name: "Asha Rao", Phone: "call me"},
			wantErr: "Phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.form)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateDonationForm(t *testing.T) {
	tests := []struct {
		name    string
		form    DonationForm
		wantErr string
	}{
		{
			name: "valid cash donation",
			form: DonationForm{Amount: 5000, PaidAmount: 1000, PaymentMethod: "Cash", BookNumber: "B-12"},
		},
		{
			name: "valid not done",
			form: DonationForm{Amount: 5000, PaymentMethod: "Not Done"},
		},
		{
			name:    "negative amount",
			form:    DonationForm{Amount: -1, PaymentMethod: "Cash"},
			wantErr: "Amount",
		},
		{
			name:    "negative paid amount",
			form:    DonationForm{Amount: 100, PaidAmount: -1, PaymentMethod: "Cash"},
			wantErr: "PaidAmount",
		},
		{
			name:    "unknown payment method",
			form:    DonationForm{Amount: 100, PaymentMethod: "Cheque"},
			wantErr: "PaymentMethod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.form)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
