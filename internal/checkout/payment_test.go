package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment_Validate(t *testing.T) {
	total := dec("34.50")
	card := CardDetails{Number: "4242424242424242", Expiry: "12/30", CVC: "123", Holder: "Ana Diaz"}

	tests := []struct {
		name    string
		payment Payment
		wantErr error
	}{
		{"card complete", Payment{Method: MethodCard, Card: card}, nil},
		{"card missing holder", Payment{Method: MethodCard, Card: CardDetails{Number: card.Number, Expiry: card.Expiry, CVC: card.CVC}}, ErrPaymentInvalid},
		{"card blank fields", Payment{Method: MethodCard, Card: CardDetails{Number: " ", Expiry: " ", CVC: " ", Holder: " "}}, ErrPaymentInvalid},
		{"wallet", Payment{Method: MethodWallet}, nil},
		{"crypto with address", Payment{Method: MethodCrypto, WalletAddress: "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"}, nil},
		{"crypto without address", Payment{Method: MethodCrypto}, ErrPaymentInvalid},
		{"crypto blank address", Payment{Method: MethodCrypto, WalletAddress: "   "}, ErrPaymentInvalid},
		{"cash exact", Payment{Method: MethodCash, CashReceived: dec("34.50")}, nil},
		{"cash over", Payment{Method: MethodCash, CashReceived: dec("50")}, nil},
		{"cash short", Payment{Method: MethodCash, CashReceived: dec("34.49")}, ErrInsufficientCash},
		{"no method", Payment{}, ErrPaymentMethodRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payment.Validate(total)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPayment_ValidateUnknownMethod(t *testing.T) {
	err := Payment{Method: "cheque"}.Validate(dec("1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cheque")
}

func TestPayment_ChangeOnlyForCash(t *testing.T) {
	total := dec("34.50")
	assert.True(t, Payment{Method: MethodCash, CashReceived: dec("40")}.Change(total).Equal(dec("5.5")))
	assert.True(t, Payment{Method: MethodCard, CashReceived: dec("40")}.Change(total).IsZero())
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"card", MethodCard},
		{"wallet", MethodWallet},
		{"crypto", MethodCrypto},
		{"cash", MethodCash},
		{"CASH", MethodCash},
		{"  Card \n", MethodCard},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMethod("")
	assert.ErrorIs(t, err, ErrPaymentMethodRequired)
	_, err = ParseMethod("   ")
	assert.ErrorIs(t, err, ErrPaymentMethodRequired)

	_, err = ParseMethod("paypal")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentMethodRequired)
	assert.Contains(t, err.Error(), "paypal")
}

func TestMethod_Label(t *testing.T) {
	tests := map[Method]string{
		MethodCard:   "Credit/Debit Card",
		MethodWallet: "Apple Pay / Google Pay",
		MethodCrypto: "Coinbase Pay / Crypto",
		MethodCash:   "Cash",
		"":           "Payment method",
		"cheque":     "Payment method",
	}
	for m, want := range tests {
		assert.Equal(t, want, m.Label(), string(m))
	}
}
