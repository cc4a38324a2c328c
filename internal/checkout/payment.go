package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pos-terminal/internal/pricing"
)

var (
	ErrPaymentMethodRequired = errors.New("payment method required")
	ErrPaymentInvalid        = errors.New("payment details incomplete")
	ErrInsufficientCash      = errors.New("received amount does not cover the total")
)

type Method string

const (
	MethodCard   Method = "card"
	MethodWallet Method = "wallet"
	MethodCrypto Method = "crypto"
	MethodCash   Method = "cash"
)

// DefaultCryptoCurrency is preselected for crypto payments.
const DefaultCryptoCurrency = "bitcoin"

// ParseMethod maps a client supplied name to a Method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodCard, MethodWallet, MethodCrypto, MethodCash:
		return m, nil
	case "":
		return "", ErrPaymentMethodRequired
	default:
		return "", fmt.Errorf("unsupported payment method %q", s)
	}
}

// Label is the human readable name recorded on the sale.
func (m Method) Label() string {
	switch m {
	case MethodCard:
		return "Credit/Debit Card"
	case MethodWallet:
		return "Apple Pay / Google Pay"
	case MethodCrypto:
		return "Coinbase Pay / Crypto"
	case MethodCash:
		return "Cash"
	default:
		return "Payment method"
	}
}

type CardDetails struct {
	Number string
	Expiry string
	CVC    string
	Holder string
}

// Payment is the method chosen on the payment screen and the fields entered
// for it. Fields of other methods are ignored.
type Payment struct {
	Method         Method
	Card           CardDetails
	CryptoCurrency string
	WalletAddress  string
	CashReceived   decimal.Decimal
}

// Validate checks the method specific fields against total.
func (p Payment) Validate(total decimal.Decimal) error {
	switch p.Method {
	case MethodCard:
		var missing []string
		for _, f := range []struct{ name, value string }{
			{"card number", p.Card.Number},
			{"expiry", p.Card.Expiry},
			{"cvc", p.Card.CVC},
			{"card holder", p.Card.Holder},
		} {
			if strings.TrimSpace(f.value) == "" {
				missing = append(missing, f.name)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s required", ErrPaymentInvalid, strings.Join(missing, ", "))
		}
		return nil
	case MethodWallet:
		// the wallet integration validates on its own
		return nil
	case MethodCrypto:
		if strings.TrimSpace(p.WalletAddress) == "" {
			return fmt.Errorf("%w: wallet address required", ErrPaymentInvalid)
		}
		return nil
	case MethodCash:
		if p.CashReceived.LessThan(total) {
			return ErrInsufficientCash
		}
		return nil
	case "":
		return ErrPaymentMethodRequired
	default:
		return fmt.Errorf("unsupported payment method %q", p.Method)
	}
}

// Change is the cash to hand back. It is zero for non-cash methods and may be
// negative while the received amount is short.
func (p Payment) Change(total decimal.Decimal) decimal.Decimal {
	if p.Method != MethodCash {
		return decimal.Zero
	}
	return pricing.Change(p.CashReceived, total)
}

func (p Payment) currency() string {
	if p.Method != MethodCrypto {
		return ""
	}
	if c := strings.TrimSpace(p.CryptoCurrency); c != "" {
		return c
	}
	return DefaultCryptoCurrency
}
