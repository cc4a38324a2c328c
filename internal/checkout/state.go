package checkout

// State is the screen a checkout session is on.
type State string

const (
	Browsing       State = "browsing"
	CartOpen       State = "cart_open"
	PaymentSelect  State = "payment_select"
	PaymentConfirm State = "payment_confirm"
	Success        State = "success"
)

func (s State) String() string {
	return string(s)
}

// cartEditable reports whether line items may change in this state.
func (s State) cartEditable() bool {
	return s == Browsing || s == CartOpen
}
