package enum

import "encoding/json"

// PaymentStatus is the state of the pay modal.
type PaymentStatus int

const (
	PaymentStatusClosed       PaymentStatus = 0
	PaymentStatusOpen         PaymentStatus = 1
	PaymentStatusReady        PaymentStatus = 2
	PaymentStatusInsufficient PaymentStatus = 3
	PaymentStatusCompleted    PaymentStatus = 4
	PaymentStatusCancelled    PaymentStatus = 5
)

var paymentStatusNames = [...]string{"Closed", "Open", "Ready", "Insufficient", "Completed", "Cancelled"}

func (s PaymentStatus) String() string {
	if s < 0 || int(s) >= len(paymentStatusNames) {
		return "Unknown"
	}
	return paymentStatusNames[s]
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// IsTerminal reports whether the modal has finished.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled
}

// IsOpen reports whether the modal is accepting tender.
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentStatusOpen || s == PaymentStatusReady || s == PaymentStatusInsufficient
}
