package checkout

import (
	"errors"
	"sync"
	"time"

	"milktea-server/internal/utils"
)

// State is one step of the payment flow.
type State string

const (
	StateSelection    State = "selection"
	StateQR           State = "qr"
	StateConfirmation State = "confirmation"
	StateProcessing   State = "processing"
	StateSuccess      State = "success"
)

// MerchantName appears on the simulated GCash QR panel.
const MerchantName = "Tea House PH"

var (
	ErrUnknownMethod      = errors.New("unknown payment method")
	ErrNotInSelection     = errors.New("payment method already chosen")
	ErrNothingToConfirm   = errors.New("choose a payment method first")
	ErrProcessing         = errors.New("payment is processing, please wait")
	ErrAlreadyPaid        = errors.New("payment already completed")
	ErrOriginatorRequired = errors.New("enter the GCash mobile number you are paying from")
)

// PaymentResult is the event emitted when a payment simulation completes.
type PaymentResult struct {
	Method     string  `json:"method"`
	Reference  string  `json:"reference"`
	Originator string  `json:"originator,omitempty"`
	Amount     float64 `json:"amount"`
}

// Flow walks a single checkout attempt through
// selection -> qr|confirmation -> processing -> success.
// Back returns to selection from any interactive state; processing is
// non-interruptible until its simulated delay elapses.
type Flow struct {
	mu        sync.Mutex
	state     State
	method    string
	amount    float64
	reference string
	delay     time.Duration
	result    *PaymentResult
}

// NewFlow starts a checkout attempt at the selection step. delay is the
// simulated processing time; tests pass zero.
func NewFlow(amount float64, delay time.Duration) *Flow {
	return &Flow{state: StateSelection, amount: amount, delay: delay}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Amount() float64 { return f.amount }

// Reference returns the time-derived token shown on the QR panel.
// Empty until a method is chosen.
func (f *Flow) Reference() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reference
}

func (f *Flow) Result() *PaymentResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// ChooseMethod moves selection -> qr (gcash) or selection -> confirmation
// (cod). The QR reference is minted here so the panel can display it.
func (f *Flow) ChooseMethod(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSelection {
		if f.state == StateProcessing {
			return ErrProcessing
		}
		return ErrNotInSelection
	}

	switch method {
	case "gcash":
		f.method = method
		f.reference = utils.PaymentReference(method, time.Now())
		f.state = StateQR
	case "cod":
		f.method = method
		f.state = StateConfirmation
	default:
		return ErrUnknownMethod
	}
	return nil
}

// Back returns to the method selection step. Not allowed while processing
// or after success.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateProcessing:
		return ErrProcessing
	case StateSuccess:
		return ErrAlreadyPaid
	case StateSelection:
		return nil
	}

	f.state = StateSelection
	f.method = ""
	f.reference = ""
	return nil
}

// Confirm runs the simulated payment. On the GCash path the originator
// number must be non-empty or the flow stays in qr. The call blocks for
// the simulated delay and then emits the payment result.
func (f *Flow) Confirm(originator string) (*PaymentResult, error) {
	f.mu.Lock()

	switch f.state {
	case StateSelection:
		f.mu.Unlock()
		return nil, ErrNothingToConfirm
	case StateProcessing:
		f.mu.Unlock()
		return nil, ErrProcessing
	case StateSuccess:
		f.mu.Unlock()
		return nil, ErrAlreadyPaid
	}

	if f.state == StateQR && originator == "" {
		// Stays in qr; the caller shows the message to the user
		f.mu.Unlock()
		return nil, ErrOriginatorRequired
	}

	methodLabel := "Cash on Delivery"
	if f.method == "gcash" {
		methodLabel = "GCash"
	}
	if f.reference == "" {
		f.reference = utils.PaymentReference(f.method, time.Now())
	}
	reference := f.reference

	f.state = StateProcessing
	f.mu.Unlock()

	// Simulated processor round-trip; non-interruptible
	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.result = &PaymentResult{
		Method:     methodLabel,
		Reference:  reference,
		Originator: originator,
		Amount:     f.amount,
	}
	f.state = StateSuccess
	return f.result, nil
}

// Reopen returns a successful flow to its confirm step so payment can be
// retried when the order write behind it fails. The method and reference
// are kept; only the terminal state and its result are undone.
func (f *Flow) Reopen() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSuccess {
		return
	}
	f.result = nil
	if f.method == "gcash" {
		f.state = StateQR
	} else {
		f.state = StateConfirmation
	}
}

// MethodKey returns the internal method identifier ("gcash" or "cod").
func (f *Flow) MethodKey() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.method
}
