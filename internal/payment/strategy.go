// Package payment implements the polymorphic payment-method abstraction.
// Each strategy validates its own details eagerly at construction and
// produces confirmation strings for process/refund. Processing is
// simulated; no real gateway is contacted.
package payment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDetails is returned when method-specific fields fail
	// validation.
	ErrInvalidDetails = errors.New("invalid payment details")

	// ErrUnknownMethod is returned for an unrecognized method discriminator.
	ErrUnknownMethod = errors.New("unknown payment method")
)

// Strategy is the common capability set of all payment methods.
type Strategy interface {
	Process(amount float64) string
	Refund(amount float64) string
	Type() string
	Details() map[string]string
}

// New selects a strategy by its string discriminator and the
// method-specific detail fields.
func New(method string, details map[string]string) (Strategy, error) {
	switch method {
	case "cash":
		return Cash{}, nil
	case "credit":
		for _, field := range []string{"cardNumber", "expirationDate", "cvv"} {
			if details[field] == "" {
				return nil, fmt.Errorf("%w: credit payment requires %q", ErrInvalidDetails, field)
			}
		}
		return NewCredit(details["cardNumber"], details["expirationDate"], details["cvv"])
	case "paypal":
		if details["email"] == "" {
			return nil, fmt.Errorf("%w: paypal payment requires \"email\"", ErrInvalidDetails)
		}
		return NewPayPal(details["email"])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// Cash has no details to validate; process and refund always succeed.
type Cash struct{}

func (Cash) Process(amount float64) string {
	return fmt.Sprintf("Cash payment of %.2f processed successfully.", amount)
}

func (Cash) Refund(amount float64) string {
	return fmt.Sprintf("Cash payment of %.2f refunded successfully.", amount)
}

func (Cash) Type() string { return "cash" }

func (Cash) Details() map[string]string { return map[string]string{} }

// Credit validates card number, expiry and CVV at construction. The full
// card number never appears in process/refund messages, only in Details.
type Credit struct {
	cardNumber     string
	expirationDate string
	cvv            string
}

// NewCredit builds a credit strategy, rejecting malformed card details.
func NewCredit(cardNumber, expirationDate, cvv string) (Credit, error) {
	if len(cardNumber) != 16 || !allDigits(cardNumber) {
		return Credit{}, fmt.Errorf("%w: card number must be 16 digits", ErrInvalidDetails)
	}
	if len(expirationDate) != 5 || expirationDate[2] != '/' ||
		!allDigits(expirationDate[:2]) || !allDigits(expirationDate[3:]) {
		return Credit{}, fmt.Errorf("%w: expiration date must be in MM/YY format", ErrInvalidDetails)
	}
	if len(cvv) != 3 || !allDigits(cvv) {
		return Credit{}, fmt.Errorf("%w: CVV must be 3 digits", ErrInvalidDetails)
	}
	return Credit{cardNumber: cardNumber, expirationDate: expirationDate, cvv: cvv}, nil
}

// MaskedNumber hides all but the last four digits.
func (c Credit) MaskedNumber() string {
	return "****-****-****-" + c.cardNumber[len(c.cardNumber)-4:]
}

func (c Credit) Process(amount float64) string {
	return fmt.Sprintf("Credit card payment of %.2f using credit card number %s processed successfully.",
		amount, c.MaskedNumber())
}

func (c Credit) Refund(amount float64) string {
	return fmt.Sprintf("Credit card refund of %.2f to credit card number %s processed successfully.",
		amount, c.MaskedNumber())
}

func (c Credit) Type() string { return "credit" }

func (c Credit) Details() map[string]string {
	return map[string]string{
		"cardNumber":     c.cardNumber,
		"expirationDate": c.expirationDate,
		"cvv":            c.cvv,
	}
}

// PayPal requires an email whose domain is exactly paypal.com.
type PayPal struct {
	email string
}

// NewPayPal builds a paypal strategy, rejecting malformed emails.
func NewPayPal(email string) (PayPal, error) {
	if email == "" {
		return PayPal{}, fmt.Errorf("%w: paypal email cannot be empty", ErrInvalidDetails)
	}
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return PayPal{}, fmt.Errorf("%w: paypal email is missing '@'", ErrInvalidDetails)
	}
	if email[at+1:] != "paypal.com" {
		return PayPal{}, fmt.Errorf("%w: paypal email domain must be paypal.com", ErrInvalidDetails)
	}
	return PayPal{email: email}, nil
}

func (p PayPal) Process(amount float64) string {
	return fmt.Sprintf("PayPal payment of %.2f using %s processed successfully.", amount, p.email)
}

func (p PayPal) Refund(amount float64) string {
	return fmt.Sprintf("PayPal payment of %.2f using %s refunded successfully.", amount, p.email)
}

func (p PayPal) Type() string { return "paypal" }

func (p PayPal) Details() map[string]string {
	return map[string]string{"email": p.email}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
