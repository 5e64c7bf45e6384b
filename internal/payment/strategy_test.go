package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownMethod(t *testing.T) {
	_, err := New("bitcoin", nil)
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = New("", nil)
	assert.ErrorIs(t, err, ErrUnknownMethod)

	// Method discriminators are lowercase
	_, err = New("Credit", map[string]string{})
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestCash(t *testing.T) {
	strategy, err := New("cash", nil)
	require.NoError(t, err)

	assert.Equal(t, "cash", strategy.Type())
	assert.Empty(t, strategy.Details())
	assert.Equal(t, "Cash payment of 150.00 processed successfully.", strategy.Process(150))
	assert.Equal(t, "Cash payment of 150.00 refunded successfully.", strategy.Refund(150))
}

func TestCreditValidation(t *testing.T) {
	valid := map[string]string{
		"cardNumber":     "4111111111111111",
		"expirationDate": "12/27",
		"cvv":            "123",
	}

	tests := []struct {
		name     string
		mutate   func(map[string]string)
		wantFail bool
	}{
		{name: "valid details", mutate: func(d map[string]string) {}},
		{name: "short card number", mutate: func(d map[string]string) { d["cardNumber"] = "411111111111111" }, wantFail: true},
		{name: "long card number", mutate: func(d map[string]string) { d["cardNumber"] = "41111111111111112" }, wantFail: true},
		{name: "letters in card number", mutate: func(d map[string]string) { d["cardNumber"] = "4111a11111111111" }, wantFail: true},
		{name: "missing card number", mutate: func(d map[string]string) { delete(d, "cardNumber") }, wantFail: true},
		{name: "expiry without slash", mutate: func(d map[string]string) { d["expirationDate"] = "12-27" }, wantFail: true},
		{name: "expiry too long", mutate: func(d map[string]string) { d["expirationDate"] = "12/2027" }, wantFail: true},
		{name: "expiry non-numeric", mutate: func(d map[string]string) { d["expirationDate"] = "ab/cd" }, wantFail: true},
		{name: "cvv too short", mutate: func(d map[string]string) { d["cvv"] = "12" }, wantFail: true},
		{name: "cvv too long", mutate: func(d map[string]string) { d["cvv"] = "1234" }, wantFail: true},
		{name: "cvv non-numeric", mutate: func(d map[string]string) { d["cvv"] = "12x" }, wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := make(map[string]string, len(valid))
			for k, v := range valid {
				details[k] = v
			}
			tt.mutate(details)

			_, err := New("credit", details)
			if tt.wantFail {
				assert.ErrorIs(t, err, ErrInvalidDetails)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreditMasking(t *testing.T) {
	strategy, err := NewCredit("4111111111111234", "12/27", "123")
	require.NoError(t, err)

	assert.Equal(t, "****-****-****-1234", strategy.MaskedNumber())

	// Process and refund messages carry only the masked number.
	msg := strategy.Process(220)
	assert.Contains(t, msg, "****-****-****-1234")
	assert.NotContains(t, msg, "4111111111111234")
	assert.Equal(t, "Credit card payment of 220.00 using credit card number ****-****-****-1234 processed successfully.", msg)

	refund := strategy.Refund(220)
	assert.Contains(t, refund, "****-****-****-1234")
	assert.NotContains(t, refund, "4111111111111234")

	// The full number is only available through Details.
	assert.Equal(t, "4111111111111234", strategy.Details()["cardNumber"])
}

func TestPayPalValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		wantFail bool
	}{
		{name: "valid email", email: "alice@paypal.com"},
		{name: "missing at sign", email: "alicepaypal.com", wantFail: true},
		{name: "wrong domain", email: "alice@gmail.com", wantFail: true},
		{name: "subdomain not allowed", email: "alice@mail.paypal.com", wantFail: true},
		{name: "empty local part still valid domain", email: "@paypal.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPayPal(tt.email)
			if tt.wantFail {
				assert.ErrorIs(t, err, ErrInvalidDetails)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPayPalMessages(t *testing.T) {
	strategy, err := NewPayPal("bob@paypal.com")
	require.NoError(t, err)

	assert.Equal(t, "paypal", strategy.Type())
	assert.Equal(t, "PayPal payment of 99.50 using bob@paypal.com processed successfully.", strategy.Process(99.5))
	assert.Equal(t, "PayPal payment of 99.50 using bob@paypal.com refunded successfully.", strategy.Refund(99.5))
	assert.Equal(t, map[string]string{"email": "bob@paypal.com"}, strategy.Details())
}

func TestFactoryMissingFields(t *testing.T) {
	_, err := New("credit", map[string]string{"cardNumber": "4111111111111111"})
	assert.ErrorIs(t, err, ErrInvalidDetails)

	_, err = New("paypal", map[string]string{})
	assert.ErrorIs(t, err, ErrInvalidDetails)
}
