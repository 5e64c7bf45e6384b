package models

import (
	"errors"
	"time"
)

// PaymentStatus tracks the lifecycle of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment is created once per reservation at booking time. Status moves
// PENDING -> COMPLETED on process, or to REFUNDED on refund. The record is
// never deleted independently of its reservation.
type Payment struct {
	ID             string            `json:"id"`
	PassengerID    string            `json:"passenger_id"`
	Amount         float64           `json:"amount"`
	Method         string            `json:"method"`
	Details        map[string]string `json:"details"`
	Status         PaymentStatus     `json:"status"`
	PaymentDate    time.Time         `json:"payment_date"`
	TransactionRef string            `json:"transaction_ref,omitempty"`
}

// Validate checks the payment record invariants.
func (p *Payment) Validate() error {
	if p.PassengerID == "" {
		return errors.New("passenger_id cannot be empty")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	return nil
}
