package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/payment"
	"github.com/skyreserve/airline-backend/internal/storage"
)

// PaymentService manages payment records and drives their strategy through
// the PENDING -> COMPLETED / REFUNDED lifecycle. Processing is simulated;
// the strategy produces a confirmation message and the record gets a
// transaction reference.
type PaymentService struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(store storage.Store, logger *logrus.Logger) *PaymentService {
	return &PaymentService{store: store, logger: logger}
}

// CreatePayment validates the method details through the strategy factory
// and inserts a PENDING record. Nothing is persisted when validation
// fails.
func (s *PaymentService) CreatePayment(passengerID string, amount float64, method string, details map[string]string) (*models.Payment, error) {
	strategy, err := payment.New(method, details)
	if err != nil {
		return nil, err
	}

	record := models.Payment{
		ID: uniqueID("PAY", func(id string) bool {
			_, err := s.store.Payments().FindByID(id)
			return err == nil
		}),
		PassengerID: passengerID,
		Amount:      amount,
		Method:      strategy.Type(),
		Details:     strategy.Details(),
		Status:      models.PaymentPending,
		PaymentDate: time.Now().UTC(),
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if err := s.store.Payments().Insert(record); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id":   record.ID,
		"passenger_id": record.PassengerID,
		"amount":       record.Amount,
		"method":       record.Method,
	}).Info("Payment created")

	return &record, nil
}

// ProcessPayment moves a PENDING payment to COMPLETED and returns the
// strategy's confirmation message.
func (s *PaymentService) ProcessPayment(id string) (string, error) {
	record, err := s.store.Payments().FindByID(id)
	if err != nil {
		return "", err
	}
	if record.Status != models.PaymentPending {
		return "", fmt.Errorf("%w: payment %s is %s, only PENDING payments can be processed",
			models.ErrValidation, id, record.Status)
	}

	strategy, err := payment.New(record.Method, record.Details)
	if err != nil {
		return "", err
	}

	message := strategy.Process(record.Amount)
	record.Status = models.PaymentCompleted
	record.TransactionRef = uuid.New().String()
	if err := s.store.Payments().Update(*record); err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id":      record.ID,
		"transaction_ref": record.TransactionRef,
	}).Info("Payment processed")

	return message, nil
}

// RefundPayment moves a payment to REFUNDED and returns the strategy's
// confirmation message. Cancelling a reservation never calls this
// implicitly; refunds are always an explicit caller step.
func (s *PaymentService) RefundPayment(id string) (string, error) {
	record, err := s.store.Payments().FindByID(id)
	if err != nil {
		return "", err
	}
	if record.Status == models.PaymentRefunded {
		return "", fmt.Errorf("%w: payment %s is already refunded", models.ErrValidation, id)
	}

	strategy, err := payment.New(record.Method, record.Details)
	if err != nil {
		return "", err
	}

	message := strategy.Refund(record.Amount)
	record.Status = models.PaymentRefunded
	if err := s.store.Payments().Update(*record); err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": record.ID,
		"amount":     record.Amount,
	}).Info("Payment refunded")

	return message, nil
}

// GetPayment fetches a payment by ID.
func (s *PaymentService) GetPayment(id string) (*models.Payment, error) {
	return s.store.Payments().FindByID(id)
}

// ListByPassenger returns a passenger's payment history.
func (s *PaymentService) ListByPassenger(passengerID string) ([]*models.Payment, error) {
	return s.store.Payments().FindByPassenger(passengerID)
}

// deletePayment removes a record that never got a reservation attached.
// Used only as compensation when booking fails after payment creation.
func (s *PaymentService) deletePayment(id string) error {
	return s.store.Payments().Delete(id)
}
