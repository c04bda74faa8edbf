package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"foodiehub/apperr"
	"foodiehub/guard"
	"foodiehub/models"
	"foodiehub/store"
)

// PaymentInput is the payload for creating or updating a payment method.
type PaymentInput struct {
	Type       models.PaymentType `json:"type" validate:"required,paymenttype"`
	CardNumber string             `json:"cardNumber"`
	ExpiryDate string             `json:"expiryDate"`
	HolderName string             `json:"holderName" validate:"required,max=100"`
}

// Card types additionally validate these.
type cardNumber struct {
	CardNumber string `json:"cardNumber" validate:"required,numeric,min=12,max=19"`
}

type cardExpiry struct {
	ExpiryDate string `json:"expiryDate" validate:"required,datetime=01/06"`
}

// PaymentService manages the payment methods of an admin's country. Card
// numbers are masked before they are stored and can never be read back.
type PaymentService struct {
	payments store.PaymentMethods
	logger   *slog.Logger
	now      func() time.Time
}

func NewPaymentService(payments store.PaymentMethods, logger *slog.Logger) *PaymentService {
	return &PaymentService{payments: payments, logger: orDefault(logger), now: utcNow}
}

func (s *PaymentService) List(ctx context.Context, user models.User) ([]models.PaymentMethod, error) {
	if err := guard.AuthorizeRole(user, guard.PaymentAdmins...); err != nil {
		return nil, err
	}
	methods, err := s.payments.ListPaymentMethods(ctx, user.Country)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

func (s *PaymentService) Get(ctx context.Context, user models.User, id string) (models.PaymentMethod, error) {
	if err := guard.AuthorizeRole(user, guard.PaymentAdmins...); err != nil {
		return models.PaymentMethod{}, err
	}
	pm, err := s.payments.GetPaymentMethod(ctx, id)
	if err != nil {
		return models.PaymentMethod{}, lookupErr("payment method", err)
	}
	if err := guard.AuthorizeCountry(user, pm.Country); err != nil {
		return models.PaymentMethod{}, err
	}
	return pm, nil
}

// Create stores a new payment method in the admin's country.
func (s *PaymentService) Create(ctx context.Context, user models.User, in PaymentInput) (models.PaymentMethod, error) {
	if err := guard.AuthorizeRole(user, guard.PaymentAdmins...); err != nil {
		return models.PaymentMethod{}, err
	}
	cardNumber, expiry, err := normalizePayment(in, "")
	if err != nil {
		return models.PaymentMethod{}, err
	}
	now := s.now()
	pm, err := s.payments.CreatePaymentMethod(ctx, models.PaymentMethod{
		Type:       in.Type,
		CardNumber: cardNumber,
		ExpiryDate: expiry,
		HolderName: strings.TrimSpace(in.HolderName),
		Country:    user.Country,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return models.PaymentMethod{}, fmt.Errorf("create payment method: %w", err)
	}
	s.logger.InfoContext(ctx, "payment method created",
		slog.String("payment_method_id", pm.ID),
		slog.String("country", pm.Country))
	return pm, nil
}

// Update replaces the type, card, expiry and holder of a payment method. An
// empty card number keeps the stored masked number.
func (s *PaymentService) Update(ctx context.Context, user models.User, id string, in PaymentInput) (models.PaymentMethod, error) {
	existing, err := s.Get(ctx, user, id)
	if err != nil {
		return models.PaymentMethod{}, err
	}
	cardNumber, expiry, err := normalizePayment(in, existing.CardNumber)
	if err != nil {
		return models.PaymentMethod{}, err
	}
	pm, err := s.payments.UpdatePaymentMethod(ctx, models.PaymentMethod{
		ID:         existing.ID,
		Type:       in.Type,
		CardNumber: cardNumber,
		ExpiryDate: expiry,
		HolderName: strings.TrimSpace(in.HolderName),
		UpdatedAt:  s.now(),
	})
	if err != nil {
		return models.PaymentMethod{}, lookupErr("payment method", err)
	}
	s.logger.InfoContext(ctx, "payment method updated", slog.String("payment_method_id", pm.ID))
	return pm, nil
}

func (s *PaymentService) Delete(ctx context.Context, user models.User, id string) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}
	if err := s.payments.DeletePaymentMethod(ctx, id); err != nil {
		return lookupErr("payment method", err)
	}
	s.logger.InfoContext(ctx, "payment method deleted", slog.String("payment_method_id", id))
	return nil
}

// normalizePayment validates in and returns the masked card number and
// expiry to store. storedCard is the current masked number on update.
func normalizePayment(in PaymentInput, storedCard string) (string, string, error) {
	if err := validateStruct(in); err != nil {
		return "", "", err
	}
	if !in.Type.IsCard() {
		return "", "", nil
	}

	raw := strings.TrimSpace(in.CardNumber)
	masked := storedCard
	if raw != "" || storedCard == "" {
		if strings.ContainsRune(raw, models.MaskChar) {
			return "", "", fmt.Errorf("%w: cardNumber must be a complete card number, not a masked one", apperr.ErrValidation)
		}
		if err := validateStruct(cardNumber{CardNumber: stripSeparators(raw)}); err != nil {
			return "", "", err
		}
		masked = models.MaskCardNumber(raw)
	}
	if err := validateStruct(cardExpiry{ExpiryDate: in.ExpiryDate}); err != nil {
		return "", "", err
	}
	return masked, in.ExpiryDate, nil
}

func stripSeparators(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}
