package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperr "lms/internal/errors"
	"lms/internal/gateway"
	"lms/internal/model"
	"lms/internal/repository"
)

// PaymentsOverview bundles the gateway-side subscription listing with the
// payment records verified and stored locally.
type PaymentsOverview struct {
	Subscriptions []map[string]interface{} `json:"subscriptions"`
	Records       []model.Payment          `json:"records"`
}

// PaymentService handles subscription purchases and callback verification.
type PaymentService interface {
	KeyID() string
	Subscribe(ctx context.Context, userID uuid.UUID) (string, error)
	Verify(ctx context.Context, userID uuid.UUID, paymentID, subscriptionID, signature string) error
	Cancel(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, count int) (*PaymentsOverview, error)
}

type paymentService struct {
	users    repository.UserRepository
	payments repository.PaymentRepository
	gw       gateway.Gateway
	keyID    string
	secret   string
	planID   string
}

// NewPaymentService creates a new payment service. secret is the shared HMAC
// secret callback signatures are verified against.
func NewPaymentService(users repository.UserRepository, payments repository.PaymentRepository, gw gateway.Gateway, keyID, secret, planID string) PaymentService {
	return &paymentService{
		users:    users,
		payments: payments,
		gw:       gw,
		keyID:    keyID,
		secret:   secret,
		planID:   planID,
	}
}

// KeyID exposes the public gateway key the checkout widget needs.
func (s *paymentService) KeyID() string {
	return s.keyID
}

// Subscribe creates a gateway subscription against the configured plan and
// stores the returned snapshot on the user. Admins cannot purchase.
func (s *paymentService) Subscribe(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", apperr.ErrUnauthenticated
	}

	if user.Role == model.RoleAdmin {
		return "", apperr.ErrAdminSubscription
	}

	sub, err := s.gw.CreateSubscription(s.planID)
	if err != nil {
		return "", fmt.Errorf("subscription purchase failed: %w", err)
	}

	user.Subscription = model.Subscription{ID: sub.ID, Status: sub.Status}
	if err := s.users.Update(ctx, user); err != nil {
		return "", fmt.Errorf("store subscription: %w", err)
	}

	return sub.ID, nil
}

// Verify checks the callback signature against
// HMAC-SHA256(secret, paymentID|subscriptionID) using the subscription id
// stored on the user. On a match a payment record is created and the
// subscription snapshot flips to active; on a mismatch nothing is written.
func (s *paymentService) Verify(ctx context.Context, userID uuid.UUID, paymentID, subscriptionID, signature string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperr.ErrUnauthenticated
	}

	if !gateway.VerifySignature(s.secret, paymentID, user.Subscription.ID, signature) {
		return apperr.ErrPaymentNotVerified
	}

	payment := &model.Payment{
		ID:             uuid.New(),
		PaymentID:      paymentID,
		SubscriptionID: subscriptionID,
		Signature:      signature,
	}
	// amount is recorded when the gateway can report it
	if details, err := s.gw.FetchPayment(paymentID); err == nil {
		payment.Amount = details.Amount
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return fmt.Errorf("create payment record: %w", err)
	}

	user.Subscription.Status = model.SubscriptionActive
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("activate subscription: %w", err)
	}

	return nil
}

// Cancel cancels the user's subscription at the gateway and stores whatever
// status the gateway reports back.
func (s *paymentService) Cancel(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperr.ErrUnauthenticated
	}

	sub, err := s.gw.CancelSubscription(user.Subscription.ID)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}

	user.Subscription.Status = sub.Status
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("store subscription status: %w", err)
	}

	return nil
}

// List fetches up to count subscriptions from the gateway and pairs them
// with the locally recorded payments.
func (s *paymentService) List(ctx context.Context, count int) (*PaymentsOverview, error) {
	if count <= 0 {
		count = 10
	}
	items, err := s.gw.ListSubscriptions(count)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	records, err := s.payments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment records: %w", err)
	}

	return &PaymentsOverview{Subscriptions: items, Records: records}, nil
}
