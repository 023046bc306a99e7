package gateway

import (
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

// Subscription is the gateway-side state the backend keeps a snapshot of.
type Subscription struct {
	ID     string
	Status string
}

// PaymentDetails carries what the gateway reports about a captured payment.
type PaymentDetails struct {
	Amount decimal.Decimal
	Status string
}

// Gateway abstracts the subscription operations of the payment provider.
type Gateway interface {
	CreateSubscription(planID string) (*Subscription, error)
	CancelSubscription(subscriptionID string) (*Subscription, error)
	ListSubscriptions(count int) ([]map[string]interface{}, error)
	FetchPayment(paymentID string) (*PaymentDetails, error)
}

// Razorpay implements Gateway on top of the official SDK.
type Razorpay struct {
	client *razorpay.Client
}

// NewRazorpay builds a gateway client with the given API credentials.
func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateSubscription starts a subscription against the given plan.
func (g *Razorpay) CreateSubscription(planID string) (*Subscription, error) {
	body, err := g.client.Subscription.Create(map[string]interface{}{
		"plan_id":         planID,
		"customer_notify": 1,
		"total_count":     12,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return subscriptionFromBody(body)
}

// CancelSubscription cancels the subscription at the gateway and returns its
// final state.
func (g *Razorpay) CancelSubscription(subscriptionID string) (*Subscription, error) {
	body, err := g.client.Subscription.Cancel(subscriptionID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("cancel subscription %s: %w", subscriptionID, err)
	}
	return subscriptionFromBody(body)
}

// ListSubscriptions fetches up to count subscriptions.
func (g *Razorpay) ListSubscriptions(count int) ([]map[string]interface{}, error) {
	body, err := g.client.Subscription.All(map[string]interface{}{
		"count": count,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	rawItems, _ := body["items"].([]interface{})
	items := make([]map[string]interface{}, 0, len(rawItems))
	for _, raw := range rawItems {
		if item, ok := raw.(map[string]interface{}); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// FetchPayment looks up a captured payment. Razorpay reports amounts in the
// currency's minor unit.
func (g *Razorpay) FetchPayment(paymentID string) (*PaymentDetails, error) {
	body, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch payment %s: %w", paymentID, err)
	}

	details := &PaymentDetails{}
	if status, ok := body["status"].(string); ok {
		details.Status = status
	}
	if amount, ok := body["amount"].(float64); ok {
		details.Amount = decimal.NewFromFloat(amount).Div(decimal.NewFromInt(100))
	}
	return details, nil
}

func subscriptionFromBody(body map[string]interface{}) (*Subscription, error) {
	id, _ := body["id"].(string)
	status, _ := body["status"].(string)
	if id == "" {
		return nil, errors.New("gateway response missing subscription id")
	}
	return &Subscription{ID: id, Status: status}, nil
}
