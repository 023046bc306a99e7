package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperr "lms/internal/errors"
	"lms/internal/gateway"
	"lms/internal/model"
)

const (
	testKeyID  = "rzp_test_key"
	testSecret = "rzp_test_secret"
	testPlanID = "plan_basic"
)

func newPaymentService(users *MockUserRepository, payments *MockPaymentRepository, gw *MockGateway) PaymentService {
	return NewPaymentService(users, payments, gw, testKeyID, testSecret, testPlanID)
}

func signPayment(paymentID, subscriptionID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentService_Subscribe(t *testing.T) {
	userID := uuid.New()

	t.Run("user subscribes", func(t *testing.T) {
		user := &model.User{ID: userID, Role: model.RoleUser}

		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(user, nil)
		mockUsers.On("Update", mock.Anything, user).Return(nil)

		mockGw := new(MockGateway)
		mockGw.On("CreateSubscription", testPlanID).
			Return(&gateway.Subscription{ID: "sub_123", Status: "created"}, nil)

		svc := newPaymentService(mockUsers, new(MockPaymentRepository), mockGw)
		subID, err := svc.Subscribe(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, "sub_123", subID)
		assert.Equal(t, "sub_123", user.Subscription.ID)
		assert.Equal(t, "created", user.Subscription.Status)
		mockUsers.AssertExpectations(t)
		mockGw.AssertExpectations(t)
	})

	t.Run("admin cannot subscribe", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, Role: model.RoleAdmin}, nil)

		mockGw := new(MockGateway)

		svc := newPaymentService(mockUsers, new(MockPaymentRepository), mockGw)
		_, err := svc.Subscribe(context.Background(), userID)

		assert.Equal(t, apperr.ErrAdminSubscription, err)
		mockGw.AssertNotCalled(t, "CreateSubscription", mock.Anything)
	})
}

func TestPaymentService_Verify(t *testing.T) {
	userID := uuid.New()

	t.Run("valid signature creates record and activates", func(t *testing.T) {
		user := &model.User{
			ID:           userID,
			Role:         model.RoleUser,
			Subscription: model.Subscription{ID: "sub_123", Status: "created"},
		}

		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(user, nil)
		mockUsers.On("Update", mock.Anything, user).Return(nil)

		mockPayments := new(MockPaymentRepository)
		mockPayments.On("Create", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)

		mockGw := new(MockGateway)
		mockGw.On("FetchPayment", "pay_1").
			Return(&gateway.PaymentDetails{Amount: decimal.NewFromInt(499), Status: "captured"}, nil)

		svc := newPaymentService(mockUsers, mockPayments, mockGw)
		err := svc.Verify(context.Background(), userID, "pay_1", "sub_123", signPayment("pay_1", "sub_123"))

		assert.NoError(t, err)
		assert.Equal(t, model.SubscriptionActive, user.Subscription.Status)
		mockPayments.AssertExpectations(t)
		mockUsers.AssertExpectations(t)
	})

	t.Run("signature mismatch writes nothing", func(t *testing.T) {
		user := &model.User{
			ID:           userID,
			Role:         model.RoleUser,
			Subscription: model.Subscription{ID: "sub_123", Status: "created"},
		}

		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(user, nil)

		mockPayments := new(MockPaymentRepository)
		mockGw := new(MockGateway)

		svc := newPaymentService(mockUsers, mockPayments, mockGw)
		err := svc.Verify(context.Background(), userID, "pay_1", "sub_123", "bogus-signature")

		assert.Equal(t, apperr.ErrPaymentNotVerified, err)
		assert.Equal(t, "created", user.Subscription.Status)
		mockPayments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockUsers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("signature over another subscription fails", func(t *testing.T) {
		user := &model.User{
			ID:           userID,
			Subscription: model.Subscription{ID: "sub_123", Status: "created"},
		}

		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(user, nil)

		svc := newPaymentService(mockUsers, new(MockPaymentRepository), new(MockGateway))
		// signed against a subscription the user does not hold
		err := svc.Verify(context.Background(), userID, "pay_1", "sub_999", signPayment("pay_1", "sub_999"))

		assert.Equal(t, apperr.ErrPaymentNotVerified, err)
	})
}

func TestPaymentService_Cancel(t *testing.T) {
	userID := uuid.New()
	user := &model.User{
		ID:           userID,
		Subscription: model.Subscription{ID: "sub_123", Status: "active"},
	}

	mockUsers := new(MockUserRepository)
	mockUsers.On("FindByID", mock.Anything, userID).Return(user, nil)
	mockUsers.On("Update", mock.Anything, user).Return(nil)

	mockGw := new(MockGateway)
	mockGw.On("CancelSubscription", "sub_123").
		Return(&gateway.Subscription{ID: "sub_123", Status: "cancelled"}, nil)

	svc := newPaymentService(mockUsers, new(MockPaymentRepository), mockGw)
	err := svc.Cancel(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, "cancelled", user.Subscription.Status)
	mockUsers.AssertExpectations(t)
	mockGw.AssertExpectations(t)
}

func TestPaymentService_List(t *testing.T) {
	mockGw := new(MockGateway)
	mockGw.On("ListSubscriptions", 10).
		Return([]map[string]interface{}{{"id": "sub_123"}}, nil)

	mockPayments := new(MockPaymentRepository)
	mockPayments.On("List", mock.Anything).
		Return([]model.Payment{{PaymentID: "pay_123", SubscriptionID: "sub_123"}}, nil)

	svc := newPaymentService(new(MockUserRepository), mockPayments, mockGw)

	// count defaults to 10 when not supplied
	overview, err := svc.List(context.Background(), 0)

	assert.NoError(t, err)
	assert.Len(t, overview.Subscriptions, 1)
	assert.Len(t, overview.Records, 1)
	mockGw.AssertExpectations(t)
	mockPayments.AssertExpectations(t)
}
