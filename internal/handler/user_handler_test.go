package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lms/internal/auth"
	apperr "lms/internal/errors"
	"lms/internal/model"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, fullName, email, password, avatarPath string) (*model.User, string, error) {
	args := m.Called(ctx, fullName, email, password, avatarPath)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, avatarPath string) (*model.User, error) {
	args := m.Called(ctx, userID, fullName, avatarPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

func multipartRequest(t *testing.T, fields map[string]string, fileField, fileName string, fileBody []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		assert.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		assert.NoError(t, err)
		_, err = fw.Write(fileBody)
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func newRegisterContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

var registerFields = map[string]string{
	"fullName": "Jane Doe",
	"email":    "jane@x.com",
	"password": "secret123",
}

func TestUserHandler_Register(t *testing.T) {
	tokens := auth.NewTokenService("handler-test-secret", time.Hour)

	t.Run("success removes the staged avatar", func(t *testing.T) {
		var staged string
		users := new(MockUserService)
		users.On("Register", mock.Anything, "Jane Doe", "jane@x.com", "secret123", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				// the staged file must exist while the service runs
				staged = args.String(4)
				assert.FileExists(t, staged)
			}).
			Return(&model.User{ID: uuid.New(), Email: "jane@x.com"}, "token-abc", nil)

		h := NewUserHandler(users, tokens, t.TempDir())
		req := multipartRequest(t, registerFields, "avatar", "avatar.png", []byte("png-bytes"))
		c, rec := newRegisterContext(t, req)

		assert.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		assert.NotEmpty(t, staged)
		assert.NoFileExists(t, staged)

		var cookie *http.Cookie
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == "token" {
				cookie = ck
			}
		}
		assert.NotNil(t, cookie)
		assert.Equal(t, "token-abc", cookie.Value)
		users.AssertExpectations(t)
	})

	t.Run("service failure removes the staged avatar", func(t *testing.T) {
		var staged string
		users := new(MockUserService)
		users.On("Register", mock.Anything, "Jane Doe", "jane@x.com", "secret123", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				staged = args.String(4)
				assert.FileExists(t, staged)
			}).
			Return(nil, "", apperr.ErrEmailExists)

		h := NewUserHandler(users, tokens, t.TempDir())
		req := multipartRequest(t, registerFields, "avatar", "avatar.png", []byte("png-bytes"))
		c, _ := newRegisterContext(t, req)

		err := h.Register(c)
		assert.Equal(t, apperr.ErrEmailExists, err)

		assert.NotEmpty(t, staged)
		assert.NoFileExists(t, staged)
		users.AssertExpectations(t)
	})

	t.Run("missing avatar passes an empty path", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Register", mock.Anything, "Jane Doe", "jane@x.com", "secret123", "").
			Return(&model.User{ID: uuid.New(), Email: "jane@x.com"}, "token-abc", nil)

		h := NewUserHandler(users, tokens, t.TempDir())
		req := multipartRequest(t, registerFields, "", "", nil)
		c, rec := newRegisterContext(t, req)

		assert.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		users.AssertExpectations(t)
	})

	t.Run("invalid payload short-circuits", func(t *testing.T) {
		users := new(MockUserService)

		h := NewUserHandler(users, tokens, t.TempDir())
		req := multipartRequest(t, map[string]string{"fullName": "Jane Doe"}, "", "", nil)
		c, _ := newRegisterContext(t, req)

		err := h.Register(c)
		assert.Equal(t, apperr.ErrAllFieldsRequired, err)
		users.AssertNotCalled(t, "Register",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
