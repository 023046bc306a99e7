package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lms/internal/auth"
	apperr "lms/internal/errors"
	"lms/internal/mail"
	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/storage"
)

const (
	bcryptCost = 10

	// resetTokenWindow is how long a password-reset token stays redeemable.
	resetTokenWindow = 15 * time.Minute

	avatarFolder = "lms/avatars"
)

// UserService handles account, credential and password-reset operations.
type UserService interface {
	Register(ctx context.Context, fullName, email, password, avatarPath string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Profile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, avatarPath string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	tokens    *auth.TokenService
	store     storage.Storage
	mailer    mail.Sender
	clientURL string
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, tokens *auth.TokenService, store storage.Storage, mailer mail.Sender, clientURL string) UserService {
	return &userService{
		repo:      repo,
		tokens:    tokens,
		store:     store,
		mailer:    mailer,
		clientURL: strings.TrimSuffix(clientURL, "/"),
	}
}

// Register creates a new account with a hashed password, uploads the avatar
// when one was provided and issues a bearer token so the client is logged in
// immediately.
func (s *userService) Register(ctx context.Context, fullName, email, password, avatarPath string) (*model.User, string, error) {
	email = normalizeEmail(email)
	fullName = strings.ToLower(strings.TrimSpace(fullName))

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperr.ErrEmailExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
	}

	if avatarPath != "" {
		result, err := s.store.Upload(ctx, avatarPath, avatarFolder)
		if err != nil {
			return nil, "", apperr.ErrFileUpload
		}
		user.Avatar = model.Attachment{PublicID: result.PublicID, SecureURL: result.SecureURL}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if user.Avatar.PublicID != "" {
			// the uploaded object has no owning row, drop it
			_ = s.store.Destroy(ctx, user.Avatar.PublicID)
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and issues a bearer token embedding the current
// role and subscription snapshot.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", apperr.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.ErrPasswordIncorrect
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Profile returns the stored account for the authenticated identity. Unlike
// the authorization checks this reads the database, so it reflects changes
// made after the token was issued.
func (s *userService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}

// ForgotPassword opens a reset window: a high-entropy token is generated, its
// SHA-256 stored with a 15 minute expiry, and the plaintext mailed inside a
// redemption link. If delivery fails the stored fields are rolled back so no
// orphaned reset window stays open.
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return apperr.ErrEmailNotRegistered
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	expiry := time.Now().Add(resetTokenWindow)
	user.ForgotPasswordToken = hashResetToken(token)
	user.ForgotPasswordExpiry = &expiry
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	subject := "Reset Password"
	body := fmt.Sprintf(
		`<p>You requested a password reset. Click <a href="%s" target="_blank">here</a> to set a new password.</p>`+
			`<p>The link is valid for 15 minutes. If the link does not work, copy this URL into your browser: %s</p>`,
		resetURL, resetURL,
	)

	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		user.ForgotPasswordToken = ""
		user.ForgotPasswordExpiry = nil
		if rbErr := s.repo.Update(ctx, user); rbErr != nil {
			return fmt.Errorf("rollback reset token after mail failure (%v): %w", err, rbErr)
		}
		return apperr.ErrEmailDelivery
	}

	return nil
}

// ResetPassword redeems a reset token: the presented value is hashed with the
// same algorithm and must match an unexpired stored hash. Redemption is
// single-use; the reset fields are cleared in the same write that stores the
// new password hash.
func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.FindByResetToken(ctx, hashResetToken(token), time.Now())
	if err != nil {
		return apperr.ErrResetTokenInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashed)
	user.ForgotPasswordToken = ""
	user.ForgotPasswordExpiry = nil

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ChangePassword replaces the password after the current one verifies.
// Outstanding bearer tokens stay valid until they expire.
func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return apperr.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperr.ErrOldPasswordIncorrect
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashed)
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateProfile updates the display name and, when a new avatar was uploaded,
// replaces the stored avatar object.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, avatarPath string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.ErrUserNotFound
	}

	if fullName != "" {
		user.FullName = strings.ToLower(strings.TrimSpace(fullName))
	}

	if avatarPath != "" {
		result, err := s.store.Upload(ctx, avatarPath, avatarFolder)
		if err != nil {
			return nil, apperr.ErrFileUpload
		}
		if user.Avatar.PublicID != "" {
			// drop the replaced object
			_ = s.store.Destroy(ctx, user.Avatar.PublicID)
		}
		user.Avatar = model.Attachment{PublicID: result.PublicID, SecureURL: result.SecureURL}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
