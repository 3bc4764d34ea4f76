package service

import (
	"errors"
	"strings"
	"time"

	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/internal/app/repository"
	"github.com/menuca/menuca-backend/internal/db"
	apperrors "github.com/menuca/menuca-backend/internal/errors"
	"github.com/menuca/menuca-backend/pkg/logger"
	"github.com/menuca/menuca-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Register(name, surname, email, password, role string) (*model.User, string, error)
	Login(email, password string) (*model.User, string, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, name, surname, email string) (*model.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
}

type authService struct {
	registry    *db.Registry
	userRepo    repository.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(
	registry *db.Registry,
	userRepo repository.UserRepository,
	jwtSecret string,
	tokenExpiry time.Duration,
) AuthService {
	return &authService{
		registry:    registry,
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// normalizeEmail canonicalizes an address for storage and lookup. Emails
// compare case-insensitively, so the stored form is always lower case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(name, surname, email, password, role string) (*model.User, string, error) {
	email = normalizeEmail(email)

	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"role":  role,
	})

	// Role is a closed set; anything else is rejected before touching storage
	if !model.ValidRole(role) {
		logger.Warn("Registration failed: unknown role", map[string]interface{}{
			"email": email,
			"role":  role,
		})
		return nil, "", ErrInvalidRole
	}

	if len(password) < 6 {
		return nil, "", ErrPasswordTooShort
	}

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}
	if exists {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	user := &model.User{
		Name:         name,
		Surname:      surname,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.UserRole(role),
		Active:       true,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Two concurrent registrations can pass the pre-check; the unique
		// index decides the race
		if apperrors.IsUniqueViolation(err) {
			return nil, "", ErrEmailAlreadyExists
		}
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, token, nil
}

func (s *authService) Login(email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, token, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, name, surname, email string) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for profile update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	updated := false
	if name != "" && name != user.Name {
		user.Name = name
		updated = true
	}
	if surname != "" && surname != user.Surname {
		user.Surname = surname
		updated = true
	}
	if email != "" {
		email = normalizeEmail(email)
	}
	if email != "" && email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = email
		updated = true
	}

	if !updated {
		logger.Debug("No changes detected for user profile", map[string]interface{}{
			"user_id": userID,
		})
		return user, nil
	}

	err = s.registry.WithSessionUser(db.PoolAuth, userID, func(tx *gorm.DB) error {
		return s.userRepo.UpdateTx(tx, user)
	})
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	return user, nil
}

func (s *authService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	logger.Info("Changing user password", map[string]interface{}{
		"user_id": userID,
	})

	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change failed: wrong current password", map[string]interface{}{
			"user_id": userID,
		})
		return ErrWrongPassword
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	err = s.registry.WithSessionUser(db.PoolAuth, userID, func(tx *gorm.DB) error {
		return s.userRepo.UpdateTx(tx, user)
	})
	if err != nil {
		logger.Error("Failed to update password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Password changed successfully", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
