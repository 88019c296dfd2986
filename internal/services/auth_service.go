package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type AuthService struct {
	userRepo     repositories.UserRepository
	clientRepo   repositories.ClientRepository
	employeeRepo repositories.EmployeeRepository
	jwtService   *JWTService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	clientRepo repositories.ClientRepository,
	employeeRepo repositories.EmployeeRepository,
	jwtService *JWTService,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		clientRepo:   clientRepo,
		employeeRepo: employeeRepo,
		jwtService:   jwtService,
	}
}

// Register creates a user plus its role profile (client or employee).
// Admin accounts are seeded, never self-registered.
func (s *AuthService) Register(
	ctx context.Context,
	email, username, password, phoneNumber string,
	birthDate time.Time,
	role models.UserRoleType,
) (*models.User, error) {
	if role != models.UserRoleClient && role != models.UserRoleEmployee {
		return nil, fmt.Errorf("unsupported registration role %q", role)
	}
	if utils.YearsSince(birthDate, time.Now()) < models.MinUserAge {
		return nil, utils.ErrUnderage
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		PhoneNumber:  phoneNumber,
		BirthDate:    birthDate,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	switch role {
	case models.UserRoleClient:
		err = s.clientRepo.Create(ctx, &models.Client{ID: uuid.New(), UserID: user.ID})
	case models.UserRoleEmployee:
		err = s.employeeRepo.Create(ctx, &models.Employee{ID: uuid.New(), UserID: user.ID})
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetProfile loads the account behind an authenticated user ID.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	return s.userRepo.GetByID(ctx, uID)
}

// UpdateProfile changes the mutable account fields through the optimistic
// retry loop, so a concurrent edit never silently clobbers another.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, username, phoneNumber string) (*models.User, error) {
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	existing, err := s.userRepo.GetByID(ctx, uID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	err = s.userRepo.UpdateWithRetry(ctx, uID, func(u *models.User) error {
		u.Username = username
		u.PhoneNumber = phoneNumber
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, uID)
}

// ChangePassword re-verifies the current password inside the retry loop,
// against whatever hash is stored at that attempt.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	uID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateWithRetry(ctx, uID, func(u *models.User) error {
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)) != nil {
			return utils.ErrInvalidCredentials
		}
		u.PasswordHash = string(newHash)
		return nil
	})
}

// Login verifies credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, utils.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, utils.ErrInvalidCredentials
	}

	token, err := s.jwtService.IssueAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
