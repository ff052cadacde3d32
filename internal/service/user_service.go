package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const tokenTTL = 24 * time.Hour

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	AccountType models.Role
	ParentEmail string // students only
}

// Claims is the JWT payload carried by authenticated requests.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (token string, user *models.User, err error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListTutors(ctx context.Context) ([]models.User, error)
	SetCapabilities(ctx context.Context, id string, canBook, canCancel bool) error
}

type userService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	now       func() time.Time
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string) UserService {
	return &userService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !in.AccountType.Valid() {
		return nil, fmt.Errorf("%w: account type %q", ErrBadInput, in.AccountType)
	}
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		AccountType:  in.AccountType,
		CanBook:      true,
		CanCancel:    true,
	}
	if in.AccountType == models.RoleStudent {
		user.ParentEmail = in.ParentEmail
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListTutors(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindByAccountType(ctx, models.RoleTutor)
}

// SetCapabilities toggles the advisory booking/cancellation flags. They gate
// nothing server-side beyond UI hints; admin edits them freely.
func (s *userService) SetCapabilities(ctx context.Context, id string, canBook, canCancel bool) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	return s.userRepo.UpdateFields(ctx, id, map[string]any{
		"can_book":   canBook,
		"can_cancel": canCancel,
	})
}
