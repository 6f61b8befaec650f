package services

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SessionStore keeps bearer tokens for logged-in customers. The redis
// client implements it.
type SessionStore interface {
	SetSession(token string, customerID uint, ttl time.Duration) error
	GetSession(token string) (uint, error)
	DeleteSession(token string) error
}

type AuthService interface {
	Register(email, password, firstName, lastName, phone string) (*models.Customer, error)
	Login(email, password string) (string, *models.Customer, error)
	Verify(token string) (uint, bool)
	Logout(token string) error
}

type authService struct {
	repo       repository.CustomerRepository
	sessions   SessionStore
	sessionTTL time.Duration
}

func NewAuthService(repo repository.CustomerRepository, sessions SessionStore, sessionTTL time.Duration) AuthService {
	return &authService{repo: repo, sessions: sessions, sessionTTL: sessionTTL}
}

func (s *authService) Register(email, password, firstName, lastName, phone string) (*models.Customer, error) {
	if existing, _ := s.repo.GetByEmail(email); existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &models.Customer{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
	}
	if err := s.repo.Create(customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *authService) Login(email, password string) (string, *models.Customer, error) {
	customer, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.sessions.SetSession(token, customer.ID, s.sessionTTL); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}
	return token, customer, nil
}

// Verify resolves a bearer token to a customer id. Unknown or expired
// tokens report false.
func (s *authService) Verify(token string) (uint, bool) {
	customerID, err := s.sessions.GetSession(token)
	if err != nil {
		return 0, false
	}
	return customerID, true
}

func (s *authService) Logout(token string) error {
	return s.sessions.DeleteSession(token)
}
