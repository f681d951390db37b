package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Karavaev93/campusparking/internal/auth"
	"github.com/Karavaev93/campusparking/internal/domain"
	"github.com/Karavaev93/campusparking/internal/repository"
)

// ErrInvalidCredentials is returned for both a missing account and a wrong
// password, so login failures don't reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserUseCase interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, string, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, string, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, sess auth.Session) ([]domain.User, error)
	SetRole(ctx context.Context, sess auth.Session, userID string, role domain.Role) (*domain.User, error)
}

type SignUpInput struct {
	Email    string
	FullName string
	Password string
}

type UserService struct {
	repo   repository.UserRepository
	tokens *auth.Manager
}

func NewUserService(repo repository.UserRepository, tokens *auth.Manager) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

func (s *UserService) SignUp(ctx context.Context, input SignUpInput) (*domain.User, string, error) {
	if input.Email == "" || input.Password == "" {
		return nil, "", errors.New("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, sess auth.Session) ([]domain.User, error) {
	if !domain.Can(sess.Role, domain.ActionManageRoles) {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx)
}

// SetRole overwrites a user's single role binding. It applies to in-flight
// sessions too, because the auth middleware re-reads the role per request.
func (s *UserService) SetRole(ctx context.Context, sess auth.Session, userID string, role domain.Role) (*domain.User, error) {
	if !domain.Can(sess.Role, domain.ActionManageRoles) {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrConflict
	}
	return s.repo.UpdateRole(ctx, userID, role)
}

var _ UserUseCase = (*UserService)(nil)
