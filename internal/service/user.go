package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"go-parking-lot/internal/core/auth"
	"go-parking-lot/internal/core/errs"
	"go-parking-lot/internal/domain"
	"go-parking-lot/pkg/utils"
)

type UserService struct {
	repo domain.UserRepository
	jwt  *auth.JWTer
	log  *zap.Logger
}

func NewUserService(r domain.UserRepository, j *auth.JWTer, l *zap.Logger) *UserService {
	return &UserService{repo: r, jwt: j, log: l}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name, email := strings.TrimSpace(in.Name), normEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, errs.BadRequest("Name, email and password are required")
	}
	role := domain.RoleCustomer
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, errs.BadRequest("Invalid role")
		}
		role = r
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.Internal("Failed to register user", err)
	}
	if existing != nil {
		return nil, errs.Conflict("Email already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, errs.Internal("Failed to register user", err)
	}
	u := &domain.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errs.Conflict("Email already registered")
		}
		return nil, errs.Internal("Failed to register user", err)
	}
	s.log.Info("user registered", zap.Uint("uid", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Login returns a signed access token for valid credentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.repo.FindByEmail(ctx, normEmail(email))
	if err != nil {
		return "", nil, errs.Internal("Login failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, errs.Unauthorized("Invalid email or password")
	}
	tok, err := s.jwt.Issue(strconv.FormatUint(uint64(u.ID), 10), string(u.Role), u.Email)
	if err != nil {
		return "", nil, errs.Internal("Failed to issue token", err)
	}
	return tok, u, nil
}

func (s *UserService) Profile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if actor.UserID == 0 {
		return nil, errs.NotFound("User not found")
	}
	return s.find(ctx, actor.UserID)
}

func (s *UserService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.User, error) {
	if !selfOrAdmin(actor, id) {
		return nil, errs.Forbidden("Access denied")
	}
	return s.find(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Internal("Failed to fetch users", err)
	}
	return users, nil
}

// Update changes name, email and password; the role is fixed at registration.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id uint, in UpdateUserInput) (*domain.User, error) {
	if !selfOrAdmin(actor, id) {
		return nil, errs.Forbidden("Access denied")
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if n := strings.TrimSpace(*in.Name); n != "" {
			u.Name = n
		}
	}
	if in.Email != nil {
		if e := normEmail(*in.Email); e != "" && e != u.Email {
			other, err := s.repo.FindByEmail(ctx, e)
			if err != nil {
				return nil, errs.Internal("Failed to update user", err)
			}
			if other != nil && other.ID != u.ID {
				return nil, errs.Conflict("Email already registered")
			}
			u.Email = e
		}
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, errs.Internal("Failed to update user", err)
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errs.Conflict("Email already registered")
		}
		return nil, errs.Internal("Failed to update user", err)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return errs.Internal("Failed to delete user", err)
	}
	if !ok {
		return errs.NotFound("User not found")
	}
	return nil
}

func (s *UserService) find(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Internal("Failed to fetch user", err)
	}
	if u == nil {
		return nil, errs.NotFound("User not found")
	}
	return u, nil
}

func selfOrAdmin(a domain.Actor, id uint) bool {
	return a.Role == domain.RoleAdmin || (a.UserID != 0 && a.UserID == id)
}
