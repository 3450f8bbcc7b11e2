package service

import (
	"context"
	"errors"
	"strings"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
)

type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type UpdateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Role      *string
	IsActive  *bool
}

type UserQuery struct {
	PageRequest
	Role     string
	IsActive *bool
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*user.User, error)
	Get(ctx context.Context, id string) (*user.User, error)
	List(ctx context.Context, q UserQuery) (*Page[*user.User], error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*user.User, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
}

type userService struct {
	users user.Repository
}

// NewUserService cria uma nova instância de UserService
func NewUserService(users user.Repository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*user.User, error) {
	u, err := user.NewUser(in.Email, in.Password, in.FirstName, in.LastName, user.Role(strings.ToUpper(in.Role)))
	if err != nil {
		return nil, mapUserErr(err)
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, mapUserErr(err)
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*user.User, error) {
	if !validID(id) {
		return nil, notFound(CodeUserNotFound, "User not found")
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, q UserQuery) (*Page[*user.User], error) {
	req := q.PageRequest.Normalize()
	f := user.ListFilter{IsActive: q.IsActive, Limit: req.Limit, Offset: req.Offset()}
	if q.Role != "" {
		role := user.Role(strings.ToUpper(q.Role))
		if !role.Valid() {
			return nil, apperror.BadRequest(CodeInvalidRole, "Invalid role")
		}
		f.Role = role
	}
	items, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return newPage(items, req, total), nil
}

func (s *userService) Update(ctx context.Context, id string, in UpdateUserInput) (*user.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := user.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, mapUserErr(user.ErrEmptyEmail)
		}
		u.Email = email
	}
	if in.Role != nil {
		role := user.Role(strings.ToUpper(*in.Role))
		if !role.Valid() {
			return nil, mapUserErr(user.ErrInvalidRole)
		}
		u.Role = role
	}
	if in.Password != nil {
		if err := u.SetPassword(*in.Password); err != nil {
			return nil, mapUserErr(err)
		}
	}
	setString(&u.FirstName, in.FirstName)
	setString(&u.LastName, in.LastName)
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, mapUserErr(err)
	}
	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, actor user.Actor, id string) error {
	if actor.ID == id {
		return apperror.BadRequest(apperror.CodeBadRequest, "You cannot delete your own account")
	}
	if !validID(id) {
		return notFound(CodeUserNotFound, "User not found")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return mapUserErr(err)
	}
	return nil
}

func mapUserErr(err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return notFound(CodeUserNotFound, "User not found")
	case errors.Is(err, user.ErrDuplicateEmail):
		return apperror.Conflict(apperror.CodeDuplicateKey, "User with same email already exists")
	case errors.Is(err, user.ErrInvalidRole):
		return apperror.Validation("Invalid user", apperror.FieldError{Field: "role", Message: "must be one of ADMIN, COMMERCIAL, DELIVERY"})
	case errors.Is(err, user.ErrWeakPassword):
		return apperror.Validation("Invalid user", apperror.FieldError{Field: "password", Message: err.Error()})
	case errors.Is(err, user.ErrEmptyEmail):
		return apperror.Validation("Invalid user", apperror.FieldError{Field: "email", Message: err.Error()})
	}
	return apperror.Internal(err)
}
