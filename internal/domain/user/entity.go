package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost é o custo do bcrypt usado para novas senhas
const PasswordCost = 12

// MinPasswordLength é o tamanho mínimo aceito para senhas
const MinPasswordLength = 6

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user with same email already exists")
	ErrInvalidRole    = errors.New("invalid role")
	ErrWeakPassword   = errors.New("password must be at least 6 characters")
	ErrEmptyEmail     = errors.New("email is required")
)

// Role representa o papel do usuário
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleCommercial Role = "COMMERCIAL"
	RoleDelivery   Role = "DELIVERY"
)

// Valid verifica se o papel é conhecido
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCommercial, RoleDelivery:
		return true
	}
	return false
}

// User representa um usuário do sistema (administrador ou agente de campo)
type User struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor é a identidade resolvida pelo middleware de autenticação
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// NewUser cria um usuário ativo com a senha já em hash
func NewUser(email, password, firstName, lastName string, role Role) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if role == "" {
		role = RoleCommercial
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	now := time.Now().UTC()
	u := &User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail aplica trim e minúsculas
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FullName junta nome e sobrenome
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SetPassword configura a senha do usuário com hash
func (u *User) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifica se a senha fornecida é válida
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ErrTokenNotFound indica refresh token desconhecido, revogado ou expirado
var ErrTokenNotFound = errors.New("refresh token not found")
