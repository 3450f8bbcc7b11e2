package user

import (
	"context"
	"time"
)

// ListFilter define os filtros da listagem de usuários
type ListFilter struct {
	Role     Role
	IsActive *bool
	Limit    int
	Offset   int
}

// Repository define a interface para operações de repositório de usuários
type Repository interface {
	// Create cria um novo usuário
	Create(ctx context.Context, u *User) error

	// FindByID busca um usuário pelo ID
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail busca um usuário pelo email normalizado
	FindByEmail(ctx context.Context, email string) (*User, error)

	// List lista usuários com paginação e devolve o total
	List(ctx context.Context, f ListFilter) ([]*User, int, error)

	// Update atualiza dados cadastrais, papel, status e senha
	Update(ctx context.Context, u *User) error

	// Delete remove um usuário
	Delete(ctx context.Context, id string) error
}

// RefreshTokenStore registra tokens de renovação revogáveis com expiração
type RefreshTokenStore interface {
	// Save associa o token ao usuário até expirar
	Save(ctx context.Context, token, userID string, ttl time.Duration) error

	// Consume remove o token e devolve seu dono numa única operação;
	// token ausente ou já consumido devolve ErrTokenNotFound
	Consume(ctx context.Context, token string) (string, error)

	// Revoke remove o token; remover um token inexistente não é erro
	Revoke(ctx context.Context, token string) error
}
