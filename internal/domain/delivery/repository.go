package delivery

import (
	"context"
	"time"
)

// ListFilter define os filtros da listagem de entregas
type ListFilter struct {
	ClientID  string
	CircuitID string
	Status    Status
	Date      *time.Time
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StatusChange agrupa os campos gravados numa transição de estado
type StatusChange struct {
	Status       Status
	CompletedAt  *time.Time
	DeliveryDate *time.Time
	ProofPhoto   string
}

// Repository define a interface para operações de repositório de entregas
type Repository interface {
	// Create grava a entrega e suas linhas
	Create(ctx context.Context, d *Delivery) error

	// FindByID devolve a entrega com linhas e nome do cliente
	FindByID(ctx context.Context, id string) (*Delivery, error)

	// List devolve a página ordenada por data planejada decrescente e o total
	List(ctx context.Context, f ListFilter) ([]*Delivery, int, error)

	// Update grava circuito, responsável, data planejada, foto e notas;
	// entrega já entregue devolve ErrImmutable
	Update(ctx context.Context, d *Delivery) error

	// UpdateStatus aplica a transição só se o estado ainda for from;
	// caso contrário devolve ErrStatusChanged
	UpdateStatus(ctx context.Context, id string, from Status, change StatusChange) error

	// Delete remove a entrega se ainda não foi entregue (ErrImmutable)
	Delete(ctx context.Context, id string) error
}
