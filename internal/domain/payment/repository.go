package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ListFilter define os filtros da listagem de pagamentos
type ListFilter struct {
	ClientID string
	Method   Method
	Status   Status
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Summary resume os valores da listagem
type Summary struct {
	TotalCollected decimal.Decimal
	Pending        decimal.Decimal
}

// Repository define a interface para operações de repositório de pagamentos
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id string) (*Payment, error)

	// List devolve a página ordenada por paidAt decrescente, o total e o resumo
	List(ctx context.Context, f ListFilter) ([]*Payment, int, Summary, error)

	// Update grava entrega, moeda, forma, status, data e notas se o status
	// ainda for from; caso contrário devolve ErrStatusChanged
	Update(ctx context.Context, p *Payment, from Status) error

	// Delete remove o pagamento e devolve o status que ele tinha
	Delete(ctx context.Context, id string) (Status, error)
}
