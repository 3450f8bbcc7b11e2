package worksession

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// HistoryFilter define os filtros do histórico de sessões de um agente
type HistoryFilter struct {
	AgentID string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// Repository define a persistência das sessões. Toda consulta por ID é
// feita pelo serviço, que confere o dono antes de devolver a sessão.
type Repository interface {
	// Create grava uma sessão nova. ErrActiveExists se o agente já tiver
	// uma sessão ACTIVE.
	Create(ctx context.Context, s *WorkSession) error

	// FindByID devolve a sessão com os três logs em ordem de lançamento
	FindByID(ctx context.Context, id string) (*WorkSession, error)

	// FindActiveByAgent devolve a sessão ACTIVE do agente ou ErrNotFound
	FindActiveByAgent(ctx context.Context, agentID string) (*WorkSession, error)

	// End encerra a sessão se ainda estiver ACTIVE, congelando o
	// faturamento. ErrNotActive caso contrário.
	End(ctx context.Context, id string, endTime time.Time) error

	// Post incrementa o total e acrescenta o lançamento numa única escrita
	// condicionada a status = ACTIVE. entry nil incrementa sem registrar
	// lançamento. ErrNotActive se a sessão não existir ou estiver encerrada.
	Post(ctx context.Context, id string, total Total, amount decimal.Decimal, entry *Entry) error

	// History devolve as sessões do agente por início decrescente e o total
	History(ctx context.Context, f HistoryFilter) ([]*WorkSession, int, error)
}

// Ref é o dado de exibição resolvido para um lançamento
type Ref struct {
	ClientID   string
	ClientName string
	Total      decimal.Decimal
}

// RefResolver resolve entregas e pagamentos referenciados nos logs
type RefResolver interface {
	PaymentRefs(ctx context.Context, ids []string) (map[string]Ref, error)
	DeliveryRefs(ctx context.Context, ids []string) (map[string]Ref, error)
}
