package planning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("planning not found")
	ErrDuplicateSchedule = errors.New("a planning already exists for this commercial on this date")
)

// Status representa o estado do planejamento
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
)

// Action é o que o agente deve fazer na parada
type Action string

const (
	ActionDelivery Action = "delivery"
	ActionPayment  Action = "payment"
	ActionTask     Action = "task"
)

// Stop é uma parada planejada
type Stop struct {
	ClientID string `json:"clientId"`
	Order    int    `json:"order"`
	Action   Action `json:"action"`
}

// Planning é o roteiro de um agente comercial para um dia
type Planning struct {
	ID           string
	CircuitID    string
	Title        string
	Date         time.Time
	Time         string
	Status       Status
	Stops        []Stop
	CommercialID string
	ClientIDs    []string
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewPlanning cria um planejamento agendado para o dia informado
func NewPlanning(commercialID string, date time.Time, createdBy string) *Planning {
	now := time.Now().UTC()
	return &Planning{
		ID:           uuid.NewString(),
		Date:         StartOfDay(date),
		Status:       StatusScheduled,
		Stops:        []Stop{},
		CommercialID: commercialID,
		ClientIDs:    []string{},
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// StartOfDay normaliza para a meia-noite UTC
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ListFilter define os filtros da listagem de planejamentos
type ListFilter struct {
	CommercialID string
	Date         *time.Time
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// Repository define a interface para operações de repositório de planejamentos
type Repository interface {
	// Create grava o planejamento. ErrDuplicateSchedule se já houver um
	// para o mesmo comercial no mesmo dia.
	Create(ctx context.Context, p *Planning) error
	FindByID(ctx context.Context, id string) (*Planning, error)
	List(ctx context.Context, f ListFilter) ([]*Planning, int, error)
	Update(ctx context.Context, p *Planning) error
	Delete(ctx context.Context, id string) error
}
