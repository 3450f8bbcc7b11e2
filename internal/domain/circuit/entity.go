package circuit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("circuit not found")
	ErrDuplicateCode = errors.New("circuit with same code already exists")
	ErrEmptyName     = errors.New("circuit name is required")
)

// Stop é uma parada ordenada do circuito
type Stop struct {
	ClientID  string  `json:"clientId"`
	Order     int     `json:"order"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Circuit representa uma rota de visitas a clientes
type Circuit struct {
	ID                string
	Name              string
	Code              string
	Zone              string
	Region            string
	ClientIDs         []string
	Stops             []Stop
	EstimatedDuration int
	AssignedTo        string
	Description       string
	IsActive          bool
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewCircuit cria um circuito ativo
func NewCircuit(name, createdBy string) (*Circuit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	now := time.Now().UTC()
	return &Circuit{
		ID:        uuid.NewString(),
		Name:      name,
		ClientIDs: []string{},
		Stops:     []Stop{},
		IsActive:  true,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Scope restringe agentes aos circuitos que criaram ou que lhes foram atribuídos
type Scope struct {
	AgentID string
}

func (s Scope) Allows(c *Circuit) bool {
	return s.AgentID == "" || c.CreatedBy == s.AgentID || c.AssignedTo == s.AgentID
}

// ListFilter define os filtros da listagem de circuitos
type ListFilter struct {
	Scope    Scope
	Zone     string
	IsActive *bool
	Limit    int
	Offset   int
}

// Repository define a interface para operações de repositório de circuitos
type Repository interface {
	Create(ctx context.Context, c *Circuit) error
	FindByID(ctx context.Context, id string) (*Circuit, error)
	List(ctx context.Context, f ListFilter) ([]*Circuit, int, error)
	Update(ctx context.Context, c *Circuit) error
	Delete(ctx context.Context, id string) error
}
