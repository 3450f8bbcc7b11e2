package service

import (
	"context"
	"errors"
	"strings"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/circuit"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
)

type CircuitInput struct {
	Name              *string
	Code              *string
	Zone              *string
	Region            *string
	ClientIDs         []string
	Stops             []circuit.Stop
	EstimatedDuration *int
	AssignedTo        *string
	Description       *string
	IsActive          *bool
}

type CircuitQuery struct {
	PageRequest
	Zone     string
	IsActive *bool
}

type CircuitService interface {
	Create(ctx context.Context, actor user.Actor, in CircuitInput) (*circuit.Circuit, error)
	Get(ctx context.Context, actor user.Actor, id string) (*circuit.Circuit, error)
	List(ctx context.Context, actor user.Actor, q CircuitQuery) (*Page[*circuit.Circuit], error)
	Update(ctx context.Context, actor user.Actor, id string, in CircuitInput) (*circuit.Circuit, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
	// Clients lista os clientes ligados ao circuito, por nome
	Clients(ctx context.Context, actor user.Actor, id string) ([]*client.Client, error)
}

type circuitService struct {
	circuits circuit.Repository
	clients  client.Repository
}

// NewCircuitService cria uma nova instância de CircuitService
func NewCircuitService(circuits circuit.Repository, clients client.Repository) CircuitService {
	return &circuitService{circuits: circuits, clients: clients}
}

// circuitScope restringe quem não é ADMIN aos circuitos que criou ou recebeu
func circuitScope(actor user.Actor) circuit.Scope {
	if actor.IsAdmin() {
		return circuit.Scope{}
	}
	return circuit.Scope{AgentID: actor.ID}
}

func (s *circuitService) Create(ctx context.Context, actor user.Actor, in CircuitInput) (*circuit.Circuit, error) {
	var name string
	if in.Name != nil {
		name = *in.Name
	}
	c, err := circuit.NewCircuit(name, actor.ID)
	if err != nil {
		return nil, apperror.Validation("Invalid circuit", apperror.FieldError{Field: "name", Message: err.Error()})
	}
	in.Name = nil
	if err := applyCircuitInput(c, in); err != nil {
		return nil, err
	}
	if err := s.circuits.Create(ctx, c); err != nil {
		return nil, mapCircuitErr(err)
	}
	return s.Get(ctx, actor, c.ID)
}

func (s *circuitService) Get(ctx context.Context, actor user.Actor, id string) (*circuit.Circuit, error) {
	if !validID(id) {
		return nil, notFound(CodeCircuitNotFound, "Circuit not found")
	}
	c, err := s.circuits.FindByID(ctx, id)
	if err != nil {
		return nil, mapCircuitErr(err)
	}
	if !circuitScope(actor).Allows(c) {
		return nil, notFound(CodeCircuitNotFound, "Circuit not found")
	}
	return c, nil
}

func (s *circuitService) List(ctx context.Context, actor user.Actor, q CircuitQuery) (*Page[*circuit.Circuit], error) {
	req := q.PageRequest.Normalize()
	items, total, err := s.circuits.List(ctx, circuit.ListFilter{
		Scope:    circuitScope(actor),
		Zone:     q.Zone,
		IsActive: q.IsActive,
		Limit:    req.Limit,
		Offset:   req.Offset(),
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return newPage(items, req, total), nil
}

func (s *circuitService) Update(ctx context.Context, actor user.Actor, id string, in CircuitInput) (*circuit.Circuit, error) {
	c, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := applyCircuitInput(c, in); err != nil {
		return nil, err
	}
	if err := s.circuits.Update(ctx, c); err != nil {
		return nil, mapCircuitErr(err)
	}
	return s.Get(ctx, actor, id)
}

func (s *circuitService) Delete(ctx context.Context, actor user.Actor, id string) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.circuits.Delete(ctx, id); err != nil {
		return mapCircuitErr(err)
	}
	return nil
}

func (s *circuitService) Clients(ctx context.Context, actor user.Actor, id string) ([]*client.Client, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	items, err := s.clients.ListByCircuit(ctx, id, client.Scope{})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if items == nil {
		items = []*client.Client{}
	}
	return items, nil
}

func applyCircuitInput(c *circuit.Circuit, in CircuitInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperror.Validation("Invalid circuit", apperror.FieldError{Field: "name", Message: circuit.ErrEmptyName.Error()})
		}
		c.Name = name
	}
	if in.EstimatedDuration != nil {
		if *in.EstimatedDuration < 0 {
			return apperror.Validation("Invalid circuit", apperror.FieldError{Field: "estimatedDuration", Message: "must not be negative"})
		}
		c.EstimatedDuration = *in.EstimatedDuration
	}
	setString(&c.Code, in.Code)
	setString(&c.Zone, in.Zone)
	setString(&c.Region, in.Region)
	setString(&c.AssignedTo, in.AssignedTo)
	setString(&c.Description, in.Description)
	if in.ClientIDs != nil {
		c.ClientIDs = in.ClientIDs
	}
	if in.Stops != nil {
		c.Stops = in.Stops
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}

func mapCircuitErr(err error) error {
	switch {
	case errors.Is(err, circuit.ErrNotFound):
		return notFound(CodeCircuitNotFound, "Circuit not found")
	case errors.Is(err, circuit.ErrDuplicateCode):
		return apperror.Conflict(apperror.CodeDuplicateKey, "Circuit with same code already exists")
	}
	return apperror.Internal(err)
}
