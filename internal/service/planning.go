package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/planning"
)

type PlanningInput struct {
	CircuitID    *string
	Title        *string
	Date         *time.Time
	Time         *string
	Status       *string
	Stops        []planning.Stop
	CommercialID *string
	ClientIDs    []string
	Notes        *string
}

type PlanningQuery struct {
	PageRequest
	CommercialID string
	From         *time.Time
	To           *time.Time
}

type PlanningService interface {
	Create(ctx context.Context, createdBy string, in PlanningInput) (*planning.Planning, error)
	Get(ctx context.Context, id string) (*planning.Planning, error)
	List(ctx context.Context, q PlanningQuery) (*Page[*planning.Planning], error)
	ByDate(ctx context.Context, date time.Time) ([]*planning.Planning, error)
	Update(ctx context.Context, id string, in PlanningInput) (*planning.Planning, error)
	Delete(ctx context.Context, id string) error
}

type planningService struct {
	plannings planning.Repository
	now       func() time.Time
}

// NewPlanningService cria uma nova instância de PlanningService
func NewPlanningService(plannings planning.Repository) PlanningService {
	return &planningService{plannings: plannings, now: time.Now}
}

func (s *planningService) Create(ctx context.Context, createdBy string, in PlanningInput) (*planning.Planning, error) {
	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}
	var commercial string
	if in.CommercialID != nil {
		commercial = strings.TrimSpace(*in.CommercialID)
	}

	p := planning.NewPlanning(commercial, date, createdBy)
	in.Date, in.CommercialID = nil, nil
	if err := applyPlanningInput(p, in); err != nil {
		return nil, err
	}
	if err := s.plannings.Create(ctx, p); err != nil {
		return nil, mapPlanningErr(err)
	}
	return s.Get(ctx, p.ID)
}

func (s *planningService) Get(ctx context.Context, id string) (*planning.Planning, error) {
	if !validID(id) {
		return nil, notFound(CodePlanningNotFound, "Planning not found")
	}
	p, err := s.plannings.FindByID(ctx, id)
	if err != nil {
		return nil, mapPlanningErr(err)
	}
	return p, nil
}

func (s *planningService) List(ctx context.Context, q PlanningQuery) (*Page[*planning.Planning], error) {
	req := q.PageRequest.Normalize()
	items, total, err := s.plannings.List(ctx, planning.ListFilter{
		CommercialID: q.CommercialID,
		From:         q.From,
		To:           q.To,
		Limit:        req.Limit,
		Offset:       req.Offset(),
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return newPage(items, req, total), nil
}

func (s *planningService) ByDate(ctx context.Context, date time.Time) ([]*planning.Planning, error) {
	items, _, err := s.plannings.List(ctx, planning.ListFilter{Date: &date})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if items == nil {
		items = []*planning.Planning{}
	}
	return items, nil
}

func (s *planningService) Update(ctx context.Context, id string, in PlanningInput) (*planning.Planning, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPlanningInput(p, in); err != nil {
		return nil, err
	}
	if err := s.plannings.Update(ctx, p); err != nil {
		return nil, mapPlanningErr(err)
	}
	return s.Get(ctx, id)
}

func (s *planningService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound(CodePlanningNotFound, "Planning not found")
	}
	if err := s.plannings.Delete(ctx, id); err != nil {
		return mapPlanningErr(err)
	}
	return nil
}

func applyPlanningInput(p *planning.Planning, in PlanningInput) error {
	if in.Status != nil {
		switch st := planning.Status(strings.ToLower(*in.Status)); st {
		case planning.StatusScheduled, planning.StatusCompleted:
			p.Status = st
		default:
			return apperror.Validation("Invalid planning", apperror.FieldError{Field: "status", Message: "must be scheduled or completed"})
		}
	}
	if in.Stops != nil {
		stops := make([]planning.Stop, 0, len(in.Stops))
		for _, st := range in.Stops {
			st.Action = planning.Action(strings.ToLower(string(st.Action)))
			switch st.Action {
			case "":
				st.Action = planning.ActionTask
			case planning.ActionDelivery, planning.ActionPayment, planning.ActionTask:
			default:
				return apperror.Validation("Invalid planning", apperror.FieldError{Field: "stops.action", Message: "must be delivery, payment or task"})
			}
			stops = append(stops, st)
		}
		p.Stops = stops
	}
	if in.Date != nil {
		p.Date = planning.StartOfDay(*in.Date)
	}
	setString(&p.CircuitID, in.CircuitID)
	setString(&p.Title, in.Title)
	setString(&p.Time, in.Time)
	setString(&p.CommercialID, in.CommercialID)
	setString(&p.Notes, in.Notes)
	if in.ClientIDs != nil {
		p.ClientIDs = in.ClientIDs
	}
	return nil
}

func mapPlanningErr(err error) error {
	switch {
	case errors.Is(err, planning.ErrNotFound):
		return notFound(CodePlanningNotFound, "Planning not found")
	case errors.Is(err, planning.ErrDuplicateSchedule):
		return apperror.Conflict(CodeDuplicateSchedule, "Planning already exists for this commercial and date")
	}
	return apperror.Internal(err)
}
