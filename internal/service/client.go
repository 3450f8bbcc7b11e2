package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
)

const (
	DefaultNearDistanceKm = 50
	MaxNearResults        = 100
)

// ClientInput carrega os campos editáveis; nil mantém o valor atual.
// totalDebt não é editável por aqui.
type ClientInput struct {
	Name             *string
	ShopName         *string
	Code             *string
	Email            *string
	Phone            *string
	Address          *client.Address
	Latitude         *float64
	Longitude        *float64
	Type             *string
	Segment          *string
	CircuitID        *string
	LastVisit        *time.Time
	IsActive         *bool
	Archived         *bool
	MatriculeFiscale *string
	OwnerName        *string
	OwnerPicture     *string
	ShopPicture      *string
	Notes            *string
}

type ClientQuery struct {
	PageRequest
	Segment   string
	Type      string
	CircuitID string
	Archived  *bool
	IsActive  *bool
	Search    string
	Sort      string
}

type NearQuery struct {
	Latitude      float64
	Longitude     float64
	MaxDistanceKm float64
	Limit         int
}

type ClientService interface {
	Create(ctx context.Context, actor user.Actor, in ClientInput) (*client.Client, error)
	Get(ctx context.Context, actor user.Actor, id string) (*client.Client, error)
	List(ctx context.Context, actor user.Actor, q ClientQuery) (*Page[*client.Client], error)
	Near(ctx context.Context, actor user.Actor, q NearQuery) ([]*client.Client, error)
	Update(ctx context.Context, actor user.Actor, id string, in ClientInput) (*client.Client, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
}

type clientService struct {
	clients client.Repository
	logger  logger.Logger
}

// NewClientService cria uma nova instância de ClientService
func NewClientService(clients client.Repository, log logger.Logger) ClientService {
	return &clientService{clients: clients, logger: log}
}

// clientScope restringe quem não é ADMIN aos clientes que criou
func clientScope(actor user.Actor) client.Scope {
	if actor.IsAdmin() {
		return client.Scope{}
	}
	return client.Scope{CreatedBy: actor.ID}
}

func (s *clientService) Create(ctx context.Context, actor user.Actor, in ClientInput) (*client.Client, error) {
	name := ""
	if in.Name != nil {
		name = *in.Name
	}
	c, err := client.NewClient(name, actor.ID)
	if err != nil {
		return nil, apperror.Validation("Invalid client", apperror.FieldError{Field: "name", Message: err.Error()})
	}
	in.Name = nil
	if err := applyClientInput(c, in); err != nil {
		return nil, err
	}

	if err := s.clients.Create(ctx, c); err != nil {
		return nil, mapClientWriteErr(err)
	}
	return s.clients.FindByID(ctx, c.ID)
}

func (s *clientService) Get(ctx context.Context, actor user.Actor, id string) (*client.Client, error) {
	if !validID(id) {
		return nil, notFound(CodeClientNotFound, "Client not found")
	}
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, mapClientErr(err)
	}
	if !clientScope(actor).Allows(c) {
		return nil, notFound(CodeClientNotFound, "Client not found")
	}
	return c, nil
}

func (s *clientService) List(ctx context.Context, actor user.Actor, q ClientQuery) (*Page[*client.Client], error) {
	sort, err := ParseClientSort(q.Sort)
	if err != nil {
		return nil, err
	}
	req := q.PageRequest.Normalize()
	f := client.ListFilter{
		Scope:     clientScope(actor),
		Segment:   client.Segment(strings.ToUpper(q.Segment)),
		Type:      client.Type(q.Type),
		CircuitID: q.CircuitID,
		Archived:  q.Archived,
		IsActive:  q.IsActive,
		Search:    strings.TrimSpace(q.Search),
		Sort:      sort,
		Limit:     req.Limit,
		Offset:    req.Offset(),
	}

	items, total, err := s.clients.List(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return newPage(items, req, total), nil
}

func (s *clientService) Near(ctx context.Context, actor user.Actor, q NearQuery) ([]*client.Client, error) {
	if q.Latitude < -90 || q.Latitude > 90 || q.Longitude < -180 || q.Longitude > 180 {
		return nil, apperror.Validation("Invalid coordinates",
			apperror.FieldError{Field: "lat", Message: "must be between -90 and 90"},
			apperror.FieldError{Field: "lng", Message: "must be between -180 and 180"},
		)
	}
	if q.MaxDistanceKm <= 0 {
		q.MaxDistanceKm = DefaultNearDistanceKm
	}
	if q.Limit < 1 || q.Limit > MaxNearResults {
		q.Limit = MaxNearResults
	}

	items, err := s.clients.Near(ctx, client.NearFilter{
		Scope:         clientScope(actor),
		Latitude:      q.Latitude,
		Longitude:     q.Longitude,
		MaxDistanceKm: q.MaxDistanceKm,
		Limit:         q.Limit,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if items == nil {
		items = []*client.Client{}
	}
	return items, nil
}

func (s *clientService) Update(ctx context.Context, actor user.Actor, id string, in ClientInput) (*client.Client, error) {
	c, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := applyClientInput(c, in); err != nil {
		return nil, err
	}
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, mapClientWriteErr(err)
	}
	return s.clients.FindByID(ctx, id)
}

func (s *clientService) Delete(ctx context.Context, actor user.Actor, id string) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return mapClientErr(err)
	}
	s.logger.Info("Cliente removido", "client_id", id, "actor_id", actor.ID)
	return nil
}

// ParseClientSort aceita um campo da lista permitida, com "-" para ordem
// decrescente; vazio ordena por criação decrescente
func ParseClientSort(raw string) (client.Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return client.Sort{Field: client.SortCreatedAt, Desc: true}, nil
	}
	desc := strings.HasPrefix(raw, "-")
	field := client.SortField(strings.TrimPrefix(raw, "-"))
	switch field {
	case client.SortName, client.SortShopName, client.SortCreatedAt, client.SortTotalDebt:
		return client.Sort{Field: field, Desc: desc}, nil
	}
	return client.Sort{}, apperror.BadRequest(apperror.CodeInvalidSortSpec, "Invalid sort field: "+string(field))
}

func applyClientInput(c *client.Client, in ClientInput) error {
	var details []apperror.FieldError

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			details = append(details, apperror.FieldError{Field: "name", Message: client.ErrEmptyName.Error()})
		}
		c.Name = name
	}
	if in.Type != nil {
		switch t := client.Type(*in.Type); t {
		case "", client.TypeMechanic, client.TypeCarWash, client.TypeHardware:
			c.Type = t
		default:
			details = append(details, apperror.FieldError{Field: "type", Message: "must be one of mechanic, car_wash, hardware"})
		}
	}
	if in.Segment != nil {
		switch sg := client.Segment(strings.ToUpper(*in.Segment)); sg {
		case client.SegmentPremium, client.SegmentStandard, client.SegmentWholesale, client.SegmentRetail:
			c.Segment = sg
		default:
			details = append(details, apperror.FieldError{Field: "segment", Message: "must be one of PREMIUM, STANDARD, WHOLESALE, RETAIL"})
		}
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		details = append(details, apperror.FieldError{Field: "location", Message: "latitude and longitude must be sent together"})
	} else if in.Latitude != nil {
		c.Location = &client.Location{Latitude: *in.Latitude, Longitude: *in.Longitude}
	}
	if len(details) > 0 {
		return apperror.Validation("Invalid client", details...)
	}

	setString(&c.ShopName, in.ShopName)
	setString(&c.Code, in.Code)
	setString(&c.Email, in.Email)
	setString(&c.Phone, in.Phone)
	setString(&c.CircuitID, in.CircuitID)
	setString(&c.MatriculeFiscale, in.MatriculeFiscale)
	setString(&c.OwnerName, in.OwnerName)
	setString(&c.OwnerPicture, in.OwnerPicture)
	setString(&c.ShopPicture, in.ShopPicture)
	setString(&c.Notes, in.Notes)
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.LastVisit != nil {
		lv := in.LastVisit.UTC()
		c.LastVisit = &lv
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.Archived != nil {
		c.Archived = *in.Archived
	}
	return nil
}

func mapClientWriteErr(err error) error {
	if errors.Is(err, client.ErrDuplicateCode) {
		return apperror.Conflict(apperror.CodeDuplicateKey, "Client with same code already exists")
	}
	return mapClientErr(err)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
