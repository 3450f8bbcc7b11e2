package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/delivery"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/transaction"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/abdesslemchebili/rebornBackend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// LineInput é uma linha pedida; sem UnitPrice vale o preço atual do produto
type LineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

type CreateDeliveryInput struct {
	ClientID    string
	CircuitID   string
	Lines       []LineInput
	PaymentType string
	AssignedTo  string
	PlannedDate *time.Time
	ProofPhoto  string
	Notes       string
}

// UpdateDeliveryInput altera só os metadados; nil mantém o valor atual
type UpdateDeliveryInput struct {
	CircuitID   *string
	AssignedTo  *string
	PlannedDate *time.Time
	ProofPhoto  *string
	Notes       *string
}

type StatusInput struct {
	Status       string
	CompletedAt  *time.Time
	DeliveryDate *time.Time
	ProofPhoto   string
}

type DeliveryQuery struct {
	PageRequest
	ClientID  string
	CircuitID string
	Status    string
	Date      *time.Time
	From      *time.Time
	To        *time.Time
}

type DeliveryService interface {
	Create(ctx context.Context, createdBy string, in CreateDeliveryInput) (*delivery.Delivery, error)
	Get(ctx context.Context, id string) (*delivery.Delivery, error)
	List(ctx context.Context, q DeliveryQuery) (*Page[*delivery.Delivery], error)
	ByDate(ctx context.Context, date time.Time) ([]*delivery.Delivery, error)
	ByClient(ctx context.Context, clientID string) ([]*delivery.Delivery, error)
	Update(ctx context.Context, id string, in UpdateDeliveryInput) (*delivery.Delivery, error)
	UpdateStatus(ctx context.Context, id string, in StatusInput) (*delivery.Delivery, error)
	Delete(ctx context.Context, id string) error
}

type deliveryService struct {
	tx         transaction.Transactor
	deliveries delivery.Repository
	clients    client.Repository
	products   product.Repository
	poster     SessionPoster
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewDeliveryService cria uma nova instância de DeliveryService
func NewDeliveryService(
	tx transaction.Transactor,
	deliveries delivery.Repository,
	clients client.Repository,
	products product.Repository,
	poster SessionPoster,
	log logger.Logger,
	m *metrics.Metrics,
) DeliveryService {
	return &deliveryService{
		tx:         tx,
		deliveries: deliveries,
		clients:    clients,
		products:   products,
		poster:     poster,
		logger:     log,
		metrics:    m,
	}
}

func (s *deliveryService) Create(ctx context.Context, createdBy string, in CreateDeliveryInput) (*delivery.Delivery, error) {
	if !validID(in.ClientID) {
		return nil, notFound(CodeClientNotFound, "Client not found")
	}
	if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
		return nil, mapClientErr(err)
	}

	paymentType := delivery.PaymentCash
	switch delivery.PaymentType(in.PaymentType) {
	case "":
	case delivery.PaymentCash, delivery.PaymentCredit:
		paymentType = delivery.PaymentType(in.PaymentType)
	default:
		return nil, apperror.BadRequest(CodeInvalidPaymentType, "Payment type must be CASH or CREDIT")
	}

	lines, err := s.resolveLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}

	var planned time.Time
	if in.PlannedDate != nil {
		planned = in.PlannedDate.UTC()
	}
	d := delivery.NewDelivery(in.ClientID, createdBy, lines, planned)
	d.CircuitID = in.CircuitID
	d.PaymentType = paymentType
	d.AssignedTo = in.AssignedTo
	d.ProofPhoto = in.ProofPhoto
	d.Notes = in.Notes

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.deliveries.Create(ctx, d); err != nil {
			return fmt.Errorf("erro ao criar entrega: %w", err)
		}
		if err := s.clients.AddDebt(ctx, d.ClientID, d.TotalAmount); err != nil {
			return fmt.Errorf("erro ao atualizar dívida do cliente: %w", err)
		}
		return nil
	})
	s.metrics.LedgerTransaction("delivery_create", err)
	if err != nil {
		s.logger.Error("Transação de criação de entrega desfeita", "client_id", d.ClientID, "error", err)
		return nil, mapDeliveryTxErr(err)
	}

	s.poster.PostDelivery(ctx, d)

	created, err := s.deliveries.FindByID(ctx, d.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return created, nil
}

func (s *deliveryService) resolveLines(ctx context.Context, inputs []LineInput) ([]delivery.Line, error) {
	lines := make([]delivery.Line, 0, len(inputs))
	for _, in := range inputs {
		if !validID(in.ProductID) {
			return nil, apperror.BadRequest(CodeProductNotFound, fmt.Sprintf("Product %s not found", in.ProductID))
		}
		p, err := s.products.FindByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, apperror.BadRequest(CodeProductNotFound, fmt.Sprintf("Product %s not found", in.ProductID))
			}
			return nil, apperror.Internal(err)
		}
		if !in.Quantity.IsPositive() {
			return nil, apperror.BadRequest(CodeInvalidQuantity, "Quantity must be greater than zero")
		}
		price := p.Price
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		if price.IsNegative() {
			return nil, apperror.BadRequest(CodeInvalidPrice, "Unit price must not be negative")
		}
		lines = append(lines, delivery.Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    in.Quantity,
			UnitPrice:   price,
		})
	}
	return lines, nil
}

func (s *deliveryService) Get(ctx context.Context, id string) (*delivery.Delivery, error) {
	if !validID(id) {
		return nil, notFound(CodeDeliveryNotFound, "Delivery not found")
	}
	d, err := s.deliveries.FindByID(ctx, id)
	if err != nil {
		return nil, mapDeliveryErr(err)
	}
	return d, nil
}

func (s *deliveryService) List(ctx context.Context, q DeliveryQuery) (*Page[*delivery.Delivery], error) {
	req := q.PageRequest.Normalize()
	f := delivery.ListFilter{
		ClientID:  q.ClientID,
		CircuitID: q.CircuitID,
		Date:      q.Date,
		From:      q.From,
		To:        q.To,
		Limit:     req.Limit,
		Offset:    req.Offset(),
	}
	if q.Status != "" {
		st, ok := delivery.ParseStatus(q.Status)
		if !ok {
			return nil, apperror.BadRequest(CodeInvalidStatus, "Invalid delivery status")
		}
		f.Status = st
	}

	items, total, err := s.deliveries.List(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return newPage(items, req, total), nil
}

func (s *deliveryService) ByDate(ctx context.Context, date time.Time) ([]*delivery.Delivery, error) {
	items, _, err := s.deliveries.List(ctx, delivery.ListFilter{Date: &date})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (s *deliveryService) ByClient(ctx context.Context, clientID string) ([]*delivery.Delivery, error) {
	if !validID(clientID) {
		return []*delivery.Delivery{}, nil
	}
	items, _, err := s.deliveries.List(ctx, delivery.ListFilter{ClientID: clientID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (s *deliveryService) Update(ctx context.Context, id string, in UpdateDeliveryInput) (*delivery.Delivery, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == delivery.StatusDelivered {
		return nil, apperror.BadRequest(CodeDeliveryImmutable, "Cannot update a delivered delivery")
	}

	if in.CircuitID != nil {
		d.CircuitID = *in.CircuitID
	}
	if in.AssignedTo != nil {
		d.AssignedTo = *in.AssignedTo
	}
	if in.PlannedDate != nil {
		d.PlannedDate = in.PlannedDate.UTC()
	}
	if in.ProofPhoto != nil {
		d.ProofPhoto = *in.ProofPhoto
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}

	if err := s.deliveries.Update(ctx, d); err != nil {
		return nil, mapDeliveryErr(err)
	}
	return s.Get(ctx, id)
}

func (s *deliveryService) UpdateStatus(ctx context.Context, id string, in StatusInput) (*delivery.Delivery, error) {
	next, ok := delivery.ParseStatus(in.Status)
	if !ok {
		return nil, apperror.BadRequest(CodeInvalidStatus, "Invalid delivery status")
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == next {
		return d, nil
	}
	if !d.Status.CanTransitionTo(next) {
		return nil, apperror.BadRequest(CodeInvalidStatusTransition,
			fmt.Sprintf("Cannot change delivery status from %s to %s", d.Status, next))
	}

	change := delivery.StatusChange{Status: next, ProofPhoto: in.ProofPhoto}
	now := time.Now().UTC()

	switch next {
	case delivery.StatusDelivered:
		if len(d.Lines) == 0 {
			return nil, apperror.BadRequest(CodeNoProductLines, "Cannot mark as delivered: no products on this delivery")
		}
		completed := now
		if in.CompletedAt != nil {
			completed = in.CompletedAt.UTC()
		}
		deliveryDate := completed
		if in.DeliveryDate != nil {
			deliveryDate = in.DeliveryDate.UTC()
		}
		change.CompletedAt = &completed
		change.DeliveryDate = &deliveryDate

		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			// a troca de estado vem primeiro; só quem vence a guarda baixa o estoque
			if err := s.deliveries.UpdateStatus(ctx, d.ID, d.Status, change); err != nil {
				return err
			}
			for _, l := range d.Lines {
				if err := s.products.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
					if errors.Is(err, product.ErrInsufficientStock) || errors.Is(err, product.ErrNotFound) {
						return apperror.BadRequest(CodeInsufficientStock,
							fmt.Sprintf("Insufficient stock for product %s", l.ProductID))
					}
					return err
				}
			}
			return nil
		})
		s.metrics.LedgerTransaction("delivery_complete", err)
		if err != nil {
			return nil, mapDeliveryTxErr(err)
		}
		s.logger.Info("Entrega concluída", "delivery_id", d.ID, "lines", len(d.Lines))

	case delivery.StatusCancelled:
		if d.CompletedAt == nil {
			change.CompletedAt = &now
		}
		if err := s.deliveries.UpdateStatus(ctx, d.ID, d.Status, change); err != nil {
			return nil, mapDeliveryErr(err)
		}

	default:
		if err := s.deliveries.UpdateStatus(ctx, d.ID, d.Status, change); err != nil {
			return nil, mapDeliveryErr(err)
		}
	}

	return s.Get(ctx, id)
}

func (s *deliveryService) Delete(ctx context.Context, id string) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if d.Status == delivery.StatusDelivered {
		return apperror.BadRequest(CodeDeliveryImmutable, "Cannot delete a delivered delivery; consider cancelling before delivery.")
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.deliveries.Delete(ctx, d.ID); err != nil {
			return err
		}
		if err := s.clients.AddDebt(ctx, d.ClientID, d.TotalAmount.Neg()); err != nil {
			return fmt.Errorf("erro ao reverter dívida do cliente: %w", err)
		}
		return nil
	})
	s.metrics.LedgerTransaction("delivery_delete", err)
	if err != nil {
		return mapDeliveryTxErr(err)
	}
	return nil
}

func mapDeliveryErr(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, delivery.ErrNotFound):
		return notFound(CodeDeliveryNotFound, "Delivery not found")
	case errors.Is(err, delivery.ErrStatusChanged):
		return apperror.BadRequest(CodeInvalidStatusTransition, "Delivery status changed meanwhile; reload and retry")
	case errors.Is(err, delivery.ErrImmutable):
		return apperror.BadRequest(CodeDeliveryImmutable, "Cannot modify a delivered delivery")
	}
	return apperror.Internal(err)
}

func mapDeliveryTxErr(err error) error {
	switch {
	case errors.Is(err, client.ErrNotFound):
		return notFound(CodeClientNotFound, "Client not found")
	case errors.Is(err, product.ErrNotFound):
		return apperror.BadRequest(CodeProductNotFound, "Product not found")
	}
	return mapDeliveryErr(err)
}

func mapClientErr(err error) error {
	if errors.Is(err, client.ErrNotFound) {
		return notFound(CodeClientNotFound, "Client not found")
	}
	return apperror.Internal(err)
}
