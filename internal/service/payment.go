package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/transaction"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/abdesslemchebili/rebornBackend/pkg/metrics"
	"github.com/shopspring/decimal"
)

type CreatePaymentInput struct {
	ClientID   string
	DeliveryID string
	Amount     decimal.Decimal
	Currency   string
	Method     string
	Status     string
	PaidAt     *time.Time
	ReceivedBy string
	Notes      string
}

type UpdatePaymentInput struct {
	DeliveryID *string
	Currency   *string
	Method     *string
	Status     *string
	PaidAt     *time.Time
	Notes      *string
}

type PaymentQuery struct {
	PageRequest
	ClientID string
	Method   string
	Status   string
	From     *time.Time
	To       *time.Time
}

// PaymentPage é a lista paginada com o resumo do filtro inteiro
type PaymentPage struct {
	Items   *Page[*payment.Payment]
	Summary payment.Summary
}

type PaymentService interface {
	Create(ctx context.Context, createdBy string, in CreatePaymentInput) (*payment.Payment, error)
	Get(ctx context.Context, id string) (*payment.Payment, error)
	List(ctx context.Context, q PaymentQuery) (*PaymentPage, error)
	ByClient(ctx context.Context, clientID string) ([]*payment.Payment, error)
	ByDateRange(ctx context.Context, from, to *time.Time) ([]*payment.Payment, error)
	Update(ctx context.Context, id string, in UpdatePaymentInput) (*payment.Payment, error)
	Delete(ctx context.Context, id string) error
}

type paymentService struct {
	tx       transaction.Transactor
	payments payment.Repository
	clients  client.Repository
	poster   SessionPoster
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewPaymentService cria uma nova instância de PaymentService
func NewPaymentService(
	tx transaction.Transactor,
	payments payment.Repository,
	clients client.Repository,
	poster SessionPoster,
	log logger.Logger,
	m *metrics.Metrics,
) PaymentService {
	return &paymentService{
		tx:       tx,
		payments: payments,
		clients:  clients,
		poster:   poster,
		logger:   log,
		metrics:  m,
	}
}

func (s *paymentService) Create(ctx context.Context, createdBy string, in CreatePaymentInput) (*payment.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, apperror.BadRequest(apperror.CodeInvalidAmount, "Amount must be greater than zero")
	}
	if !validID(in.ClientID) {
		return nil, notFound(CodeClientNotFound, "Client not found")
	}
	c, err := s.clients.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, mapClientErr(err)
	}
	if in.Amount.GreaterThan(c.TotalDebt) {
		return nil, exceedsDebt(in.Amount, c.TotalDebt)
	}

	method, ok := payment.ParseMethod(in.Method)
	if !ok {
		return nil, apperror.BadRequest(CodeInvalidMethod, "Invalid payment method")
	}
	status, ok := payment.ParseStatus(in.Status)
	if !ok || status == payment.StatusCancelled {
		return nil, apperror.BadRequest(CodeInvalidStatus, "Payment status must be pending or completed")
	}

	p := payment.NewPayment(in.ClientID, in.Amount, createdBy)
	p.DeliveryID = in.DeliveryID
	p.Method = method
	p.Status = status
	p.Notes = in.Notes
	p.ReceivedBy = in.ReceivedBy
	if p.ReceivedBy == "" {
		p.ReceivedBy = createdBy
	}
	if cur := strings.TrimSpace(in.Currency); cur != "" {
		p.Currency = strings.ToUpper(cur)
	}
	if in.PaidAt != nil {
		p.PaidAt = in.PaidAt.UTC()
	}

	// a dívida é conferida de novo dentro da transação pela atualização condicionada
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.payments.Create(ctx, p); err != nil {
			return fmt.Errorf("erro ao criar pagamento: %w", err)
		}
		return s.clients.SettleDebt(ctx, p.ClientID, p.Amount)
	})
	s.metrics.LedgerTransaction("payment_create", err)
	if err != nil {
		if errors.Is(err, client.ErrInsufficientDebt) {
			latest, findErr := s.clients.FindByID(ctx, p.ClientID)
			if findErr == nil {
				return nil, exceedsDebt(p.Amount, latest.TotalDebt)
			}
			return nil, apperror.BadRequest(CodeAmountExceedsDebt, "Amount exceeds client debt")
		}
		s.logger.Error("Transação de criação de pagamento desfeita", "client_id", p.ClientID, "error", err)
		return nil, mapPaymentTxErr(err)
	}

	s.poster.PostPayment(ctx, p)

	created, err := s.payments.FindByID(ctx, p.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return created, nil
}

func (s *paymentService) Get(ctx context.Context, id string) (*payment.Payment, error) {
	if !validID(id) {
		return nil, notFound(CodePaymentNotFound, "Payment not found")
	}
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, mapPaymentErr(err)
	}
	return p, nil
}

func (s *paymentService) List(ctx context.Context, q PaymentQuery) (*PaymentPage, error) {
	req := q.PageRequest.Normalize()
	f := payment.ListFilter{
		ClientID: q.ClientID,
		From:     q.From,
		To:       q.To,
		Limit:    req.Limit,
		Offset:   req.Offset(),
	}
	if q.Method != "" {
		m, ok := payment.ParseMethod(q.Method)
		if !ok {
			return nil, apperror.BadRequest(CodeInvalidMethod, "Invalid payment method")
		}
		f.Method = m
	}
	if q.Status != "" {
		st, ok := payment.ParseStatus(q.Status)
		if !ok {
			return nil, apperror.BadRequest(CodeInvalidStatus, "Invalid payment status")
		}
		f.Status = st
	}

	items, total, summary, err := s.payments.List(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &PaymentPage{Items: newPage(items, req, total), Summary: summary}, nil
}

func (s *paymentService) ByClient(ctx context.Context, clientID string) ([]*payment.Payment, error) {
	if !validID(clientID) {
		return []*payment.Payment{}, nil
	}
	items, _, _, err := s.payments.List(ctx, payment.ListFilter{ClientID: clientID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (s *paymentService) ByDateRange(ctx context.Context, from, to *time.Time) ([]*payment.Payment, error) {
	items, _, _, err := s.payments.List(ctx, payment.ListFilter{From: from, To: to})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (s *paymentService) Update(ctx context.Context, id string, in UpdatePaymentInput) (*payment.Payment, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := p.Status
	wasCancelled := from == payment.StatusCancelled

	if in.Status != nil {
		st, ok := payment.ParseStatus(*in.Status)
		if !ok {
			return nil, apperror.BadRequest(CodeInvalidStatus, "Invalid payment status")
		}
		if wasCancelled && st != payment.StatusCancelled {
			return nil, apperror.BadRequest(CodePaymentCancelled, "A cancelled payment cannot be reopened")
		}
		p.Status = st
	}
	if in.Method != nil {
		m, ok := payment.ParseMethod(*in.Method)
		if !ok {
			return nil, apperror.BadRequest(CodeInvalidMethod, "Invalid payment method")
		}
		p.Method = m
	}
	if in.DeliveryID != nil {
		p.DeliveryID = *in.DeliveryID
	}
	if in.Currency != nil && strings.TrimSpace(*in.Currency) != "" {
		p.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.PaidAt != nil {
		p.PaidAt = in.PaidAt.UTC()
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}

	cancelling := !wasCancelled && p.Status == payment.StatusCancelled
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// a escrita guardada vem antes; a dívida só volta para quem a venceu
		if err := s.payments.Update(ctx, p, from); err != nil {
			return err
		}
		if cancelling {
			if err := s.clients.AddDebt(ctx, p.ClientID, p.Amount); err != nil {
				return fmt.Errorf("erro ao restaurar dívida do cliente: %w", err)
			}
		}
		return nil
	})
	if cancelling {
		s.metrics.LedgerTransaction("payment_cancel", err)
	}
	if err != nil {
		return nil, mapPaymentTxErr(err)
	}
	return s.Get(ctx, id)
}

func (s *paymentService) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// o status devolvido pela remoção decide, não o lido antes
		status, err := s.payments.Delete(ctx, p.ID)
		if err != nil {
			return err
		}
		if status != payment.StatusCancelled {
			if err := s.clients.AddDebt(ctx, p.ClientID, p.Amount); err != nil {
				return fmt.Errorf("erro ao restaurar dívida do cliente: %w", err)
			}
		}
		return nil
	})
	s.metrics.LedgerTransaction("payment_delete", err)
	if err != nil {
		return mapPaymentTxErr(err)
	}
	return nil
}

func exceedsDebt(amount, debt decimal.Decimal) *apperror.Error {
	return apperror.BadRequest(CodeAmountExceedsDebt,
		fmt.Sprintf("Amount (%s) exceeds client debt (%s)", amount.String(), debt.String()))
}

func mapPaymentErr(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, payment.ErrNotFound):
		return notFound(CodePaymentNotFound, "Payment not found")
	case errors.Is(err, payment.ErrStatusChanged):
		return apperror.Conflict(CodePaymentStatusChanged, "Payment status changed meanwhile; reload and retry")
	}
	return apperror.Internal(err)
}

func mapPaymentTxErr(err error) error {
	if errors.Is(err, client.ErrNotFound) {
		return notFound(CodeClientNotFound, "Client not found")
	}
	return mapPaymentErr(err)
}
