package service

import (
	"context"
	"errors"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/delivery"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/worksession"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/abdesslemchebili/rebornBackend/pkg/metrics"
)

const (
	postKindDelivery = "delivery"
	postKindPayment  = "payment"
)

// SessionPoster lança entregas e pagamentos já confirmados na sessão ACTIVE
// do agente. Nenhuma falha é devolvida ao chamador: a transação principal já
// foi confirmada e não é desfeita.
type SessionPoster interface {
	PostDelivery(ctx context.Context, d *delivery.Delivery)
	PostPayment(ctx context.Context, p *payment.Payment)
}

type sessionPoster struct {
	sessions worksession.Repository
	ledger   Ledger
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewSessionPoster cria uma nova instância de SessionPoster
func NewSessionPoster(sessions worksession.Repository, ledger Ledger, log logger.Logger, m *metrics.Metrics) SessionPoster {
	return &sessionPoster{sessions: sessions, ledger: ledger, logger: log, metrics: m}
}

func (p *sessionPoster) PostDelivery(ctx context.Context, d *delivery.Delivery) {
	deliveryType := worksession.DeliveryCash
	if d.PaymentType == delivery.PaymentCredit {
		deliveryType = worksession.DeliveryCredit
	}

	p.postFor(ctx, postKindDelivery, d.Agent(), d.ID, func(sessionID string) error {
		return p.ledger.AddDelivery(ctx, sessionID, DeliveryPost{
			DeliveryID: d.ID,
			Amount:     d.TotalAmount,
			Type:       deliveryType,
		})
	})
}

func (p *sessionPoster) PostPayment(ctx context.Context, pay *payment.Payment) {
	p.postFor(ctx, postKindPayment, pay.Agent(), pay.ID, func(sessionID string) error {
		method, cash := SessionPaymentMethod(pay.Method)
		if cash {
			return p.ledger.AddCashPayment(ctx, sessionID, pay.Amount, pay.ID)
		}
		return p.ledger.AddCreditPayment(ctx, sessionID, pay.Amount, pay.ID, method)
	})
}

func (p *sessionPoster) postFor(ctx context.Context, kind, agentID, refID string, post func(sessionID string) error) {
	if agentID == "" {
		p.metrics.SessionPost(kind, metrics.ResultDropped)
		return
	}

	active, err := p.sessions.FindActiveByAgent(ctx, agentID)
	if err != nil {
		if !errors.Is(err, worksession.ErrNotFound) {
			p.logger.Warn("Falha ao buscar sessão ativa para lançamento",
				"kind", kind, "agent_id", agentID, "ref_id", refID, "error", err)
		}
		p.metrics.SessionPost(kind, metrics.ResultDropped)
		return
	}

	if err := post(active.ID); err != nil {
		p.logger.Warn("Lançamento na sessão descartado",
			"kind", kind, "session_id", active.ID, "agent_id", agentID, "ref_id", refID, "error", err)
		p.metrics.SessionPost(kind, metrics.ResultDropped)
		return
	}
	p.metrics.SessionPost(kind, metrics.ResultPosted)
}

// SessionPaymentMethod traduz o método do pagamento para o método do
// lançamento; cash indica que o valor vai para o total em dinheiro
func SessionPaymentMethod(m payment.Method) (method worksession.PaymentMethod, cash bool) {
	switch m {
	case payment.MethodCash, "":
		return worksession.MethodCash, true
	case payment.MethodCheck:
		return worksession.MethodCheque, false
	default:
		return worksession.MethodTransfer, false
	}
}
