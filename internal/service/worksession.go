package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/worksession"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CodeActiveSessionExists = "ACTIVE_SESSION_ALREADY_EXISTS"
	CodeNoActiveSession     = "NO_ACTIVE_SESSION"
	CodeSessionNotActive    = "SESSION_NOT_ACTIVE"
	CodeInvalidDeliveryType = "INVALID_DELIVERY_TYPE"
	CodeEmptyLabel          = "EXPENSE_LABEL_REQUIRED"
)

// SessionView é a projeção de uma sessão devolvida pela API, com os logs
// resolvidos contra as entregas e pagamentos de origem
type SessionView struct {
	Session             *worksession.WorkSession
	TotalRevenue        decimal.Decimal
	CashPayments        []PaymentLine
	CreditPayments      []PaymentLine
	CreditSales         []PaymentLine
	Expenses            []ExpenseLine
	DeliveriesCompleted []DeliveryLine
	DurationMinutes     int
}

type PaymentLine struct {
	ID         string
	ClientID   string
	ClientName string
	Amount     decimal.Decimal
	Method     worksession.PaymentMethod
	Time       time.Time
}

type DeliveryLine struct {
	ID         string
	DeliveryID string
	ClientID   string
	ClientName string
	Total      decimal.Decimal
	Type       worksession.DeliveryType
	Time       time.Time
}

type ExpenseLine struct {
	ID     string
	Label  string
	Amount decimal.Decimal
	Time   time.Time
}

// HistoryQuery filtra o histórico por início da sessão
type HistoryQuery struct {
	PageRequest
	From *time.Time
	To   *time.Time
}

// DeliveryPost é o lançamento de uma entrega na sessão
type DeliveryPost struct {
	DeliveryID string
	Amount     decimal.Decimal
	Type       worksession.DeliveryType
}

// Ledger reúne as operações de lançamento numa sessão ACTIVE. Cada uma
// incrementa o total e acrescenta o lançamento numa única escrita
// condicionada; SESSION_NOT_ACTIVE se a sessão não existir ou já tiver sido
// encerrada.
type Ledger interface {
	AddCashPayment(ctx context.Context, sessionID string, amount decimal.Decimal, paymentRef string) error
	AddCreditPayment(ctx context.Context, sessionID string, amount decimal.Decimal, paymentRef string, method worksession.PaymentMethod) error
	AddExpense(ctx context.Context, sessionID string, amount decimal.Decimal, label string) error
	AddDelivery(ctx context.Context, sessionID string, post DeliveryPost) error
	// AddCreditSale só incrementa o total: vendas a crédito não têm log próprio
	AddCreditSale(ctx context.Context, sessionID string, amount decimal.Decimal) error
}

// WorkSessionService controla o ciclo de vida das sessões de trabalho
type WorkSessionService interface {
	Ledger

	Start(ctx context.Context, agentID string, startTime *time.Time) (*SessionView, error)
	End(ctx context.Context, agentID, sessionID string, endTime *time.Time) (*SessionView, error)
	// Active devolve nil sem erro quando o agente não tem sessão aberta
	Active(ctx context.Context, agentID string) (*SessionView, error)
	Recap(ctx context.Context, sessionID, agentID string) (*SessionView, error)
	History(ctx context.Context, agentID string, q HistoryQuery) (*Page[*SessionView], error)
	// RecordExpense lança a despesa na sessão ACTIVE do agente
	RecordExpense(ctx context.Context, agentID string, amount decimal.Decimal, label string) (*SessionView, error)
}

type workSessionService struct {
	repo   worksession.Repository
	refs   worksession.RefResolver
	logger logger.Logger
	now    func() time.Time
}

// NewWorkSessionService cria uma nova instância de WorkSessionService
func NewWorkSessionService(repo worksession.Repository, refs worksession.RefResolver, log logger.Logger) WorkSessionService {
	return &workSessionService{
		repo:   repo,
		refs:   refs,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *workSessionService) Start(ctx context.Context, agentID string, startTime *time.Time) (*SessionView, error) {
	if _, err := s.repo.FindActiveByAgent(ctx, agentID); err == nil {
		return nil, apperror.Conflict(CodeActiveSessionExists, "Active session already exists")
	} else if !errors.Is(err, worksession.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	start := s.now()
	if startTime != nil && !startTime.IsZero() {
		start = startTime.UTC()
	}

	ws := worksession.NewWorkSession(agentID, start)
	if err := s.repo.Create(ctx, ws); err != nil {
		if errors.Is(err, worksession.ErrActiveExists) {
			return nil, apperror.Conflict(CodeActiveSessionExists, "Active session already exists")
		}
		return nil, apperror.Internal(err)
	}

	s.logger.Info("Sessão de trabalho iniciada", "session_id", ws.ID, "agent_id", agentID)
	return s.project(ctx, ws)
}

func (s *workSessionService) End(ctx context.Context, agentID, sessionID string, endTime *time.Time) (*SessionView, error) {
	active, err := s.repo.FindActiveByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, worksession.ErrNotFound) {
			return nil, apperror.NotFound(CodeNoActiveSession, "No active session")
		}
		return nil, apperror.Internal(err)
	}
	if sessionID != "" && sessionID != active.ID {
		return nil, apperror.NotFound(CodeNoActiveSession, "No active session for this sessionId")
	}

	end := s.now()
	if endTime != nil && !endTime.IsZero() {
		end = endTime.UTC()
	}

	if err := s.repo.End(ctx, active.ID, end); err != nil {
		if errors.Is(err, worksession.ErrNotActive) {
			return nil, apperror.NotFound(CodeNoActiveSession, "No active session")
		}
		return nil, apperror.Internal(err)
	}

	ended, err := s.repo.FindByID(ctx, active.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("Sessão de trabalho encerrada",
		"session_id", ended.ID,
		"agent_id", agentID,
		"total_revenue", ended.Totals.Revenue.String(),
	)
	return s.project(ctx, ended)
}

func (s *workSessionService) Active(ctx context.Context, agentID string) (*SessionView, error) {
	ws, err := s.repo.FindActiveByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, worksession.ErrNotFound) {
			return nil, nil
		}
		return nil, apperror.Internal(err)
	}
	return s.project(ctx, ws)
}

func (s *workSessionService) Recap(ctx context.Context, sessionID, agentID string) (*SessionView, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "Session not found")
	}

	ws, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, worksession.ErrNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound, "Session not found")
		}
		return nil, apperror.Internal(err)
	}
	if ws.AgentID != agentID {
		return nil, apperror.Forbidden(apperror.CodeForbidden, "You do not have access to this session")
	}
	return s.project(ctx, ws)
}

func (s *workSessionService) History(ctx context.Context, agentID string, q HistoryQuery) (*Page[*SessionView], error) {
	req := q.PageRequest.Normalize()
	sessions, total, err := s.repo.History(ctx, worksession.HistoryFilter{
		AgentID: agentID,
		From:    q.From,
		To:      q.To,
		Limit:   req.Limit,
		Offset:  req.Offset(),
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	views := make([]*SessionView, 0, len(sessions))
	for _, ws := range sessions {
		v, err := s.project(ctx, ws)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return newPage(views, req, total), nil
}

func (s *workSessionService) RecordExpense(ctx context.Context, agentID string, amount decimal.Decimal, label string) (*SessionView, error) {
	active, err := s.repo.FindActiveByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, worksession.ErrNotFound) {
			return nil, apperror.BadRequest(CodeNoActiveSession, "No active session; start a session first")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.AddExpense(ctx, active.ID, amount, label); err != nil {
		return nil, err
	}

	ws, err := s.repo.FindByID(ctx, active.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return s.project(ctx, ws)
}

func (s *workSessionService) AddCashPayment(ctx context.Context, sessionID string, amount decimal.Decimal, paymentRef string) error {
	if err := validatePostAmount(amount); err != nil {
		return err
	}
	return s.post(ctx, sessionID, worksession.TotalCashCollected, amount, &worksession.Entry{
		Kind:          worksession.EntryPayment,
		RefID:         paymentRef,
		PaymentMethod: worksession.MethodCash,
	})
}

func (s *workSessionService) AddCreditPayment(ctx context.Context, sessionID string, amount decimal.Decimal, paymentRef string, method worksession.PaymentMethod) error {
	if err := validatePostAmount(amount); err != nil {
		return err
	}
	if method == "" {
		method = worksession.MethodTransfer
	}
	return s.post(ctx, sessionID, worksession.TotalCreditCollected, amount, &worksession.Entry{
		Kind:          worksession.EntryPayment,
		RefID:         paymentRef,
		PaymentMethod: method,
	})
}

func (s *workSessionService) AddExpense(ctx context.Context, sessionID string, amount decimal.Decimal, label string) error {
	if err := validatePostAmount(amount); err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return apperror.BadRequest(CodeEmptyLabel, "Expense label is required")
	}
	return s.post(ctx, sessionID, worksession.TotalExpenses, amount, &worksession.Entry{
		Kind:  worksession.EntryExpense,
		Label: label,
	})
}

func (s *workSessionService) AddDelivery(ctx context.Context, sessionID string, post DeliveryPost) error {
	var total worksession.Total
	switch post.Type {
	case worksession.DeliveryCash:
		total = worksession.TotalCashCollected
	case worksession.DeliveryCredit:
		total = worksession.TotalCreditSales
	default:
		return apperror.BadRequest(CodeInvalidDeliveryType, "Delivery type must be CASH or CREDIT")
	}
	if post.DeliveryID == "" {
		return apperror.BadRequest(apperror.CodeBadRequest, "Delivery reference is required")
	}
	if err := validatePostAmount(post.Amount); err != nil {
		return err
	}
	return s.post(ctx, sessionID, total, post.Amount, &worksession.Entry{
		Kind:         worksession.EntryDelivery,
		RefID:        post.DeliveryID,
		DeliveryType: post.Type,
	})
}

func (s *workSessionService) AddCreditSale(ctx context.Context, sessionID string, amount decimal.Decimal) error {
	if err := validatePostAmount(amount); err != nil {
		return err
	}
	return s.post(ctx, sessionID, worksession.TotalCreditSales, amount, nil)
}

func (s *workSessionService) post(ctx context.Context, sessionID string, total worksession.Total, amount decimal.Decimal, entry *worksession.Entry) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return apperror.BadRequest(CodeSessionNotActive, "Session not found or not active")
	}
	if entry != nil {
		entry.ID = uuid.NewString()
		entry.Amount = amount
		entry.CreatedAt = s.now()
	}

	err := s.repo.Post(ctx, sessionID, total, amount, entry)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, worksession.ErrNotActive):
		return apperror.BadRequest(CodeSessionNotActive, "Session not found or not active")
	default:
		return apperror.Internal(err)
	}
}

func validatePostAmount(amount decimal.Decimal) error {
	if err := worksession.ValidateAmount(amount); err != nil {
		return apperror.BadRequest(apperror.CodeInvalidAmount, "Amount must be a non-negative number")
	}
	return nil
}

// project monta a SessionView resolvendo clientes e totais das entregas e
// pagamentos referenciados
func (s *workSessionService) project(ctx context.Context, ws *worksession.WorkSession) (*SessionView, error) {
	paymentRefs, err := s.refs.PaymentRefs(ctx, refIDs(ws.Payments))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	deliveryRefs, err := s.refs.DeliveryRefs(ctx, refIDs(ws.Deliveries))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	v := &SessionView{
		Session:             ws,
		TotalRevenue:        ws.Revenue(),
		CashPayments:        []PaymentLine{},
		CreditPayments:      []PaymentLine{},
		CreditSales:         []PaymentLine{},
		Expenses:            make([]ExpenseLine, 0, len(ws.Expenses)),
		DeliveriesCompleted: make([]DeliveryLine, 0, len(ws.Deliveries)),
	}

	for _, e := range ws.Payments {
		ref := paymentRefs[e.RefID]
		line := PaymentLine{
			ID:         firstNonEmpty(e.RefID, e.ID),
			ClientID:   ref.ClientID,
			ClientName: ref.ClientName,
			Amount:     e.Amount,
			Method:     e.PaymentMethod,
			Time:       e.CreatedAt,
		}
		if e.PaymentMethod == worksession.MethodCash {
			v.CashPayments = append(v.CashPayments, line)
		} else {
			v.CreditPayments = append(v.CreditPayments, line)
		}
	}

	for _, e := range ws.Deliveries {
		line := DeliveryLine{
			ID:         firstNonEmpty(e.RefID, e.ID),
			DeliveryID: e.RefID,
			Total:      e.Amount,
			Type:       e.DeliveryType,
			Time:       e.CreatedAt,
		}
		if ref, ok := deliveryRefs[e.RefID]; ok {
			line.ClientID = ref.ClientID
			line.ClientName = ref.ClientName
			line.Total = ref.Total
		}
		v.DeliveriesCompleted = append(v.DeliveriesCompleted, line)
	}

	for _, e := range ws.Expenses {
		v.Expenses = append(v.Expenses, ExpenseLine{ID: e.ID, Label: e.Label, Amount: e.Amount, Time: e.CreatedAt})
	}

	end := s.now()
	if ws.EndTime != nil {
		end = *ws.EndTime
	}
	if d := end.Sub(ws.StartTime); d > 0 {
		v.DurationMinutes = int(d / time.Minute)
	}
	return v, nil
}

func refIDs(entries []worksession.Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.RefID != "" {
			ids = append(ids, e.RefID)
		}
	}
	return ids
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
