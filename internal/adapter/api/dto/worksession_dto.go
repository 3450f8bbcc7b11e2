package dto

import (
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/shopspring/decimal"
)

// StartSessionRequest é o corpo de POST /work-sessions/start
type StartSessionRequest struct {
	StartTime *time.Time `json:"startTime"`
}

// EndSessionRequest é o corpo de POST /work-sessions/end
type EndSessionRequest struct {
	SessionID string     `json:"sessionId"`
	EndTime   *time.Time `json:"endTime"`
}

// ExpenseRequest é o corpo de POST /work-sessions/expenses. Amount fica
// sem tipo para distinguir ausente (422) de não numérico (400).
type ExpenseRequest struct {
	Amount any    `json:"amount"`
	Label  string `json:"label" binding:"required"`
}

// ParsedAmount valida e converte o valor da despesa
func (r ExpenseRequest) ParsedAmount() (decimal.Decimal, error) {
	if r.Amount == nil {
		return decimal.Zero, apperror.Validation("Validation failed",
			apperror.FieldError{Field: "amount", Message: "is required"})
	}
	return ParseAmount(r.Amount)
}

// HistoryQuery são os filtros de GET /work-sessions/history
type HistoryQuery struct {
	PaginationQuery
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
}

// SessionResponse é a projeção completa de uma sessão
type SessionResponse struct {
	ID                   string                `json:"id"`
	AgentID              string                `json:"agentId"`
	Status               string                `json:"status"`
	StartTime            time.Time             `json:"startTime"`
	EndTime              *time.Time            `json:"endTime"`
	TotalCash            decimal.Decimal       `json:"totalCash"`
	TotalCreditCollected decimal.Decimal       `json:"totalCreditCollected"`
	TotalCreditSales     decimal.Decimal       `json:"totalCreditSales"`
	TotalExpenses        decimal.Decimal       `json:"totalExpenses"`
	TotalRevenue         decimal.Decimal       `json:"totalRevenue"`
	CashPayments         []SessionPaymentLine  `json:"cashPayments"`
	CreditPayments       []SessionPaymentLine  `json:"creditPayments"`
	CreditSales          []SessionPaymentLine  `json:"creditSales"`
	Expenses             []SessionExpenseLine  `json:"expenses"`
	DeliveriesCompleted  []SessionDeliveryLine `json:"deliveriesCompleted"`
	DurationMinutes      int                   `json:"durationMinutes"`
}

type SessionPaymentLine struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"clientId,omitempty"`
	ClientName string          `json:"clientName,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method,omitempty"`
	Time       time.Time       `json:"time"`
}

type SessionDeliveryLine struct {
	ID         string          `json:"id"`
	DeliveryID string          `json:"deliveryId"`
	ClientID   string          `json:"clientId,omitempty"`
	ClientName string          `json:"clientName,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Type       string          `json:"type"`
	Time       time.Time       `json:"time"`
}

type SessionExpenseLine struct {
	ID     string          `json:"id"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Time   time.Time       `json:"time"`
}

// SessionEnvelope é o formato {session} usado por start, active, recap e expenses
type SessionEnvelope struct {
	Session *SessionResponse `json:"session"`
}

// EndSessionResponse é o formato de POST /work-sessions/end
type EndSessionResponse struct {
	EndTime *time.Time       `json:"endTime"`
	Session *SessionResponse `json:"session"`
}
