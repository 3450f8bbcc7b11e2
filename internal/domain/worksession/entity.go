// Package worksession modela a sessão de trabalho diária de um agente: os
// totais acumulados e os lançamentos que os compõem.
package worksession

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("work session not found")
	ErrNotActive     = errors.New("work session is not active")
	ErrActiveExists  = errors.New("agent already has an active work session")
	ErrUnknownTotal  = errors.New("unknown work session total")
	ErrNegativeValue = errors.New("amount must be a non-negative number")
)

// Status representa o estado da sessão
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusEnded  Status = "ENDED"
)

// DeliveryType define qual total uma entrega credita
type DeliveryType string

const (
	DeliveryCash   DeliveryType = "CASH"
	DeliveryCredit DeliveryType = "CREDIT"
)

// PaymentMethod é a forma registrada no lançamento de pagamento
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodCheque   PaymentMethod = "CHEQUE"
)

// Total identifica um dos totais acumulados
type Total string

const (
	TotalCashCollected   Total = "total_cash_collected"
	TotalCreditCollected Total = "total_credit_collected"
	TotalCreditSales     Total = "total_credit_sales"
	TotalExpenses        Total = "total_expenses"
)

// Valid restringe os totais que podem receber lançamentos
func (t Total) Valid() bool {
	switch t {
	case TotalCashCollected, TotalCreditCollected, TotalCreditSales, TotalExpenses:
		return true
	}
	return false
}

// Totals guarda os cinco totais da sessão
type Totals struct {
	CashCollected   decimal.Decimal
	CreditCollected decimal.Decimal
	CreditSales     decimal.Decimal
	Expenses        decimal.Decimal
	Revenue         decimal.Decimal
}

// Get devolve o valor de um total
func (t *Totals) Get(total Total) decimal.Decimal {
	switch total {
	case TotalCashCollected:
		return t.CashCollected
	case TotalCreditCollected:
		return t.CreditCollected
	case TotalCreditSales:
		return t.CreditSales
	case TotalExpenses:
		return t.Expenses
	}
	return decimal.Zero
}

// Add incrementa um total
func (t *Totals) Add(total Total, amount decimal.Decimal) {
	switch total {
	case TotalCashCollected:
		t.CashCollected = t.CashCollected.Add(amount)
	case TotalCreditCollected:
		t.CreditCollected = t.CreditCollected.Add(amount)
	case TotalCreditSales:
		t.CreditSales = t.CreditSales.Add(amount)
	case TotalExpenses:
		t.Expenses = t.Expenses.Add(amount)
	}
}

// DerivedRevenue é dinheiro + crédito recebido + vendas a crédito
func (t *Totals) DerivedRevenue() decimal.Decimal {
	return t.CashCollected.Add(t.CreditCollected).Add(t.CreditSales)
}

// EntryKind identifica o log ao qual o lançamento pertence
type EntryKind string

const (
	EntryDelivery EntryKind = "DELIVERY"
	EntryPayment  EntryKind = "PAYMENT"
	EntryExpense  EntryKind = "EXPENSE"
)

// Entry é um lançamento imutável no log da sessão. RefID aponta para a
// entrega ou pagamento de origem; despesas não têm referência.
type Entry struct {
	ID            string
	Kind          EntryKind
	RefID         string
	Amount        decimal.Decimal
	DeliveryType  DeliveryType
	PaymentMethod PaymentMethod
	Label         string
	CreatedAt     time.Time
}

// Metadata guarda informações do dispositivo que abriu a sessão
type Metadata struct {
	Device  string
	Version string
}

// WorkSession é a sessão de trabalho de um agente
type WorkSession struct {
	ID         string
	AgentID    string
	Status     Status
	StartTime  time.Time
	EndTime    *time.Time
	Totals     Totals
	Deliveries []Entry
	Payments   []Entry
	Expenses   []Entry
	Metadata   Metadata
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewWorkSession cria uma sessão ACTIVE com totais zerados
func NewWorkSession(agentID string, startTime time.Time) *WorkSession {
	now := time.Now().UTC()
	if startTime.IsZero() {
		startTime = now
	}
	return &WorkSession{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		Status:    StatusActive,
		StartTime: startTime,
		Totals: Totals{
			CashCollected:   decimal.Zero,
			CreditCollected: decimal.Zero,
			CreditSales:     decimal.Zero,
			Expenses:        decimal.Zero,
			Revenue:         decimal.Zero,
		},
		Deliveries: []Entry{},
		Payments:   []Entry{},
		Expenses:   []Entry{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *WorkSession) IsActive() bool {
	return s.Status == StatusActive
}

// Revenue devolve o faturamento: congelado após o encerramento, derivado
// enquanto a sessão está aberta
func (s *WorkSession) Revenue() decimal.Decimal {
	if s.IsActive() || s.Totals.Revenue.IsZero() {
		return s.Totals.DerivedRevenue()
	}
	return s.Totals.Revenue
}

// AppendEntry adiciona o lançamento ao log correspondente
func (s *WorkSession) AppendEntry(e Entry) {
	switch e.Kind {
	case EntryDelivery:
		s.Deliveries = append(s.Deliveries, e)
	case EntryPayment:
		s.Payments = append(s.Payments, e)
	case EntryExpense:
		s.Expenses = append(s.Expenses, e)
	}
}

// ValidateAmount rejeita valores negativos
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}
