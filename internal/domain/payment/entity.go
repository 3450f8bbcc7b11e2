package payment

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("payment not found")
	// ErrStatusChanged indica que o status mudou desde a leitura
	ErrStatusChanged = errors.New("payment status changed concurrently")
)

// DefaultCurrency é o dinar tunisiano
const DefaultCurrency = "TND"

// Method é a forma de pagamento
type Method string

const (
	MethodCash     Method = "cash"
	MethodCheck    Method = "check"
	MethodTransfer Method = "transfer"
	MethodCard     Method = "card"
	MethodOther    Method = "other"
)

// ParseMethod valida a forma de pagamento; vazio vira dinheiro
func ParseMethod(raw string) (Method, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return MethodCash, true
	}
	switch m := Method(raw); m {
	case MethodCash, MethodCheck, MethodTransfer, MethodCard, MethodOther:
		return m, true
	}
	return "", false
}

// Status representa o estado do pagamento
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus valida o estado; vazio vira concluído
func ParseStatus(raw string) (Status, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return StatusCompleted, true
	}
	switch s := Status(raw); s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return s, true
	}
	return "", false
}

// Payment representa um recebimento de um cliente
type Payment struct {
	ID         string
	ClientID   string
	ClientName string
	DeliveryID string
	Amount     decimal.Decimal
	Currency   string
	Method     Method
	Status     Status
	PaidAt     time.Time
	ReceivedBy string
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPayment cria um pagamento concluído em dinheiro, em TND
func NewPayment(clientID string, amount decimal.Decimal, createdBy string) *Payment {
	now := time.Now().UTC()
	return &Payment{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Amount:    amount,
		Currency:  DefaultCurrency,
		Method:    MethodCash,
		Status:    StatusCompleted,
		PaidAt:    now,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Agent retorna o agente cuja sessão recebe o lançamento do pagamento
func (p *Payment) Agent() string {
	if p.ReceivedBy != "" {
		return p.ReceivedBy
	}
	return p.CreatedBy
}
