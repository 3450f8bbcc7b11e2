package delivery

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("delivery not found")
	// ErrStatusChanged indica que o estado mudou desde a leitura
	ErrStatusChanged = errors.New("delivery status changed concurrently")
	ErrImmutable     = errors.New("delivery already delivered")
)

// Status representa o estado da entrega
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// aliases usados pelo aplicativo móvel
var statusAliases = map[string]Status{
	"in_transit": StatusInProgress,
	"completed":  StatusDelivered,
}

// ParseStatus aceita o nome interno ou o alias do aplicativo
func ParseStatus(raw string) (Status, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if s, ok := statusAliases[raw]; ok {
		return s, true
	}
	switch s := Status(raw); s {
	case StatusPending, StatusInProgress, StatusDelivered, StatusCancelled:
		return s, true
	}
	return "", false
}

// IsTerminal indica entregas concluídas ou canceladas
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo valida a máquina de estados
//
//	pending     -> in_progress | delivered | cancelled
//	in_progress -> delivered | cancelled
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress || next == StatusDelivered || next == StatusCancelled
	case StatusInProgress:
		return next == StatusDelivered || next == StatusCancelled
	}
	return false
}

// PaymentType define como a entrega entra na sessão do agente
type PaymentType string

const (
	PaymentCash   PaymentType = "CASH"
	PaymentCredit PaymentType = "CREDIT"
)

// Line é uma linha de produto da entrega
type Line struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Subtotal retorna quantidade x preço unitário
func (l Line) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Delivery representa uma entrega para um cliente
type Delivery struct {
	ID           string
	ClientID     string
	ClientName   string
	CircuitID    string
	Lines        []Line
	TotalAmount  decimal.Decimal
	Status       Status
	PaymentType  PaymentType
	AssignedTo   string
	PlannedDate  time.Time
	DeliveryDate *time.Time
	CompletedAt  *time.Time
	ProofPhoto   string
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewDelivery cria uma entrega pendente com o total congelado
func NewDelivery(clientID, createdBy string, lines []Line, plannedDate time.Time) *Delivery {
	now := time.Now().UTC()
	if plannedDate.IsZero() {
		plannedDate = now
	}
	return &Delivery{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Lines:       lines,
		TotalAmount: Total(lines),
		Status:      StatusPending,
		PaymentType: PaymentCash,
		PlannedDate: plannedDate,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Total soma os subtotais das linhas
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Agent retorna o agente cuja sessão recebe o lançamento da entrega: o
// criador, ou o responsável quando o criador não é conhecido
func (d *Delivery) Agent() string {
	if d.CreatedBy != "" {
		return d.CreatedBy
	}
	return d.AssignedTo
}
