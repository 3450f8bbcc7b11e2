package dto

import (
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest representa os dados para registrar um pagamento
type CreatePaymentRequest struct {
	ClientID   string          `json:"client" binding:"required"`
	DeliveryID string          `json:"delivery"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Method     string          `json:"method"`
	Status     string          `json:"status"`
	PaidAt     *time.Time      `json:"paidAt"`
	ReceivedBy string          `json:"receivedBy"`
	Notes      string          `json:"notes"`
}

// UpdatePaymentRequest não altera cliente nem valor
type UpdatePaymentRequest struct {
	DeliveryID *string    `json:"delivery"`
	Currency   *string    `json:"currency"`
	Method     *string    `json:"method"`
	Status     *string    `json:"status"`
	PaidAt     *time.Time `json:"paidAt"`
	Notes      *string    `json:"notes"`
}

// PaymentListQuery são os filtros de GET /payments
type PaymentListQuery struct {
	PaginationQuery
	ClientID string `form:"client"`
	Method   string `form:"method"`
	Status   string `form:"status"`
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
}

// PaymentResponse representa um pagamento na API
type PaymentResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client"`
	ClientName string          `json:"clientName,omitempty"`
	DeliveryID string          `json:"delivery,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Method     string          `json:"method"`
	Status     string          `json:"status"`
	PaidAt     time.Time       `json:"paidAt"`
	ReceivedBy string          `json:"receivedBy,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedBy  string          `json:"createdBy,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type PaymentSummaryResponse struct {
	TotalCollected decimal.Decimal `json:"totalCollected"`
	Pending        decimal.Decimal `json:"pending"`
}

// PaymentPageResponse é a lista paginada com o resumo
type PaymentPageResponse struct {
	PageResponse[PaymentResponse]
	Summary PaymentSummaryResponse `json:"summary"`
}

func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		ClientID:   p.ClientID,
		ClientName: p.ClientName,
		DeliveryID: p.DeliveryID,
		Amount:     p.Amount,
		Currency:   p.Currency,
		Method:     string(p.Method),
		Status:     string(p.Status),
		PaidAt:     p.PaidAt,
		ReceivedBy: p.ReceivedBy,
		Notes:      p.Notes,
		CreatedBy:  p.CreatedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func ToPaymentResponses(items []*payment.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToPaymentResponse(p))
	}
	return out
}

func ToPaymentSummary(s payment.Summary) PaymentSummaryResponse {
	return PaymentSummaryResponse{TotalCollected: s.TotalCollected, Pending: s.Pending}
}
