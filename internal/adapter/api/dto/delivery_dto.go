package dto

import (
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/delivery"
	"github.com/shopspring/decimal"
)

// DeliveryLineRequest é uma linha de produto pedida
type DeliveryLineRequest struct {
	ProductID string           `json:"product" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// CreateDeliveryRequest representa os dados para criar uma entrega
type CreateDeliveryRequest struct {
	ClientID    string                `json:"client" binding:"required"`
	CircuitID   string                `json:"circuit"`
	Products    []DeliveryLineRequest `json:"products" binding:"dive"`
	PaymentType string                `json:"paymentType"`
	AssignedTo  string                `json:"assignedTo"`
	PlannedDate *time.Time            `json:"plannedDate"`
	ProofPhoto  string                `json:"proofPhoto"`
	Notes       string                `json:"notes"`
}

// UpdateDeliveryRequest altera só os metadados da entrega
type UpdateDeliveryRequest struct {
	CircuitID   *string    `json:"circuit"`
	AssignedTo  *string    `json:"assignedTo"`
	PlannedDate *time.Time `json:"plannedDate"`
	ProofPhoto  *string    `json:"proofPhoto"`
	Notes       *string    `json:"notes"`
}

// DeliveryStatusRequest é o corpo de PATCH /deliveries/:id/status
type DeliveryStatusRequest struct {
	Status       string     `json:"status" binding:"required"`
	CompletedAt  *time.Time `json:"completedAt"`
	DeliveryDate *time.Time `json:"deliveryDate"`
	ProofPhoto   string     `json:"proofPhoto"`
}

// DeliveryListQuery são os filtros de GET /deliveries
type DeliveryListQuery struct {
	PaginationQuery
	ClientID  string `form:"client"`
	CircuitID string `form:"circuit"`
	Status    string `form:"status"`
	Date      string `form:"date"`
	FromDate  string `form:"fromDate"`
	ToDate    string `form:"toDate"`
}

type DeliveryLineResponse struct {
	ProductID   string          `json:"product"`
	ProductName string          `json:"productName,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// DeliveryResponse representa uma entrega na API
type DeliveryResponse struct {
	ID           string                 `json:"id"`
	ClientID     string                 `json:"client"`
	ClientName   string                 `json:"clientName,omitempty"`
	CircuitID    string                 `json:"circuit,omitempty"`
	Products     []DeliveryLineResponse `json:"products"`
	TotalAmount  decimal.Decimal        `json:"totalAmount"`
	Status       string                 `json:"status"`
	PaymentType  string                 `json:"paymentType"`
	AssignedTo   string                 `json:"assignedTo,omitempty"`
	PlannedDate  time.Time              `json:"plannedDate"`
	DeliveryDate *time.Time             `json:"deliveryDate,omitempty"`
	CompletedAt  *time.Time             `json:"completedAt,omitempty"`
	ProofPhoto   string                 `json:"proofPhoto,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	CreatedBy    string                 `json:"createdBy,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// ToDeliveryResponse converte uma entrega do domínio para DTO de resposta
func ToDeliveryResponse(d *delivery.Delivery) DeliveryResponse {
	lines := make([]DeliveryLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, DeliveryLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return DeliveryResponse{
		ID:           d.ID,
		ClientID:     d.ClientID,
		ClientName:   d.ClientName,
		CircuitID:    d.CircuitID,
		Products:     lines,
		TotalAmount:  d.TotalAmount,
		Status:       string(d.Status),
		PaymentType:  string(d.PaymentType),
		AssignedTo:   d.AssignedTo,
		PlannedDate:  d.PlannedDate,
		DeliveryDate: d.DeliveryDate,
		CompletedAt:  d.CompletedAt,
		ProofPhoto:   d.ProofPhoto,
		Notes:        d.Notes,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func ToDeliveryResponses(items []*delivery.Delivery) []DeliveryResponse {
	out := make([]DeliveryResponse, 0, len(items))
	for _, d := range items {
		out = append(out, ToDeliveryResponse(d))
	}
	return out
}
