package dto

import (
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/shopspring/decimal"
)

// AddressDTO representa o endereço de um cliente
type AddressDTO struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	Governorate string `json:"governorate"`
	PostalCode  string `json:"postalCode"`
}

// ClientRequest serve para criação e atualização; campos ausentes não são
// alterados. totalDebt não é aceito pela API.
type ClientRequest struct {
	Name             *string     `json:"name"`
	ShopName         *string     `json:"shopName"`
	Code             *string     `json:"code"`
	Email            *string     `json:"email" binding:"omitempty,email"`
	Phone            *string     `json:"phone"`
	Address          *AddressDTO `json:"address"`
	Latitude         *float64    `json:"latitude"`
	Longitude        *float64    `json:"longitude"`
	Type             *string     `json:"type"`
	Segment          *string     `json:"segment"`
	CircuitID        *string     `json:"circuit"`
	LastVisit        *time.Time  `json:"lastVisit"`
	IsActive         *bool       `json:"isActive"`
	Archived         *bool       `json:"archived"`
	MatriculeFiscale *string     `json:"matriculeFiscale"`
	OwnerName        *string     `json:"ownerName"`
	OwnerPicture     *string     `json:"ownerPicture"`
	ShopPicture      *string     `json:"shopPicture"`
	Notes            *string     `json:"notes"`
}

// ClientListQuery são os filtros de GET /clients
type ClientListQuery struct {
	PaginationQuery
	Segment   string `form:"segment"`
	Type      string `form:"type"`
	CircuitID string `form:"circuit"`
	Archived  string `form:"archived"`
	IsActive  string `form:"isActive"`
	Search    string `form:"search"`
	Sort      string `form:"sort"`
}

// NearQuery são os parâmetros de GET /clients/near
type NearQuery struct {
	Latitude      string  `form:"lat" binding:"required"`
	Longitude     string  `form:"lng" binding:"required"`
	MaxDistanceKm float64 `form:"maxDistance"`
	Limit         int     `form:"limit"`
}

// ClientResponse representa um cliente na API
type ClientResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShopName         string          `json:"shopName,omitempty"`
	Code             string          `json:"code,omitempty"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Address          AddressDTO      `json:"address"`
	Latitude         *float64        `json:"latitude,omitempty"`
	Longitude        *float64        `json:"longitude,omitempty"`
	Type             string          `json:"type,omitempty"`
	Segment          string          `json:"segment,omitempty"`
	CircuitID        string          `json:"circuit,omitempty"`
	TotalDebt        decimal.Decimal `json:"totalDebt"`
	TotalOrders      int             `json:"totalOrders"`
	LastVisit        *time.Time      `json:"lastVisit,omitempty"`
	IsActive         bool            `json:"isActive"`
	Archived         bool            `json:"archived"`
	MatriculeFiscale string          `json:"matriculeFiscale,omitempty"`
	OwnerName        string          `json:"ownerName,omitempty"`
	OwnerPicture     string          `json:"ownerPicture,omitempty"`
	ShopPicture      string          `json:"shopPicture,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedBy        string          `json:"createdBy,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ToClientResponse converte um cliente do domínio para DTO de resposta
func ToClientResponse(c *client.Client) ClientResponse {
	resp := ClientResponse{
		ID:       c.ID,
		Name:     c.Name,
		ShopName: c.ShopName,
		Code:     c.Code,
		Email:    c.Email,
		Phone:    c.Phone,
		Address: AddressDTO{
			Street:      c.Address.Street,
			City:        c.Address.City,
			Governorate: c.Address.Governorate,
			PostalCode:  c.Address.PostalCode,
		},
		Type:             string(c.Type),
		Segment:          string(c.Segment),
		CircuitID:        c.CircuitID,
		TotalDebt:        c.TotalDebt,
		TotalOrders:      c.TotalOrders,
		LastVisit:        c.LastVisit,
		IsActive:         c.IsActive,
		Archived:         c.Archived,
		MatriculeFiscale: c.MatriculeFiscale,
		OwnerName:        c.OwnerName,
		OwnerPicture:     c.OwnerPicture,
		ShopPicture:      c.ShopPicture,
		Notes:            c.Notes,
		CreatedBy:        c.CreatedBy,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.Location != nil {
		lat, lng := c.Location.Latitude, c.Location.Longitude
		resp.Latitude = &lat
		resp.Longitude = &lng
	}
	return resp
}

func ToClientResponses(items []*client.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(items))
	for _, c := range items {
		out = append(out, ToClientResponse(c))
	}
	return out
}

// ToAddress converte o endereço recebido; nil mantém o atual
func (a *AddressDTO) ToAddress() *client.Address {
	if a == nil {
		return nil
	}
	return &client.Address{
		Street:      a.Street,
		City:        a.City,
		Governorate: a.Governorate,
		PostalCode:  a.PostalCode,
	}
}
