package dto

import (
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/planning"
)

// PlanningRequest serve para criação e atualização de planejamentos
type PlanningRequest struct {
	CircuitID    *string         `json:"circuit"`
	Title        *string         `json:"title"`
	Date         *time.Time      `json:"date"`
	Time         *string         `json:"time"`
	Status       *string         `json:"status"`
	Stops        []planning.Stop `json:"stops"`
	CommercialID *string         `json:"commercial"`
	ClientIDs    []string        `json:"clients"`
	Notes        *string         `json:"notes"`
}

type PlanningListQuery struct {
	PaginationQuery
	CommercialID string `form:"commercial"`
	FromDate     string `form:"fromDate"`
	ToDate       string `form:"toDate"`
}

// PlanningResponse representa um planejamento na API
type PlanningResponse struct {
	ID           string          `json:"id"`
	CircuitID    string          `json:"circuit,omitempty"`
	Title        string          `json:"title,omitempty"`
	Date         time.Time       `json:"date"`
	Time         string          `json:"time,omitempty"`
	Status       string          `json:"status"`
	Stops        []planning.Stop `json:"stops"`
	CommercialID string          `json:"commercial,omitempty"`
	ClientIDs    []string        `json:"clients"`
	Notes        string          `json:"notes,omitempty"`
	CreatedBy    string          `json:"createdBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func ToPlanningResponse(p *planning.Planning) PlanningResponse {
	stops := p.Stops
	if stops == nil {
		stops = []planning.Stop{}
	}
	clients := p.ClientIDs
	if clients == nil {
		clients = []string{}
	}
	return PlanningResponse{
		ID:           p.ID,
		CircuitID:    p.CircuitID,
		Title:        p.Title,
		Date:         p.Date,
		Time:         p.Time,
		Status:       string(p.Status),
		Stops:        stops,
		CommercialID: p.CommercialID,
		ClientIDs:    clients,
		Notes:        p.Notes,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToPlanningResponses(items []*planning.Planning) []PlanningResponse {
	out := make([]PlanningResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToPlanningResponse(p))
	}
	return out
}
