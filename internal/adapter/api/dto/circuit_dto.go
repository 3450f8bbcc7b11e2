package dto

import (
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/circuit"
)

// CircuitRequest serve para criação e atualização de circuitos
type CircuitRequest struct {
	Name              *string        `json:"name"`
	Code              *string        `json:"code"`
	Zone              *string        `json:"zone"`
	Region            *string        `json:"region"`
	ClientIDs         []string       `json:"clients"`
	Stops             []circuit.Stop `json:"stops"`
	EstimatedDuration *int           `json:"estimatedDuration" binding:"omitempty,gte=0"`
	AssignedTo        *string        `json:"assignedTo"`
	Description       *string        `json:"description"`
	IsActive          *bool          `json:"isActive"`
}

type CircuitListQuery struct {
	PaginationQuery
	Zone     string `form:"zone"`
	IsActive string `form:"isActive"`
}

// CircuitResponse representa um circuito na API
type CircuitResponse struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Code              string         `json:"code,omitempty"`
	Zone              string         `json:"zone,omitempty"`
	Region            string         `json:"region,omitempty"`
	ClientIDs         []string       `json:"clients"`
	Stops             []circuit.Stop `json:"stops"`
	EstimatedDuration int            `json:"estimatedDuration"`
	AssignedTo        string         `json:"assignedTo,omitempty"`
	Description       string         `json:"description,omitempty"`
	IsActive          bool           `json:"isActive"`
	CreatedBy         string         `json:"createdBy,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func ToCircuitResponse(c *circuit.Circuit) CircuitResponse {
	clients := c.ClientIDs
	if clients == nil {
		clients = []string{}
	}
	stops := c.Stops
	if stops == nil {
		stops = []circuit.Stop{}
	}
	return CircuitResponse{
		ID:                c.ID,
		Name:              c.Name,
		Code:              c.Code,
		Zone:              c.Zone,
		Region:            c.Region,
		ClientIDs:         clients,
		Stops:             stops,
		EstimatedDuration: c.EstimatedDuration,
		AssignedTo:        c.AssignedTo,
		Description:       c.Description,
		IsActive:          c.IsActive,
		CreatedBy:         c.CreatedBy,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func ToCircuitResponses(items []*circuit.Circuit) []CircuitResponse {
	out := make([]CircuitResponse, 0, len(items))
	for _, c := range items {
		out = append(out, ToCircuitResponse(c))
	}
	return out
}
