package client

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("client not found")
	ErrDuplicateCode    = errors.New("client with same code already exists")
	ErrEmptyName        = errors.New("client name is required")
	ErrInsufficientDebt = errors.New("amount exceeds client debt")
)

// Type define o ramo de atividade do cliente
type Type string

const (
	TypeMechanic Type = "mechanic"
	TypeCarWash  Type = "car_wash"
	TypeHardware Type = "hardware"
)

// Segment define a classificação comercial do cliente
type Segment string

const (
	SegmentPremium   Segment = "PREMIUM"
	SegmentStandard  Segment = "STANDARD"
	SegmentWholesale Segment = "WHOLESALE"
	SegmentRetail    Segment = "RETAIL"
)

// Address representa o endereço do cliente
type Address struct {
	Street      string
	City        string
	Governorate string
	PostalCode  string
}

// Location guarda as coordenadas geográficas da loja
type Location struct {
	Latitude  float64
	Longitude float64
}

// Client representa um cliente (oficina, lava-jato, loja de ferragens)
type Client struct {
	ID               string
	Name             string
	ShopName         string
	Code             string
	Email            string
	Phone            string
	Address          Address
	Location         *Location
	Type             Type
	Segment          Segment
	CircuitID        string
	TotalDebt        decimal.Decimal
	TotalOrders      int
	LastVisit        *time.Time
	IsActive         bool
	Archived         bool
	MatriculeFiscale string
	OwnerName        string
	OwnerPicture     string
	ShopPicture      string
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewClient cria um cliente ativo com dívida zerada
func NewClient(name, createdBy string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	now := time.Now().UTC()
	return &Client{
		ID:        uuid.NewString(),
		Name:      name,
		Segment:   SegmentStandard,
		TotalDebt: decimal.Zero,
		IsActive:  true,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Scope restringe o acesso de agentes não administradores aos próprios clientes
type Scope struct {
	CreatedBy string
}

// Unrestricted indica um escopo sem filtro de dono
func (s Scope) Unrestricted() bool {
	return s.CreatedBy == ""
}

// Allows verifica se o cliente é visível no escopo
func (s Scope) Allows(c *Client) bool {
	return s.Unrestricted() || c.CreatedBy == s.CreatedBy
}
