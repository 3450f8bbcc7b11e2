package service

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest é a paginação pedida pelo cliente
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize limita page >= 1 e 1 <= limit <= MaxPageSize. Limit zero
// significa "não informado" e vira DefaultPageSize; negativo vira 1.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit == 0:
		p.Limit = DefaultPageSize
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	return p
}

// Offset assume uma requisição já normalizada
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page é uma página de resultados
type Page[T any] struct {
	Results []T
	Page    int
	Limit   int
	Total   int
}

func newPage[T any](results []T, req PageRequest, total int) *Page[T] {
	if results == nil {
		results = []T{}
	}
	return &Page[T]{Results: results, Page: req.Page, Limit: req.Limit, Total: total}
}
