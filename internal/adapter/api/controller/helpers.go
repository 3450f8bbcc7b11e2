package controller

import (
	"errors"
	"io"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// currentActor escreve 401 e devolve false quando não há usuário autenticado
func currentActor(ctx *gin.Context) (user.Actor, bool) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		dto.WriteError(ctx, apperror.Unauthorized(apperror.CodeUnauthorized, "Authentication required"))
		return user.Actor{}, false
	}
	return actor, true
}

// pageRequest traduz a query; limit explícito abaixo de 1 vira 1
func pageRequest(q dto.PaginationQuery) service.PageRequest {
	req := service.PageRequest{Page: q.Page}
	if q.Limit != nil {
		req.Limit = max(*q.Limit, 1)
	}
	return req
}

func toPageResponse[S any, T any](p *service.Page[S], convert func(S) T) dto.PageResponse[T] {
	results := make([]T, 0, len(p.Results))
	for _, item := range p.Results {
		results = append(results, convert(item))
	}
	return dto.PageResponse[T]{Results: results, Page: p.Page, Limit: p.Limit, Total: p.Total}
}

// bindJSON escreve o erro de validação e devolve false em caso de falha
func bindJSON(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		dto.WriteError(ctx, dto.BindError(err))
		return false
	}
	return true
}

func bindQuery(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindQuery(req); err != nil {
		dto.WriteError(ctx, dto.BindError(err))
		return false
	}
	return true
}

// bindOptionalJSON aceita corpo vazio
func bindOptionalJSON(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		dto.WriteError(ctx, dto.BindError(err))
		return false
	}
	return true
}

// requiredDate lê uma data obrigatória da query string
func requiredDate(ctx *gin.Context, field string) (time.Time, bool) {
	date, err := dto.ParseDate(field, ctx.Query(field))
	if err != nil {
		dto.WriteError(ctx, err)
		return time.Time{}, false
	}
	if date == nil {
		dto.WriteError(ctx, apperror.Validation("Validation failed", apperror.FieldError{Field: field, Message: "is required"}))
		return time.Time{}, false
	}
	return *date, true
}
