package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/interfaces/http/dto"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/distributor/backend/internal/interfaces/http/router"
)

// EntityService is the CRUD surface every master-data service exposes.
type EntityService[T any] interface {
	List(ctx context.Context, filter shared.Filter) ([]T, error)
	Get(ctx context.Context, key string) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, key string, entity *T) (*T, error)
	Delete(ctx context.Context, key string) error
}

// EntityHandler serves /api/{resource} for one master-data entity.
type EntityHandler[T any] struct {
	BaseHandler
	resource string
	svc      EntityService[T]
}

// NewEntityHandler creates a handler for resource backed by svc.
func NewEntityHandler[T any](resource string, svc EntityService[T]) *EntityHandler[T] {
	return &EntityHandler[T]{resource: resource, svc: svc}
}

// Routes returns the route group of the resource. PUT and PATCH both
// apply the partial update.
func (h *EntityHandler[T]) Routes() *router.DomainGroup {
	return router.NewDomainGroup(h.resource, "/"+h.resource).
		GET("", h.List).
		GET("/:key", h.Get).
		POST("", h.Create).
		PUT("/:key", h.Update).
		PATCH("/:key", h.Update).
		DELETE("/:key", h.Delete)
}

// List answers GET /api/{resource}?code=&name=&group=&page=&pageSize=.
func (h *EntityHandler[T]) List(c *gin.Context) {
	var query dto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, middleware.BindingMessage(err))
		return
	}

	filter := query.Filter()
	items, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	h.Page(c, items, len(items), filter.Page, filter.PageSize)
}

// Get returns one entity by key.
func (h *EntityHandler[T]) Get(c *gin.Context) {
	entity, err := h.svc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entity)
}

// Create decodes the JSON body and creates the entity.
func (h *EntityHandler[T]) Create(c *gin.Context) {
	entity := new(T)
	if err := c.ShouldBindJSON(entity); err != nil {
		h.BadRequest(c, middleware.BindingMessage(err))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), entity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Update decodes the JSON body and updates the entity at key.
func (h *EntityHandler[T]) Update(c *gin.Context) {
	entity := new(T)
	if err := c.ShouldBindJSON(entity); err != nil {
		h.BadRequest(c, middleware.BindingMessage(err))
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("key"), entity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Delete removes the entity at key.
func (h *EntityHandler[T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
