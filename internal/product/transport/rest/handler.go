// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abgdnv/productapi/internal/platform/apperror"
	"github.com/abgdnv/productapi/internal/platform/auth"
	"github.com/abgdnv/productapi/internal/platform/pipeline"
	"github.com/abgdnv/productapi/internal/product/service"
	"github.com/abgdnv/productapi/internal/product/validation"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.ProductService
	// base runs before every product route: access log, then auth when enabled.
	base *pipeline.Pipeline
	// fallback only logs; it serves unknown routes.
	fallback *pipeline.Pipeline
}

// NewHandler creates a new product Handler. A nil checker leaves the routes unauthenticated.
func NewHandler(service service.ProductService, logger *slog.Logger, checker *auth.Checker) *Handler {
	fallback := pipeline.New(logger, pipeline.AccessLog(logger))
	base := fallback
	if checker != nil {
		base = fallback.With(auth.Stage(checker))
	}
	return &Handler{
		service:  service,
		base:     base,
		fallback: fallback,
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	// Set before Route so the sub-router inherits them.
	r.NotFound(h.fallback.Handler(h.routeNotFound).ServeHTTP)
	r.MethodNotAllowed(h.fallback.Handler(h.methodNotAllowed).ServeHTTP)

	withBody := h.base.With(pipeline.DecodeJSON(), validation.Stage())

	r.Route("/products", func(r chi.Router) {
		r.Method(http.MethodGet, "/", h.base.Handler(h.FindAll))
		r.Method(http.MethodPost, "/", withBody.Handler(h.Create))

		// Static segments first so they are never taken for an ID.
		r.Method(http.MethodGet, "/search", h.base.Handler(h.Search))
		r.Method(http.MethodGet, "/stats", h.base.Handler(h.Stats))

		r.Route("/{id}", func(r chi.Router) {
			r.Method(http.MethodGet, "/", h.base.Handler(h.FindByID))
			r.Method(http.MethodPut, "/", withBody.Handler(h.Update))
			r.Method(http.MethodDelete, "/", h.base.Handler(h.DeleteByID))
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll lists products with optional category filter and pagination.
func (h *Handler) FindAll(c *pipeline.Context) pipeline.Outcome {
	query := service.ListQuery{
		Category: c.Query("category"),
		Page:     parseOptionalInt(c.Query("page")),
		Limit:    parseOptionalInt(c.Query("limit")),
	}
	c.Logger.DebugContext(c.Ctx(), "Received request to find all products", "category", query.Category)
	page := h.service.FindAll(c.Ctx(), query)
	return pipeline.Respond(http.StatusOK, page)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(c *pipeline.Context) pipeline.Outcome {
	id := c.Param("id")
	c.Logger.DebugContext(c.Ctx(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(c.Ctx(), id)
	if err != nil {
		return pipeline.Fail(err)
	}
	return pipeline.Respond(http.StatusOK, found)
}

// Create handles the creation of a new product. The body has been validated already.
func (h *Handler) Create(c *pipeline.Context) pipeline.Outcome {
	created := h.service.Create(c.Ctx(), toCreateDto(validation.Decode(c.Body)))
	c.Logger.InfoContext(c.Ctx(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	return pipeline.Respond(http.StatusCreated, created)
}

// Update replaces a product. The body has been validated already.
func (h *Handler) Update(c *pipeline.Context) pipeline.Outcome {
	id := c.Param("id")
	updated, err := h.service.Update(c.Ctx(), id, toCreateDto(validation.Decode(c.Body)))
	if err != nil {
		return pipeline.Fail(err)
	}
	c.Logger.InfoContext(c.Ctx(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	return pipeline.Respond(http.StatusOK, updated)
}

// DeleteByID deletes a product and returns the removed record.
func (h *Handler) DeleteByID(c *pipeline.Context) pipeline.Outcome {
	id := c.Param("id")
	removed, err := h.service.DeleteByID(c.Ctx(), id)
	if err != nil {
		return pipeline.Fail(err)
	}
	c.Logger.InfoContext(c.Ctx(), "Product deleted successfully", "ID", id)
	return pipeline.Respond(http.StatusOK, service.DeletedDto{Message: "Product deleted", Product: *removed})
}

// Search finds products by the "name" query parameter.
func (h *Handler) Search(c *pipeline.Context) pipeline.Outcome {
	result, err := h.service.Search(c.Ctx(), c.Query("name"))
	if err != nil {
		return pipeline.Fail(err)
	}
	return pipeline.Respond(http.StatusOK, result)
}

// Stats returns product counts per category.
func (h *Handler) Stats(c *pipeline.Context) pipeline.Outcome {
	return pipeline.Respond(http.StatusOK, h.service.Stats(c.Ctx()))
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) routeNotFound(c *pipeline.Context) pipeline.Outcome {
	return pipeline.Fail(apperror.NotFound("Route not found"))
}

func (h *Handler) methodNotAllowed(c *pipeline.Context) pipeline.Outcome {
	return pipeline.Fail(apperror.MethodNotAllowed("Method " + c.Request.Method + " not allowed"))
}

// parseOptionalInt returns nil for an absent, unparsable or zero value.
func parseOptionalInt(raw string) *int {
	v, err := strconv.Atoi(raw)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

func toCreateDto(p validation.Payload) service.ProductCreateDto {
	return service.ProductCreateDto{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		InStock:     p.InStock,
	}
}
