package api

import (
	"net/http"

	"github.com/phrazzld/promptgen-api/internal/api/shared"
	"github.com/phrazzld/promptgen-api/internal/domain"
)

// CategoryHandler lists the categories with dedicated profiles.
type CategoryHandler struct {
	catalog *domain.Catalog
}

// NewCategoryHandler creates a CategoryHandler. A nil catalog means the
// default catalog.
func NewCategoryHandler(catalog *domain.Catalog) *CategoryHandler {
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	return &CategoryHandler{catalog: catalog}
}

// ListCategories handles GET /api/categories.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CategoriesResponse{
		Categories: h.catalog.Categories(),
		Default:    h.catalog.Default(),
	})
}
