package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/buybuddy-backend/api/middleware"
	"github.com/angelmondragon/buybuddy-backend/api/responses"
	"github.com/angelmondragon/buybuddy-backend/api/validators"
	"github.com/angelmondragon/buybuddy-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
	"github.com/angelmondragon/buybuddy-backend/pkg/logger"
)

const maxSearchQueryLen = 200

// viewer returns the signed-in user on routes where sign-in is optional.
func viewer(r *http.Request) *uuid.UUID {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		return nil
	}
	return &id
}

// CatalogHome serves the landing page products, categories and brands.
func CatalogHome(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		home, err := svc.Home(r.Context(), viewer(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, home)
	}
}

// CatalogProduct serves one product page by slug.
func CatalogProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.NotFound("product not found"))
			return
		}
		detail, err := svc.ProductDetail(r.Context(), slug, viewer(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// CatalogCategory lists the available products of an active category.
func CatalogCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.NotFound("category not found"))
			return
		}
		page, err := svc.CategoryPage(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CatalogSearch filters products by text, category, brand and price.
func CatalogSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := validators.QueryText(r, "q", maxSearchQueryLen)
		categoryID, err := validators.ParseQueryUUID(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brandID, err := validators.ParseQueryUUID(r, "brand")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := validators.ParsePriceRange(r, "price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := catalog.SearchFilter{
			CategoryID: categoryID,
			BrandID:    brandID,
			Sort:       catalog.SortOrder(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort")))),
		}
		if price != nil {
			filter.MinPrice = &price.Min
			filter.MaxPrice = &price.Max
		}

		result, err := svc.Search(r.Context(), query, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
