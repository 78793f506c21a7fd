package menu

import (
	"frietkot_server/views"
	"net/http"
	"net/url"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (mr *MenuRoutesManager) MenuPage(w http.ResponseWriter, r *http.Request) {
	mr.renderMenu(w, r, "")
}

func (mr *MenuRoutesManager) CategoryPage(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		mr.renderer.Error(w, http.StatusBadRequest, "Invalid category name.")
		return
	}
	mr.renderMenu(w, r, name)
}

func (mr *MenuRoutesManager) renderMenu(w http.ResponseWriter, r *http.Request, categoryName string) {
	ctx := r.Context()

	categories, err := mr.menu.ListCategories(ctx)
	if err != nil {
		mr.logger.Error("Failed to list categories", gecho.Field("error", err))
		mr.renderer.Error(w, http.StatusInternalServerError, "The menu is not available right now.")
		return
	}

	products, err := mr.menu.ListProducts(ctx, categoryName)
	if err != nil {
		mr.logger.Error("Failed to list products", gecho.Field("error", err), gecho.Field("category", categoryName))
		mr.renderer.Error(w, http.StatusInternalServerError, "The menu is not available right now.")
		return
	}

	title := "Menu"
	if categoryName != "" {
		title = categoryName
	}

	mr.renderer.Render(w, http.StatusOK, "menu", views.Data{
		"Title":          title,
		"Categories":     categories,
		"Products":       products,
		"ActiveCategory": categoryName,
	})
}
