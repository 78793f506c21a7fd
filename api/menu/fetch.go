package menu

import (
	"frietkot_server/handling"
	"net/http"
	"net/url"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchMenu handles GET /api/menu and GET /api/menu/{category}.
func (mr *MenuRoutesManager) FetchMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid category name."), gecho.Send())
		return
	}

	categories, err := mr.menu.ListCategories(ctx)
	if err != nil {
		handling.HandleError(err, "Failed to list categories", mr.logger, w)
		return
	}

	products, err := mr.menu.ListProducts(ctx, category)
	if err != nil {
		handling.HandleError(err, "Failed to list products", mr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": categories,
			"products":   products,
			"meta": map[string]any{
				"category": category,
				"count":    len(products),
			},
		}),
		gecho.Send(),
	)
}
