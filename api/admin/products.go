package admin

import (
	"fmt"
	"frietkot_server/handling"
	"frietkot_server/structs/tables"
	"frietkot_server/views"
	"net/http"
	"strconv"
	"strings"
)

// productForm holds the values shown in the product form.
type productForm struct {
	Name        string
	Price       string
	Description string
	CategoryID  int64
	Options     string
	ImageURL    string
}

func productFormFrom(p *tables.Product) productForm {
	form := productForm{
		Name:       p.Name,
		Price:      p.Price.StringFixed(2),
		CategoryID: p.CategoryID,
		Options:    p.Options.Indent(),
	}
	if p.Description != nil {
		form.Description = *p.Description
	}
	if p.ImageURL != nil {
		form.ImageURL = *p.ImageURL
	}
	return form
}

// productFormFromRequest echoes back what was submitted after a failed save.
func productFormFromRequest(r *http.Request, imageURL string) productForm {
	categoryID, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue("categoryId")), 10, 64)
	return productForm{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
		CategoryID:  categoryID,
		Options:     r.FormValue("options"),
		ImageURL:    imageURL,
	}
}

func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	ar.renderProducts(w, r, http.StatusOK, "")
}

func (ar *AdminRoutesManager) renderProducts(w http.ResponseWriter, r *http.Request, status int, message string) {
	products, err := ar.menu.ListProducts(r.Context(), "")
	if err != nil {
		ar.renderError(w, err, "Failed to list products")
		return
	}

	ar.renderer.Render(w, status, "products", views.Data{
		"Title":    "Products",
		"Products": products,
		"Error":    message,
	})
}

func (ar *AdminRoutesManager) renderProductForm(w http.ResponseWriter, r *http.Request, status int, title, action string, form productForm, message string) {
	categories, err := ar.menu.ListCategories(r.Context())
	if err != nil {
		ar.renderError(w, err, "Failed to list categories")
		return
	}

	ar.renderer.Render(w, status, "product_form", views.Data{
		"Title":      title,
		"Action":     action,
		"Form":       form,
		"Categories": categories,
		"Error":      message,
	})
}

func (ar *AdminRoutesManager) NewProductForm(w http.ResponseWriter, r *http.Request) {
	ar.renderProductForm(w, r, http.StatusOK, "New product", "/admin/products/add", productForm{Options: "[]"}, "")
}

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, err := handling.ParseProductForm(r, ar.images.MaxUploadBytes(), ar.images.Validate)
	if err == nil {
		_, err = ar.menu.CreateProduct(r.Context(), input)
	}
	if err != nil {
		status, message := handling.Classify(err)
		if status != http.StatusBadRequest {
			ar.renderError(w, err, "Failed to create product")
			return
		}
		ar.renderProductForm(w, r, status, "New product", "/admin/products/add", productFormFromRequest(r, ""), message)
		return
	}

	redirect(w, r, "/admin/products")
}

func (ar *AdminRoutesManager) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		ar.renderError(w, err, "Invalid product id")
		return
	}

	product, err := ar.menu.GetProduct(r.Context(), id)
	if err != nil {
		ar.renderError(w, err, "Failed to load product")
		return
	}

	ar.renderProductForm(w, r, http.StatusOK, "Edit product", fmt.Sprintf("/admin/products/edit/%d", id), productFormFrom(product), "")
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		ar.renderError(w, err, "Invalid product id")
		return
	}

	input, err := handling.ParseProductForm(r, ar.images.MaxUploadBytes(), ar.images.Validate)
	if err == nil {
		_, err = ar.menu.UpdateProduct(r.Context(), id, input)
	}
	if err != nil {
		status, message := handling.Classify(err)
		if status != http.StatusBadRequest {
			ar.renderError(w, err, "Failed to update product")
			return
		}

		var imageURL string
		if current, getErr := ar.menu.GetProduct(r.Context(), id); getErr == nil && current.ImageURL != nil {
			imageURL = *current.ImageURL
		}
		ar.renderProductForm(w, r, status, "Edit product", fmt.Sprintf("/admin/products/edit/%d", id), productFormFromRequest(r, imageURL), message)
		return
	}

	redirect(w, r, "/admin/products")
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		ar.renderError(w, err, "Invalid product id")
		return
	}

	if err := ar.menu.DeleteProduct(r.Context(), id); err != nil {
		status, message := handling.Classify(err)
		if status != http.StatusBadRequest {
			ar.renderError(w, err, "Failed to delete product")
			return
		}
		ar.renderProducts(w, r, status, message)
		return
	}

	redirect(w, r, "/admin/products")
}
