package admin

import (
	"fmt"
	"frietkot_server/handling"
	"frietkot_server/views"
	"net/http"
)

func (ar *AdminRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	ar.renderCategories(w, r, http.StatusOK, "")
}

func (ar *AdminRoutesManager) renderCategories(w http.ResponseWriter, r *http.Request, status int, message string) {
	categories, err := ar.menu.ListCategories(r.Context())
	if err != nil {
		ar.renderError(w, err, "Failed to list categories")
		return
	}

	ar.renderer.Render(w, status, "categories", views.Data{
		"Title":      "Categories",
		"Categories": categories,
		"Error":      message,
	})
}

func (ar *AdminRoutesManager) renderCategoryForm(w http.ResponseWriter, status int, title, action, name, message string) {
	ar.renderer.Render(w, status, "category_form", views.Data{
		"Title":  title,
		"Action": action,
		"Name":   name,
		"Error":  message,
	})
}

func (ar *AdminRoutesManager) NewCategoryForm(w http.ResponseWriter, r *http.Request) {
	ar.renderCategoryForm(w, http.StatusOK, "New category", "/admin/categories/add", "", "")
}

func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	name, err := handling.ParseCategoryName(r)
	if err == nil {
		_, err = ar.menu.CreateCategory(r.Context(), name)
	}
	if err != nil {
		status, message := handling.Classify(err)
		if status != http.StatusBadRequest {
			ar.renderError(w, err, "Failed to create category")
			return
		}
		ar.renderCategoryForm(w, status, "New category", "/admin/categories/add", name, message)
		return
	}

	redirect(w, r, "/admin/categories")
}

func (ar *AdminRoutesManager) EditCategoryForm(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		ar.renderError(w, err, "Invalid category id")
		return
	}

	category, err := ar.menu.GetCategory(r.Context(), id)
	if err != nil {
		ar.renderError(w, err, "Failed to load category")
		return
	}

	ar.renderCategoryForm(w, http.StatusOK, "Edit category", fmt.Sprintf("/admin/categories/edit/%d", id), category.Name, "")
}

func (ar *AdminRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		ar.renderError(w, err, "Invalid category id")
		return
	}

	name, err := handling.ParseCategoryName(r)
	if err == nil {
		_, err = ar.menu.UpdateCategory(r.Context(), id, name)
	}
	if err != nil {
		status, message := handling.Classify(err)
		if status != http.StatusBadRequest {
			ar.renderError(w, err, "Failed to update category")
			return
		}
		ar.renderCategoryForm(w, status, "Edit category", fmt.Sprintf("/admin/categories/edit/%d", id), name, message)
		return
	}

	redirect(w, r, "/admin/categories")
}

func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		ar.renderError(w, err, "Invalid category id")
		return
	}

	if err := ar.menu.DeleteCategory(r.Context(), id); err != nil {
		status, message := handling.Classify(err)
		if status != http.StatusBadRequest {
			ar.renderError(w, err, "Failed to delete category")
			return
		}
		ar.renderCategories(w, r, status, message)
		return
	}

	redirect(w, r, "/admin/categories")
}
