package main

import (
	"errors"
	"net/http"
	"strings"

	"blogspace/internal/core"
	"blogspace/internal/validator"
)

func (app *application) getCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.core.GetCategories(r.Context())
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"categories": categories}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	category, err := app.core.GetCategoryByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"category": category}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	type createCategoryPayload struct {
		Name string `json:"name"`
	}

	var createCategoryRequest createCategoryPayload

	if err := app.readJSON(w, r, &createCategoryRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	name := strings.TrimSpace(createCategoryRequest.Name)

	v := validator.New()
	v.CheckNotBlank(name, "name", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	category, err := app.core.CreateCategory(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateCategory):
			app.badRequestResponse(w, r, &AppError{ErrorMessage: "Category already exists"})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"category": category}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
