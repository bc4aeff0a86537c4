package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogspace/internal/auth"
	"blogspace/internal/core"
	"blogspace/internal/filter"
	"blogspace/internal/utils/collectionutils"
	"blogspace/internal/utils/functional"
	"blogspace/internal/validator"
	"blogspace/models"
	"github.com/mdobak/go-xerrors"
)

type blogAuthorEnvelope struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

type blogEnvelope struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	Slug      string             `json:"slug"`
	Content   string             `json:"content"`
	Image     *string            `json:"image"`
	Tags      []string           `json:"tags"`
	Category  *models.Category   `json:"category"`
	Author    blogAuthorEnvelope `json:"author"`
	Status    string             `json:"status"`
	Views     int64              `json:"views"`
	Likes     []int64            `json:"likes"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (app *application) getBlogsHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	query := r.URL.Query()

	keyword := app.readString(query, "keyword", "")
	categoryID := app.readInt(query, "category", 0, v)
	limit := app.readInt(query, "limit", 20, v)
	offset := app.readInt(query, "offset", 0, v)

	blogFilter := filter.NewBlogFilter(keyword, categoryID, limit, offset)
	filter.ValidateBlogFilter(blogFilter, v)
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	blogs, err := app.core.GetBlogs(r.Context(), blogFilter)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response, err := app.prepareMultiBlogResponse(r.Context(), blogs)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// getBlogHandler is a read with a side effect: every single-item fetch bumps
// the view counter before the blog is returned.
func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	blog, err := app.core.ViewBlog(r.Context(), id)
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

	response, err := app.prepareSingleBlogResponse(r.Context(), blog)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	type createBlogPayload struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Image    *string  `json:"image"`
		Tags     []string `json:"tags"`
		Category int64    `json:"category"`
		Status   string   `json:"status"`
	}

	var requestPayload createBlogPayload

	if err := app.readJSON(w, r, &requestPayload); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	if requestPayload.Status == "" {
		requestPayload.Status = models.StatusPublished
	}

	v := validator.New()
	v.CheckNotBlank(requestPayload.Title, "title", "must be provided")
	v.CheckNotBlank(requestPayload.Content, "content", "must be provided")
	v.Check(requestPayload.Category > 0, "category", "must be provided")
	v.Check(requestPayload.Status == models.StatusPublished || requestPayload.Status == models.StatusDraft,
		"status", "must be either published or draft")
	for _, tag := range requestPayload.Tags {
		v.CheckNotBlank(tag, "tags", "must not contain blank tags")
	}

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	category, err := app.core.GetCategoryByID(r.Context(), requestPayload.Category)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			v.AddError("category", "must be an existing category")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.unauthorizedResponse(w, r, "Authentication required", err)
		return
	}

	slug := core.CreateSlug(requestPayload.Title)
	slugExists, err := app.core.SlugExists(r.Context(), slug)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if slugExists {
		slug = slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	tags := functional.Map(requestPayload.Tags, strings.TrimSpace)

	blog, err := app.core.CreateBlog(r.Context(), &models.Blog{
		Title:      strings.TrimSpace(requestPayload.Title),
		Slug:       slug,
		Content:    requestPayload.Content,
		Image:      requestPayload.Image,
		Tags:       tags,
		CategoryID: category.ID,
		AuthorID:   user.ID,
		Status:     requestPayload.Status,
	})

	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateSlug):
			v.AddError("slug", "Slug already exists")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors, ErrorStack: err})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	response := blogResponse(blog, user, category, []int64{})
	if err := app.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) likeBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.unauthorizedResponse(w, r, "Authentication required", err)
		return
	}

	likers, err := app.core.LikeBlog(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		case errors.Is(err, core.ErrAlreadyLiked):
			app.badRequestResponse(w, r, &AppError{ErrorMessage: "Blog already liked"})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"likes": likers}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) unlikeBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.unauthorizedResponse(w, r, "Authentication required", err)
		return
	}

	likers, err := app.core.UnlikeBlog(r.Context(), id, user.ID)
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

	if err := app.writeJSON(w, http.StatusOK, envelope{"likes": likers}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func blogResponse(blog *models.Blog, author *auth.User, category *models.Category, likers []int64) envelope {
	return envelope{
		"blog": blogEnvelope{
			ID:      blog.ID,
			Title:   blog.Title,
			Slug:    blog.Slug,
			Content: blog.Content,
			Image:   blog.Image,
			Tags:    blog.Tags,
			Category: &models.Category{
				ID:   category.ID,
				Name: category.Name,
			},
			Author: blogAuthorEnvelope{
				ID:     author.ID,
				Name:   author.Name,
				Avatar: author.Avatar,
			},
			Status:    blog.Status,
			Views:     blog.Views,
			Likes:     likers,
			CreatedAt: blog.CreatedAt,
			UpdatedAt: blog.UpdatedAt,
		},
	}
}

func (app *application) prepareSingleBlogResponse(ctx context.Context, blog *models.Blog) (envelope, error) {
	author, err := app.core.GetUserByID(ctx, blog.AuthorID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	category, err := app.core.GetCategoryByID(ctx, blog.CategoryID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	likersByBlogID, err := app.core.LikersByBlogIDs(ctx, []int64{blog.ID})
	if err != nil {
		return nil, xerrors.New(err)
	}
	likers := collectionutils.GetOrDefault(likersByBlogID, blog.ID, []int64{})

	return blogResponse(blog, author, category, likers), nil
}

// prepareMultiBlogResponse assembles the listing response with one batch
// query per related collection instead of a query per blog.
func (app *application) prepareMultiBlogResponse(ctx context.Context, blogs []*models.Blog) (envelope, error) {
	blogIDList := functional.Map(blogs, func(b *models.Blog) int64 { return b.ID })
	authorIDList := functional.Map(blogs, func(b *models.Blog) int64 { return b.AuthorID })
	categoryIDList := functional.Map(blogs, func(b *models.Blog) int64 { return b.CategoryID })

	authors, err := app.core.GetUsersByIDList(ctx, authorIDList)
	if err != nil {
		return nil, xerrors.New(err)
	}
	authorByID := collectionutils.Associate(authors, func(user *auth.User) (int64, *auth.User) {
		return user.ID, user
	})

	categories, err := app.core.GetCategoriesByIDList(ctx, categoryIDList)
	if err != nil {
		return nil, xerrors.New(err)
	}
	categoryByID := collectionutils.Associate(categories, func(category *models.Category) (int64, *models.Category) {
		return category.ID, category
	})

	likersByBlogID, err := app.core.LikersByBlogIDs(ctx, blogIDList)
	if err != nil {
		return nil, xerrors.New(err)
	}

	blogsEnvelope := make([]blogEnvelope, 0, len(blogs))
	for _, blog := range blogs {
		author, ok := authorByID[blog.AuthorID]
		if !ok {
			return nil, xerrors.Newf("author %d not found for blog %d", blog.AuthorID, blog.ID)
		}

		b := blogEnvelope{
			ID:       blog.ID,
			Title:    blog.Title,
			Slug:     blog.Slug,
			Content:  blog.Content,
			Image:    blog.Image,
			Tags:     blog.Tags,
			Category: collectionutils.GetOrDefault(categoryByID, blog.CategoryID, nil),
			Author: blogAuthorEnvelope{
				ID:     author.ID,
				Name:   author.Name,
				Avatar: author.Avatar,
			},
			Status:    blog.Status,
			Views:     blog.Views,
			Likes:     collectionutils.GetOrDefault(likersByBlogID, blog.ID, []int64{}),
			CreatedAt: blog.CreatedAt,
			UpdatedAt: blog.UpdatedAt,
		}
		blogsEnvelope = append(blogsEnvelope, b)
	}

	return envelope{"blogs": blogsEnvelope}, nil
}
