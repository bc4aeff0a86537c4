package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"blogspace/internal/auth"
	"blogspace/internal/core"
	"blogspace/internal/utils/collectionutils"
	"blogspace/internal/utils/databaseutils"
	"blogspace/internal/utils/functional"
	"blogspace/internal/validator"
	"blogspace/models"
	"github.com/mdobak/go-xerrors"
)

type commentAuthorEnvelope struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

type commentEnvelope struct {
	ID        int64                 `json:"id"`
	Content   string                `json:"content"`
	BlogID    int64                 `json:"blogId"`
	Author    commentAuthorEnvelope `json:"author"`
	Likes     []int64               `json:"likes"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

func (app *application) getCommentsHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	comments, err := app.core.GetCommentsByBlogID(r.Context(), blogID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response, err := app.prepareMultiCommentResponse(r.Context(), comments)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	type createCommentPayload struct {
		Content string `json:"content"`
	}

	var createCommentRequest createCommentPayload

	if err := app.readJSON(w, r, &createCommentRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(createCommentRequest.Content, "content", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	blogID, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.unauthorizedResponse(w, r, "Authentication required", err)
		return
	}

	// The blog-exists check and the insert run in one transaction so the
	// comment can never land on a blog deleted in between.
	newComment, err := databaseutils.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Comment, error) {
		exists, err := app.core.BlogExists(txCtx, blogID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, xerrors.New(core.NoRecordFound)
		}

		return app.core.CreateComment(txCtx, &models.Comment{
			Content:  createCommentRequest.Content,
			BlogID:   blogID,
			AuthorID: user.ID,
		})
	})

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

	response := commentResponse(newComment, user, []int64{})
	if err := app.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) likeCommentHandler(w http.ResponseWriter, r *http.Request) {
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

	likers, err := app.core.LikeComment(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		case errors.Is(err, core.ErrAlreadyLiked):
			app.badRequestResponse(w, r, &AppError{ErrorMessage: "Comment already liked"})
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

func (app *application) unlikeCommentHandler(w http.ResponseWriter, r *http.Request) {
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

	likers, err := app.core.UnlikeComment(r.Context(), id, user.ID)
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

func commentResponse(comment *models.Comment, author *auth.User, likers []int64) envelope {
	return envelope{
		"comment": commentEnvelope{
			ID:      comment.ID,
			Content: comment.Content,
			BlogID:  comment.BlogID,
			Author: commentAuthorEnvelope{
				ID:     author.ID,
				Name:   author.Name,
				Avatar: author.Avatar,
			},
			Likes:     likers,
			CreatedAt: comment.CreatedAt,
			UpdatedAt: comment.UpdatedAt,
		},
	}
}

func (app *application) prepareMultiCommentResponse(ctx context.Context, comments []*models.Comment) (envelope, error) {
	commentIDList := functional.Map(comments, func(c *models.Comment) int64 { return c.ID })
	authorIDList := functional.Map(comments, func(c *models.Comment) int64 { return c.AuthorID })

	authors, err := app.core.GetUsersByIDList(ctx, authorIDList)
	if err != nil {
		return nil, xerrors.New(err)
	}
	authorByID := collectionutils.Associate(authors, func(user *auth.User) (int64, *auth.User) {
		return user.ID, user
	})

	likersByCommentID, err := app.core.LikersByCommentIDs(ctx, commentIDList)
	if err != nil {
		return nil, xerrors.New(err)
	}

	commentsEnvelope := make([]commentEnvelope, 0, len(comments))
	for _, comment := range comments {
		author, ok := authorByID[comment.AuthorID]
		if !ok {
			return nil, xerrors.Newf("author %d not found for comment %d", comment.AuthorID, comment.ID)
		}

		commentsEnvelope = append(commentsEnvelope, commentEnvelope{
			ID:      comment.ID,
			Content: comment.Content,
			BlogID:  comment.BlogID,
			Author: commentAuthorEnvelope{
				ID:     author.ID,
				Name:   author.Name,
				Avatar: author.Avatar,
			},
			Likes:     collectionutils.GetOrDefault(likersByCommentID, comment.ID, []int64{}),
			CreatedAt: comment.CreatedAt,
			UpdatedAt: comment.UpdatedAt,
		})
	}

	return envelope{"comments": commentsEnvelope}, nil
}
