package main

import (
	"net/http"

	"blogspace/internal/auth"
	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	// Not require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", app.loginHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/refresh", app.refreshTokenHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/logout", app.logoutHandler)
	router.HandlerFunc(http.MethodGet, "/api/blogs", app.getBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/api/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodGet, "/api/blogs/:id/comments", app.getCommentsHandler)
	router.HandlerFunc(http.MethodGet, "/api/categories", app.getCategoriesHandler)
	router.HandlerFunc(http.MethodGet, "/api/categories/:id", app.getCategoryHandler)

	// Require authentication for these routes
	router.HandlerFunc(http.MethodGet, "/api/auth/me", app.requireAuthenticatedUser(app.getMeHandler))
	router.HandlerFunc(http.MethodPost, "/api/blogs", app.requireRole(app.createBlogHandler, auth.RoleAuthor, auth.RoleAdmin))
	router.HandlerFunc(http.MethodPost, "/api/blogs/:id/like", app.requireAuthenticatedUser(app.likeBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/api/blogs/:id/like", app.requireAuthenticatedUser(app.unlikeBlogHandler))
	router.HandlerFunc(http.MethodPost, "/api/blogs/:id/comments", app.requireAuthenticatedUser(app.createCommentHandler))
	router.HandlerFunc(http.MethodPost, "/api/comments/:id/like", app.requireAuthenticatedUser(app.likeCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/api/comments/:id/like", app.requireAuthenticatedUser(app.unlikeCommentHandler))
	router.HandlerFunc(http.MethodPost, "/api/categories", app.requireRole(app.createCategoryHandler, auth.RoleAdmin))
	router.HandlerFunc(http.MethodGet, "/api/dashboard/stats", app.requireAuthenticatedUser(app.getDashboardStatsHandler))

	return app.logRequest(app.recoverPanic(app.authenticate(router)))
}
