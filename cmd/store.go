package main

import (
	"context"

	"blogspace/internal/auth"
	"blogspace/internal/core"
	"blogspace/internal/filter"
	"blogspace/models"
)

// datastore is the persistence contract the handlers depend on. *core.Core
// is the Postgres implementation; tests inject an in-memory one.
type datastore interface {
	CreateUser(ctx context.Context, user *auth.User) error
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
	GetUserByID(ctx context.Context, id int64) (*auth.User, error)
	GetUsersByIDList(ctx context.Context, userIDList []int64) ([]*auth.User, error)

	CreateBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	GetBlogs(ctx context.Context, blogFilter filter.BlogFilter) ([]*models.Blog, error)
	ViewBlog(ctx context.Context, id int64) (*models.Blog, error)
	BlogExists(ctx context.Context, id int64) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	LikeBlog(ctx context.Context, blogID, userID int64) ([]int64, error)
	UnlikeBlog(ctx context.Context, blogID, userID int64) ([]int64, error)
	LikersByBlogIDs(ctx context.Context, blogIDList []int64) (map[int64][]int64, error)

	CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetCommentsByBlogID(ctx context.Context, blogID int64) ([]*models.Comment, error)
	LikeComment(ctx context.Context, commentID, userID int64) ([]int64, error)
	UnlikeComment(ctx context.Context, commentID, userID int64) ([]int64, error)
	LikersByCommentIDs(ctx context.Context, commentIDList []int64) (map[int64][]int64, error)

	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	GetCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetCategoriesByIDList(ctx context.Context, categoryIDList []int64) ([]*models.Category, error)

	DashboardStats(ctx context.Context, userID int64) (*models.DashboardStats, error)
}

var _ datastore = (*core.Core)(nil)
