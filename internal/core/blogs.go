package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"blogspace/internal/filter"
	"blogspace/internal/utils/collectionutils"
	"blogspace/internal/utils/databaseutils"
	"blogspace/internal/utils/stringutils"
	"blogspace/models"
	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
)

const blogColumns = "id, title, slug, content, image, tags, category_id, author_id, status, views, created_at, updated_at"

func scanBlog(rows *sql.Rows) (*models.Blog, error) {
	var blog = &models.Blog{}
	var tags pq.StringArray

	if err := rows.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Slug,
		&blog.Content,
		&blog.Image,
		&tags,
		&blog.CategoryID,
		&blog.AuthorID,
		&blog.Status,
		&blog.Views,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}

	blog.Tags = tags
	return blog, nil
}

func (c *Core) CreateBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	query := fmt.Sprintf(`
		INSERT INTO blogs (title, slug, content, image, tags, category_id, author_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`, blogColumns)

	args := []any{
		blog.Title,
		blog.Slug,
		blog.Content,
		blog.Image,
		pq.Array(blog.Tags),
		blog.CategoryID,
		blog.AuthorID,
		blog.Status,
	}

	createdBlog, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanBlog, args...)
	if err != nil {
		switch {
		case isUniqueViolation(err, "blogs_slug_key"):
			return nil, xerrors.New(ErrDuplicateSlug)
		default:
			return nil, xerrors.New(err)
		}
	}

	return createdBlog, nil
}

func (c *Core) GetBlogs(ctx context.Context, blogFilter filter.BlogFilter) ([]*models.Blog, error) {
	query := fmt.Sprintf(`SELECT %s FROM blogs WHERE status = $1`, blogColumns)
	args := []any{models.StatusPublished}

	if blogFilter.Keyword != "" {
		args = append(args, "%"+blogFilter.Keyword+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}

	if blogFilter.CategoryID > 0 {
		args = append(args, blogFilter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}

	args = append(args, blogFilter.Limit, blogFilter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	blogs, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanBlog, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return blogs, nil
}

// ViewBlog bumps the view counter and returns the blog. The increment is a
// single UPDATE so concurrent readers never lose a count.
func (c *Core) ViewBlog(ctx context.Context, id int64) (*models.Blog, error) {
	query := fmt.Sprintf(`
		UPDATE blogs
		SET views = views + 1
		WHERE id = $1
		RETURNING %s
	`, blogColumns)

	blog, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanBlog, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return blog, nil
}

func (c *Core) BlogExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blogs WHERE id = $1)`

	exists, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (bool, error) {
		var exists bool
		if err := rows.Scan(&exists); err != nil {
			return false, xerrors.New(err)
		}
		return exists, nil
	}, id)

	if err != nil {
		return false, xerrors.New(err)
	}

	return exists, nil
}

func (c *Core) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1)`

	exists, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (bool, error) {
		var exists bool
		if err := rows.Scan(&exists); err != nil {
			return false, xerrors.New(err)
		}
		return exists, nil
	}, slug)

	if err != nil {
		return false, xerrors.New(err)
	}

	return exists, nil
}

// LikeBlog adds the user to the blog's liker set. Membership is the primary
// key of blog_likes, so a duplicate like surfaces as a unique violation and
// is rejected rather than ignored.
func (c *Core) LikeBlog(ctx context.Context, blogID, userID int64) ([]int64, error) {
	exists, err := c.BlogExists(ctx, blogID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if !exists {
		return nil, xerrors.New(NoRecordFound)
	}

	insertSQL := `INSERT INTO blog_likes (blog_id, user_id) VALUES ($1, $2)`
	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, blogID, userID); err != nil {
		switch {
		case isUniqueViolation(err, "blog_likes_pkey"):
			return nil, xerrors.New(ErrAlreadyLiked)
		default:
			return nil, xerrors.New(err)
		}
	}

	return c.BlogLikers(ctx, blogID)
}

// UnlikeBlog removes the user from the liker set. Removing an absent member
// is a no-op, asymmetric with LikeBlog on purpose.
func (c *Core) UnlikeBlog(ctx context.Context, blogID, userID int64) ([]int64, error) {
	exists, err := c.BlogExists(ctx, blogID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if !exists {
		return nil, xerrors.New(NoRecordFound)
	}

	deleteSQL := `DELETE FROM blog_likes WHERE blog_id = $1 AND user_id = $2`
	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, blogID, userID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.BlogLikers(ctx, blogID)
}

func (c *Core) BlogLikers(ctx context.Context, blogID int64) ([]int64, error) {
	query := `
		SELECT user_id
		FROM blog_likes
		WHERE blog_id = $1
		ORDER BY liked_at, user_id
	`

	likers, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return 0, xerrors.New(err)
		}
		return userID, nil
	}, blogID)

	if err != nil {
		return nil, xerrors.New(err)
	}

	if likers == nil {
		likers = []int64{}
	}
	return likers, nil
}

// LikersByBlogIDs fetches the liker sets for a batch of blogs in one query,
// for the list endpoint's response assembly.
func (c *Core) LikersByBlogIDs(ctx context.Context, blogIDList []int64) (map[int64][]int64, error) {
	if len(blogIDList) == 0 {
		return map[int64][]int64{}, nil
	}

	placeholders, args := stringutils.INClause(blogIDList)
	query := fmt.Sprintf(`
		SELECT blog_id, user_id
		FROM blog_likes
		WHERE blog_id IN (%s)
		ORDER BY liked_at, user_id
	`, strings.Join(placeholders, ", "))

	type likeRow struct {
		blogID int64
		userID int64
	}

	rowsList, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (likeRow, error) {
		var row likeRow
		if err := rows.Scan(&row.blogID, &row.userID); err != nil {
			return likeRow{}, xerrors.New(err)
		}
		return row, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	grouped := collectionutils.GroupBy(rowsList, func(row likeRow) int64 { return row.blogID })
	likersByBlogID := make(map[int64][]int64, len(grouped))
	for blogID, group := range grouped {
		userIDs := make([]int64, len(group))
		for i, row := range group {
			userIDs[i] = row.userID
		}
		likersByBlogID[blogID] = userIDs
	}

	return likersByBlogID, nil
}

// CreateSlug derives the URL-safe slug from a title.
func CreateSlug(title string) string {
	slug := strings.ToLower(title)

	slug = strings.ReplaceAll(slug, " ", "-")
	replacements := []string{".", ",", "!", "?", ":", ";", "'", "\"", "(", ")", "[", "]", "{", "}", "/", "\\"}
	for _, char := range replacements {
		slug = strings.ReplaceAll(slug, char, "")
	}

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	slug = strings.Trim(slug, "-")

	return slug
}
