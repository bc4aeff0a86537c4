package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"blogspace/internal/utils/collectionutils"
	"blogspace/internal/utils/databaseutils"
	"blogspace/internal/utils/stringutils"
	"blogspace/models"
	"github.com/mdobak/go-xerrors"
)

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	var comment models.Comment
	if err := rows.Scan(
		&comment.ID,
		&comment.Content,
		&comment.BlogID,
		&comment.AuthorID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return &comment, nil
}

func (c *Core) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	insertSQL := `
		INSERT INTO comments (content, blog_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, content, blog_id, author_id, created_at, updated_at
	`

	newComment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanComment,
		comment.Content, comment.BlogID, comment.AuthorID)

	if err != nil {
		return nil, xerrors.New(err)
	}

	return newComment, nil
}

func (c *Core) GetCommentsByBlogID(ctx context.Context, blogID int64) ([]*models.Comment, error) {
	query := `
		SELECT id, content, blog_id, author_id, created_at, updated_at
		FROM comments
		WHERE blog_id = $1
		ORDER BY created_at DESC, id DESC
	`

	comments, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, blogID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return comments, nil
}

func (c *Core) CommentExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`

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

// LikeComment mirrors LikeBlog against the comment_likes set.
func (c *Core) LikeComment(ctx context.Context, commentID, userID int64) ([]int64, error) {
	exists, err := c.CommentExists(ctx, commentID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if !exists {
		return nil, xerrors.New(NoRecordFound)
	}

	insertSQL := `INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)`
	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, commentID, userID); err != nil {
		switch {
		case isUniqueViolation(err, "comment_likes_pkey"):
			return nil, xerrors.New(ErrAlreadyLiked)
		default:
			return nil, xerrors.New(err)
		}
	}

	return c.CommentLikers(ctx, commentID)
}

func (c *Core) UnlikeComment(ctx context.Context, commentID, userID int64) ([]int64, error) {
	exists, err := c.CommentExists(ctx, commentID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if !exists {
		return nil, xerrors.New(NoRecordFound)
	}

	deleteSQL := `DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`
	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, commentID, userID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.CommentLikers(ctx, commentID)
}

func (c *Core) CommentLikers(ctx context.Context, commentID int64) ([]int64, error) {
	query := `
		SELECT user_id
		FROM comment_likes
		WHERE comment_id = $1
		ORDER BY liked_at, user_id
	`

	likers, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return 0, xerrors.New(err)
		}
		return userID, nil
	}, commentID)

	if err != nil {
		return nil, xerrors.New(err)
	}

	if likers == nil {
		likers = []int64{}
	}
	return likers, nil
}

// LikersByCommentIDs is the batch variant used when listing a blog's
// comments.
func (c *Core) LikersByCommentIDs(ctx context.Context, commentIDList []int64) (map[int64][]int64, error) {
	if len(commentIDList) == 0 {
		return map[int64][]int64{}, nil
	}

	placeholders, args := stringutils.INClause(commentIDList)
	query := fmt.Sprintf(`
		SELECT comment_id, user_id
		FROM comment_likes
		WHERE comment_id IN (%s)
		ORDER BY liked_at, user_id
	`, strings.Join(placeholders, ", "))

	type likeRow struct {
		commentID int64
		userID    int64
	}

	rowsList, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (likeRow, error) {
		var row likeRow
		if err := rows.Scan(&row.commentID, &row.userID); err != nil {
			return likeRow{}, xerrors.New(err)
		}
		return row, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	grouped := collectionutils.GroupBy(rowsList, func(row likeRow) int64 { return row.commentID })
	likersByCommentID := make(map[int64][]int64, len(grouped))
	for commentID, group := range grouped {
		userIDs := make([]int64, len(group))
		for i, row := range group {
			userIDs[i] = row.userID
		}
		likersByCommentID[commentID] = userIDs
	}

	return likersByCommentID, nil
}
