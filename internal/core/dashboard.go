package core

import (
	"context"
	"database/sql"

	"blogspace/internal/utils/databaseutils"
	"blogspace/models"
	"github.com/mdobak/go-xerrors"
)

// DashboardStats rolls up an author's blogs: document count, view sum and
// the five most recent entries. followersCount stays 0 until following is
// implemented.
func (c *Core) DashboardStats(ctx context.Context, userID int64) (*models.DashboardStats, error) {
	totalsQuery := `
		SELECT COUNT(*), COALESCE(SUM(views), 0)
		FROM blogs
		WHERE author_id = $1
	`

	stats, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, totalsQuery, func(rows *sql.Rows) (*models.DashboardStats, error) {
		var stats models.DashboardStats
		if err := rows.Scan(&stats.TotalBlogs, &stats.TotalViews); err != nil {
			return nil, xerrors.New(err)
		}
		return &stats, nil
	}, userID)

	if err != nil {
		return nil, xerrors.New(err)
	}

	recentQuery := `
		SELECT id, title, created_at, status, views
		FROM blogs
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 5
	`

	recentBlogs, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, recentQuery, func(rows *sql.Rows) (models.BlogSummary, error) {
		var summary models.BlogSummary
		if err := rows.Scan(&summary.ID, &summary.Title, &summary.CreatedAt, &summary.Status, &summary.Views); err != nil {
			return models.BlogSummary{}, xerrors.New(err)
		}
		return summary, nil
	}, userID)

	if err != nil {
		return nil, xerrors.New(err)
	}

	if recentBlogs == nil {
		recentBlogs = []models.BlogSummary{}
	}
	stats.RecentBlogs = recentBlogs

	return stats, nil
}
