package core

import (
	"context"
	"database/sql"
	"errors"

	"blogspace/internal/utils/databaseutils"
	"blogspace/models"
	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
)

func scanCategory(rows *sql.Rows) (*models.Category, error) {
	var category models.Category
	if err := rows.Scan(&category.ID, &category.Name); err != nil {
		return nil, xerrors.New(err)
	}
	return &category, nil
}

func (c *Core) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id, name
	`

	category, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanCategory, name)
	if err != nil {
		switch {
		case isUniqueViolation(err, "categories_name_key"):
			return nil, xerrors.New(ErrDuplicateCategory)
		default:
			return nil, xerrors.New(err)
		}
	}

	return category, nil
}

func (c *Core) GetCategories(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY name`

	categories, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanCategory)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return categories, nil
}

func (c *Core) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT id, name FROM categories WHERE id = $1`

	category, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanCategory, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return category, nil
}

func (c *Core) GetCategoriesByIDList(ctx context.Context, categoryIDList []int64) ([]*models.Category, error) {
	if len(categoryIDList) == 0 {
		return []*models.Category{}, nil
	}

	query := `SELECT id, name FROM categories WHERE id = ANY($1)`

	categories, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanCategory, pq.Array(categoryIDList))
	if err != nil {
		return nil, xerrors.New(err)
	}

	return categories, nil
}
