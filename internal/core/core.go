package core

import (
	"database/sql"
	"errors"
	"log/slog"

	"blogspace/internal/utils/databaseutils"
	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
)

var (
	NoRecordFound        = xerrors.Message("No record found")
	ErrDuplicateEmail    = xerrors.Message("Email address is already in use")
	ErrDuplicateSlug     = xerrors.Message("Duplicate slug")
	ErrDuplicateCategory = xerrors.Message("Category already exists")
	ErrAlreadyLiked      = xerrors.Message("Already liked")
)

type Core struct {
	log         *slog.Logger
	db          *sql.DB
	sqlTemplate *databaseutils.SQLTemplate
}

func NewCore(dbConn *sql.DB, log *slog.Logger, sqlTemplate *databaseutils.SQLTemplate) *Core {
	return &Core{
		log:         log,
		db:          dbConn,
		sqlTemplate: sqlTemplate,
	}
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
