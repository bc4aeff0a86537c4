package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/mdobak/go-xerrors"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	password   BYTEA NOT NULL,
	role       TEXT NOT NULL DEFAULT 'reader',
	avatar     TEXT,
	bio        TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS categories (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS blogs (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	content     TEXT NOT NULL,
	image       TEXT,
	tags        TEXT[] NOT NULL DEFAULT '{}',
	category_id BIGINT NOT NULL REFERENCES categories (id),
	author_id   BIGINT NOT NULL REFERENCES users (id),
	status      TEXT NOT NULL DEFAULT 'published',
	views       BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS blog_likes (
	blog_id  BIGINT NOT NULL REFERENCES blogs (id),
	user_id  BIGINT NOT NULL REFERENCES users (id),
	liked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (blog_id, user_id)
);

CREATE TABLE IF NOT EXISTS comments (
	id         BIGSERIAL PRIMARY KEY,
	content    TEXT NOT NULL,
	blog_id    BIGINT NOT NULL REFERENCES blogs (id),
	author_id  BIGINT NOT NULL REFERENCES users (id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS comment_likes (
	comment_id BIGINT NOT NULL REFERENCES comments (id),
	user_id    BIGINT NOT NULL REFERENCES users (id),
	liked_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (comment_id, user_id)
);
`

// Open sets up the connection pool, verifies connectivity and bootstraps the
// schema. The liker sets are join tables keyed on (target, user), so the
// no-duplicate-member invariant is enforced by the primary key.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, xerrors.New(err)
	}

	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, xerrors.New(err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, xerrors.New(err)
	}

	return db, nil
}
