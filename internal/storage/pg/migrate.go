package pg

import (
	"context"
	"fmt"
	"log/slog"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
    id           UUID PRIMARY KEY,
    title        TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    content      TEXT NOT NULL DEFAULT '',
    category     TEXT NOT NULL,
    source       TEXT NOT NULL,
    source_url   TEXT NOT NULL UNIQUE,
    image_url    TEXT NOT NULL DEFAULT '',
    published_at TIMESTAMPTZ NOT NULL,
    ingested_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    credibility  INT NOT NULL DEFAULT 5,
    upvotes      INT NOT NULL DEFAULT 0,
    downvotes    INT NOT NULL DEFAULT 0,
    views        INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_articles_category_published ON articles (category, published_at DESC);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles (published_at DESC);

CREATE TABLE IF NOT EXISTS votes (
    id         UUID PRIMARY KEY,
    article_id UUID NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    session_id TEXT NOT NULL,
    kind       TEXT NOT NULL CHECK (kind IN ('up', 'down')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (article_id, session_id)
);
CREATE INDEX IF NOT EXISTS idx_votes_session ON votes (session_id, created_at DESC);

CREATE TABLE IF NOT EXISTS comments (
    id         UUID PRIMARY KEY,
    article_id UUID NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    session_id TEXT NOT NULL,
    author     TEXT NOT NULL DEFAULT 'Anonymous',
    body       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_comments_article ON comments (article_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_comments_session ON comments (session_id, created_at DESC);

CREATE TABLE IF NOT EXISTS preferences (
    session_id TEXT PRIMARY KEY,
    categories JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id             TEXT PRIMARY KEY,
    categories          JSONB NOT NULL DEFAULT '{}',
    language            TEXT NOT NULL DEFAULT 'en',
    country             TEXT NOT NULL DEFAULT '',
    email_notifications BOOLEAN NOT NULL DEFAULT TRUE,
    show_images         BOOLEAN NOT NULL DEFAULT TRUE,
    dark_mode           BOOLEAN NOT NULL DEFAULT FALSE,
    articles_read       INT NOT NULL DEFAULT 0,
    upvotes_given       INT NOT NULL DEFAULT 0,
    downvotes_given     INT NOT NULL DEFAULT 0,
    comments_posted     INT NOT NULL DEFAULT 0,
    bio                 TEXT NOT NULL DEFAULT '',
    avatar              TEXT NOT NULL DEFAULT '',
    onboarding_complete BOOLEAN NOT NULL DEFAULT FALSE,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS polls (
    id         UUID PRIMARY KEY,
    question   TEXT NOT NULL,
    is_active  BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS poll_options (
    id      UUID PRIMARY KEY,
    poll_id UUID NOT NULL REFERENCES polls (id) ON DELETE CASCADE,
    text    TEXT NOT NULL,
    votes   INT NOT NULL DEFAULT 0
);
`

// Migrate applies the schema idempotently at startup.
func (p *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := p.conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	slog.Info("Database schema up to date")
	return nil
}
