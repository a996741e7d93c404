package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

// Pages in state 2 are deleted and invisible to macros.
const (
	queryPageByTitle = `SELECT id, title, pagename, COALESCE(scope, '')
FROM wiki_pages
WHERE (pagename = $1 OR title = $1) AND state <> 2
ORDER BY id
LIMIT 1`

	queryPageByID = `SELECT id, title, pagename, COALESCE(scope, '')
FROM wiki_pages
WHERE id = $1 AND state <> 2`

	queryAttachmentByID = `SELECT id, page_id, filename, COALESCE(description, ''), COALESCE(created_by, 0), created
FROM wiki_attachments
WHERE id = $1`

	queryAttachmentsByPage = `SELECT id, page_id, filename, COALESCE(description, ''), COALESCE(created_by, 0), created
FROM wiki_attachments
WHERE page_id = $1 AND filename ILIKE $2
ORDER BY created ASC, id ASC`

	queryUserByID = `SELECT id, name FROM users WHERE id = $1`
)

// querier is the subset of pgxpool.Pool used by PostgresStore.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore serves lookups straight from the site database.
type PostgresStore struct {
	db   querier
	pool *pgxpool.Pool
}

// NewPostgresStore opens a connection pool for databaseURL.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the database: %w", err)
	}
	return &PostgresStore{db: pool, pool: pool}, nil
}

// PageByTitle implements macro.PageResolver.
func (s *PostgresStore) PageByTitle(ctx context.Context, title string) (*macro.Page, error) {
	return s.page(ctx, "page "+title, queryPageByTitle, title)
}

// PageByID implements macro.PageResolver.
func (s *PostgresStore) PageByID(ctx context.Context, id int64) (*macro.Page, error) {
	return s.page(ctx, fmt.Sprintf("page %d", id), queryPageByID, id)
}

func (s *PostgresStore) page(ctx context.Context, what, query string, arg any) (*macro.Page, error) {
	var (
		p               macro.Page
		pagename, scope string
	)
	err := s.db.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Title, &pagename, &scope)
	if err != nil {
		return nil, sqlError(what, err)
	}
	p.Link = pageLink(scope, pagename)
	return &p, nil
}

// AttachmentByID implements macro.AttachmentResolver.
func (s *PostgresStore) AttachmentByID(ctx context.Context, id int64) (*macro.Attachment, error) {
	a, err := scanAttachment(s.db.QueryRow(ctx, queryAttachmentByID, id))
	if err != nil {
		return nil, sqlError(fmt.Sprintf("attachment %d", id), err)
	}
	return &a, nil
}

// ListAttachments implements macro.AttachmentLister. The prefix is matched
// case-insensitively and literally.
func (s *PostgresStore) ListAttachments(ctx context.Context, pageID int64, prefix string) ([]macro.Attachment, error) {
	what := fmt.Sprintf("attachments of page %d", pageID)

	rows, err := s.db.Query(ctx, queryAttachmentsByPage, pageID, likePrefix(prefix))
	if err != nil {
		return nil, sqlError(what, err)
	}
	defer rows.Close()

	var out []macro.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, sqlError(what, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlError(what, err)
	}
	return out, nil
}

// UserByID implements macro.UserResolver.
func (s *PostgresStore) UserByID(ctx context.Context, id int64) (*macro.User, error) {
	var u macro.User
	if err := s.db.QueryRow(ctx, queryUserByID, id).Scan(&u.ID, &u.Name); err != nil {
		return nil, sqlError(fmt.Sprintf("user %d", id), err)
	}
	return &u, nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.db.Exec(ctx, "SELECT 1")
	return err
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func scanAttachment(row pgx.Row) (macro.Attachment, error) {
	var (
		a       macro.Attachment
		created *time.Time
	)
	if err := row.Scan(&a.ID, &a.PageID, &a.Filename, &a.Description, &a.CreatedBy, &created); err != nil {
		return macro.Attachment{}, err
	}
	if created != nil {
		a.Created = *created
	}
	return a, nil
}

func sqlError(what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, macro.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix turns prefix into an ILIKE pattern matching it literally.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
