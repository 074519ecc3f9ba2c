package mariadb

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
	"github.com/fhuszti/movies-ms-go/internal/uuid"
	"github.com/go-sql-driver/mysql"
)

const errDupEntry = 1062

// fieldName guards the JSON path built from a queried field.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// MovieRepository stores each record as a JSON document. The normalized title is
// mirrored into its own uniquely indexed column.
type MovieRepository struct {
	db *sql.DB
}

// compile-time check: *MovieRepository must satisfy port.MovieRepository
var _ port.MovieRepository = (*MovieRepository)(nil)

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Insert(ctx context.Context, m *model.Movie) (string, error) {
	id := uuid.NewUUID()
	logger.Debugf(ctx, "creating database record #%s for movie %q...", id, m.PrimaryTitle)

	doc, err := json.Marshal(m.Document())
	if err != nil {
		return "", fmt.Errorf("encode movie: %w", err)
	}

	const query = `INSERT INTO movies (id, normalized_title, document) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, id, m.NormalizedTitle, doc); err != nil {
		return "", mapMySQLErr(err)
	}
	return id.String(), nil
}

func (r *MovieRepository) QueryEquals(ctx context.Context, field, value string) ([]*model.Movie, error) {
	if field == model.FieldNormalizedTitle {
		const query = `SELECT id, document FROM movies WHERE normalized_title = ? ORDER BY created_at, id`
		return r.query(ctx, query, value)
	}
	if !fieldName.MatchString(field) {
		return nil, fmt.Errorf("%w: cannot query on field %q", movie.ErrValidation, field)
	}
	const query = `SELECT id, document FROM movies WHERE JSON_UNQUOTE(JSON_EXTRACT(document, ?)) = ? ORDER BY created_at, id`
	return r.query(ctx, query, "$."+field, value)
}

func (r *MovieRepository) GetAll(ctx context.Context) ([]*model.Movie, error) {
	const query = `SELECT id, document FROM movies ORDER BY created_at, id`
	return r.query(ctx, query)
}

// UpdateFields merges fields into the stored document under a row lock, so
// concurrent partial updates never drop each other's keys.
func (r *MovieRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	logger.Debugf(ctx, "updating database record #%s...", id)

	key, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", movie.ErrNotFound, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw []byte
	err = tx.QueryRowContext(ctx, `SELECT document FROM movies WHERE id = ? FOR UPDATE`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id %s", movie.ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	normalized, _ := doc[model.FieldNormalizedTitle].(string)
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode movie: %w", err)
	}

	const query = `UPDATE movies SET normalized_title = ?, document = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query, normalized, encoded, key); err != nil {
		return mapMySQLErr(err)
	}
	return tx.Commit()
}

func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	logger.Debugf(ctx, "deleting database record #%s...", id)

	key, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", movie.ErrNotFound, err)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %s", movie.ErrNotFound, id)
	}
	return nil
}

func (r *MovieRepository) query(ctx context.Context, query string, args ...any) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	movies := []*model.Movie{}
	for rows.Next() {
		var (
			id  uuid.UUID
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("record #%s: %w", id, err)
		}
		movies = append(movies, model.MovieFromDocument(id.String(), doc))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func decodeDocument(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode movie: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func mapMySQLErr(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errDupEntry {
		return fmt.Errorf("%w: %s", movie.ErrDuplicate, myErr.Message)
	}
	return err
}
