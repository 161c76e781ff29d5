// Package store reads the voter roll from PostgreSQL or SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"voterfinder/internal/platform/database"
	"voterfinder/internal/voter/models"
	"voterfinder/pkg/platform/sentinel"
)

const voterColumns = `id, serial_number, voter_id, name, father_husband_name, house_number, age, gender`

// dialect holds the statements that differ between drivers.
type dialect struct {
	name     string
	search   string
	findByID string
	count    string
	// searchArgs expands the pattern and limit into positional arguments.
	searchArgs func(pattern string, limit int) []any
}

var postgresDialect = dialect{
	name: database.DriverPostgres,
	search: `SELECT ` + voterColumns + ` FROM voters
		WHERE name ILIKE $1 ESCAPE '\' OR father_husband_name ILIKE $1 ESCAPE '\' OR voter_id ILIKE $1 ESCAPE '\'
		ORDER BY serial_number, id
		LIMIT $2`,
	findByID: `SELECT ` + voterColumns + ` FROM voters WHERE CAST(id AS TEXT) = $1`,
	count:    `SELECT COUNT(*) FROM voters`,
	searchArgs: func(pattern string, limit int) []any {
		return []any{pattern, limit}
	},
}

// SQLite LIKE is case-insensitive for ASCII only.
var sqliteDialect = dialect{
	name: database.DriverSQLite,
	search: `SELECT ` + voterColumns + ` FROM voters
		WHERE name LIKE ? ESCAPE '\' OR father_husband_name LIKE ? ESCAPE '\' OR voter_id LIKE ? ESCAPE '\'
		ORDER BY serial_number, id
		LIMIT ?`,
	findByID: `SELECT ` + voterColumns + ` FROM voters WHERE CAST(id AS TEXT) = ?`,
	count:    `SELECT COUNT(*) FROM voters`,
	searchArgs: func(pattern string, limit int) []any {
		return []any{pattern, pattern, pattern, limit}
	},
}

// SQLStore is the voter roll over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	tracer  trace.Tracer
}

// New creates a store for db opened with the named driver.
func New(db *sql.DB, driver string) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	var d dialect
	switch driver {
	case database.DriverPostgres:
		d = postgresDialect
	case database.DriverSQLite:
		d = sqliteDialect
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	return &SQLStore{db: db, dialect: d, tracer: otel.Tracer("voterfinder/voter/store")}, nil
}

// Search returns voters whose name, father/husband name or voter ID contains
// term, at most limit rows.
func (s *SQLStore) Search(ctx context.Context, term string, limit int) ([]models.Voter, error) {
	ctx, span := s.start(ctx, "voter.store.Search")
	defer span.End()

	pattern := "%" + escapeLike(term) + "%"
	rows, err := s.db.QueryContext(ctx, s.dialect.search, s.dialect.searchArgs(pattern, limit)...)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("search voters: %w", err))
	}
	defer rows.Close()

	voters := make([]models.Voter, 0)
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, s.fail(span, fmt.Errorf("scan voter: %w", err))
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(span, fmt.Errorf("iterate voters: %w", err))
	}
	span.SetAttributes(attribute.Int("db.rows", len(voters)))
	return voters, nil
}

// FindByID returns sentinel.ErrNotFound when no voter has id.
func (s *SQLStore) FindByID(ctx context.Context, id string) (*models.Voter, error) {
	ctx, span := s.start(ctx, "voter.store.FindByID")
	defer span.End()

	v, err := scanVoter(s.db.QueryRowContext(ctx, s.dialect.findByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("voter %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("find voter: %w", err))
	}
	return &v, nil
}

// Count returns the number of voters on the roll.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	ctx, span := s.start(ctx, "voter.store.Count")
	defer span.End()

	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.count).Scan(&n); err != nil {
		return 0, s.fail(span, fmt.Errorf("count voters: %w", err))
	}
	return n, nil
}

func (s *SQLStore) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", s.dialect.name),
		attribute.String("db.sql.table", "voters"),
	))
}

func (s *SQLStore) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "query failed")
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoter(row rowScanner) (models.Voter, error) {
	var (
		v                              models.Voter
		serial, age                    sql.NullInt64
		voterID, name, relative, house sql.NullString
		gender                         sql.NullString
	)
	if err := row.Scan(&v.ID, &serial, &voterID, &name, &relative, &house, &age, &gender); err != nil {
		return models.Voter{}, err
	}
	v.SerialNumber = int(serial.Int64)
	v.VoterID = voterID.String
	v.Name = name.String
	v.FatherHusbandName = relative.String
	v.HouseNumber = house.String
	v.Age = int(age.Int64)
	v.Gender = models.ParseGender(gender.String)
	return v, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
