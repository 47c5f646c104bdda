package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"

	"pairtrack/internal/board"
	"pairtrack/internal/catalog"
	"pairtrack/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// storeVersion marks the snapshot layout. On mismatch the entire snapshot is
// discarded and reseeded from the embedded catalog; there is no incremental
// migration path for board data.
const storeVersion = 4

// Store manages board persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the board database, applies the schema,
// and reconciles the snapshot version (reseeding when it does not match).
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "board.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.ensureSnapshot(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// GetByID fetches a pair by row identifier. A missing row returns nil.
func (s *Store) GetByID(ctx context.Context, id int64) (*board.Pair, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pairColumns+` FROM pairs WHERE id = ?`, id)
	pair, err := scanPair(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pair: %w", err)
	}
	return pair, nil
}

// GetByNumber fetches a pair by its board number. A missing row returns nil.
func (s *Store) GetByNumber(ctx context.Context, pairNumber int) (*board.Pair, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pairColumns+` FROM pairs WHERE pair_number = ?`, pairNumber)
	pair, err := scanPair(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pair by number: %w", err)
	}
	return pair, nil
}

// List returns pairs filtered by stage set (or all pairs when no stage is
// provided), ordered by pair number.
func (s *Store) List(ctx context.Context, stages ...board.Stage) ([]*board.Pair, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + pairColumns + ` FROM pairs`
	orderClause := ` ORDER BY pair_number`

	if len(stages) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(stages))
		args := make([]any, len(stages))
		for i, stage := range stages {
			args[i] = string(stage)
		}
		query := baseQuery + ` WHERE stage IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	defer rows.Close()

	var pairs []*board.Pair
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

// Update persists a full pair row. Stage changes recorded through Update do
// not append history; use Patch for audited transitions.
func (s *Store) Update(ctx context.Context, pair *board.Pair) error {
	if pair == nil {
		return errors.New("pair is nil")
	}
	pair.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE pairs
         SET type = ?, description = ?, instructions = ?, notes = ?, assignee = ?,
             stage = ?, video_a_uploaded = ?, video_b_uploaded = ?,
             qa_camera_position = ?, qa_lighting = ?, qa_one_change = ?,
             qa_duration = ?, qa_resolution = ?, qa_naming = ?,
             drive_folder = ?, client_folder = ?, delivered = ?, due_date = ?,
             updated_at = ?
         WHERE id = ?`,
		string(pair.Type),
		nullableString(pair.Description),
		nullableString(pair.Instructions),
		nullableString(pair.Notes),
		nullableString(pair.Assignee),
		string(pair.Stage),
		boolToInt(pair.VideoAUploaded),
		boolToInt(pair.VideoBUploaded),
		boolToInt(pair.QAChecklist.CameraPosition),
		boolToInt(pair.QAChecklist.Lighting),
		boolToInt(pair.QAChecklist.OneChange),
		boolToInt(pair.QAChecklist.Duration),
		boolToInt(pair.QAChecklist.Resolution),
		boolToInt(pair.QAChecklist.Naming),
		nullableString(pair.DriveFolder),
		nullableString(pair.ClientFolder),
		boolToInt(pair.Delivered),
		nullableString(pair.DueDate),
		pair.UpdatedAt.Format(time.RFC3339Nano),
		pair.ID,
	)
	if err != nil {
		return fmt.Errorf("update pair: %w", err)
	}
	return nil
}

// Stats returns a count of pairs grouped by stage.
func (s *Store) Stats(ctx context.Context) (map[board.Stage]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stage, COUNT(1) FROM pairs GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("board stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[board.Stage]int)
	for rows.Next() {
		var stage board.Stage
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		stats[stage] = count
	}
	return stats, rows.Err()
}

// Summary aggregates board state for status output.
func (s *Store) Summary(ctx context.Context) (board.Summary, error) {
	pairs, err := s.List(ctx)
	if err != nil {
		return board.Summary{}, err
	}
	flat := make([]board.Pair, len(pairs))
	for i, pair := range pairs {
		flat[i] = *pair
	}
	return board.Summarize(flat), nil
}

const pairColumns = "id, pair_number, type, description, instructions, notes, assignee, stage, video_a_uploaded, video_b_uploaded, qa_camera_position, qa_lighting, qa_one_change, qa_duration, qa_resolution, qa_naming, drive_folder, client_folder, delivered, due_date, created_at, updated_at"

func scanPair(scanner interface{ Scan(dest ...any) error }) (*board.Pair, error) {
	var (
		id           int64
		pairNumber   int
		typeStr      string
		description  sql.NullString
		instructions sql.NullString
		notes        sql.NullString
		assignee     sql.NullString
		stageStr     string
		videoA       sql.NullInt64
		videoB       sql.NullInt64
		qaCamera     sql.NullInt64
		qaLighting   sql.NullInt64
		qaOneChange  sql.NullInt64
		qaDuration   sql.NullInt64
		qaResolution sql.NullInt64
		qaNaming     sql.NullInt64
		driveFolder  sql.NullString
		clientFolder sql.NullString
		delivered    sql.NullInt64
		dueDate      sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&pairNumber,
		&typeStr,
		&description,
		&instructions,
		&notes,
		&assignee,
		&stageStr,
		&videoA,
		&videoB,
		&qaCamera,
		&qaLighting,
		&qaOneChange,
		&qaDuration,
		&qaResolution,
		&qaNaming,
		&driveFolder,
		&clientFolder,
		&delivered,
		&dueDate,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	pair := &board.Pair{
		ID:             id,
		PairNumber:     pairNumber,
		Type:           board.PairType(typeStr),
		Description:    description.String,
		Instructions:   instructions.String,
		Notes:          notes.String,
		Assignee:       assignee.String,
		Stage:          board.Stage(stageStr),
		VideoAUploaded: videoA.Int64 != 0,
		VideoBUploaded: videoB.Int64 != 0,
		QAChecklist: board.QAChecklist{
			CameraPosition: qaCamera.Int64 != 0,
			Lighting:       qaLighting.Int64 != 0,
			OneChange:      qaOneChange.Int64 != 0,
			Duration:       qaDuration.Int64 != 0,
			Resolution:     qaResolution.Int64 != 0,
			Naming:         qaNaming.Int64 != 0,
		},
		DriveFolder:  driveFolder.String,
		ClientFolder: clientFolder.String,
		Delivered:    delivered.Int64 != 0,
		DueDate:      dueDate.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		pair.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		pair.UpdatedAt = updated
	}
	return pair, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func seedPairs(ctx context.Context, tx *sql.Tx) error {
	pairs, err := catalog.Load()
	if err != nil {
		return err
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for _, pair := range pairs {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO pairs (
                pair_number, type, description, instructions, due_date,
                stage, drive_folder, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pair.PairNumber,
			string(pair.Type),
			nullableString(pair.Description),
			nullableString(pair.Instructions),
			nullableString(pair.DueDate),
			string(pair.Stage),
			nullableString(pair.DriveFolder),
			timestamp,
			timestamp,
		)
		if err != nil {
			return fmt.Errorf("seed pair %d: %w", pair.PairNumber, err)
		}
	}
	return nil
}
