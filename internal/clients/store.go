package clients

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"viabilidad/internal/engine"
	"viabilidad/internal/property"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
)

// Store persists the client pipeline in SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	max_purchase_price REAL NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'default',
	sort_order INTEGER NOT NULL DEFAULT 0,
	inputs TEXT NOT NULL,
	favorite_property TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_clients_sort_order ON clients(sort_order);
`

// NewStore opens (and creates if needed) the pipeline database at dbPath.
func NewStore(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a new client. The phone number is normalized, the status
// defaults to the first pipeline column, and the record is appended to the
// end of the manual ordering.
func (s *Store) Save(ctx context.Context, client *Client) error {
	if err := client.Validate(); err != nil {
		return err
	}

	client.Phone = NormalizePhone(client.Phone)
	if client.Status == "" {
		client.Status = StatusDefault
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	inputsJSON, favoriteJSON, err := marshalPayload(client)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var maxOrder sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM clients`).Scan(&maxOrder); err != nil {
		return fmt.Errorf("failed to determine sort order: %w", err)
	}
	client.SortOrder = int(maxOrder.Int64) + 1

	result, err := tx.ExecContext(ctx, `
		INSERT INTO clients (name, phone, max_purchase_price, status, sort_order, inputs, favorite_property, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		client.Name, client.Phone, client.MaxPurchasePrice, string(client.Status),
		client.SortOrder, inputsJSON, favoriteJSON, client.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	client.ID = id

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.logger.Debug("client saved",
		zap.String("op", "clients.Save"),
		zap.Int64("id", client.ID),
		zap.String("status", string(client.Status)),
	)
	return nil
}

// Update rewrites an existing client's editable fields (name, phone, price,
// inputs, favorite property). Status and ordering are managed separately.
func (s *Store) Update(ctx context.Context, client *Client) error {
	if err := client.Validate(); err != nil {
		return err
	}
	client.Phone = NormalizePhone(client.Phone)

	inputsJSON, favoriteJSON, err := marshalPayload(client)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE clients
		SET name = ?, phone = ?, max_purchase_price = ?, inputs = ?, favorite_property = ?
		WHERE id = ?`,
		client.Name, client.Phone, client.MaxPurchasePrice, inputsJSON, favoriteJSON, client.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return requireRow(result, client.ID)
}

// Get returns one client by id.
func (s *Store) Get(ctx context.Context, id int64) (*Client, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, max_purchase_price, status, sort_order, inputs, favorite_property, created_at
		FROM clients WHERE id = ?`, id)

	client, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load client %d: %w", id, err)
	}
	return client, nil
}

// List returns all clients ordered by their manual ordering, oldest first
// within the same position.
func (s *Store) List(ctx context.Context) ([]Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, max_purchase_price, status, sort_order, inputs, favorite_property, created_at
		FROM clients ORDER BY sort_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var list []Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		list = append(list, *client)
	}
	return list, rows.Err()
}

// UpdateStatus moves a client to another pipeline column.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}

	result, err := s.db.ExecContext(ctx, `UPDATE clients SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if err := requireRow(result, id); err != nil {
		return err
	}

	s.logger.Debug("client status updated",
		zap.String("op", "clients.UpdateStatus"),
		zap.Int64("id", id),
		zap.String("status", string(status)),
	)
	return nil
}

// Reorder rewrites the manual ordering to match the given id sequence.
func (s *Store) Reorder(ctx context.Context, ids []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for position, id := range ids {
		result, err := tx.ExecContext(ctx, `UPDATE clients SET sort_order = ? WHERE id = ?`, position+1, id)
		if err != nil {
			return fmt.Errorf("failed to reorder client %d: %w", id, err)
		}
		if err := requireRow(result, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a client from the pipeline.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("client %d not found", id)
	}
	return nil
}

func marshalPayload(client *Client) (string, sql.NullString, error) {
	inputsJSON, err := json.Marshal(client.Inputs)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("failed to encode inputs: %w", err)
	}

	var favoriteJSON sql.NullString
	if client.FavoriteProperty != nil {
		data, err := json.Marshal(client.FavoriteProperty)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("failed to encode favorite property: %w", err)
		}
		favoriteJSON = sql.NullString{String: string(data), Valid: true}
	}

	return string(inputsJSON), favoriteJSON, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*Client, error) {
	var (
		client       Client
		status       string
		inputsJSON   string
		favoriteJSON sql.NullString
	)

	err := row.Scan(&client.ID, &client.Name, &client.Phone, &client.MaxPurchasePrice,
		&status, &client.SortOrder, &inputsJSON, &favoriteJSON, &client.CreatedAt)
	if err != nil {
		return nil, err
	}

	client.Status = Status(status)

	var inputs engine.Input
	if err := json.Unmarshal([]byte(inputsJSON), &inputs); err != nil {
		return nil, fmt.Errorf("failed to decode inputs: %w", err)
	}
	client.Inputs = inputs

	if favoriteJSON.Valid {
		var favorite property.Comparison
		if err := json.Unmarshal([]byte(favoriteJSON.String), &favorite); err != nil {
			return nil, fmt.Errorf("failed to decode favorite property: %w", err)
		}
		client.FavoriteProperty = &favorite
	}

	return &client, nil
}
