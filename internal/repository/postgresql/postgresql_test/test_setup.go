package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies db/schema.sql.
// The test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.applySchema(ctx))
	require.NoError(t, setup.TruncateAllTables(ctx))

	t.Cleanup(setup.Close)
	return setup
}

func (s *TestDatabaseSetup) applySchema(ctx context.Context) error {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "db", "schema.sql")

	schema, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if _, err := s.DB.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// TruncateAllTables removes every row, children first.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"leave_requests",
		"attendances",
		"employees",
		"users",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// InsertUser seeds a user row and, when managerID is non-empty or entitlement
// is positive, its employee row.
func (s *TestDatabaseSetup) InsertUser(t *testing.T, role string, managerID string, entitlement int) string {
	t.Helper()
	ctx := context.Background()

	id := uuid.NewString()
	_, err := s.DB.Exec(ctx,
		`INSERT INTO users (id, email, full_name, role) VALUES ($1, $2, $3, $4)`,
		id, id+"@example.com", "User "+id[:8], role,
	)
	require.NoError(t, err)

	if managerID == "" && entitlement <= 0 {
		return id
	}

	var manager *string
	if managerID != "" {
		manager = &managerID
	}
	if entitlement <= 0 {
		entitlement = 25
	}
	_, err = s.DB.Exec(ctx,
		`INSERT INTO employees (id, user_id, employee_code, full_name, manager_id, leave_days_entitlement)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), id, "EMP-"+id[:8], "User "+id[:8], manager, entitlement,
	)
	require.NoError(t, err)
	return id
}

// Close closes the pool.
func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
