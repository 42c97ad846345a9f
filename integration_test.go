package mssqlkit

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"
)

// testEntry is a simple model for integration tests
type testEntry struct {
	bun.BaseModel `bun:"table:entries,alias:e"`
	ID            int64  `bun:"id,pk,autoincrement"`
	Label         string `bun:"label,notnull"`
	Amount        int    `bun:"amount"`
}

// testConnectionString returns the connection string of the server under
// test, skipping the test when none is configured
func testConnectionString(t *testing.T) string {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
	return dbURL
}

// getTestDB returns an administrative handle for testing
func getTestDB(t *testing.T) *MSSQLKit {
	t.Helper()

	db, err := NewAdmin(Config{
		URL:             testConnectionString(t),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		Logger:          slog.Default(),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test server: %v", err)
	}
	return db
}

// testDatabaseName builds a DatabaseName or fails the test
func testDatabaseName(t *testing.T, raw string) DatabaseName {
	t.Helper()

	name, err := NormalizeDatabaseName(raw)
	if err != nil {
		t.Fatalf("NormalizeDatabaseName(%q) failed: %v", raw, err)
	}
	return name
}

// newFixtureDB provisions an empty database and returns a handle connected
// to it. The database is dropped when the test finishes.
func newFixtureDB(t *testing.T, fixture string) *MSSQLKit {
	t.Helper()

	raw := testConnectionString(t)
	admin := getTestDB(t)
	name := testDatabaseName(t, fixture)

	if _, err := admin.DropAndRecreateDatabase(context.Background(), name, DefaultRetryPolicy()); err != nil {
		admin.Close()
		t.Fatalf("Fixture database setup failed: %v", err)
	}

	fixtureURL, err := URLWithDatabase(raw, fixture)
	if err != nil {
		t.Fatalf("URLWithDatabase failed: %v", err)
	}

	db, err := New(DefaultConfig(fixtureURL))
	if err != nil {
		t.Fatalf("Failed to connect to fixture database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		_, _ = admin.TryDropDatabase(context.Background(), name, DefaultRetryPolicy())
		admin.Close()
	})
	return db
}

// createEntries creates the entries table on a fresh fixture database
func createEntries(t *testing.T, db *MSSQLKit) context.Context {
	ctx := context.Background()

	_, err := db.NewCreateTable().Model((*testEntry)(nil)).Exec(ctx)
	if err != nil {
		t.Fatalf("Failed to create test table: %v", err)
	}
	return ctx
}

func TestDetachAttach(t *testing.T) {
	raw := testConnectionString(t)

	// An explicit admin connection string makes the attach fall back to
	// the layout name, whatever catalog the test URL happens to point at.
	adminURL, err := AdminURL(raw)
	if err != nil {
		t.Fatalf("AdminURL failed: %v", err)
	}
	admin, err := NewAdmin(DefaultConfig(adminURL))
	if err != nil {
		t.Fatalf("Failed to connect to test server: %v", err)
	}
	defer admin.Close()

	ctx := context.Background()
	name := testDatabaseName(t, "mssqlkit_test_detach")
	policy := DefaultRetryPolicy()

	if _, err := admin.DropAndRecreateDatabase(ctx, name, policy); err != nil {
		t.Fatalf("Fixture setup failed: %v", err)
	}
	defer admin.TryDropDatabase(ctx, name, policy)

	layout, err := admin.DetachDatabase(ctx, name, policy)
	if err != nil {
		t.Fatalf("DetachDatabase failed: %v", err)
	}
	if !layout.Name.Equal(name) {
		t.Errorf("Layout should carry the database name, got %s", layout.Name)
	}
	if len(layout.Files) < 2 {
		t.Fatalf("Expected at least data and log files, got %d", len(layout.Files))
	}
	for _, f := range layout.Files {
		if f.Kind == "" || f.Path == "" {
			t.Errorf("Layout file is incomplete: %+v", f)
		}
	}

	exists, err := admin.DatabaseExists(ctx, name)
	if err != nil {
		t.Fatalf("DatabaseExists failed: %v", err)
	}
	if exists {
		t.Fatal("Database should be deregistered after detach")
	}

	// Detaching a database the server no longer knows is an error.
	if _, err := admin.DetachDatabase(ctx, name, policy); !IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}

	attached, err := admin.AttachDatabase(ctx, layout)
	if err != nil {
		t.Fatalf("AttachDatabase failed: %v", err)
	}
	if !attached.Equal(name) {
		t.Errorf("Expected attach under %s, got %s", name, attached)
	}

	exists, err = admin.DatabaseExists(ctx, name)
	if err != nil {
		t.Fatalf("DatabaseExists failed: %v", err)
	}
	if !exists {
		t.Fatal("Database should be registered again after attach")
	}

	state, err := admin.DatabaseState(ctx, name)
	if err != nil {
		t.Fatalf("DatabaseState failed: %v", err)
	}
	if state != "ONLINE" {
		t.Errorf("Expected ONLINE after attach, got %s", state)
	}
}

func TestAttachUnderConnectionStringName(t *testing.T) {
	raw := testConnectionString(t)
	ctx := context.Background()
	policy := DefaultRetryPolicy()

	source := testDatabaseName(t, "mssqlkit_test_attach_src")
	renamed := testDatabaseName(t, "mssqlkit_test_attach_dst")

	adminURL, err := AdminURL(raw)
	if err != nil {
		t.Fatalf("AdminURL failed: %v", err)
	}
	admin, err := NewAdmin(DefaultConfig(adminURL))
	if err != nil {
		t.Fatalf("Failed to connect to test server: %v", err)
	}
	defer admin.Close()

	if _, err := admin.DropAndRecreateDatabase(ctx, source, policy); err != nil {
		t.Fatalf("Fixture setup failed: %v", err)
	}
	defer admin.TryDropDatabase(ctx, source, policy)
	if _, err := admin.TryDropDatabase(ctx, renamed, policy); err != nil {
		t.Fatalf("Destination cleanup failed: %v", err)
	}
	defer admin.TryDropDatabase(ctx, renamed, policy)

	layout, err := admin.DetachDatabase(ctx, source, policy)
	if err != nil {
		t.Fatalf("DetachDatabase failed: %v", err)
	}

	// A handle whose connection string names a catalog attaches under
	// that name, not the layout's.
	overrideURL, err := URLWithDatabase(raw, renamed.String())
	if err != nil {
		t.Fatalf("URLWithDatabase failed: %v", err)
	}
	override, err := NewAdmin(DefaultConfig(overrideURL))
	if err != nil {
		t.Fatalf("Failed to connect to test server: %v", err)
	}
	defer override.Close()

	attached, err := override.AttachDatabase(ctx, layout)
	if err != nil {
		t.Fatalf("AttachDatabase failed: %v", err)
	}
	if !attached.Equal(renamed) {
		t.Errorf("Expected attach under %s, got %s", renamed, attached)
	}

	exists, err := admin.DatabaseExists(ctx, renamed)
	if err != nil {
		t.Fatalf("DatabaseExists failed: %v", err)
	}
	if !exists {
		t.Error("Database should exist under the connection string name")
	}

	exists, err = admin.DatabaseExists(ctx, source)
	if err != nil {
		t.Fatalf("DatabaseExists failed: %v", err)
	}
	if exists {
		t.Error("Nothing should exist under the source name")
	}
}

func TestListDatabases(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	ctx := context.Background()
	infos, err := db.ListDatabases(ctx)
	if err != nil {
		t.Fatalf("ListDatabases failed: %v", err)
	}
	if len(infos) == 0 {
		t.Fatal("Expected at least the system catalogs")
	}

	var master *DatabaseInfo
	for i := range infos {
		if strings.EqualFold(infos[i].Name, AdminDatabase) {
			master = &infos[i]
			break
		}
	}
	if master == nil {
		t.Fatal("master should be listed")
	}
	if master.ID != 1 {
		t.Errorf("master should be database 1, got %d", master.ID)
	}
	if master.State != "ONLINE" {
		t.Errorf("master should be ONLINE, got %s", master.State)
	}
	if master.RecoveryModel == "" {
		t.Error("Recovery model should not be empty")
	}
	if master.CreatedAt.IsZero() {
		t.Error("Creation date should be set")
	}
}

func TestDatabaseState_NotFound(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	_, err := db.DatabaseState(context.Background(), testDatabaseName(t, "mssqlkit_test_absent"))
	if !IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestExecHelpers(t *testing.T) {
	db := newFixtureDB(t, "mssqlkit_test_exec")
	ctx := createEntries(t, db)

	affected, err := ExecuteNonQuery(ctx, db, "INSERT INTO entries (label, amount) VALUES (?, ?)", "widget", 10)
	if err != nil {
		t.Fatalf("ExecuteNonQuery failed: %v", err)
	}
	if affected != 1 {
		t.Errorf("Expected 1 row affected, got %d", affected)
	}

	if _, err := ExecuteNonQuery(ctx, db, "INSERT INTO entries (label, amount) VALUES (?, ?)", "gadget", 20); err != nil {
		t.Fatalf("ExecuteNonQuery failed: %v", err)
	}

	count, err := ExecuteScalar[int](ctx, db, "SELECT COUNT(*) FROM entries")
	if err != nil {
		t.Fatalf("ExecuteScalar failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows, got %d", count)
	}

	label, err := ExecuteScalar[string](ctx, db, "SELECT label FROM entries WHERE amount = ?", 20)
	if err != nil {
		t.Fatalf("ExecuteScalar failed: %v", err)
	}
	if label != "gadget" {
		t.Errorf("Expected 'gadget', got %q", label)
	}

	rows, err := ExecuteReader(ctx, db, "SELECT label FROM entries ORDER BY amount")
	if err != nil {
		t.Fatalf("ExecuteReader failed: %v", err)
	}
	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Row iteration failed: %v", err)
	}
	rows.Close()
	if len(labels) != 2 || labels[0] != "widget" || labels[1] != "gadget" {
		t.Errorf("Unexpected labels: %v", labels)
	}

	entries, err := Query[testEntry](ctx, db, "SELECT id, label, amount FROM entries ORDER BY amount DESC")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Label != "gadget" || entries[0].Amount != 20 {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}

	one, err := QueryOne[testEntry](ctx, db, "SELECT id, label, amount FROM entries WHERE label = ?", "widget")
	if err != nil {
		t.Fatalf("QueryOne failed: %v", err)
	}
	if one.Amount != 10 {
		t.Errorf("Expected amount 10, got %d", one.Amount)
	}

	if _, err := QueryOne[testEntry](ctx, db, "SELECT id, label, amount FROM entries WHERE label = ?", "missing"); !IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestTargetResolution(t *testing.T) {
	raw := testConnectionString(t)

	db := getTestDB(t)
	defer db.Close()

	// NewAdmin remembers the catalog the connection string named while
	// connecting to the admin database itself.
	want, err := TargetDatabase(raw)
	if err != nil {
		t.Fatalf("TargetDatabase failed: %v", err)
	}
	if db.Target() != want {
		t.Errorf("Expected target %q, got %q", want, db.Target())
	}

	var current string
	if err := db.QueryRowContext(context.Background(), "SELECT DB_NAME()").Scan(&current); err != nil {
		t.Fatalf("DB_NAME query failed: %v", err)
	}
	if !strings.EqualFold(current, AdminDatabase) {
		t.Errorf("Administrative handle should sit in %s, got %s", AdminDatabase, current)
	}
}
