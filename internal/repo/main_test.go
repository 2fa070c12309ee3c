package repo_test

import (
	"os"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/packlist/testutil"
)

// TestMain applies the migrations once for the whole test binary. Without a
// test database every test in this package skips.
func TestMain(m *testing.M) {
	testutil.MigrateUp()
	os.Exit(m.Run())
}

// newTestTx gives each test its own rolled-back transaction.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	return testutil.NewTx(t)
}
