// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jordanlanch/leaddesk/pkg/database"
	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

// Open returns a fresh migrated database closed when the test ends
func Open(t testing.TB) *database.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:leaddesk_%d?mode=memory&cache=shared&_fk=1", seq.Add(1))
	client, err := database.NewClient("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Migrate(context.Background()))
	return client
}
