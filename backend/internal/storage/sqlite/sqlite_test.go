package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/itchan-dev/msgboard/backend/internal/storage/storagetest"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Storage {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	st, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStorage(t *testing.T) {
	storagetest.Run(t, newTestStore(t))
}

func TestMigrationsRunOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.db")

	st, err := Open(path)
	require.NoError(t, err)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.CreateThread(context.Background(), domain.Thread{
		Id: "t1", Board: "test", Text: "kept", CreatedOn: created, BumpedOn: created, DeletePassword: "h",
	}))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	var version int
	require.NoError(t, st.db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version))
	assert.Equal(t, len(migrations), version)

	got, err := st.GetThread(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Text)
	assert.Empty(t, got.Replies, "nil replies are stored as an empty list")
}
