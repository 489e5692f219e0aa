package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtensionApiDelegatesToConn(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	ext := &ExtensionApi{conn: conn}

	require.Same(t, conn, ext.Connection())
	require.GreaterOrEqual(t, ext.Version(), 3034000)

	require.True(t, ext.AutoCommit()) // autocommit is true outside of a transaction
	require.NoError(t, conn.ExecRaw("BEGIN"))
	require.False(t, ext.AutoCommit())
	require.NoError(t, conn.ExecRaw("ROLLBACK"))
}

func TestExtensionApiLimit(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	ext := &ExtensionApi{conn: conn}

	require.Equal(t, 10, ext.Limit(LIMIT_ATTACHED)) // 10 is the engine default

	prior := ext.SetLimit(LIMIT_ATTACHED, 5)
	require.Equal(t, 10, prior)
	require.Equal(t, 5, ext.Limit(LIMIT_ATTACHED))
}

func TestRegisterNamedStoresEntryPoint(t *testing.T) {
	// go_sqlite3_extension_init is only reachable from the C-level
	// sqlite3_auto_extension entry point; RegisterNamed/Register are
	// exercised directly here since that entry point needs a real
	// loadable-extension host to invoke.
	RegisterNamed("test-controlled-failure", func(api *ExtensionApi) (ErrorCode, error) {
		return SQLITE_ERROR, errUnused
	})
	_, found := extensions["test-controlled-failure"]
	require.True(t, found)
}

var errUnused = &EngineError{Code: SQLITE_ERROR, Message: "test: controlled failure"}
