package sqlite

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobReadWrite(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE blobs (id INTEGER PRIMARY KEY, data BLOB)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO blobs (id, data) VALUES (1, zeroblob(5))"))

	b, err := conn.OpenBlob("blobs", "data", 1, BlobReadWrite)
	require.NoError(t, err)
	defer b.Close()

	require.Equal(t, 5, b.Len())

	n, err := b.WriteAt([]byte("hello"), 0)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	buf := make([]byte, 5)
	n, err = b.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(buf))
}

func TestBlobShortReadEOF(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE blobs (id INTEGER PRIMARY KEY, data BLOB)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO blobs (id, data) VALUES (1, zeroblob(3))"))

	b, err := conn.OpenBlob("blobs", "data", 1, BlobReadOnly)
	require.NoError(t, err)
	defer b.Close()

	buf := make([]byte, 10)
	n, err := b.ReadAt(buf, 0)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 3, n)
}

func TestBlobReopen(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE blobs (id INTEGER PRIMARY KEY, data BLOB)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO blobs (id, data) VALUES (1, 'aaaa'), (2, 'bbbb')"))

	b, err := conn.OpenBlob("blobs", "data", 1, BlobReadOnly)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Reopen(2))

	buf := make([]byte, 4)
	_, err = b.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "bbbb", string(buf))
}

func TestBlobCloseIdempotent(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE blobs (id INTEGER PRIMARY KEY, data BLOB)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO blobs (id, data) VALUES (1, zeroblob(1))"))

	b, err := conn.OpenBlob("blobs", "data", 1, BlobReadOnly)
	require.NoError(t, err)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, err = b.ReadAt(make([]byte, 1), 0)
	require.ErrorIs(t, err, ErrUseAfterClose)
}

// TestBlobCloseReleasesEngineHandle asserts the *first* Close call actually
// releases the underlying sqlite3_blob: an open blob handle holds a lock on
// its row that blocks a schema change on the table, so DROP TABLE must
// fail while the handle is open and succeed once Close has run once.
func TestBlobCloseReleasesEngineHandle(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE blobs (id INTEGER PRIMARY KEY, data BLOB)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO blobs (id, data) VALUES (1, zeroblob(1))"))

	b, err := conn.OpenBlob("blobs", "data", 1, BlobReadOnly)
	require.NoError(t, err)

	require.Error(t, conn.ExecRaw("DROP TABLE blobs"), "table must be locked while the blob handle is open")

	require.NoError(t, b.Close())
	require.NoError(t, conn.ExecRaw("DROP TABLE blobs"), "table must unlock after the first Close call")
}
