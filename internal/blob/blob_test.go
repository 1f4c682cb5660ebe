package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.bin")
	want := []byte("0123456789")
	require.NoError(t, os.WriteFile(path, want, 0o600))

	a, err := ReadFile(context.Background(), path, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", a.ContentType)

	got, err := a.Bytes()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got, 10)
}

func TestReadFileAsync_DeliversOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	ch := ReadFileAsync(context.Background(), path, "")
	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.True(t, strings.HasPrefix(res.Attachment.ContentType, "text/plain"))

	_, ok = <-ch
	assert.False(t, ok, "channel must be closed after the result")
}

func TestReadFile_MissingFileLeavesNothing(t *testing.T) {
	a, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "absent"), "")
	require.Error(t, err)
	assert.True(t, a.IsZero())
}

func TestRead_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, err := Read(ctx, strings.NewReader("data"), "x.txt", "")
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, a.IsZero())
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/png", DetectContentType("a.bin", "image/png", nil))
	assert.Equal(t, "application/pdf", DetectContentType("report.pdf", "", nil))

	png := []byte("\x89PNG\r\n\x1a\n0000")
	assert.Equal(t, "image/png", DetectContentType("noext", "", png))
}

func TestCheckPair(t *testing.T) {
	assert.NoError(t, CheckPair("", ""))
	assert.NoError(t, CheckPair("QQ==", "text/plain"))
	assert.True(t, errors.Is(CheckPair("QQ==", ""), ErrUnpaired))
	assert.True(t, errors.Is(CheckPair("", "text/plain"), ErrUnpaired))
}

func TestSize_MatchesDecodedLength(t *testing.T) {
	for n := 0; n < 40; n++ {
		payload := Encode(make([]byte, n))
		assert.Equal(t, int64(n), Size(payload), "length %d", n)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{10, "10 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 30, "5.0 GB"},
		{1048524, "1023.9 KB"},
		{1048575, "1.0 MB"},
		{1073741823, "1.0 GB"},
		{1<<40 - 1, "1.0 TB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in))
	}
}

func TestByteSize_Monotonic(t *testing.T) {
	prev := int64(-1)
	for n := 0; n < 3000; n += 7 {
		size := Size(Encode(make([]byte, n)))
		assert.GreaterOrEqual(t, size, prev)
		prev = size
	}
	assert.Equal(t, "1.0 KB", ByteSize(Encode(make([]byte, 1024))))
}

func TestFormatSize_NeverPrintsFullUnit(t *testing.T) {
	for _, n := range []int64{1<<20 - 1, 1<<30 - 1, 1<<40 - 1, 1<<50 - 1} {
		assert.NotContains(t, FormatSize(n), "1024.0", n)
	}
	for n := int64(1<<20 - 2048); n < 1<<20+2048; n += 37 {
		assert.NotContains(t, FormatSize(n), "1024.0", n)
	}
}

func TestSize_MalformedPayloadIsNotNegative(t *testing.T) {
	assert.Equal(t, int64(0), Size("="))
	assert.Equal(t, int64(0), Size("=="))
	assert.Equal(t, "x/y, 0 B", Attachment{Content: "=", ContentType: "x/y"}.Summary())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Attachment{}.Summary())
	assert.Equal(t, "text/plain, 10 B", New("", "text/plain", []byte("0123456789")).Summary())
}

func TestDataURI(t *testing.T) {
	a := New("", "text/plain", []byte("hi"))
	uri, err := a.DataURI()
	require.NoError(t, err)
	assert.Equal(t, "data:text/plain;base64,aGk=", uri)

	_, err = Attachment{}.DataURI()
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Attachment{Content: "aGk="}.DataURI()
	assert.ErrorIs(t, err, ErrUnpaired)
}

func TestWriteTemp(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTemp(dir, "report.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "report-"))
	assert.Equal(t, ".pdf", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestWriteTemp_UnnamedUnknownType(t *testing.T) {
	path, err := WriteTemp(t.TempDir(), "", "application/x-unknown-type", []byte{1})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "blob-"))
	assert.Empty(t, filepath.Ext(path))
}
