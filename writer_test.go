package multipart_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	multipart "github.com/zostay/go-multipart-stream"
)

func TestWriterWriteFieldAndClose(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.SetBoundary("XYZ"))

	require.NoError(t, w.WriteField("title", "hello world"))
	require.NoError(t, w.Close())

	got := buf.String()
	assert.True(t, strings.HasPrefix(got, "--XYZ\r\n"))
	assert.Contains(t, got, `Content-Disposition: form-data; name="title"`)
	assert.Contains(t, got, "hello world")
	assert.True(t, strings.HasSuffix(got, "--XYZ--"))
}

func TestWriterCreateFormFile(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.SetBoundary("XYZ"))

	fw, err := w.CreateFormFile("upload", "a.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("file contents"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got := buf.String()
	assert.Contains(t, got, `name="upload"; filename="a.txt"`)
	assert.Contains(t, got, "Content-Type: application/octet-stream")
	assert.Contains(t, got, "file contents")
}

func TestWriterWithBoundaryOption(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf, multipart.WithBoundary("FROMOPT"))

	require.NoError(t, w.WriteField("a", "1"))
	require.NoError(t, w.Close())

	assert.Equal(t, "FROMOPT", w.Boundary())
	assert.True(t, strings.HasPrefix(buf.String(), "--FROMOPT\r\n"))
}

func TestWriterSetBoundaryAfterStartFails(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("a", "1"))
	assert.Error(t, w.SetBoundary("NEW"))
}

func TestWriterDoubleCloseFails(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), multipart.ErrWriterClosed)
}

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	require.NoError(t, w.WriteField("title", "my title"))

	fw, err := w.CreateFormFile("upload", "a.bin")
	require.NoError(t, err)
	_, err = fw.Write([]byte("binary payload"))
	require.NoError(t, err)

	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())

	p1, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "title", p1.Header.Name)
	text, err := p1.Text()
	require.NoError(t, err)
	assert.Equal(t, "my title", text)

	p2, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "upload", p2.Header.Name)
	assert.Equal(t, "a.bin", p2.Header.Filename)
	text2, err := p2.Text()
	require.NoError(t, err)
	assert.Equal(t, "binary payload", text2)

	_, err = r.NextPart()
	assert.Error(t, err)
}

func TestWriterGzipRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	gw, err := w.CreateFormFileGzip("upload", "a.txt.gz")
	require.NoError(t, err)
	_, err = gw.Write([]byte("compress me please"))
	require.NoError(t, err)

	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())
	p, err := r.NextPart()
	require.NoError(t, err)

	enc, ok := p.Header.Get("X-Content-Encoding")
	require.True(t, ok)
	assert.Equal(t, "gzip", enc)

	cte, ok := p.Header.Get("Content-Transfer-Encoding")
	require.True(t, ok)
	assert.Equal(t, "binary", cte)

	var body bytes.Buffer
	_, err = p.WriteTo(&body)
	require.NoError(t, err)
	assert.NotEqual(t, "compress me please", body.String())
	assert.NotZero(t, body.Len())
}
