package multipart_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	multipart "github.com/zostay/go-multipart-stream"
	"github.com/zostay/go-multipart-stream/header"
)

func TestReaderEmptyBodyHasNoParts(t *testing.T) {
	r := multipart.NewReader(strings.NewReader(""), "XYZ")
	_, err := r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderSingleField(t *testing.T) {
	body := "--XYZ\r\n" +
		"Content-Disposition: form-data; name=\"title\"\r\n" +
		"\r\n" +
		"hello world\r\n" +
		"--XYZ--"
	r := multipart.NewReader(strings.NewReader(body), "XYZ")

	p, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "title", p.Header.Name)

	text, err := p.Text()
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderMultipleFieldsAndFileUpload(t *testing.T) {
	body := "--XYZ\r\n" +
		"Content-Disposition: form-data; name=\"title\"\r\n" +
		"\r\n" +
		"my title\r\n" +
		"--XYZ\r\n" +
		"Content-Disposition: form-data; name=\"upload\"; filename=\"a.txt\"\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"file contents here\r\n" +
		"--XYZ--"
	r := multipart.NewReader(strings.NewReader(body), "XYZ")

	p1, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "title", p1.Header.Name)
	text, err := p1.Text()
	require.NoError(t, err)
	assert.Equal(t, "my title", text)

	p2, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "upload", p2.Header.Name)
	assert.Equal(t, "a.txt", p2.Header.Filename)
	assert.Equal(t, "text/plain", p2.Header.ContentType)
	text2, err := p2.Text()
	require.NoError(t, err)
	assert.Equal(t, "file contents here", text2)

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderSkipsUnreadPartBody(t *testing.T) {
	body := "--XYZ\r\n" +
		"Content-Disposition: form-data; name=\"a\"\r\n" +
		"\r\n" +
		"this part is never read\r\n" +
		"--XYZ\r\n" +
		"Content-Disposition: form-data; name=\"b\"\r\n" +
		"\r\n" +
		"second\r\n" +
		"--XYZ--"
	r := multipart.NewReader(strings.NewReader(body), "XYZ")

	_, err := r.NextPart()
	require.NoError(t, err)
	// Deliberately don't read p1's body.

	p2, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "b", p2.Header.Name)
	text, err := p2.Text()
	require.NoError(t, err)
	assert.Equal(t, "second", text)
}

func TestReaderPartialReadsViaReadMethod(t *testing.T) {
	body := "--XYZ\r\n" +
		"Content-Disposition: form-data; name=\"a\"\r\n" +
		"\r\n" +
		"0123456789\r\n" +
		"--XYZ--"
	r := multipart.NewReader(strings.NewReader(body), "XYZ")
	p, err := r.NextPart()
	require.NoError(t, err)

	buf := make([]byte, 3)
	var got []byte
	for {
		n, err := p.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, "0123456789", string(got))
}

func TestReaderMissingClosingBoundaryIsMalformed(t *testing.T) {
	body := "--XYZ\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\nabc"
	r := multipart.NewReader(strings.NewReader(body), "XYZ")
	_, err := r.NextPart()
	require.NoError(t, err)
	_, err = r.NextPart()
	assert.Error(t, err)
}

func TestReaderMissingFieldNameIsError(t *testing.T) {
	body := "--XYZ\r\nContent-Type: text/plain\r\n\r\nabc\r\n--XYZ--"
	r := multipart.NewReader(strings.NewReader(body), "XYZ")
	_, err := r.NextPart()
	assert.ErrorIs(t, err, header.ErrMissingFieldName)
}

func TestReaderNonUTF8TextReturnsError(t *testing.T) {
	body := "--XYZ\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n" +
		string([]byte{0xff, 0xfe}) + "\r\n--XYZ--"
	r := multipart.NewReader(strings.NewReader(body), "XYZ")
	p, err := r.NextPart()
	require.NoError(t, err)
	_, err = p.Text()
	assert.ErrorIs(t, err, multipart.ErrNonUTF8FieldData)
}

func TestReaderHeaderTooLarge(t *testing.T) {
	longName := strings.Repeat("a", 100)
	body := "--XYZ\r\nContent-Disposition: form-data; name=\"" + longName + "\"\r\n\r\nbody\r\n--XYZ--"
	r := multipart.NewReader(strings.NewReader(body), "XYZ", multipart.WithMaxHeaderBytes(32))
	_, err := r.NextPart()
	assert.ErrorIs(t, err, header.ErrHeadersTooLarge)
}

func TestReaderMaxPartBytes(t *testing.T) {
	body := "--XYZ\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n0123456789\r\n--XYZ--"
	r := multipart.NewReader(strings.NewReader(body), "XYZ", multipart.WithMaxPartBytes(4))
	p, err := r.NextPart()
	require.NoError(t, err)
	_, err = p.Text()
	assert.ErrorIs(t, err, multipart.ErrPartTooLarge)
}

func TestReaderExtensionHeaderRoundTrip(t *testing.T) {
	body := "--XYZ\r\n" +
		"Content-Disposition: form-data; name=\"a\"\r\n" +
		"X-Request-Id: abc123\r\n" +
		"\r\n" +
		"data\r\n--XYZ--"
	r := multipart.NewReader(strings.NewReader(body), "XYZ")
	p, err := r.NextPart()
	require.NoError(t, err)
	v, ok := p.Header.Get("X-Request-Id")
	require.True(t, ok)
	assert.Equal(t, "abc123", v)
}
