package multipart

import (
	"mime"
	"net/http"

	"github.com/intuitivelabs/bytescase"
)

// TryFromRequest inspects req's method and Content-Type and, if it is a
// POST whose media type is multipart/form-data, returns a Reader over
// req.Body. The second return value reports whether the request matched;
// any other request (another method, another media type including other
// multipart subtypes, or no Content-Type) is not an error, ok is simply
// false. If the request is multipart but has no boundary
// parameter, ok is true and err is ErrNoBoundary.
func TryFromRequest(req *http.Request, opts ...ReaderOption) (r *Reader, ok bool, err error) {
	if req.Method != http.MethodPost {
		return nil, false, nil
	}

	ct := req.Header.Get("Content-Type")
	if ct == "" {
		return nil, false, nil
	}

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, false, nil
	}
	if !bytescase.CmpEq([]byte(mediaType), []byte("multipart/form-data")) {
		return nil, false, nil
	}

	boundary, ok := params["boundary"]
	if !ok || boundary == "" {
		return nil, true, ErrNoBoundary
	}

	return NewReader(req.Body, boundary, opts...), true, nil
}
