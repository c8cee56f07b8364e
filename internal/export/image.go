// Package export encodes rendered chart images for embedding in printable
// reports.
package export

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// ArrayBufferToBase64 encodes an image byte buffer as standard base64.
func ArrayBufferToBase64(buf []byte) string {
	return base64.StdEncoding.EncodeToString(buf)
}

// ImageDataURI returns buf as a data URI, e.g. "data:image/png;base64,...".
// The MIME type is sniffed from the buffer contents.
func ImageDataURI(buf []byte) string {
	mime := http.DetectContentType(buf)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + ArrayBufferToBase64(buf)
}
