package node

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ContentTypeFor maps a filename to a MIME type. Unknown extensions fall back
// to sniffing payload; an empty payload yields application/octet-stream.
func ContentTypeFor(filename string, payload []byte) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
				return mediaType
			}
			return ct
		}
	}
	if len(payload) == 0 {
		return "application/octet-stream"
	}
	mediaType, _, err := mime.ParseMediaType(mimetype.Detect(payload).String())
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}
