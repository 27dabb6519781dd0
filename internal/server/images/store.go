// Package images implements the image collaborator: it durably stores
// uploaded bytes and returns the stable name a box record references.
// Serving the stored bytes back is someone else's problem.
package images

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store saves uploaded image bytes and returns the reference name.
type Store interface {
	Save(ctx context.Context, field, contentType string, data []byte) (string, error)
}

// now is a seam for tests.
var now = time.Now

// ObjectName builds the storage name: the upload field name, the creation
// timestamp in milliseconds, and the extension taken from the declared
// content type ("box_image_1693219200000.png").
func ObjectName(field, contentType string) string {
	return fmt.Sprintf("%s_%d.%s", field, now().UnixMilli(), extFromContentType(contentType))
}

func extFromContentType(contentType string) string {
	parts := strings.Split(contentType, "/")
	ext := parts[len(parts)-1]
	if ext == "" {
		return "bin"
	}
	return ext
}
