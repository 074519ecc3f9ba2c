package movie

import (
	"strings"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/port"
)

// AllowedMimeTypes is the single allow-list for every upload path.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"video/mp4":  true,
}

func IsMimeTypeAllowed(mimeType string) bool {
	return AllowedMimeTypes[mimeType]
}

// IsMimeTypeAllowedForRole also requires the family to match the slot.
func IsMimeTypeAllowedForRole(role port.AssetRole, mimeType string) bool {
	if !IsMimeTypeAllowed(mimeType) {
		return false
	}
	switch role {
	case port.RoleImage:
		return strings.HasPrefix(mimeType, "image/")
	case port.RoleVideo:
		return strings.HasPrefix(mimeType, "video/")
	}
	return false
}

// ListCacheKey is the cache key of the full collection listing. Title keys live
// under their own prefix so no title can collide with it.
const ListCacheKey = "list"

// TitleCacheKey is the cache key of the matches for one normalized title.
func TitleCacheKey(normalized string) string {
	return "title:" + normalized
}

// MovieAssetsPrefix holds one namespace per record.
const MovieAssetsPrefix = "movies/"

// StandaloneNamespace holds files sent to the bare upload endpoint.
const StandaloneNamespace = "uploads"

// Options tunes the write use cases.
type Options struct {
	RequireImage  bool
	RequireVideo  bool
	StoreTimeout  time.Duration
	UploadTimeout time.Duration
}
