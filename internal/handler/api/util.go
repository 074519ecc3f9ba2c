package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fhuszti/movies-ms-go/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse confirms a mutation of the movie identified by Title.
type MessageResponse struct {
	Message string `json:"message"`
	Title   string `json:"title"`
}

func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	ctx := context.Background()
	if err != nil {
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	} else {
		logger.Error(ctx, "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, ErrorResponse{Error: msg})
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to write JSON payload: %v", err)
	}
}

// respondCachedJSON serves a rendered payload with its ETag, or 304 when the
// client already holds it. It reports whether the body was skipped.
func respondCachedJSON(w http.ResponseWriter, r *http.Request, raw []byte, etag string) bool {
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if noneMatch(r.Header.Values("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	RespondRawJSON(w, http.StatusOK, raw)
	return false
}

// noneMatch reports whether any If-None-Match field value matches etag under
// weak comparison. Values are "*" or comma-separated entity-tags.
func noneMatch(values []string, etag string) bool {
	want := opaqueTag(etag)
	for _, v := range values {
		for {
			v = strings.TrimLeft(v, " \t,")
			if v == "" {
				break
			}
			if v[0] == '*' {
				return true
			}
			tag, rest, ok := scanETag(v)
			if !ok {
				break
			}
			if want != "" && opaqueTag(tag) == want {
				return true
			}
			v = rest
		}
	}
	return false
}

// scanETag splits the leading entity-tag off s. Commas are legal inside the
// quotes so the tag cannot be found by splitting on them.
func scanETag(s string) (tag, rest string, ok bool) {
	start := 0
	if strings.HasPrefix(s, "W/") {
		start = 2
	}
	if len(s) <= start || s[start] != '"' {
		return "", "", false
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return "", "", false
	}
	end += start + 2
	return s[:end], s[end:], true
}

// opaqueTag drops the weakness indicator so W/"x" and "x" compare equal.
func opaqueTag(tag string) string {
	tag = strings.TrimSpace(tag)
	return strings.TrimPrefix(tag, "W/")
}
