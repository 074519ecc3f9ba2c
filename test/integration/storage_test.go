package integration

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/fhuszti/movies-ms-go/test/testutil"
)

func TestMinioStorageIntegration(t *testing.T) {
	tb, err := testutil.SetupTestBucket(GlobalMinioClient)
	if err != nil {
		t.Fatalf("setup bucket: %v", err)
	}
	defer func() { _ = tb.Cleanup() }()
	strg := tb.Strg
	ctx := context.Background()

	content := testutil.GeneratePNG(t, 4, 4)
	url, err := strg.Upload(ctx, "Pelicula 1/poster.png", bytes.NewReader(content), int64(len(content)), "image/png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != strg.PublicURL("Pelicula 1/poster.png") {
		t.Errorf("url = %q; want %q", url, strg.PublicURL("Pelicula 1/poster.png"))
	}
	if p, ok := strg.PathFromURL(url); !ok || p != "Pelicula 1/poster.png" {
		t.Errorf("PathFromURL = %q, %v", p, ok)
	}

	// the bucket is public-read, the URL must serve the bytes as uploaded
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !bytes.Equal(body, content) {
		t.Fatalf("GET %s: status %d, %d bytes", url, resp.StatusCode, len(body))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q; want image/png", ct)
	}

	mp4 := testutil.GenerateMP4()
	if _, err := strg.Upload(ctx, "Pelicula 1/trailer.mp4", bytes.NewReader(mp4), int64(len(mp4)), "video/mp4"); err != nil {
		t.Fatalf("Upload video: %v", err)
	}
	if _, err := strg.Upload(ctx, "Pelicula 10/poster.png", bytes.NewReader(content), int64(len(content)), "image/png"); err != nil {
		t.Fatalf("Upload other: %v", err)
	}

	objs, err := strg.ListByPrefix(ctx, "Pelicula 1/")
	if err != nil {
		t.Fatalf("ListByPrefix: %v", err)
	}
	var paths []string
	for _, o := range objs {
		paths = append(paths, o.Path)
		if o.LastModified.IsZero() {
			t.Errorf("object %q has no LastModified", o.Path)
		}
	}
	sort.Strings(paths)
	if len(paths) != 2 || paths[0] != "Pelicula 1/poster.png" || paths[1] != "Pelicula 1/trailer.mp4" {
		t.Fatalf("ListByPrefix = %v", paths)
	}

	if err := strg.Delete(ctx, "Pelicula 1/poster.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	keys, err := testutil.ObjectKeys(GlobalMinioClient, tb.Name)
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "Pelicula 1/trailer.mp4" || keys[1] != "Pelicula 10/poster.png" {
		t.Fatalf("remaining keys = %v", keys)
	}
}
