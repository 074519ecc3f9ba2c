package movie

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
)

// memRepo is an in-memory document store. With unique set it rejects a second
// record with the same normalized title, like the real backends.
type memRepo struct {
	mu      sync.Mutex
	unique  bool
	seq     int
	records map[string]map[string]any
	order   []string

	queryErr  error
	insertErr error
	updateErr error
	deleteErr error
	getAllErr error
	onDelete  func()

	// queried and blockQuery let concurrent tests line callers up after the
	// duplicate check.
	queried    chan struct{}
	blockQuery chan struct{}
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[string]map[string]any{}}
}

func (r *memRepo) seed(m *model.Movie) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("id-%d", r.seq)
	r.records[id] = m.Document()
	r.order = append(r.order, id)
	return id
}

func (r *memRepo) Insert(_ context.Context, m *model.Movie) (string, error) {
	if r.insertErr != nil {
		return "", r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unique {
		for _, doc := range r.records {
			if doc[model.FieldNormalizedTitle] == m.NormalizedTitle {
				return "", ErrDuplicate
			}
		}
	}
	r.seq++
	id := fmt.Sprintf("id-%d", r.seq)
	r.records[id] = m.Document()
	r.order = append(r.order, id)
	return id, nil
}

func (r *memRepo) QueryEquals(_ context.Context, field, value string) ([]*model.Movie, error) {
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	r.mu.Lock()
	var out []*model.Movie
	for _, id := range r.order {
		doc := r.records[id]
		if v, ok := doc[field]; ok && fmt.Sprint(v) == value {
			out = append(out, model.MovieFromDocument(id, copyDoc(doc)))
		}
	}
	r.mu.Unlock()
	if r.blockQuery != nil {
		r.queried <- struct{}{}
		<-r.blockQuery
	}
	return out, nil
}

func (r *memRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.records[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	if r.onDelete != nil {
		r.onDelete()
	}
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return ErrNotFound
	}
	delete(r.records, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memRepo) GetAll(_ context.Context) ([]*model.Movie, error) {
	if r.getAllErr != nil {
		return nil, r.getAllErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Movie, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, model.MovieFromDocument(id, copyDoc(r.records[id])))
	}
	return out, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func copyDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

const testBaseURL = "http://assets.test/peliculas/"

// memStorage keeps uploaded blobs in memory. failUpload makes uploads of paths
// with the given suffix fail.
type memStorage struct {
	mu         sync.Mutex
	objects    map[string]port.StoredObject
	uploads    []string
	deletes    []string
	failUpload string
	uploadErr  error
	deleteErr  error
	listErr    error
	listPrefix string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string]port.StoredObject{}}
}

func (s *memStorage) put(path string, modified time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = port.StoredObject{Path: path, LastModified: modified}
}

func (s *memStorage) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok
}

func (s *memStorage) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for p := range s.objects {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s *memStorage) InitBucket(context.Context) error { return nil }

func (s *memStorage) Upload(_ context.Context, path string, body io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, path)
	if s.uploadErr != nil && (s.failUpload == "" || strings.HasSuffix(path, s.failUpload)) {
		return "", s.uploadErr
	}
	s.objects[path] = port.StoredObject{Path: path, LastModified: time.Now()}
	return s.PublicURL(path), nil
}

func (s *memStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, path)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.objects[path]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, path)
	return nil
}

func (s *memStorage) ListByPrefix(_ context.Context, prefix string) ([]port.StoredObject, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listPrefix = prefix
	var out []port.StoredObject
	for p, o := range s.objects {
		if strings.HasPrefix(p, prefix) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memStorage) PublicURL(path string) string { return testBaseURL + path }

func (s *memStorage) PathFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, testBaseURL) || len(url) == len(testBaseURL) {
		return "", false
	}
	return strings.TrimPrefix(url, testBaseURL), true
}

type recordingDispatcher struct {
	mu      sync.Mutex
	batches [][]string
	err     error
}

func (d *recordingDispatcher) EnqueueAssetCleanup(_ context.Context, paths []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batches = append(d.batches, append([]string(nil), paths...))
	return d.err
}

func (d *recordingDispatcher) all() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for _, b := range d.batches {
		out = append(out, b...)
	}
	return out
}

type recordingCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *recordingCache) GetMovies(context.Context, string) ([]byte, error)     { return nil, nil }
func (c *recordingCache) GetEtagMovies(context.Context, string) (string, error) { return "", nil }
func (c *recordingCache) SetMovies(context.Context, string, []byte, time.Duration) {
}
func (c *recordingCache) SetEtagMovies(context.Context, string, string, time.Duration) {
}
func (c *recordingCache) DeleteMovies(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, keys...)
	return nil
}

func upload(name, contentType string) *port.AssetUpload {
	body := "content of " + name
	return &port.AssetUpload{FileName: name, ContentType: contentType, SizeBytes: int64(len(body)), Body: strings.NewReader(body)}
}

func intPtr(i int) *int { return &i }

// seedOwned stores a record that owns namespace ns, as created by this service.
func seedOwned(repo *memRepo, title, ns, image, video string) string {
	return repo.seed(&model.Movie{
		PrimaryTitle:    title,
		NormalizedTitle: NormalizeTitle(title),
		ImageURL:        image,
		VideoURL:        video,
		AssetNamespace:  ns,
	})
}

// assertAssetPath checks that url points at a unique object for fileName under ns.
func assertAssetPath(t *testing.T, url, ns, fileName string) string {
	t.Helper()
	p := strings.TrimPrefix(url, testBaseURL)
	if p == url || !strings.HasPrefix(p, ns+"/") || !strings.HasSuffix(p, "-"+fileName) {
		t.Errorf("url %q is not an object for %q under %q", url, fileName, ns)
	}
	if strings.Count(strings.TrimPrefix(p, ns+"/"), "/") != 0 {
		t.Errorf("url %q nests below %q", url, ns)
	}
	return p
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func portRole(s string) port.AssetRole { return port.AssetRole(s) }
