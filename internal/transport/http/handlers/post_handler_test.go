package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/blog-web/internal/models"
	"github.com/example/blog-web/internal/service"
	transport "github.com/example/blog-web/internal/transport/http"
)

type fakeStore struct {
	nextID uint
	posts  map[uint]models.Post
}

func newFakeStore() *fakeStore { return &fakeStore{nextID: 1, posts: make(map[uint]models.Post)} }

func (f *fakeStore) Create(_ context.Context, p *models.Post) error {
	p.ID = f.nextID
	f.nextID++
	f.posts[p.ID] = *p
	return nil
}

func (f *fakeStore) Update(_ context.Context, p *models.Post) error {
	if _, ok := f.posts[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.posts[p.ID] = *p
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uint) error {
	if _, ok := f.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uint) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeStore) ListPage(_ context.Context, offset, limit int) ([]models.Post, int64, error) {
	ids := make([]uint, 0, len(f.posts))
	for id := range f.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var page []models.Post
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(page) == limit {
			break
		}
		page = append(page, f.posts[id])
	}
	return page, int64(len(ids)), nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, uint) (*models.Post, bool, error) { return nil, false, nil }
func (nopCache) Set(context.Context, *models.Post) error               { return nil }
func (nopCache) Invalidate(context.Context, uint) error                { return nil }

type fakeIndex struct{ docs map[uint]models.Post }

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: make(map[uint]models.Post)} }

func (f *fakeIndex) IndexPost(_ context.Context, post *models.Post) error {
	f.docs[post.ID] = *post
	return nil
}

func (f *fakeIndex) DeletePost(_ context.Context, id uint) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) SearchPosts(_ context.Context, query string) ([]models.Post, error) {
	var hits []models.Post
	for _, p := range f.docs {
		if strings.Contains(p.Title, query) || strings.Contains(p.Text, query) {
			hits = append(hits, p)
		}
	}
	return hits, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newFakeStore()
	svc := service.NewPostService(store, nopCache{}, newFakeIndex())
	templates := filepath.Join("..", "..", "..", "..", "templates", "*.html")
	static := filepath.Join("..", "..", "..", "..", "static")
	return transport.NewRouter(svc, templates, static), store
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestListEmpty(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no posts yet")
}

func TestCreateThenList(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/", url.Values{"title": {"T"}, "text": {"X"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "T")
	assert.Contains(t, w.Body.String(), "X")
}

func TestCreateIgnoresSuppliedID(t *testing.T) {
	r, store := newTestRouter(t)

	w := postForm(r, "/", url.Values{"id": {"99"}, "title": {"T"}, "text": {"X"}})
	assert.Equal(t, http.StatusFound, w.Code)

	_, err := store.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	p, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "T", p.Title)
}

func TestListPagination(t *testing.T) {
	r, _ := newTestRouter(t)
	for i := 0; i < 7; i++ {
		postForm(r, "/", url.Values{"title": {"post"}, "text": {"body"}})
	}

	w := get(r, "/?page=2&posts_per_page=5")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "page 2 of 2")
	assert.Contains(t, body, `href="/6"`)
	assert.Contains(t, body, `href="/7"`)
	assert.NotContains(t, body, `href="/5"`)
}

func TestListClampsBadPageParam(t *testing.T) {
	r, _ := newTestRouter(t)
	postForm(r, "/", url.Values{"title": {"only"}, "text": {"one"}})

	for _, q := range []string{"/?page=0", "/?page=-2", "/?page=garbage"} {
		w := get(r, q)
		assert.Equal(t, http.StatusOK, w.Code, q)
		assert.Contains(t, w.Body.String(), "page 1 of 1", q)
	}
}

func TestNewForm(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(r, "/new")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/"`)
}

func TestEditShowsPost(t *testing.T) {
	r, _ := newTestRouter(t)
	postForm(r, "/", url.Values{"title": {"editable"}, "text": {"body"}})

	w := get(r, "/1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "editable")
	assert.Contains(t, w.Body.String(), `action="/1"`)
}

func TestEditMissingPost(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(r, "/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "/999")
}

func TestUpdatePreservesID(t *testing.T) {
	r, store := newTestRouter(t)
	postForm(r, "/", url.Values{"title": {"old"}, "text": {"body"}})

	w := postForm(r, "/1", url.Values{"title": {"New"}, "text": {"body"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	p, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.ID)
	assert.Equal(t, "New", p.Title)
}

func TestUpdateMissingPost(t *testing.T) {
	r, _ := newTestRouter(t)
	w := postForm(r, "/42", url.Values{"title": {"x"}, "text": {"y"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	r, store := newTestRouter(t)
	postForm(r, "/", url.Values{"title": {"doomed"}, "text": {"body"}})

	w := postForm(r, "/delete/1", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	_, err := store.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	w = postForm(r, "/delete/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchPage(t *testing.T) {
	r, _ := newTestRouter(t)
	postForm(r, "/", url.Values{"title": {"needle in a"}, "text": {"haystack"}})
	postForm(r, "/", url.Values{"title": {"other"}, "text": {"post"}})

	w := get(r, "/search?q=needle")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "needle in a")
	assert.NotContains(t, w.Body.String(), "other")
}

func TestNotFoundFallback(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(r, "/does-not-exist/at-all")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "/does-not-exist/at-all")
}

func TestUpdateRoundTripIdempotent(t *testing.T) {
	r, store := newTestRouter(t)
	postForm(r, "/", url.Values{"title": {"T"}, "text": {"X"}})

	before, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)

	w := postForm(r, "/1", url.Values{"title": {before.Title}, "text": {before.Text}})
	assert.Equal(t, http.StatusFound, w.Code)

	after, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	listing := get(r, "/")
	assert.Contains(t, listing.Body.String(), "T")
	assert.Contains(t, listing.Body.String(), "X")
}
