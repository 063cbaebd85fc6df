package service

import (
	"context"

	"github.com/example/blog-web/internal/models"
)

// DefaultPostsPerPage matches the listing page size used when the client
// does not ask for one.
const DefaultPostsPerPage = 5

// Store is the persistence surface the service needs. Implemented by
// repository.PostRepository over Postgres; tests use an in-memory fake.
type Store interface {
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListPage(ctx context.Context, offset, limit int) ([]models.Post, int64, error)
}

// Cache holds single posts keyed by id. Implemented by cache.PostCache.
type Cache interface {
	Get(ctx context.Context, id uint) (*models.Post, bool, error)
	Set(ctx context.Context, post *models.Post) error
	Invalidate(ctx context.Context, id uint) error
}

// Indexer maintains the full-text index. Implemented by search.Elastic.
type Indexer interface {
	IndexPost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
}

type PostService struct {
	store Store
	cache Cache
	index Indexer
}

func NewPostService(store Store, cache Cache, index Indexer) *PostService {
	return &PostService{store: store, cache: cache, index: index}
}

// Page is one slice of the listing plus the pagination context the
// templates render.
type Page struct {
	Posts        []models.Post
	Page         int
	PostsPerPage int
	NumPages     int
	PrevPage     int
	NextPage     int
	HasPrev      bool
	HasNext      bool
}

// List returns the page-th slice (1-based) of all posts ordered ascending
// by id. Out-of-range parameters are clamped: page to 1, postsPerPage to
// the default.
func (s *PostService) List(ctx context.Context, page, postsPerPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if postsPerPage < 1 {
		postsPerPage = DefaultPostsPerPage
	}
	posts, total, err := s.store.ListPage(ctx, (page-1)*postsPerPage, postsPerPage)
	if err != nil {
		return nil, err
	}
	numPages := int((total + int64(postsPerPage) - 1) / int64(postsPerPage))
	prev := page - 1
	if prev < 1 {
		prev = 1
	}
	next := page + 1
	if next > numPages {
		next = numPages
	}
	return &Page{
		Posts:        posts,
		Page:         page,
		PostsPerPage: postsPerPage,
		NumPages:     numPages,
		PrevPage:     prev,
		NextPage:     next,
		HasPrev:      page > 1,
		HasNext:      page < numPages,
	}, nil
}

// Get reads a post through the cache.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	if post, found, err := s.cache.Get(ctx, id); err == nil && found {
		return post, nil
	}
	post, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, post)
	return post, nil
}

// Create inserts a new post; the store assigns the id. Search indexing is
// best effort and never fails the request.
func (s *PostService) Create(ctx context.Context, title, text string) (*models.Post, error) {
	post := &models.Post{Title: title, Text: text}
	if err := s.store.Create(ctx, post); err != nil {
		return nil, err
	}
	_ = s.index.IndexPost(ctx, post)
	return post, nil
}

// Update replaces title and text of the post with the given id, keeping
// the id itself. The cache entry is invalidated and the document
// re-indexed.
func (s *PostService) Update(ctx context.Context, id uint, title, text string) (*models.Post, error) {
	post := &models.Post{ID: id, Title: title, Text: text}
	if err := s.store.Update(ctx, post); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, id)
	_ = s.index.IndexPost(ctx, post)
	return post, nil
}

// Delete removes the post with the given id, its cache entry and its
// search document.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, id)
	_ = s.index.DeletePost(ctx, id)
	return nil
}

// Search runs a full-text query over title and text.
func (s *PostService) Search(ctx context.Context, query string) ([]models.Post, error) {
	return s.index.SearchPosts(ctx, query)
}
