package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/example/blog-web/internal/config"
	"github.com/example/blog-web/internal/models"
)

type Elastic struct {
	Client *elasticsearch.Client
	Index  string
}

func NewElastic(cfg *config.Config) (*Elastic, error) {
	cfgES := elasticsearch.Config{
		Addresses: []string{cfg.ElasticAddr},
	}
	if cfg.ElasticUsername != "" {
		cfgES.Username = cfg.ElasticUsername
		cfgES.Password = cfg.ElasticPassword
	}
	client, err := elasticsearch.NewClient(cfgES)
	if err != nil {
		return nil, err
	}
	return &Elastic{Client: client, Index: "posts"}, nil
}

func (e *Elastic) EnsurePostsIndex(ctx context.Context) error {
	res, err := e.Client.Indices.Exists([]string{e.Index})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title": map[string]string{"type": "text"},
				"text":  map[string]string{"type": "text"},
			},
		},
	}
	b, _ := json.Marshal(mapping)
	createRes, err := e.Client.Indices.Create(e.Index, e.Client.Indices.Create.WithBody(bytes.NewReader(b)))
	if err != nil {
		return err
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}
	return nil
}

func (e *Elastic) IndexPost(ctx context.Context, post *models.Post) error {
	b, _ := json.Marshal(post)
	req := esapi.IndexRequest{Index: e.Index, DocumentID: fmt.Sprintf("%d", post.ID), Body: bytes.NewReader(b), Refresh: "true"}
	res, err := req.Do(ctx, e.Client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}

func (e *Elastic) DeletePost(ctx context.Context, id uint) error {
	req := esapi.DeleteRequest{Index: e.Index, DocumentID: fmt.Sprintf("%d", id), Refresh: "true"}
	res, err := req.Do(ctx, e.Client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	// A 404 means the document was never indexed; nothing to remove.
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete error: %s", res.String())
	}
	return nil
}

// SearchPosts runs a multi_match query over title and text and returns the
// stored documents.
func (e *Elastic) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title", "text"},
			},
		},
	}
	b, _ := json.Marshal(body)
	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.Index),
		e.Client.Search.WithBody(bytes.NewReader(b)),
		e.Client.Search.WithTrackTotalHits(true),
		e.Client.Search.WithTimeout(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Post `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	results := make([]models.Post, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		results = append(results, h.Source)
	}
	return results, nil
}
