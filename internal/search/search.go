// Package search builds the on-disk bleve search index over published
// content. It runs in the best-effort tail of a build; failures surface as
// warnings, never build failures.
package search

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"

	"github.com/polysite/polysite/internal/content"
	"github.com/polysite/polysite/internal/enrich"
)

// Document is the indexed shape of one content item.
type Document struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	Language string   `json:"language"`
	Type     string   `json:"type"`
	URL      string   `json:"url"`
}

// BuildIndex writes a fresh index at path, replacing any previous one.
func BuildIndex(path string, items []*content.Content) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove previous search index: %w", err)
	}

	mapping := bleve.NewIndexMapping()
	index, err := bleve.New(path, mapping)
	if err != nil {
		return fmt.Errorf("create search index: %w", err)
	}
	defer index.Close()

	batch := index.NewBatch()
	for _, c := range items {
		url, _ := c.Metadata["url"].(string)
		doc := Document{
			Title:    c.Title,
			Body:     enrich.StripTags(c.Body),
			Tags:     c.Tags,
			Language: c.Language,
			Type:     c.Type(),
			URL:      url,
		}
		id := c.Language + ":" + c.Type() + ":" + c.Slug
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("index %s: %w", id, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return fmt.Errorf("commit search index batch: %w", err)
	}
	return nil
}

// Query runs a match query against an existing index, returning document IDs
// in relevance order. The dev server uses this for its /search endpoint.
func Query(path, query string, limit int) ([]string, error) {
	index, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	defer index.Close()

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit
	res, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
