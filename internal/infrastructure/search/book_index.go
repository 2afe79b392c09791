// Package search indexes books in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/internal/application"
	"github.com/oksasatya/go-library-rental/internal/domain/entity"
)

type BookIndex struct {
	ES        *elasticsearch.Client
	IndexName string
	Logger    *logrus.Logger
}

func NewBookIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *BookIndex {
	return &BookIndex{ES: es, IndexName: index, Logger: logger}
}

type bookDoc struct {
	ExternalID int64  `json:"external_id"`
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	Price      string `json:"price"`
	IndexedAt  string `json:"indexed_at"`
}

func (i *BookIndex) Index(ctx context.Context, b *entity.Book) error {
	body, err := json.Marshal(bookDoc{
		ExternalID: b.ExternalID,
		Title:      b.Title,
		AuthorName: b.AuthorName,
		Price:      b.Price.StringFixed(2),
		IndexedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      i.IndexName,
		DocumentID: strconv.FormatInt(b.ExternalID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index book %d: %s", b.ExternalID, res.Status())
	}
	return nil
}

// SearchQuery is the multi_match body sent for q.
func SearchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^2", "author_name"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
}

func (i *BookIndex) Search(ctx context.Context, q string, size int) ([]application.BookHit, error) {
	body, err := json.Marshal(SearchQuery(q, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := i.ES.Search(
		i.ES.Search.WithContext(c),
		i.ES.Search.WithIndex(i.IndexName),
		i.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if i.Logger != nil {
			i.Logger.WithField("status", res.Status()).Warn("es search response error")
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source bookDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.BookHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, application.BookHit{
			ExternalID: h.Source.ExternalID,
			Title:      h.Source.Title,
			AuthorName: h.Source.AuthorName,
			Price:      h.Source.Price,
			Score:      h.Score,
		})
	}
	return out, nil
}

var booksMapping = `{
  "mappings": {
    "properties": {
      "external_id": {"type": "long"},
      "title":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "author_name": {"type": "text"},
      "price":       {"type": "scaled_float", "scaling_factor": 100},
      "indexed_at":  {"type": "date"}
    }
  }
}`

// EnsureIndex creates the books index with its mapping when it does not exist.
func (i *BookIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := i.ES.Indices.Exists([]string{i.IndexName}, i.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	switch res.StatusCode {
	case 200:
		return nil
	case 404:
	default:
		return fmt.Errorf("es index exists %s: %s", i.IndexName, res.Status())
	}

	res, err = i.ES.Indices.Create(i.IndexName,
		i.ES.Indices.Create.WithContext(c),
		i.ES.Indices.Create.WithBody(strings.NewReader(booksMapping)),
	)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index %s: %s", i.IndexName, res.Status())
	}
	if i.Logger != nil {
		i.Logger.WithField("index", i.IndexName).Info("books index created")
	}
	return nil
}
