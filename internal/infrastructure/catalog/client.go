// Package catalog talks to the external book catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/internal/domain/errs"
)

// Client reads books from <BaseURL> (all) and <BaseURL>/<id> (one).
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

type bookDTO struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	AuthorName string          `json:"author_name"`
	Price      decimal.Decimal `json:"price"`
}

func (d bookDTO) toEntity() entity.Book {
	return entity.Book{
		ExternalID: d.ID,
		Title:      strings.TrimSpace(d.Title),
		AuthorName: strings.TrimSpace(d.AuthorName),
		Price:      d.Price,
	}
}

func (c *Client) FetchAll(ctx context.Context) ([]entity.Book, error) {
	var dtos []bookDTO
	if err := c.get(ctx, c.BaseURL, &dtos); err != nil {
		return nil, err
	}
	out := make([]entity.Book, 0, len(dtos))
	for _, d := range dtos {
		if d.ID <= 0 {
			continue
		}
		out = append(out, d.toEntity())
	}
	if c.Logger != nil {
		c.Logger.WithField("count", len(out)).Info("fetched books from catalog")
	}
	return out, nil
}

func (c *Client) FetchOne(ctx context.Context, externalID int64) (*entity.Book, error) {
	var d bookDTO
	if err := c.get(ctx, c.BaseURL+"/"+strconv.FormatInt(externalID, 10), &d); err != nil {
		return nil, err
	}
	if d.ID == 0 {
		d.ID = externalID
	}
	b := d.toEntity()
	return &b, nil
}

func (c *Client) get(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errs.NotFound("catalog has no resource at %s", url)
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog %s returned %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}
