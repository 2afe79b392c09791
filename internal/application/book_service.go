package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/internal/domain/errs"
	repo "github.com/oksasatya/go-library-rental/internal/domain/repository"
)

// BookService is the catalog side: local book lookups behind a cache,
// search, stock changes and imports from the external catalog.
type BookService struct {
	Repo         repo.BookRepository
	Catalog      CatalogClient
	Cache        BookCache
	Index        BookIndex
	Logger       *logrus.Logger
	DefaultStock int
}

func NewBookService(r repo.BookRepository, catalog CatalogClient, cache BookCache, index BookIndex, logger *logrus.Logger, defaultStock int) *BookService {
	return &BookService{
		Repo:         r,
		Catalog:      catalog,
		Cache:        cache,
		Index:        index,
		Logger:       logger,
		DefaultStock: defaultStock,
	}
}

// GetByExternalID returns the book, reading through the cache when one is set.
func (s *BookService) GetByExternalID(ctx context.Context, externalID int64) (*entity.Book, error) {
	if s.Cache != nil {
		b, ok, err := s.Cache.Get(ctx, externalID)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("book_external_id", externalID).Warn("book cache get failed")
		}
		if ok {
			bookCacheHits.Add(1)
			return b, nil
		}
		bookCacheMisses.Add(1)
	}

	b, err := s.Repo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, b); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("book_external_id", externalID).Warn("book cache set failed")
		}
	}
	return b, nil
}

func (s *BookService) Get(ctx context.Context, externalID int64) (*BookResponse, error) {
	b, err := s.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	out := toBookResponse(b)
	return &out, nil
}

func (s *BookService) List(ctx context.Context) ([]BookResponse, error) {
	bs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BookResponse, 0, len(bs))
	for i := range bs {
		out = append(out, toBookResponse(&bs[i]))
	}
	return out, nil
}

// Search runs a full-text query on title and author. Without an index it
// returns no hits.
func (s *BookService) Search(ctx context.Context, q string, size int) ([]BookHit, error) {
	if s.Index == nil {
		return []BookHit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.Search(ctx, q, size)
}

func (s *BookService) UpdateStock(ctx context.Context, externalID int64, stock int) (*BookResponse, error) {
	if stock < 0 {
		return nil, errs.Validation("stock must not be negative")
	}
	b, err := s.Repo.UpdateStock(ctx, externalID, stock)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, externalID)
	out := toBookResponse(b)
	return &out, nil
}

// ImportFromCatalog upserts every book the catalog lists.
func (s *BookService) ImportFromCatalog(ctx context.Context) (*ImportResult, error) {
	if s.Catalog == nil {
		return nil, errs.Validation("catalog client not configured")
	}
	books, err := s.Catalog.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	res := &ImportResult{}
	for i := range books {
		indexed, err := s.save(ctx, &books[i])
		if err != nil {
			return res, err
		}
		res.Imported++
		if indexed {
			res.Indexed++
		}
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"imported": res.Imported, "indexed": res.Indexed}).Info("catalog import finished")
	}
	return res, nil
}

func (s *BookService) ImportOne(ctx context.Context, externalID int64) (*BookResponse, error) {
	if s.Catalog == nil {
		return nil, errs.Validation("catalog client not configured")
	}
	b, err := s.Catalog.FetchOne(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if _, err := s.save(ctx, b); err != nil {
		return nil, err
	}
	out := toBookResponse(b)
	return &out, nil
}

// save upserts b; new books start with DefaultStock copies all available.
func (s *BookService) save(ctx context.Context, b *entity.Book) (bool, error) {
	if b.Price.IsNegative() {
		return false, errs.Validation("book %d has a negative price", b.ExternalID)
	}
	b.StockQuantity = s.DefaultStock
	b.AvailableQuantity = s.DefaultStock
	if err := s.Repo.Upsert(ctx, b); err != nil {
		return false, err
	}
	booksImported.Add(1)
	s.Invalidate(ctx, b.ExternalID)

	if s.Index == nil {
		return false, nil
	}
	if err := s.Index.Index(ctx, b); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("book_external_id", b.ExternalID).Warn("book index failed")
		}
		return false, nil
	}
	return true, nil
}

// Invalidate drops the cached copy of a book.
func (s *BookService) Invalidate(ctx context.Context, externalID int64) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, externalID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("book_external_id", externalID).Warn("book cache invalidate failed")
	}
}
