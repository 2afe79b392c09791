package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/internal/domain/errs"
	repo "github.com/oksasatya/go-library-rental/internal/domain/repository"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]entity.User
}

func newMemUsers(users ...entity.User) *memUsers {
	m := &memUsers{byID: map[int64]entity.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	u.UpdatedAt = u.CreatedAt
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, errs.NotFound("user %d not found", id)
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errs.NotFound("user with email %s not found", email)
}

func (m *memUsers) List(_ context.Context) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return errs.NotFound("user %d not found", u.ID)
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return errs.NotFound("user %d not found", id)
	}
	delete(m.byID, id)
	return nil
}

type memBooks struct {
	mu     sync.Mutex
	nextID int64
	byExt  map[int64]entity.Book
}

func newMemBooks(books ...entity.Book) *memBooks {
	m := &memBooks{byExt: map[int64]entity.Book{}}
	for _, b := range books {
		m.byExt[b.ExternalID] = b
		if b.ID > m.nextID {
			m.nextID = b.ID
		}
	}
	return m
}

func (m *memBooks) available(ext int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byExt[ext].AvailableQuantity
}

func (m *memBooks) GetByExternalID(_ context.Context, ext int64) (*entity.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byExt[ext]
	if !ok {
		return nil, errs.NotFound("book %d not found", ext)
	}
	return &b, nil
}

func (m *memBooks) List(_ context.Context) ([]entity.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Book, 0, len(m.byExt))
	for _, b := range m.byExt {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}

func (m *memBooks) Upsert(_ context.Context, b *entity.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.byExt[b.ExternalID]; ok {
		cur.Title, cur.AuthorName, cur.Price = b.Title, b.AuthorName, b.Price
		m.byExt[b.ExternalID] = cur
		*b = cur
		return nil
	}
	m.nextID++
	b.ID = m.nextID
	m.byExt[b.ExternalID] = *b
	return nil
}

func (m *memBooks) UpdateStock(_ context.Context, ext int64, stock int) (*entity.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byExt[ext]
	if !ok {
		return nil, errs.NotFound("book %d not found", ext)
	}
	avail := b.AvailableQuantity + (stock - b.StockQuantity)
	if avail < 0 {
		return nil, errs.Conflict("book %d has more copies rented than the new stock", ext)
	}
	b.StockQuantity, b.AvailableQuantity = stock, avail
	m.byExt[ext] = b
	return &b, nil
}

func (m *memBooks) DecrementAvailable(_ context.Context, ext int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byExt[ext]
	if !ok || b.AvailableQuantity <= 0 {
		return errs.Conflict("book %d is not available", ext)
	}
	b.AvailableQuantity--
	m.byExt[ext] = b
	return nil
}

func (m *memBooks) IncrementAvailable(_ context.Context, ext int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byExt[ext]
	if !ok {
		return errs.NotFound("book %d not found", ext)
	}
	b.AvailableQuantity++
	m.byExt[ext] = b
	return nil
}

type memReservations struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]entity.Reservation
	createErr error
}

func newMemReservations() *memReservations {
	return &memReservations{byID: map[int64]entity.Reservation{}}
}

func (m *memReservations) put(r entity.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID > m.nextID {
		m.nextID = r.ID
	}
	m.byID[r.ID] = r
}

func (m *memReservations) Create(_ context.Context, r *entity.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Date(2025, 11, 14, 10, 0, 0, 0, time.UTC)
	r.UpdatedAt = r.CreatedAt
	m.byID[r.ID] = *r
	return nil
}

func (m *memReservations) Update(_ context.Context, r *entity.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[r.ID]
	if !ok || cur.Status != entity.ReservationActive {
		return errs.Conflict("reservation %d already returned", r.ID)
	}
	m.byID[r.ID] = *r
	return nil
}

func (m *memReservations) GetByID(_ context.Context, id int64) (*entity.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, errs.NotFound("reservation %d not found", id)
	}
	return &r, nil
}

func (m *memReservations) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Reservation, error) {
	return m.GetByID(ctx, id)
}

func (m *memReservations) filter(keep func(r *entity.Reservation) bool) []entity.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Reservation, 0)
	for _, r := range m.byID {
		if keep(&r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memReservations) List(_ context.Context) ([]entity.Reservation, error) {
	return m.filter(func(*entity.Reservation) bool { return true }), nil
}

func (m *memReservations) ListByUser(_ context.Context, userID int64) ([]entity.Reservation, error) {
	return m.filter(func(r *entity.Reservation) bool { return r.UserID == userID }), nil
}

func (m *memReservations) ListByStatus(_ context.Context, st entity.ReservationStatus) ([]entity.Reservation, error) {
	return m.filter(func(r *entity.Reservation) bool { return r.Status == st }), nil
}

func (m *memReservations) ListOverdue(_ context.Context, today time.Time) ([]entity.Reservation, error) {
	return m.filter(func(r *entity.Reservation) bool { return r.IsOverdue(today) }), nil
}

// memUoW restores both stores when fn fails.
type memUoW struct {
	books        *memBooks
	reservations *memReservations
	commits      int
	rollbacks    int
}

func (u *memUoW) Do(ctx context.Context, fn func(ctx context.Context, repos repo.TxRepositories) error) error {
	u.books.mu.Lock()
	books := make(map[int64]entity.Book, len(u.books.byExt))
	for k, v := range u.books.byExt {
		books[k] = v
	}
	u.books.mu.Unlock()

	u.reservations.mu.Lock()
	res := make(map[int64]entity.Reservation, len(u.reservations.byID))
	for k, v := range u.reservations.byID {
		res[k] = v
	}
	nextID := u.reservations.nextID
	u.reservations.mu.Unlock()

	if err := fn(ctx, repo.TxRepositories{Books: u.books, Reservations: u.reservations}); err != nil {
		u.books.mu.Lock()
		u.books.byExt = books
		u.books.mu.Unlock()
		u.reservations.mu.Lock()
		u.reservations.byID = res
		u.reservations.nextID = nextID
		u.reservations.mu.Unlock()
		u.rollbacks++
		return err
	}
	u.commits++
	return nil
}

type memCache struct {
	items       map[int64]entity.Book
	invalidated []int64
}

func newMemCache() *memCache { return &memCache{items: map[int64]entity.Book{}} }

func (c *memCache) Get(_ context.Context, ext int64) (*entity.Book, bool, error) {
	b, ok := c.items[ext]
	if !ok {
		return nil, false, nil
	}
	return &b, true, nil
}

func (c *memCache) Set(_ context.Context, b *entity.Book) error {
	c.items[b.ExternalID] = *b
	return nil
}

func (c *memCache) Invalidate(_ context.Context, ext int64) error {
	delete(c.items, ext)
	c.invalidated = append(c.invalidated, ext)
	return nil
}

type recordingPublisher struct {
	events []ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev ReservationEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type memReportStore struct {
	name        string
	contentType string
	body        []byte
}

func (s *memReportStore) Upload(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.name, s.contentType, s.body = name, contentType, buf.Bytes()
	return "https://storage.googleapis.com/reports/" + name, nil
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type stubCatalog struct {
	books []entity.Book
	err   error
}

func (c *stubCatalog) FetchAll(context.Context) ([]entity.Book, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := make([]entity.Book, len(c.books))
	copy(out, c.books)
	return out, nil
}

func (c *stubCatalog) FetchOne(_ context.Context, ext int64) (*entity.Book, error) {
	for _, b := range c.books {
		if b.ExternalID == ext {
			return &b, nil
		}
	}
	return nil, errs.NotFound("book %d not found in catalog", ext)
}

type stubIndex struct {
	indexed []int64
	hits    []BookHit
	err     error
}

func (i *stubIndex) Index(_ context.Context, b *entity.Book) error {
	if i.err != nil {
		return i.err
	}
	i.indexed = append(i.indexed, b.ExternalID)
	return nil
}

func (i *stubIndex) Search(_ context.Context, _ string, size int) ([]BookHit, error) {
	if len(i.hits) > size {
		return i.hits[:size], nil
	}
	return i.hits, nil
}

var errBoom = errors.New("boom")
