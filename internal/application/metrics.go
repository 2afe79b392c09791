package application

import "expvar"

// Counters exposed on /api/debug/vars.
var (
	reservationsCreated  = expvar.NewInt("reservations_created")
	reservationsReturned = expvar.NewInt("reservations_returned")
	reservationConflicts = expvar.NewInt("reservation_conflicts")
	eventPublishFailures = expvar.NewInt("event_publish_failures")
	bookCacheHits        = expvar.NewInt("book_cache_hits")
	bookCacheMisses      = expvar.NewInt("book_cache_misses")
	booksImported        = expvar.NewInt("books_imported")
)
