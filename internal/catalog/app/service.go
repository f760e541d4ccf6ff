package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/riceschool/storefront/internal/catalog/domain"
)

// Service owns the current catalog snapshot. Refreshes replace it wholesale;
// overlapping refreshes are resolved by a generation counter so a slow early
// fetch can never clobber a newer one.
type Service struct {
	fetcher Fetcher
	log     *slog.Logger

	mu         sync.Mutex
	catalog    domain.Catalog
	loaded     bool
	nextGen    uint64
	appliedGen uint64

	listeners []func()
}

func NewService(fetcher Fetcher, log *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		log:     log,
		catalog: domain.NewCatalog(nil),
	}
}

// OnChange registers a callback invoked after the catalog is replaced.
// Not safe to call concurrently with Refresh; register during wiring.
func (s *Service) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// Catalog returns the current snapshot.
func (s *Service) Catalog() domain.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// Loaded reports whether at least one fetch has succeeded.
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Refresh fetches the product list and swaps in a new catalog. It never
// panics; a failed fetch keeps the previous snapshot (empty on first load)
// and reports the error so the caller can surface a non-blocking notice.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	products, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.mu.Lock()
		superseded := s.appliedGen > gen
		s.mu.Unlock()
		if superseded {
			// A later refresh already succeeded; the catalog is fresh,
			// so this failure is not worth surfacing.
			s.log.Debug("ignoring failure of superseded catalog fetch", slog.Uint64("gen", gen))
			return nil
		}
		s.log.Warn("catalog fetch failed on every tier", slog.Any("err", err))
		return err
	}

	s.mu.Lock()
	if gen < s.appliedGen {
		// A later refresh already landed, drop this one.
		s.mu.Unlock()
		s.log.Debug("discarding stale catalog fetch", slog.Uint64("gen", gen))
		return nil
	}
	s.appliedGen = gen
	s.catalog = domain.NewCatalog(products)
	s.loaded = true
	listeners := s.listeners
	s.mu.Unlock()

	s.log.Info("catalog refreshed", slog.Int("products", len(products)))
	for _, fn := range listeners {
		fn()
	}
	return nil
}
