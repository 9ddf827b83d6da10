// Package memory provides an in-process store with the same contracts as the
// PostgreSQL repositories: unique keys, foreign keys, additive stock updates
// and transactions that restore a snapshot on error. It backs the demo mode
// (STORAGE=memory) and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"stockdesk/internal/core/tx"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/product"
	"stockdesk/internal/domain/purchase"
	"stockdesk/internal/domain/thirdparty"
)

// Store holds every table.
type Store struct {
	mu    sync.Mutex
	clock func() time.Time

	catalogs map[catalog.Kind][]catalog.Entry

	products  map[int64]*product.Product
	parties   map[int64]*thirdparty.ThirdParty
	purchases map[int64]*purchase.Purchase
	lines     map[int64]purchase.Line

	nextProduct  int64
	nextParty    int64
	nextPurchase int64
	nextLine     int64

	// failures maps an operation name to an error returned by its next call
	failures map[string]error
}

// NewStore creates an empty store seeded with catalog.Defaults.
func NewStore() *Store {
	return &Store{
		clock:        time.Now,
		catalogs:     catalog.Defaults(),
		products:     make(map[int64]*product.Product),
		parties:      make(map[int64]*thirdparty.ThirdParty),
		purchases:    make(map[int64]*purchase.Purchase),
		lines:        make(map[int64]purchase.Line),
		nextProduct:  1,
		nextParty:    1,
		nextPurchase: 1,
		nextLine:     1,
		failures:     make(map[string]error),
	}
}

// SetClock replaces the clock used for store-side timestamps.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// FailNext makes the next call of op return err. Operation names are the
// repository method names prefixed by table, e.g. "product.AdjustStock".
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// injected returns and clears a pending failure. Caller holds mu.
func (s *Store) injected(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// Counts returns row counts per table, for tests and the seed summary.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"producto":      len(s.products),
		"tercero":       len(s.parties),
		"compra":        len(s.purchases),
		"detallecompra": len(s.lines),
	}
}

// snapshot is a deep copy of the mutable tables.
type snapshot struct {
	products     map[int64]*product.Product
	parties      map[int64]*thirdparty.ThirdParty
	purchases    map[int64]*purchase.Purchase
	lines        map[int64]purchase.Line
	nextProduct  int64
	nextParty    int64
	nextPurchase int64
	nextLine     int64
}

func (s *Store) takeSnapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		products:     make(map[int64]*product.Product, len(s.products)),
		parties:      make(map[int64]*thirdparty.ThirdParty, len(s.parties)),
		purchases:    make(map[int64]*purchase.Purchase, len(s.purchases)),
		lines:        make(map[int64]purchase.Line, len(s.lines)),
		nextProduct:  s.nextProduct,
		nextParty:    s.nextParty,
		nextPurchase: s.nextPurchase,
		nextLine:     s.nextLine,
	}
	for id, p := range s.products {
		snap.products[id] = cloneProduct(p)
	}
	for id, t := range s.parties {
		snap.parties[id] = cloneParty(t)
	}
	for id, p := range s.purchases {
		snap.purchases[id] = clonePurchase(p)
	}
	for id, l := range s.lines {
		snap.lines[id] = l
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = snap.products
	s.parties = snap.parties
	s.purchases = snap.purchases
	s.lines = snap.lines
	s.nextProduct = snap.nextProduct
	s.nextParty = snap.nextParty
	s.nextPurchase = snap.nextPurchase
	s.nextLine = snap.nextLine
}

// Compile-time check that TxManager implements tx.Manager interface.
var _ tx.Manager = (*TxManager)(nil)

// TxManager gives all-or-nothing semantics by snapshotting the store before
// the outermost call and restoring it if fn fails.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager over store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

type txKey struct{}

// RunInTransaction executes fn; nested calls join the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTransaction(ctx) {
		return fn(ctx)
	}

	snap := m.store.takeSnapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// InTransaction reports whether ctx carries a memory transaction.
func InTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func cloneProduct(p *product.Product) *product.Product {
	c := *p
	if p.Barcode != nil {
		v := *p.Barcode
		c.Barcode = &v
	}
	if p.CategoryID != nil {
		v := *p.CategoryID
		c.CategoryID = &v
	}
	return &c
}

func cloneParty(t *thirdparty.ThirdParty) *thirdparty.ThirdParty {
	c := *t
	if t.Surname != nil {
		v := *t.Surname
		c.Surname = &v
	}
	if t.Email != nil {
		v := *t.Email
		c.Email = &v
	}
	return &c
}

// clonePurchase copies the header only; lines live in their own table.
func clonePurchase(p *purchase.Purchase) *purchase.Purchase {
	c := *p
	if p.Notes != nil {
		v := *p.Notes
		c.Notes = &v
	}
	c.Lines = nil
	return &c
}
