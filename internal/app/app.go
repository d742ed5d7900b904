// Package app wires the catalog backends, engines and persistence into one
// session: the backend is chosen once at startup and kept until Close.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flinthills/movequote/internal/auth"
	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/config"
	"github.com/flinthills/movequote/internal/db"
	"github.com/flinthills/movequote/internal/export"
	"github.com/flinthills/movequote/internal/formula"
	"github.com/flinthills/movequote/internal/migrations"
	"github.com/flinthills/movequote/internal/pricing"
	"github.com/flinthills/movequote/internal/probe"
	"github.com/flinthills/movequote/internal/selection"
	"github.com/flinthills/movequote/internal/syncer"
)

// ErrOffline is returned by operations that need the authoritative store.
var ErrOffline = errors.New("authoritative store is not reachable")

// Session is one run of the quoting tool.
type Session struct {
	cache      *sql.DB
	pool       *pgxpool.Pool
	store      catalog.Store
	selections *selection.Store
	admin      *auth.Admin
}

// Open opens and migrates the cache, probes connectivity and selects the
// catalog backend for the whole session. Failing to reach PostgreSQL is not
// an error: the session falls back to the cache.
func Open(ctx context.Context, cfg config.Config) (*Session, error) {
	cache, err := db.Open(cfg.CacheDBPath)
	if err != nil {
		return nil, err
	}
	if err := migrations.UpCache(cache); err != nil {
		cache.Close()
		return nil, err
	}

	var (
		pool  *pgxpool.Pool
		store catalog.Store = catalog.NewCacheStore(cache)
	)
	if cfg.Online() && probe.New(cfg.ProbeURL, cfg.ProbeTimeout).Online(ctx) {
		connectCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
		pool, err = catalog.NewPool(connectCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			slog.Warn("authoritative store unavailable, using local cache", "err", err)
			pool = nil
		} else {
			store = catalog.NewPgStore(pool)
		}
	}
	slog.Info("catalog backend selected", "online", store.Online(), "cache", cfg.CacheDBPath)

	s := NewSession(cache, store, auth.NewAdmin(cfg.AdminSecret))
	s.pool = pool
	return s, nil
}

// NewSession assembles a session from already opened parts.
func NewSession(cache *sql.DB, store catalog.Store, admin *auth.Admin) *Session {
	return &Session{
		cache:      cache,
		store:      store,
		selections: selection.NewStore(cache),
		admin:      admin,
	}
}

// Close releases the database handles.
func (s *Session) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return s.cache.Close()
}

// Online reports whether the session reads from the authoritative store.
func (s *Session) Online() bool {
	return s.store.Online()
}

// Catalog reads the four catalog tables from the session backend.
func (s *Session) Catalog(ctx context.Context) (catalog.Snapshot, error) {
	return catalog.ReadSnapshot(ctx, s.store)
}

// Rules loads and validates the formulas.
func (s *Session) Rules(ctx context.Context) (*formula.Set, error) {
	return formula.Load(ctx, s.store)
}

// Estimate prices the moving part of sel.
func (s *Session) Estimate(ctx context.Context, in pricing.EstimateInput, sel selection.Selection) (pricing.EstimateResult, error) {
	rules, err := s.Rules(ctx)
	if err != nil {
		return pricing.EstimateResult{}, err
	}
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return pricing.EstimateResult{}, fmt.Errorf("list items: %w", err)
	}
	return pricing.CalculateEstimate(items, rules, in, sel)
}

// Packing prices the room part of sel.
func (s *Session) Packing(ctx context.Context, tier int, sel selection.Selection) (pricing.PackingResult, error) {
	rules, err := s.Rules(ctx)
	if err != nil {
		return pricing.PackingResult{}, err
	}
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return pricing.PackingResult{}, fmt.Errorf("list rooms: %w", err)
	}
	supplies, err := s.store.ListSupplies(ctx)
	if err != nil {
		return pricing.PackingResult{}, fmt.Errorf("list supplies: %w", err)
	}
	return pricing.CalculatePacking(rooms, supplies, rules, tier, sel)
}

// QuoteRequest describes an export. PackTier 0 leaves packing out; a tier
// without selected rooms is exported with a zero packing price.
type QuoteRequest struct {
	Input     pricing.EstimateInput
	PackTier  int
	Selection selection.Selection
	Note      string
}

// Quote computes everything an export contains.
func (s *Session) Quote(ctx context.Context, req QuoteRequest) (export.Quote, error) {
	if req.PackTier != 0 && !formula.ValidTier(req.PackTier) {
		return export.Quote{}, &pricing.InputValidationError{
			Field:  "packing scale",
			Reason: fmt.Sprintf("tier %d is outside 1-5", req.PackTier),
		}
	}
	est, err := s.Estimate(ctx, req.Input, req.Selection)
	if err != nil {
		return export.Quote{}, err
	}
	q := export.Quote{Estimate: est, PackTier: req.PackTier, Note: req.Note}
	if req.PackTier != 0 && len(req.Selection.Rooms) > 0 {
		pack, err := s.Packing(ctx, req.PackTier, req.Selection)
		if err != nil {
			return export.Quote{}, err
		}
		q.Packing = &pack
	}
	return q, nil
}

// ImportResult is a parsed CSV resolved against the current catalog.
type ImportResult struct {
	export.Imported
	Selection selection.Selection
	Skipped   []string
	Message   string
}

// Import parses r and rebuilds the selection from it. Nothing is persisted;
// on error the caller's state is untouched.
func (s *Session) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	imp, err := export.ReadCSV(r)
	if err != nil {
		return ImportResult{}, err
	}
	snap, err := s.Catalog(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	sel, skipped := export.Resolve(imp, snap.Items, snap.Rooms)
	res := ImportResult{Imported: imp, Selection: sel, Skipped: skipped}
	if len(skipped) > 0 {
		res.Message = export.PartialImportMessage
	}
	return res, nil
}

// Sync mirrors the authoritative catalog into the cache.
func (s *Session) Sync(ctx context.Context) (syncer.Report, error) {
	if !s.Online() {
		return syncer.Report{}, ErrOffline
	}
	return syncer.New(s.store, s.cache).Sync(ctx)
}

// LoadSelection returns the selection saved at the end of the last session.
func (s *Session) LoadSelection(ctx context.Context) (selection.Selection, error) {
	return s.selections.Load(ctx)
}

// SaveSelection persists sel for the next session.
func (s *Session) SaveSelection(ctx context.Context, sel selection.Selection) error {
	n, err := s.selections.Save(ctx, sel)
	if err != nil {
		return err
	}
	slog.Info("selection saved", "rows", n)
	return nil
}

// AdminEnabled reports whether an admin secret is configured.
func (s *Session) AdminEnabled() bool {
	return s.admin.Enabled()
}

// CheckAdmin verifies secret and that catalog writes are possible.
func (s *Session) CheckAdmin(secret string) error {
	if err := s.admin.Check(secret); err != nil {
		return err
	}
	if !s.Online() {
		return catalog.ErrUnsupportedOperation
	}
	return nil
}

// Editor returns the catalog editor after a successful admin check.
func (s *Session) Editor(secret string) (*Editor, error) {
	if err := s.CheckAdmin(secret); err != nil {
		return nil, err
	}
	return NewEditor(s.store), nil
}
