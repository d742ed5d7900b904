package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flinthills/movequote/internal/app"
	"github.com/flinthills/movequote/internal/auth"
	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/export"
	"github.com/flinthills/movequote/internal/formula"
	"github.com/flinthills/movequote/internal/pricing"
	"github.com/flinthills/movequote/internal/selection"
	"github.com/flinthills/movequote/internal/syncer"
)

const maxBodyBytes = 1 << 20

type server struct {
	app      *app.Session
	sessions *auth.Sessions
	clock    func() time.Time

	mu     sync.Mutex
	sel    selection.Selection
	editor *app.Editor
}

// newServer loads the selection saved by the previous session.
func newServer(ctx context.Context, session *app.Session, sessions *auth.Sessions) (*server, error) {
	sel, err := session.LoadSelection(ctx)
	if err != nil {
		return nil, err
	}
	return &server{app: session, sessions: sessions, sel: sel}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/catalog", s.handleCatalog)

		r.Get("/selection", s.handleSelectionGet)
		r.Put("/selection", s.handleSelectionPut)
		r.Delete("/selection", s.handleSelectionClear)

		r.Post("/estimate", s.handleEstimate)
		r.Post("/packing", s.handlePacking)
		r.Post("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Post("/sync", s.handleSync)

		r.Post("/admin/login", s.handleAdminLogin)
		r.Post("/admin/logout", s.handleAdminLogout)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Put("/admin/items", s.handleItemUpsert)
			r.Delete("/admin/items/{name}", s.handleItemDelete)
			r.Put("/admin/formulas/{name}", s.handleFormulaUpdate)
			r.Put("/admin/supplies", s.handleSupplyUpsert)
			r.Put("/admin/rooms", s.handleRoomUpsert)
			r.Delete("/admin/rooms/{name}", s.handleRoomDelete)
		})
	})
	return r
}

func (s *server) currentSelection() selection.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySelection(s.sel)
}

func (s *server) setSelection(sel selection.Selection) {
	s.mu.Lock()
	s.sel = sel
	s.mu.Unlock()
}

func (s *server) currentEditor() *app.Editor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor
}

func (s *server) saveSelection(ctx context.Context) error {
	return s.app.SaveSelection(ctx, s.currentSelection())
}

func copySelection(sel selection.Selection) selection.Selection {
	return selection.FromEntries(sel.Entries())
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"online":        s.app.Online(),
		"admin_enabled": s.app.AdminEnabled(),
		"admin":         s.isAdmin(r),
	})
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	snap, err := s.app.Catalog(r.Context())
	if err != nil {
		s.internalError(w, "read catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, newCatalogResponse(snap))
}

type selectionBody struct {
	Entries []entryJSON `json:"entries"`
}

type entryJSON struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	Count    int    `json:"count"`
}

func entriesJSON(sel selection.Selection) []entryJSON {
	out := make([]entryJSON, 0)
	for _, e := range sel.Entries() {
		out = append(out, entryJSON{Name: e.Name, Type: string(e.Kind), Category: string(e.Category), Count: e.Count})
	}
	return out
}

func (s *server) handleSelectionGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, selectionBody{Entries: entriesJSON(s.currentSelection())})
}

func (s *server) handleSelectionPut(w http.ResponseWriter, r *http.Request) {
	var body selectionBody
	if !decodeJSON(w, r, &body) {
		return
	}
	entries := make([]selection.Entry, 0, len(body.Entries))
	for _, e := range body.Entries {
		kind := selection.Kind(e.Type)
		if kind != selection.KindMove && kind != selection.KindPack {
			writeError(w, http.StatusBadRequest, "entry type must be move or pack")
			return
		}
		if e.Count < 0 {
			writeError(w, http.StatusBadRequest, "counts must not be negative")
			return
		}
		entries = append(entries, selection.Entry{Name: e.Name, Kind: kind, Category: catalog.Category(e.Category), Count: e.Count})
	}
	sel := selection.FromEntries(entries)
	s.setSelection(sel)
	writeJSON(w, http.StatusOK, selectionBody{Entries: entriesJSON(sel)})
}

func (s *server) handleSelectionClear(w http.ResponseWriter, r *http.Request) {
	s.setSelection(selection.New())
	w.WriteHeader(http.StatusNoContent)
}

type estimateRequest struct {
	Distance   string `json:"distance"`
	Adjustment string `json:"adjustment"`
	FortRiley  bool   `json:"fort_riley"`
	Tier       int    `json:"tier"`
	PackTier   int    `json:"pack_tier"`
	Note       string `json:"note"`
}

func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := pricing.ParseEstimateInput(req.Distance, req.Adjustment, req.FortRiley, req.Tier)
	if err != nil {
		s.engineError(w, err)
		return
	}
	est, err := s.app.Estimate(r.Context(), in, s.currentSelection())
	if err != nil {
		s.engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEstimateResponse(est))
}

func (s *server) handlePacking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tier int `json:"tier"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.app.Packing(r.Context(), req.Tier, s.currentSelection())
	if err != nil {
		s.engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPackingResponse(res))
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := pricing.ParseEstimateInput(req.Distance, req.Adjustment, req.FortRiley, req.Tier)
	if err != nil {
		s.engineError(w, err)
		return
	}
	q, err := s.app.Quote(r.Context(), app.QuoteRequest{
		Input:     in,
		PackTier:  req.PackTier,
		Selection: s.currentSelection(),
		Note:      req.Note,
	})
	if err != nil {
		s.engineError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="estimate.csv"`)
		err = export.WriteCSV(w, q)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="estimate.xlsx"`)
		err = export.WriteXLSX(w, q)
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="estimate.pdf"`)
		err = export.WritePDF(w, q, "Moving Estimate")
	default:
		writeError(w, http.StatusBadRequest, "format must be csv, xlsx or pdf")
		return
	}
	if err != nil {
		slog.Error("write export", "err", err)
	}
}

type importResponse struct {
	Distance   int         `json:"distance"`
	Adjustment int         `json:"adjustment"`
	FortRiley  bool        `json:"fort_riley"`
	Tier       int         `json:"tier"`
	PackTier   int         `json:"pack_tier"`
	Note       string      `json:"note"`
	Entries    []entryJSON `json:"entries"`
	Skipped    []string    `json:"skipped,omitempty"`
	Message    string      `json:"message,omitempty"`
}

func (s *server) handleImport(w http.ResponseWriter, r *http.Request) {
	res, err := s.app.Import(r.Context(), http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var formatErr *export.ImportFormatError
	if errors.As(err, &formatErr) {
		writeError(w, http.StatusBadRequest, formatErr.Error())
		return
	}
	if err != nil {
		s.internalError(w, "import", err)
		return
	}

	s.setSelection(res.Selection)
	writeJSON(w, http.StatusOK, importResponse{
		Distance:   res.Input.Distance,
		Adjustment: res.Input.Adjustment,
		FortRiley:  res.Input.FortRiley,
		Tier:       res.Input.Tier,
		PackTier:   res.PackTier,
		Note:       res.Note,
		Entries:    entriesJSON(res.Selection),
		Skipped:    res.Skipped,
		Message:    res.Message,
	})
}

func (s *server) handleSync(w http.ResponseWriter, r *http.Request) {
	report, err := s.app.Sync(r.Context())
	var tableErr *syncer.TableError
	switch {
	case errors.Is(err, app.ErrOffline):
		writeError(w, http.StatusConflict, "Sync needs a connection to the main database.")
		return
	case errors.As(err, &tableErr):
		writeError(w, http.StatusBadGateway, "Sync failed on table "+tableErr.Table+"; it keeps its previous rows.")
		return
	case err != nil:
		s.internalError(w, "sync", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sync_id": report.ID.String(),
		"counts":  report.Counts,
	})
}

func (s *server) handleItemUpsert(w http.ResponseWriter, r *http.Request) {
	var body itemJSON
	if !decodeJSON(w, r, &body) {
		return
	}
	err := s.currentEditor().UpsertItem(r.Context(), catalog.Item{
		Name: body.Name, HiddenValue: body.HiddenValue, Category: catalog.Category(body.Category),
	})
	s.writeResult(w, err)
}

func (s *server) handleItemDelete(w http.ResponseWriter, r *http.Request) {
	s.writeResult(w, s.currentEditor().DeleteItem(r.Context(), chi.URLParam(r, "name")))
}

func (s *server) handleFormulaUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Numbers string `json:"numbers"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	name := formula.Name(chi.URLParam(r, "name"))
	s.writeResult(w, s.currentEditor().UpdateFormulaText(r.Context(), name, body.Numbers))
}

func (s *server) handleSupplyUpsert(w http.ResponseWriter, r *http.Request) {
	var body supplyJSON
	if !decodeJSON(w, r, &body) {
		return
	}
	s.writeResult(w, s.currentEditor().UpsertSupply(r.Context(), body.toSupply()))
}

func (s *server) handleRoomUpsert(w http.ResponseWriter, r *http.Request) {
	var body roomJSON
	if !decodeJSON(w, r, &body) {
		return
	}
	s.writeResult(w, s.currentEditor().UpsertRoom(r.Context(), body.toRoom()))
}

func (s *server) handleRoomDelete(w http.ResponseWriter, r *http.Request) {
	s.writeResult(w, s.currentEditor().DeleteRoom(r.Context(), chi.URLParam(r, "name")))
}

func (s *server) writeResult(w http.ResponseWriter, err error) {
	var cfgErr *formula.ConfigurationError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, catalog.ErrInvalid), errors.As(err, &cfgErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrUnsupportedOperation):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.internalError(w, "catalog write", err)
	}
}

// engineError maps estimation failures to responses. Input problems are the
// user's to fix; configuration problems are not.
func (s *server) engineError(w http.ResponseWriter, err error) {
	var inputErr *pricing.InputValidationError
	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, "Error: "+inputErr.Error())
	case errors.Is(err, pricing.ErrNoItems):
		writeError(w, http.StatusUnprocessableEntity, pricing.NoItemsMessage)
	case errors.Is(err, formula.ErrConfiguration):
		slog.Error("formula configuration", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.internalError(w, "estimate", err)
	}
}

func (s *server) internalError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "err", err)
	writeError(w, http.StatusInternalServerError, op+" failed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
