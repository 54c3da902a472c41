package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adpulse/adpulse-go/internal/filters"
	"github.com/adpulse/adpulse-go/internal/ingest"
	"github.com/adpulse/adpulse-go/internal/metrics"
	"github.com/adpulse/adpulse-go/internal/models"
	"github.com/adpulse/adpulse-go/internal/store"
	"github.com/adpulse/adpulse-go/internal/utils"
)

const maxUploadBytes = 32 << 20

type server struct {
	log           *slog.Logger
	store         store.UploadStore
	cache         *metrics.Cache
	defaultTenant string
}

type fileReport struct {
	Rows     int      `json:"rows"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func NewRouter(log *slog.Logger, st store.UploadStore, cache *metrics.Cache, defaultTenant string) http.Handler {
	s := &server{log: log, store: st, cache: cache, defaultTenant: defaultTenant}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/upload", s.handleUpload)
	mux.Post("/upload/{kind}", s.handleUploadKind)
	mux.Delete("/upload", s.handleClear)
	mux.Get("/dashboard/metrics", s.handleDashboard)

	return mux
}

func (s *server) tenant(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get("X-Tenant-ID")); t != "" {
		return t
	}
	return s.defaultTenant
}

// handleUpload accepts a multipart form with any subset of the parts
// campaign, parish and budget, parses each, and stores the result as the
// active dataset. The previous dataset is replaced wholesale.
func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	texts := make(map[string]string)
	for _, kind := range []string{"campaign", "parish", "budget"} {
		text, ok, err := formFileText(r, kind)
		if err != nil {
			http.Error(w, "failed to read "+kind+" file: "+err.Error(), http.StatusBadRequest)
			return
		}
		if ok {
			texts[kind] = text
		}
	}
	if len(texts) == 0 {
		http.Error(w, "no files uploaded; expected campaign, parish or budget parts", http.StatusBadRequest)
		return
	}

	ds := &models.UploadedDataset{ID: uuid.NewString(), UploadedAt: time.Now().UTC()}
	reports := make(map[string]fileReport, len(texts))
	totalRows := 0
	if text, ok := texts["campaign"]; ok {
		res := ingest.ParseCampaignCSV(text)
		ds.CampaignRows = res.Rows
		reports["campaign"] = report(res.Rows, res.Errors, res.Warnings, "campaign")
		totalRows += len(res.Rows)
	}
	if text, ok := texts["parish"]; ok {
		res := ingest.ParseParishCSV(text)
		ds.RegionRows = res.Rows
		reports["parish"] = report(res.Rows, res.Errors, res.Warnings, "parish")
		totalRows += len(res.Rows)
	}
	if text, ok := texts["budget"]; ok {
		res := ingest.ParseBudgetCSV(text)
		ds.BudgetRows = res.Rows
		reports["budget"] = report(res.Rows, res.Errors, res.Warnings, "budget")
		totalRows += len(res.Rows)
	}

	if totalRows == 0 {
		// every provided file failed; report diagnostics without storing
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{"files": reports})
		return
	}

	tenant := s.tenant(r)
	if err := s.store.SaveUploadState(r.Context(), tenant, ds, true); err != nil {
		http.Error(w, "failed to store upload: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.cache.Clear(tenant)
	s.log.Info("upload stored",
		slog.String("tenant", tenant),
		slog.String("dataset", ds.ID),
		slog.Int("rows", totalRows))

	writeJSON(w, map[string]any{
		"datasetId":  ds.ID,
		"uploadedAt": ds.UploadedAt,
		"files":      reports,
	})
}

// handleUploadKind accepts raw CSV text for one file kind. The stored
// dataset is rebuilt with the other sections carried over, so the store
// still sees a whole new value.
func (s *server) handleUploadKind(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	text := string(body)

	tenant := s.tenant(r)
	prev, err := s.store.LoadUploadState(r.Context(), tenant)
	if err != nil {
		http.Error(w, "failed to load upload state: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ds := &models.UploadedDataset{ID: uuid.NewString(), UploadedAt: time.Now().UTC()}
	if prev.Dataset != nil {
		ds.CampaignRows = prev.Dataset.CampaignRows
		ds.RegionRows = prev.Dataset.RegionRows
		ds.BudgetRows = prev.Dataset.BudgetRows
	}

	var rep fileReport
	switch kind {
	case "campaign":
		res := ingest.ParseCampaignCSV(text)
		rep = report(res.Rows, res.Errors, res.Warnings, kind)
		if len(res.Rows) > 0 {
			ds.CampaignRows = res.Rows
		}
	case "parish":
		res := ingest.ParseParishCSV(text)
		rep = report(res.Rows, res.Errors, res.Warnings, kind)
		if len(res.Rows) > 0 {
			ds.RegionRows = res.Rows
		}
	case "budget":
		res := ingest.ParseBudgetCSV(text)
		rep = report(res.Rows, res.Errors, res.Warnings, kind)
		if len(res.Rows) > 0 {
			ds.BudgetRows = res.Rows
		}
	default:
		http.Error(w, "unknown upload kind: "+kind, http.StatusNotFound)
		return
	}

	if rep.Rows == 0 {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{"files": map[string]fileReport{kind: rep}})
		return
	}

	if err := s.store.SaveUploadState(r.Context(), tenant, ds, true); err != nil {
		http.Error(w, "failed to store upload: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.cache.Clear(tenant)

	writeJSON(w, map[string]any{
		"datasetId":  ds.ID,
		"uploadedAt": ds.UploadedAt,
		"files":      map[string]fileReport{kind: rep},
	})
}

func (s *server) handleClear(w http.ResponseWriter, r *http.Request) {
	tenant := s.tenant(r)
	if err := s.store.ClearUploadState(r.Context(), tenant); err != nil {
		http.Error(w, "failed to clear upload state: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.cache.Clear(tenant)
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard serves the resolved snapshot for the filter state encoded
// in the query string. A missing or inactive dataset yields an empty
// snapshot, not an error.
func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	tenant := s.tenant(r)
	now := time.Now()
	f := filterStateFromQuery(r.URL.Query(), now)

	key := metrics.CacheKey(tenant, f, now)
	if snap, ok := s.cache.Get(key); ok {
		writeJSON(w, snap)
		return
	}

	state, err := s.store.LoadUploadState(r.Context(), tenant)
	if err != nil {
		http.Error(w, "failed to load upload state: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var ds *models.UploadedDataset
	if state.Active {
		ds = state.Dataset
	}

	snap := metrics.Aggregate(ds, f, tenant, now)
	utils.SnapshotsComputed.Inc()
	s.cache.Put(key, snap)
	writeJSON(w, snap)
}

func filterStateFromQuery(v url.Values, now time.Time) filters.State {
	f := filters.Default(now)
	if rng := v.Get("range"); rng != "" {
		f.DateRange = filters.DateRange(rng)
	} else if v.Get("start") != "" || v.Get("end") != "" {
		f.DateRange = filters.RangeCustom
	}
	if s := v.Get("start"); s != "" {
		f.CustomRange.Start = s
	}
	if e := v.Get("end"); e != "" {
		f.CustomRange.End = e
	}
	if c := v.Get("channels"); c != "" {
		for _, ch := range strings.Split(c, ",") {
			ch = strings.TrimSpace(ch)
			if ch != "" {
				f.Channels = append(f.Channels, ch)
			}
		}
	}
	f.CampaignQuery = v.Get("q")
	return f
}

func formFileText(r *http.Request, field string) (string, bool, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return "", false, nil
	}
	fh := r.MultipartForm.File[field][0]
	f, err := fh.Open()
	if err != nil {
		return "", false, err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

func report[T any](rows []T, errs, warns []string, kind string) fileReport {
	utils.RowsParsed.WithLabelValues(kind).Add(float64(len(rows)))
	utils.ParseErrors.WithLabelValues(kind).Add(float64(len(errs)))
	if errs == nil {
		errs = []string{}
	}
	if warns == nil {
		warns = []string{}
	}
	return fileReport{Rows: len(rows), Errors: errs, Warnings: warns}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
