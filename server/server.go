package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/warepath/astar"
	"github.com/katalvlaran/warepath/builder"
	"github.com/katalvlaran/warepath/grid"
	"github.com/katalvlaran/warepath/internal/ctxlog"
	"github.com/katalvlaran/warepath/placement"
	"github.com/katalvlaran/warepath/warehouse"
)

// SessionHeader selects the session a request operates on.
const SessionHeader = "X-Warehouse-Session"

// maxGridSize bounds generated grids requested over HTTP.
const maxGridSize = 512

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Server serves the warehouse API.
type Server struct {
	store   *warehouse.Store
	logger  *slog.Logger
	origins []string
}

// NewServer returns a Server over store. A nil logger uses slog.Default().
func NewServer(store *warehouse.Store, logger *slog.Logger, corsOrigins []string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, logger: logger, origins: corsOrigins}
}

// ServeMux registers every route.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate-warehouse", s.generateWarehouse)
	mux.HandleFunc("/optimize-placement", s.optimizePlacement)
	mux.HandleFunc("/find-paths", s.findPaths)
	mux.HandleFunc("/find-path", s.findPath)
	mux.HandleFunc("/locate", s.locate)
	mux.HandleFunc("/sessions", s.createSession)
	mux.HandleFunc("/sessions/{id}", s.deleteSession)
	mux.HandleFunc("/healthz", s.healthz)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Handler returns the mux wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	return CORSMiddleware(s.origins, LoggingMiddleware(s.logger, s.ServeMux()))
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.FromContext(r.Context()).Error("Failed to write response.", "error", err)
	}
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		ctxlog.FromContext(r.Context()).Error("Request failed.", "error", err)
	}
	s.writeJSONError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, warehouse.ErrUnknownSession),
		errors.Is(err, warehouse.ErrLabelNotFound):
		return http.StatusNotFound
	case errors.Is(err, warehouse.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, errBadRequest),
		errors.Is(err, grid.ErrOutOfBounds),
		errors.Is(err, grid.ErrEmptyGrid),
		errors.Is(err, grid.ErrNonRectangular),
		errors.Is(err, grid.ErrUnknownMarker),
		errors.Is(err, grid.ErrEmptyLabel),
		errors.Is(err, placement.ErrEmptyLabel),
		errors.Is(err, placement.ErrNegativeFrequency),
		errors.Is(err, placement.ErrReservedLabel),
		errors.Is(err, builder.ErrTooSmall),
		errors.Is(err, builder.ErrInvalidProbability),
		errors.Is(err, builder.ErrOptionViolation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// session resolves the Warehouse named by the session header.
func (s *Server) session(r *http.Request) (*warehouse.Warehouse, error) {
	return s.store.Get(r.Header.Get(SessionHeader))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

type layoutResponse struct {
	Layout [][]string `json:"layout"`
}

func (s *Server) generateWarehouse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	wh, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	size := 0
	if v := q.Get("size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil || size < 1 || size > maxGridSize {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid 'size' parameter: must be 1..%d", maxGridSize))
			return
		}
	}
	p := -1.0
	if v := q.Get("blocked"); v != "" {
		p, err = strconv.ParseFloat(v, 64)
		if err != nil || p < 0 || p > 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'blocked' parameter: must be in [0,1]")
			return
		}
	}
	var opts []builder.BuilderOption
	if v := q.Get("layout"); v != "" {
		layout, err := builder.ParseLayout(v)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'layout' parameter: must be 'open' or 'aisles'")
			return
		}
		opts = append(opts, builder.WithLayout(layout))
		if p < 0 && layout == builder.LayoutAisles {
			p = builder.DefaultAislesBlockedProbability
		}
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'seed' parameter")
			return
		}
		opts = append(opts, builder.WithSeed(seed))
	}

	g, err := wh.Generate(r.Context(), size, p, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, layoutResponse{Layout: g.Layout()})
}

type optimizeRequest struct {
	ProductFrequencies placement.FrequencyTable `json:"product_frequencies"`
}

type optimizeResponse struct {
	Layout           [][]string            `json:"layout"`
	Placements       []placement.Placement `json:"placements"`
	Unassigned       []string              `json:"unassigned"`
	Unreachable      []string              `json:"unreachable"`
	WeightedDistance int                   `json:"weighted_distance"`
	MeanDistance     float64               `json:"mean_distance"`
}

func (s *Server) optimizePlacement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	wh, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req optimizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	got, err := wh.Assign(r.Context(), req.ProductFrequencies)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rep := got.Report
	resp := optimizeResponse{
		Layout:           got.Grid.Layout(),
		Placements:       rep.Placements,
		Unassigned:       rep.Unassigned,
		Unreachable:      got.Unreachable,
		WeightedDistance: rep.WeightedDistance,
		MeanDistance:     rep.MeanDistance,
	}
	if resp.Placements == nil {
		resp.Placements = []placement.Placement{}
	}
	if resp.Unassigned == nil {
		resp.Unassigned = []string{}
	}
	if resp.Unreachable == nil {
		resp.Unreachable = []string{}
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

type findPathsRequest struct {
	Start    *grid.Coordinate           `json:"start"`
	Products map[string]grid.Coordinate `json:"products"`
	Layout   [][]string                 `json:"layout"`
}

type pathResponse struct {
	Product  string            `json:"product"`
	Location *grid.Coordinate  `json:"location,omitempty"`
	Path     []grid.Coordinate `json:"path"`
	Cost     int               `json:"cost"`
	Found    bool              `json:"found"`
}

func newPathResponse(label string, res astar.Result) pathResponse {
	path := res.Path
	if path == nil {
		path = []grid.Coordinate{}
	}
	return pathResponse{Product: label, Path: path, Cost: res.TotalCost, Found: res.Found}
}

func (s *Server) findPaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	wh, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req findPathsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	start := wh.Config().Anchor
	if req.Start != nil {
		start = *req.Start
	}

	var results map[string]astar.Result
	if req.Layout != nil {
		g, err := grid.DecodeLayout(req.Layout)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		results, err = wh.FindPathsOn(r.Context(), g, start, req.Products)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		results, err = wh.FindPaths(r.Context(), start, req.Products)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	labels := make([]string, 0, len(results))
	for label := range results {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	out := make([]pathResponse, 0, len(labels))
	for _, label := range labels {
		out = append(out, newPathResponse(label, results[label]))
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

type findPathRequest struct {
	Start   *grid.Coordinate `json:"start"`
	Product string           `json:"product"`
}

func (s *Server) findPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	wh, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req findPathRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	if req.Product == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'product'")
		return
	}
	start := wh.Config().Anchor
	if req.Start != nil {
		start = *req.Start
	}

	goal, res, err := wh.Route(r.Context(), start, req.Product)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := newPathResponse(req.Product, res)
	resp.Location = &goal
	s.writeJSON(w, r, http.StatusOK, resp)
}

type locateResponse struct {
	Product  string          `json:"product"`
	Location grid.Coordinate `json:"location"`
}

func (s *Server) locate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	wh, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	label := r.URL.Query().Get("product")
	if label == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'product' parameter")
		return
	}
	loc, ok := wh.Locate(label)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %q", warehouse.ErrLabelNotFound, label))
		return
	}
	s.writeJSON(w, r, http.StatusOK, locateResponse{Product: label, Location: loc})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	id, wh, err := s.store.Create()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctxlog.FromContext(r.Context()).Info("Session created.", "session", id, "sessions", s.store.Len())
	s.writeJSON(w, r, http.StatusCreated, map[string]any{
		"session": id,
		"layout":  wh.Snapshot().Layout(),
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	id := r.PathValue("id")
	if err := s.store.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctxlog.FromContext(r.Context()).Info("Session deleted.", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

func badRequest(err error) error {
	return fmt.Errorf("%w: %w", errBadRequest, err)
}
