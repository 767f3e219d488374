package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pcbgraph/pkg/board"
	"github.com/matzehuels/pcbgraph/pkg/buildinfo"
	"github.com/matzehuels/pcbgraph/pkg/cache"
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/feature"
	pcbio "github.com/matzehuels/pcbgraph/pkg/io"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
	"github.com/matzehuels/pcbgraph/pkg/observability"
)

// =============================================================================
// Request and response bodies
// =============================================================================

type createRequest struct {
	Name string `json:"name"`
	// Format of the node and edge records: "long" (default) or "short".
	Format   string `json:"format,omitempty"`
	Nodes    string `json:"nodes,omitempty"`
	Edges    string `json:"edges,omitempty"`
	Optimals string `json:"optimals,omitempty"`
	Board    string `json:"board,omitempty"`
	// Snapshot is a JSON graph snapshot, used instead of the records.
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
}

type boardResponse struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type statsResponse struct {
	ID         string         `json:"id"`
	Design     string         `json:"design"`
	Nodes      int            `json:"nodes"`
	Edges      int            `json:"edges"`
	Placed     int            `json:"placed"`
	Unplaced   int            `json:"unplaced"`
	Completion float64        `json:"completion"`
	Done       bool           `json:"done"`
	HPWL       float64        `json:"hpwl"`
	Board      *boardResponse `json:"board,omitempty"`
	Created    time.Time      `json:"created"`
}

type nodeResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Orientation float64 `json:"orientation"`
	Placed      bool    `json:"placed"`
}

type placeRequest struct {
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Orientation *float64 `json:"orientation,omitempty"`
	Confirm     bool     `json:"confirm"`
}

type placeResponse struct {
	Node       nodeResponse `json:"node"`
	Placed     int          `json:"placed"`
	Completion float64      `json:"completion"`
	Done       bool         `json:"done"`
	// HPWL is the signal wirelength of placed components after the move.
	HPWL float64 `json:"hpwl"`
}

type hpwlResponse struct {
	Net      string   `json:"net,omitempty"`
	Instance *int     `json:"instance,omitempty"`
	HPWL     float64  `json:"hpwl"`
	OK       bool     `json:"ok"`
	All      *float64 `json:"hpwl_all,omitempty"`
	Full     *float64 `json:"hpwl_full,omitempty"`
}

type nextResponse struct {
	Ordering string `json:"ordering"`
	Done     bool   `json:"done"`
	ID       *int   `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
}

type featuresResponse struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	K          int       `json:"k"`
	Simplified bool      `json:"simplified"`
	Normalized bool      `json:"normalized"`
	Header     []string  `json:"header"`
	Vector     []float64 `json:"vector"`
	Cached     bool      `json:"cached"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":        buildinfo.Version,
		"commit":         buildinfo.Commit,
		"date":           buildinfo.Date,
		"record_version": buildinfo.RecordVersion,
	})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.ids()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	g, b, err := buildGraph(req)
	if err != nil {
		writeError(w, err)
		return
	}
	g.SetLogger(s.logger)
	id := s.Add(g, b)
	sess, err := s.get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusCreated, sess.stats())
}

func buildGraph(req createRequest) (*netlist.Graph, board.Board, error) {
	var b board.Board
	name := req.Name
	if name == "" {
		name = "design"
	}
	if err := errs.ValidateDesignName(name); err != nil {
		return nil, b, err
	}

	if len(req.Snapshot) > 0 {
		g, err := pcbio.ReadJSON(bytes.NewReader(req.Snapshot))
		if err != nil {
			return nil, b, err
		}
		if g.Name == "" {
			g.Name = name
		}
		return g, b, nil
	}

	format := netlist.Long
	switch strings.ToLower(req.Format) {
	case "", "long":
	case "short":
		format = netlist.Short
	default:
		return nil, b, errs.New(errs.ErrCodeInvalidFormat, "unknown record format %q (want long or short)", req.Format)
	}
	if strings.TrimSpace(req.Nodes) == "" {
		return nil, b, errs.New(errs.ErrCodeInvalidInput, "no node records")
	}

	nodes, err := pcbio.ReadNodes(strings.NewReader(req.Nodes), format)
	if err != nil {
		return nil, b, err
	}
	edges, err := pcbio.ReadEdges(strings.NewReader(req.Edges), format)
	if err != nil {
		return nil, b, err
	}
	opts, err := pcbio.ReadOptimals(strings.NewReader(req.Optimals))
	if err != nil {
		return nil, b, err
	}
	if b, err = pcbio.ReadBoard(strings.NewReader(req.Board)); err != nil {
		return nil, b, err
	}
	b.Name = name

	g, err := pcbio.Build(name, nodes, edges, opts)
	if err != nil {
		return nil, b, err
	}
	return g, b, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sess, err := s.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusOK, sess.stats())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.remove(id) {
		writeError(w, errs.New(errs.ErrCodeSessionNotFound, "session %q", id))
		return
	}
	s.logger.Info("session deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHPWL(w http.ResponseWriter, r *http.Request) {
	sess, err := s.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	g := sess.g
	q := r.URL.Query()
	start := time.Now()

	if name := q.Get("net"); name != "" {
		net, ok := g.NetIDByName(name)
		if !ok {
			writeError(w, errs.New(errs.ErrCodeNetNotFound, "net %q", name))
			return
		}
		v, ok := g.HPWLOfNet(net, q.Get("unplaced") == "true")
		if !ok {
			v = netlist.InsufficientPoints
		}
		observability.Graph().OnHPWL(r.Context(), "net", v, time.Since(start))
		writeJSON(w, http.StatusOK, hpwlResponse{Net: name, HPWL: v, OK: ok})
		return
	}

	if ref := q.Get("instance"); ref != "" {
		id, err := resolveNode(g, ref)
		if err != nil {
			writeError(w, err)
			return
		}
		g.EmbedNeighbors()
		v, ok := g.HPWLOfInstance(id)
		observability.Graph().OnHPWL(r.Context(), "instance", v, time.Since(start))
		writeJSON(w, http.StatusOK, hpwlResponse{Instance: &id, HPWL: v, OK: ok})
		return
	}

	placed := g.HPWL(false)
	all := g.HPWL(true)
	full := g.HPWLFull()
	g.SetHPWL(placed)
	observability.Graph().OnHPWL(r.Context(), "graph", placed, time.Since(start))
	writeJSON(w, http.StatusOK, hpwlResponse{HPWL: placed, OK: true, All: &all, Full: &full})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	sess, err := s.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	ordering := r.URL.Query().Get("ordering")
	if ordering == "" {
		ordering = s.cfg.Ordering
	}
	if err := errs.ValidateOrdering(ordering, netlist.Orderings); err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	resp := nextResponse{Ordering: ordering}
	if id, ok := sess.g.NextToPlace(ordering); ok {
		resp.ID = &id
		resp.Name = sess.g.NodeName(id)
	} else {
		resp.Done = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.g.Reset()
	s.logger.Debug("session reset", "id", sess.id)
	writeJSON(w, http.StatusOK, sess.stats())
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	sess, err := s.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if (req.X == nil) != (req.Y == nil) {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "x and y must be given together"))
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	g := sess.g
	id, err := resolveNode(g, chi.URLParam(r, "node"))
	if err != nil {
		writeError(w, err)
		return
	}

	if req.X != nil {
		if err := g.SetCentroid(id, *req.X, *req.Y); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Orientation != nil {
		if err := g.SetOrientation(id, *req.Orientation); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Confirm {
		if err := g.Confirm(id); err != nil {
			writeError(w, err)
			return
		}
		observability.Graph().OnPlace(r.Context(), id, g.PlacedCount(), g.NodeCount())
	}

	n, _ := g.Node(id)
	writeJSON(w, http.StatusOK, placeResponse{
		Node:       toNodeResponse(n),
		Placed:     g.PlacedCount(),
		Completion: g.CompletionRatio(),
		Done:       g.IsDone(),
		HPWL:       g.HPWL(false),
	})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	sess, err := s.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.featureOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	g := sess.g
	id, err := resolveNode(g, chi.URLParam(r, "node"))
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	key := cache.FeatureKey(cache.GraphHash(g, opts.Normalize, opts.GridX, opts.GridY), id, opts.MaxNeighbors, opts.Simplified)
	resp := featuresResponse{
		ID:         id,
		Name:       g.NodeName(id),
		K:          opts.MaxNeighbors,
		Simplified: opts.Simplified,
		Normalized: opts.Normalize,
		Header:     feature.Header(opts.MaxNeighbors, opts.Simplified),
	}

	if v, ok, err := cache.GetJSON[[]float64](ctx, s.cache, cache.KeyTypeFeatures, key); err != nil {
		s.logger.Warn("feature cache read failed", "err", err)
	} else if ok {
		resp.Vector, resp.Cached = v, true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	v, err := feature.NewEncoder(g, opts).Encode(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := cache.SetJSON(ctx, s.cache, cache.KeyTypeFeatures, key, []float64(v), s.cfg.CacheTTL); err != nil {
		s.logger.Warn("feature cache write failed", "err", err)
	}
	resp.Vector = v
	writeJSON(w, http.StatusOK, resp)
}

// featureOptions applies the k and simplified query parameters to the
// configured encoder options.
func (s *Server) featureOptions(r *http.Request) (feature.Options, error) {
	opts := s.cfg.Features
	if opts.MaxNeighbors < 1 {
		opts.MaxNeighbors = feature.DefaultMaxNeighbors
	}
	q := r.URL.Query()
	if raw := q.Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil || k < 1 {
			return opts, errs.New(errs.ErrCodeInvalidInput, "k must be a positive integer, got %q", raw)
		}
		opts.MaxNeighbors = k
	}
	if raw := q.Get("simplified"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "simplified must be a boolean, got %q", raw)
		}
		opts.Simplified = b
	}
	return opts, nil
}

// =============================================================================
// Helpers
// =============================================================================

func (sess *session) stats() statsResponse {
	g := sess.g
	resp := statsResponse{
		ID:         sess.id,
		Design:     g.Name,
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Placed:     g.PlacedCount(),
		Unplaced:   g.UnplacedCount(),
		Completion: g.CompletionRatio(),
		Done:       g.IsDone(),
		HPWL:       g.CachedHPWL(),
		Created:    sess.created,
	}
	if sess.b.Width() > 0 && sess.b.Height() > 0 {
		resp.Board = &boardResponse{MinX: sess.b.MinX, MinY: sess.b.MinY, MaxX: sess.b.MaxX, MaxY: sess.b.MaxY}
	}
	return resp
}

// resolveNode accepts a numeric id or a component name.
func resolveNode(g *netlist.Graph, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if _, ok := g.Node(id); ok {
			return id, nil
		}
		return 0, errs.New(errs.ErrCodeNodeNotFound, "node %d", id)
	}
	for _, n := range g.Nodes() {
		if n.Name == ref {
			return n.ID, nil
		}
	}
	return 0, errs.New(errs.ErrCodeNodeNotFound, "node %q", ref)
}

func toNodeResponse(n netlist.Node) nodeResponse {
	return nodeResponse{
		ID:          n.ID,
		Name:        n.Name,
		X:           n.Pos.X,
		Y:           n.Pos.Y,
		Width:       n.Size.X,
		Height:      n.Size.Y,
		Orientation: n.Orientation,
		Placed:      n.Placed,
	}
}
