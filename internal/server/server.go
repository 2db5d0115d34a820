// Package server exposes loaded models over HTTP for inspection.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"

	"github.com/Faultbox/scenery/internal/engine/loader"
	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/internal/logger"
)

// LoadFunc loads the asset at path.
type LoadFunc func(path string) (*loader.Model, error)

// Server serves the models of a Registry.
type Server struct {
	registry   *Registry
	load       LoadFunc
	maxRecords int
	log        *zap.Logger
}

// New creates a server. maxRecords caps draw listings; 0 means unlimited.
func New(registry *Registry, load LoadFunc, maxRecords int) *Server {
	return &Server{
		registry:   registry,
		load:       load,
		maxRecords: maxRecords,
		log:        logger.Named("server"),
	}
}

// Handler returns the routed handler with panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/models", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/models", s.handleLoad).Methods(http.MethodPost)
	r.HandleFunc("/models/{id}", s.handleModel).Methods(http.MethodGet)
	r.HandleFunc("/models/{id}/draw", s.handleDraw).Methods(http.MethodGet)

	h := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.log)),
		handlers.PrintRecoveryStack(true),
	)(r)
	return handlers.LoggingHandler(&zapio.Writer{Log: s.log, Level: zapcore.DebugLevel}, h)
}

// ListenAndServe serves on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("starting server", zap.String("addr", addr), zap.Int("models", s.registry.Len()))
	return http.ListenAndServe(addr, s.Handler())
}

type modelEntry struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	Container string    `json:"container"`
}

type meshEntry struct {
	Name     string `json:"name"`
	Batches  int    `json:"batches"`
	Vertices int    `json:"vertices"`
	Indices  int    `json:"indices"`
}

type materialEntry struct {
	Name      string   `json:"name"`
	AlphaMode string   `json:"alpha_mode"`
	Cutoff    *float32 `json:"alpha_cutoff,omitempty"`
	Textures  []string `json:"textures,omitempty"`
}

type modelDetail struct {
	modelEntry
	Stats     loader.Stats    `json:"stats"`
	Meshes    []meshEntry     `json:"meshes"`
	Materials []materialEntry `json:"materials"`
}

type recordEntry struct {
	IndexCount    uint32      `json:"index_count"`
	FirstIndex    uint32      `json:"first_index"`
	MaterialIndex uint32      `json:"material_index"`
	Transform     [16]float32 `json:"transform"`
}

type drawResponse struct {
	Total   int           `json:"total"`
	Records []recordEntry `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func entry(m *loader.Model) modelEntry {
	return modelEntry{ID: m.ID, Path: m.Path, Container: m.Container.String()}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	models := s.registry.List()
	out := make([]modelEntry, 0, len(models))
	for _, m := range models {
		out = append(out, entry(m))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, detail(m))
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookup(w, r)
	if !ok {
		return
	}

	limit := s.maxRecords
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	var ctx scene.DrawContext
	m.Draw(mgl32.Ident4(), &ctx)

	resp := drawResponse{Total: len(ctx.Records), Records: []recordEntry{}}
	for i, rec := range ctx.Records {
		if limit > 0 && i >= limit {
			break
		}
		resp.Records = append(resp.Records, recordEntry{
			IndexCount:    rec.IndexCount,
			FirstIndex:    rec.FirstIndex,
			MaterialIndex: rec.MaterialIndex,
			Transform:     [16]float32(rec.Transform),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing path parameter"})
		return
	}

	m, err := s.load(path)
	if err != nil {
		s.log.Warn("load failed", zap.String("path", path), zap.Error(err))
		s.writeError(w, err)
		return
	}
	s.registry.Add(m)
	s.writeJSON(w, http.StatusCreated, detail(m))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*loader.Model, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid model id"})
		return nil, false
	}
	m, ok := s.registry.Get(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "model not found"})
		return nil, false
	}
	return m, true
}

func detail(m *loader.Model) modelDetail {
	d := modelDetail{
		modelEntry: entry(m),
		Stats:      m.Stats(),
		Meshes:     make([]meshEntry, 0, len(m.Meshes)),
		Materials:  make([]materialEntry, 0, len(m.Materials)),
	}
	for _, mesh := range m.Meshes {
		d.Meshes = append(d.Meshes, meshEntry{
			Name:     mesh.Name,
			Batches:  len(mesh.Batches),
			Vertices: len(mesh.Vertices),
			Indices:  len(mesh.Indices),
		})
	}
	for _, mat := range m.Materials {
		d.Materials = append(d.Materials, materialEntry{
			Name:      mat.Name,
			AlphaMode: mat.AlphaMode.String(),
			Cutoff:    mat.AlphaCutoff,
			Textures:  textureSlots(mat),
		})
	}
	return d
}

func textureSlots(mat model.Material) []string {
	var slots []string
	for _, s := range []struct {
		name string
		ref  *model.TextureRef
	}{
		{"albedo", mat.Albedo},
		{"metallic_roughness", mat.MetallicRoughness},
		{"normal", mat.Normal},
		{"emissive", mat.Emissive},
		{"occlusion", mat.Occlusion},
	} {
		if s.ref != nil {
			slots = append(slots, s.name)
		}
	}
	return slots
}

// StatusFor maps a load error onto an HTTP status.
func StatusFor(err error) int {
	switch model.KindOf(err) {
	case model.ErrParse:
		return http.StatusBadRequest
	case model.ErrUnsupported, model.ErrMissingReference:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	if kind := model.KindOf(err); kind != nil {
		resp.Kind = kind.Error()
	}
	s.writeJSON(w, StatusFor(err), resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encoding response", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.log.Debug("writing response", zap.Error(err))
	}
}
