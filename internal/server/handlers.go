package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wcatz/widget-canvas/internal/config"
	"github.com/wcatz/widget-canvas/internal/editor"
	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/render"
	"github.com/wcatz/widget-canvas/internal/widget"
)

const maxBodyBytes = 4 << 20

// SceneState is the JSON view of the scene and the interaction state.
type SceneState struct {
	Version   uint64                   `json:"version"`
	EditMode  bool                     `json:"editMode"`
	State     string                   `json:"state"`
	Selection string                   `json:"selection,omitempty"`
	Panel     string                   `json:"panel,omitempty"`
	Preview   *PreviewState            `json:"preview,omitempty"`
	Widgets   []map[string]interface{} `json:"widgets"`
}

// PreviewState is the drop preview of a drag in progress.
type PreviewState struct {
	Kind     string    `json:"kind"`
	Rect     geom.Rect `json:"rect"`
	TargetID string    `json:"targetId,omitempty"`
}

// state must be called with mu held.
func (s *Server) state() SceneState {
	st := SceneState{
		Version:  s.scene.Version(),
		EditMode: s.editMode,
		State:    s.ctrl.State().String(),
		Widgets:  widget.Records(s.scene.Widgets()),
	}
	st.Selection, _ = s.ctrl.Selection()
	st.Panel, _ = s.scene.Panel()
	if p, ok := s.ctrl.Preview(); ok {
		st.Preview = &PreviewState{Kind: p.Kind.String(), Rect: p.Rect, TargetID: p.TargetID}
	}
	return st
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.state()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSceneLoad(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Cancel()
	if err := s.scene.Load(data); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleScenePNG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	canvas := s.scene.Canvas()
	surf, err := render.NewRasterSurface(int(canvas.Width), int(canvas.Height))
	if err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.renderer.Draw(surf, s.scene, s.ctrl, s.editMode)
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := surf.EncodePNG(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var ev editor.PointerEvent
	if err := decodeBody(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid pointer event: "+err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.Dispatch(ev, s.editMode); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleEditMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Enabled != s.editMode {
		s.ctrl.Cancel()
		s.editMode = req.Enabled
		s.logger.Info("edit mode changed", "enabled", req.Enabled)
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleWidgetAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind  string                 `json:"kind"`
		Props map[string]interface{} `json:"props"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	created, ok := s.scene.AddFromToolbar(widget.Kind(req.Kind), req.Props)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown widget kind '"+req.Kind+"'")
		return
	}
	writeJSON(w, http.StatusCreated, widget.Record(created))
}

func (s *Server) handleWidgetDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scene.Delete(id) {
		writeError(w, http.StatusNotFound, "widget '"+id+"' not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWidgetGeometry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scene.Find(id); !ok {
		writeError(w, http.StatusNotFound, "widget '"+id+"' not found")
		return
	}
	applied := s.scene.EditField(id, req.Field, req.Value)
	cur, _ := s.scene.Find(id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applied": applied,
		"widget":  widget.Record(cur),
	})
}

func (s *Server) handlePanelOpen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scene.OpenPanel(req.ID) {
		writeError(w, http.StatusNotFound, "widget '"+req.ID+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handlePanelClose(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene.ClosePanel()
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleConfigReload(w http.ResponseWriter, r *http.Request) {
	if err := s.ReloadConfig(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "config reloaded"})
}

func (s *Server) handlePaletteColor(w http.ResponseWriter, r *http.Request) {
	palette := chi.URLParam(r, "palette")
	name := chi.URLParam(r, "color")
	var req struct {
		Hex string `json:"hex"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path := s.Config().Path()
	if path == "" {
		writeError(w, http.StatusConflict, "server was started without a config file")
		return
	}
	if err := config.NewYAMLEditor(path).SetPaletteColor(palette, name, req.Hex); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.ReloadConfig(); err != nil {
		writeError(w, http.StatusInternalServerError, "saved but reload failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"palette": palette, "color": name, "hex": req.Hex})
}
