package server

import "github.com/go-chi/chi/v5"

func (s *Server) registerRoutes(r chi.Router) {
	r.Get("/scene.png", s.handleScenePNG)

	r.Route("/api", func(r chi.Router) {
		r.Get("/scene", s.handleScene)
		r.Put("/scene", s.handleSceneLoad)
		r.Post("/pointer", s.handlePointer)
		r.Post("/edit-mode", s.handleEditMode)

		r.Post("/widgets", s.handleWidgetAdd)
		r.Delete("/widgets/{id}", s.handleWidgetDelete)
		r.Patch("/widgets/{id}/geometry", s.handleWidgetGeometry)

		r.Put("/panel", s.handlePanelOpen)
		r.Delete("/panel", s.handlePanelClose)

		r.Post("/config/reload", s.handleConfigReload)
		r.Put("/palettes/{palette}/colors/{color}", s.handlePaletteColor)
	})
}
