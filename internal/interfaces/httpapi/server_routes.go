package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerStationRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/stations", handler.CreateStation)
	mux.HandleFunc("GET /v1/stations", handler.ListStations)
	mux.HandleFunc("GET /v1/stations/{stationID}", handler.GetStation)
	mux.HandleFunc("DELETE /v1/stations/{stationID}", handler.DeleteStation)
}

func registerLineRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/lines", handler.CreateLine)
	mux.HandleFunc("GET /v1/lines", handler.ListLines)
	mux.HandleFunc("GET /v1/lines/{lineID}", handler.GetLine)
	mux.HandleFunc("PUT /v1/lines/{lineID}", handler.UpdateLine)
	mux.HandleFunc("DELETE /v1/lines/{lineID}", handler.DeleteLine)
}
