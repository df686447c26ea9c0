package httpapi

import (
	"net/http"
	"strconv"
)

func (h *Handler) CreateStation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateStation")
	defer span.End()

	var req createStationRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.stationService.CreateStation(ctx, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create station failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Location", "/v1/stations/"+strconv.FormatInt(item.ID, 10))
	writeSuccess(ctx, w, http.StatusCreated, stationToDTO(item))
}

func (h *Handler) ListStations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStations")
	defer span.End()

	items, err := h.stationService.ListStations(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list stations failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]stationDTO, 0, len(items))
	for _, item := range items {
		out = append(out, stationToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetStation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStation")
	defer span.End()

	stationID, err := pathID(r, "stationID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.stationService.GetStation(ctx, stationID)
	if err != nil {
		h.logger.WarnContext(ctx, "get station failed", "station_id", stationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stationToDTO(item))
}

func (h *Handler) DeleteStation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteStation")
	defer span.End()

	stationID, err := pathID(r, "stationID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.stationService.DeleteStation(ctx, stationID); err != nil {
		h.logger.WarnContext(ctx, "delete station failed", "station_id", stationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}
