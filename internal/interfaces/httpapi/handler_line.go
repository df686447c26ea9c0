package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/riskibarqy/subway-lines/internal/domain/line"
	"github.com/riskibarqy/subway-lines/internal/usecase"
)

func (h *Handler) CreateLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLine")
	defer span.End()

	var req createLineRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.lineService.CreateLine(ctx, usecase.CreateLineInput{
		Name:          req.Name,
		Color:         req.Color,
		UpStationID:   req.UpStationID,
		DownStationID: req.DownStationID,
		Distance:      req.Distance,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create line failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto, err := lineToDTO(ctx, item)
	if err != nil {
		h.logger.ErrorContext(ctx, "map created line failed", "line_id", item.ID, "error", err)
		writeInternalError(ctx, w)
		return
	}

	w.Header().Set("Location", "/v1/lines/"+strconv.FormatInt(item.ID, 10))
	writeSuccess(ctx, w, http.StatusCreated, dto)
}

func (h *Handler) ListLines(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLines")
	defer span.End()

	items, err := h.lineService.ListLines(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list lines failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]lineDTO, 0, len(items))
	for _, item := range items {
		dto, err := lineToDTO(ctx, item)
		if err != nil {
			h.logger.ErrorContext(ctx, "map line failed", "line_id", item.ID, "error", err)
			writeInternalError(ctx, w)
			return
		}
		out = append(out, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLine")
	defer span.End()

	lineID, err := pathID(r, "lineID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.lineService.GetLine(ctx, lineID)
	if err != nil {
		h.logger.WarnContext(ctx, "get line failed", "line_id", lineID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.writeLine(ctx, w, item)
}

func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateLine")
	defer span.End()

	lineID, err := pathID(r, "lineID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateLineRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.lineService.UpdateLine(ctx, lineID, usecase.UpdateLineInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update line failed", "line_id", lineID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.writeLine(ctx, w, item)
}

func (h *Handler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteLine")
	defer span.End()

	lineID, err := pathID(r, "lineID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.lineService.DeleteLine(ctx, lineID); err != nil {
		h.logger.WarnContext(ctx, "delete line failed", "line_id", lineID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) writeLine(ctx context.Context, w http.ResponseWriter, item line.Line) {
	dto, err := lineToDTO(ctx, item)
	if err != nil {
		h.logger.ErrorContext(ctx, "map line failed", "line_id", item.ID, "error", err)
		writeInternalError(ctx, w)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}
