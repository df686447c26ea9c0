package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/subway-lines/internal/platform/logging"
	"github.com/riskibarqy/subway-lines/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	lineService    *usecase.LineService
	stationService *usecase.StationService
	readiness      []ReadinessCheck
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	lineService *usecase.LineService,
	stationService *usecase.StationService,
	logger *logging.Logger,
	readiness ...ReadinessCheck,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		lineService:    lineService,
		stationService: stationService,
		readiness:      readiness,
		logger:         logger,
		validator:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeAndValidate")
	defer span.End()

	body := io.LimitReader(r.Body, maxRequestBodyBytes)
	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := ensureNoTrailingData(io.MultiReader(decoder.Buffered(), body)); err != nil {
		return err
	}

	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// ensureNoTrailingData rejects anything but whitespace after the payload.
func ensureNoTrailingData(rest io.Reader) error {
	buf := make([]byte, 512)
	for {
		n, err := rest.Read(buf)
		if len(bytes.TrimSpace(buf[:n])) > 0 {
			return fmt.Errorf("%w: invalid JSON payload: unexpected data after the JSON value", usecase.ErrInvalidInput)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
		}
	}
}

// pathID reads a positive numeric path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}
