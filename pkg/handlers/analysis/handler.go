package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/de-tools/ledger-atlas/pkg/adapters"
	"github.com/de-tools/ledger-atlas/pkg/config"
	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/analysis"
	"github.com/de-tools/ledger-atlas/pkg/services/forecast"
	"github.com/de-tools/ledger-atlas/pkg/services/trend"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 32 << 20

type Handler struct {
	service  analysis.Service
	validate *validator.Validate
}

func NewHandler(service analysis.Service) *Handler {
	return &Handler{
		service:  service,
		validate: config.Validator(),
	}
}

// badRequest carries client errors to writeError.
type badRequest struct {
	err    error
	fields []api.FieldError
}

func (e *badRequest) Error() string { return e.err.Error() }

func (e *badRequest) Unwrap() error { return e.err }

func (h *Handler) Deviations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.DeviationRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	previous, err := adapters.MapApiBookingsToDomain(req.Previous.Bookings)
	if err != nil {
		h.writeError(w, r, &badRequest{err: fmt.Errorf("previous: %w", err)})
		return
	}
	current, err := adapters.MapApiBookingsToDomain(req.Current.Bookings)
	if err != nil {
		h.writeError(w, r, &badRequest{err: fmt.Errorf("current: %w", err)})
		return
	}

	d := h.service.Defaults()
	cfg := domain.DeviationConfig{
		MaterialityAbsolute: d.MaterialityAbsolute,
		MaterialityPercent:  d.MaterialityPercent,
		PreviousLabel:       req.Previous.Label,
		CurrentLabel:        req.Current.Label,
	}
	if req.MaterialityAbsolute != nil {
		cfg.MaterialityAbsolute = *req.MaterialityAbsolute
	}
	if req.MaterialityPercent != nil {
		cfg.MaterialityPercent = *req.MaterialityPercent
	}

	result, err := h.service.Deviations(ctx, previous, current, cfg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapDeviationResultDomainToApi(result))
}

func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.TrendRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	classifier := h.service.Classifier()
	periods := make([]domain.Period, 0, len(req.Periods))
	for i, p := range req.Periods {
		bookings, err := adapters.MapApiBookingsToDomain(p.Bookings)
		if err != nil {
			h.writeError(w, r, &badRequest{err: fmt.Errorf("period %d: %w", i, err)})
			return
		}
		periods = append(periods, trend.NewPeriod(p.Label, bookings, classifier))
	}

	result, err := h.service.Trends(ctx, periods)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapTrendResultDomainToApi(result))
}

func (h *Handler) RollingForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	d := h.service.Defaults().Rolling
	detection := d.SeasonalityDetection
	req := api.RollingForecastRequest{
		Horizon:              d.Horizon,
		SeasonalityDetection: &detection,
		ConfidenceLevel:      d.ConfidenceLevel,
		Method:               string(d.Method),
	}
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	current, err := adapters.MapApiBookingsToDomain(req.Current)
	if err != nil {
		h.writeError(w, r, &badRequest{err: fmt.Errorf("current: %w", err)})
		return
	}
	historical, err := adapters.MapApiBookingsToDomain(req.Historical)
	if err != nil {
		h.writeError(w, r, &badRequest{err: fmt.Errorf("historical: %w", err)})
		return
	}

	result, err := h.service.RollingForecast(ctx, current, historical, adapters.MapRollingForecastRequestToDomain(req))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapRollingForecastDomainToApi(result))
}

func (h *Handler) SeriesForecast(w http.ResponseWriter, r *http.Request) {
	var req api.SeriesForecastRequest
	if err := defaults.Set(&req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.service.ForecastSeries(r.Context(), req.Values, domain.ForecastMethod(req.Method), req.Horizon)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapForecastDomainToApi(result))
}

func (h *Handler) Classification(w http.ResponseWriter, r *http.Request) {
	ranges := h.service.Classifier().Ranges()
	resp := api.ClassificationResponse{
		Ranges:  make([]api.ClassificationRange, 0, len(ranges)),
		Default: string(domain.AccountClassOther),
	}
	for _, rg := range ranges {
		resp.Ranges = append(resp.Ranges, api.ClassificationRange{From: rg.From, To: rg.To, Class: string(rg.Class)})
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &badRequest{err: fmt.Errorf("invalid request body: %w", err)}
	}

	if err := h.validate.StructCtx(r.Context(), v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]api.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, api.FieldError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed on %s", fe.Tag()),
			})
		}
		return &badRequest{err: errors.New("validation failed"), fields: fields}
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	status := http.StatusInternalServerError
	resp := api.ErrorResponse{Error: err.Error()}

	var br *badRequest
	switch {
	case errors.As(err, &br):
		status = http.StatusBadRequest
		resp.Fields = br.fields
	case errors.Is(err, forecast.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, forecast.ErrUnknownMethod), errors.Is(err, forecast.ErrConfidenceLevel):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		resp.Error = "internal error"
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	h.writeJSON(w, r, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
