// Package api - HTTP handlers for pricing estimates
// Handlers parse and validate input, then delegate to core packages.
// They contain NO pricing logic.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"creative-pricing/core/configuration"
	"creative-pricing/core/cost"
	"creative-pricing/core/determinism"
	"creative-pricing/core/output"
	"creative-pricing/core/pricing"
	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
	"creative-pricing/internal/logging"
	"creative-pricing/internal/metrics"
)

// Handler serves pricing requests against one table
type Handler struct {
	table   *pricing.Table
	version string
}

// NewHandler creates a new handler
func NewHandler(table *pricing.Table, version string) *Handler {
	return &Handler{table: table, version: version}
}

// RegisterRoutes mounts the /v1 endpoints
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/pricing", h.Pricing)
	r.POST("/estimate", h.Estimate)
	r.POST("/configure", h.Configure)
	r.POST("/compare", h.Compare)
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Version handles GET /version
func (h *Handler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":       h.version,
		"api_version":   "v1",
		"table_version": h.table.Version(),
		"fingerprint":   h.table.Fingerprint().Short(),
	})
}

// Pricing handles GET /v1/pricing?currency=USD
func (h *Handler) Pricing(c *gin.Context) {
	code := h.table.BaseCurrency()
	if q := c.Query("currency"); q != "" {
		parsed, err := types.ParseCurrency(q)
		if err != nil {
			writeError(c, err)
			return
		}
		code = parsed
	}

	resp, err := summarize(h.table, code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Estimate handles POST /v1/estimate
func (h *Handler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(errors.TypeInput, "invalid JSON body", err))
		return
	}

	cfg, err := configuration.Build(h.table, req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, cfg, "")
}

// Configure handles POST /v1/configure.
// Non-numeric text input is not an error: the unchanged configuration is
// priced and returned with the rejection reason.
func (h *Handler) Configure(c *gin.Context) {
	var req ConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(errors.TypeInput, "invalid JSON body", err))
		return
	}

	cfg, err := configuration.Build(h.table, req.Configuration)
	if err != nil {
		writeError(c, err)
		return
	}

	next, err := cfg.Apply(req.Event)
	if err != nil {
		if configuration.IsRejectedText(err) {
			metrics.InputRejectionsTotal.WithLabelValues("non_numeric_text").Inc()
			h.respond(c, cfg, err.Error())
			return
		}
		writeError(c, err)
		return
	}
	h.respond(c, next, "")
}

// Compare handles POST /v1/compare
func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(errors.TypeInput, "invalid JSON body", err))
		return
	}

	base, err := h.result(req.Base)
	if err != nil {
		writeError(c, err)
		return
	}
	head, err := h.result(req.Head)
	if err != nil {
		writeError(c, err)
		return
	}

	cmp, err := cost.Compare(base.Breakdown, head.Breakdown)
	if err != nil {
		writeError(c, err)
		return
	}

	symbol := head.Quote.Symbol
	first, err := h.table.Convert(cmp.FirstPeriodDelta, head.Quote.Currency)
	if err != nil {
		writeError(c, errors.Pricing("convert delta", err))
		return
	}
	ongoing, err := h.table.Convert(cmp.OngoingDelta, head.Quote.Currency)
	if err != nil {
		writeError(c, errors.Pricing("convert delta", err))
		return
	}

	c.JSON(http.StatusOK, CompareResponse{
		Base:             base.Quote,
		Head:             head.Quote,
		Comparison:       cmp,
		FirstPeriodDelta: cost.Amount{Value: first, Display: cost.FormatAmount(symbol, first)},
		OngoingDelta:     cost.Amount{Value: ongoing, Display: cost.FormatAmount(symbol, ongoing)},
	})
}

func (h *Handler) result(s configuration.Spec) (*output.Result, error) {
	cfg, err := configuration.Build(h.table, s)
	if err != nil {
		return nil, err
	}
	return h.compute(cfg)
}

func (h *Handler) compute(cfg configuration.Configuration) (*output.Result, error) {
	res, err := output.NewResult(cfg, h.table)
	if err != nil {
		return nil, err
	}
	res.Metadata.Version = h.version
	res.Metadata.Timestamp = time.Now().UTC().Format(time.RFC3339)

	metrics.BreakdownsTotal.WithLabelValues(
		string(res.Breakdown.Line),
		string(res.Breakdown.Plan),
		string(res.Breakdown.Period),
	).Inc()
	return res, nil
}

func (h *Handler) respond(c *gin.Context, cfg configuration.Configuration, rejected string) {
	res, err := h.compute(cfg)
	if err != nil {
		writeError(c, err)
		return
	}
	res.ID = uuid.NewString()

	hash, err := determinism.HashJSON(res.Configuration)
	if err != nil {
		writeError(c, errors.Internal("hash configuration", err))
		return
	}

	c.JSON(http.StatusOK, EstimateResponse{
		Result:    res,
		InputHash: hash.Hex(),
		Rejected:  rejected,
	})
}

// writeError maps typed errors to HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := string(errors.TypeInternal)

	switch {
	case errors.IsType(err, errors.TypeInput):
		status, code = http.StatusBadRequest, string(errors.TypeInput)
		metrics.InputRejectionsTotal.WithLabelValues("invalid_request").Inc()
	case errors.IsType(err, errors.TypePricing), errors.IsType(err, errors.TypeNotFound):
		status, code = http.StatusUnprocessableEntity, string(errors.TypePricing)
	case errors.IsType(err, errors.TypeNotSupported):
		status, code = http.StatusBadRequest, string(errors.TypeNotSupported)
	}

	if status >= http.StatusInternalServerError {
		logging.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		logging.Debug("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
}
