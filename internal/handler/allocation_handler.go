package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/airside-ops/belt-allocation/internal/config"
	"github.com/airside-ops/belt-allocation/internal/domain"
	"github.com/airside-ops/belt-allocation/internal/service/assignment"
	"github.com/airside-ops/belt-allocation/internal/service/belt"
)

type AllocationHandler struct {
	allocationService *assignment.Service
	allocationRepo    domain.AllocationRepository
	engine            *belt.Engine
	config            *config.Config
}

func NewAllocationHandler(
	allocationService *assignment.Service,
	allocationRepo domain.AllocationRepository,
	engine *belt.Engine,
	cfg *config.Config,
) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
		allocationRepo:    allocationRepo,
		engine:            engine,
		config:            cfg,
	}
}

// HandleAllocationRun fetches arrivals for the upcoming window, allocates
// belts, and publishes the resulting plan. The `from` query parameter sets a
// virtual start time for replaying historical windows.
func (h *AllocationHandler) HandleAllocationRun(c *gin.Context) {
	ctx := c.Request.Context()

	var now time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid from time format, expected RFC3339")
			return
		}
		now = parsed.Truncate(time.Minute)
		slog.InfoContext(ctx, "using virtual time",
			slog.Time("virtual_now", now),
		)
	} else {
		now = time.Now().Truncate(time.Minute)
	}

	horizonMinutes := h.config.Belts.HorizonMinutes
	if horizonStr := c.Query("horizon"); horizonStr != "" {
		parsed, err := time.ParseDuration(horizonStr + "m")
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "invalid horizon, expected positive minutes")
			return
		}
		horizonMinutes = int(parsed.Minutes())
	}

	runID := c.GetHeader("X-Run-ID")
	if runID == "" {
		runID = uuid.NewString()
	}

	windowEnd := now.Add(time.Duration(horizonMinutes) * time.Minute)

	slog.InfoContext(ctx, "starting allocation run",
		slog.String("run_id", runID),
		slog.Time("window_start", now),
		slog.Time("window_end", windowEnd),
	)

	result, err := h.allocationService.ProcessArrivals(ctx, now, windowEnd, runID)
	if err != nil {
		slog.ErrorContext(ctx, "allocation run failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrInvalidFlowKind) {
			respondError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	slog.InfoContext(ctx, "allocation run completed",
		slog.String("run_id", runID),
		slog.Int("processed", result.ProcessedCount),
		slog.Int("forced", result.ForcedCount),
		slog.Int("preset", result.PresetCount),
	)

	c.JSON(http.StatusOK, result)
}

// HandleCurrentAllocation returns the most recently published plan.
func (h *AllocationHandler) HandleCurrentAllocation(c *gin.Context) {
	ctx := c.Request.Context()

	plan, err := h.allocationRepo.GetLatestPlan(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			respondError(c, http.StatusNotFound, "no allocation plan published yet")
			return
		}
		slog.ErrorContext(ctx, "failed to load latest plan",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "failed to load latest plan")
		return
	}

	c.JSON(http.StatusOK, plan)
}

type previewFlight struct {
	FlightID      string    `json:"flight_id" binding:"required"`
	Start         time.Time `json:"start" binding:"required"`
	End           time.Time `json:"end"`
	Flow          string    `json:"flow" binding:"required"`
	RequestedBelt int       `json:"requested_belt"`
	Heavy         bool      `json:"heavy"`
}

type previewRequest struct {
	Flights []previewFlight `json:"flights" binding:"required,dive"`
}

type previewResponse struct {
	ForcedCount int                     `json:"forced_count"`
	Results     []assignment.ResultItem `json:"results"`
}

// HandleAllocationPreview runs the allocation engine over a caller-supplied
// flight list without touching the arrivals feed or the plan store.
func (h *AllocationHandler) HandleAllocationPreview(c *gin.Context) {
	ctx := c.Request.Context()

	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	flights := make([]domain.Flight, 0, len(req.Flights))
	for _, pf := range req.Flights {
		flights = append(flights, domain.Flight{
			ID:            pf.FlightID,
			Start:         pf.Start,
			End:           pf.End,
			Flow:          domain.Flow(strings.ToLower(strings.TrimSpace(pf.Flow))),
			RequestedBelt: pf.RequestedBelt,
			Heavy:         pf.Heavy,
		})
	}

	result, err := h.engine.Allocate(ctx, flights)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFlowKind) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(ctx, "preview allocation failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp := previewResponse{
		ForcedCount: result.ForcedCount,
		Results:     make([]assignment.ResultItem, 0, len(result.Flights)),
	}
	for _, f := range result.Flights {
		resp.Results = append(resp.Results, assignment.ResultItem{
			FlightID: f.ID,
			Flow:     f.Flow,
			Belt:     f.AssignedBelt,
			Start:    f.Start,
			End:      f.End,
			Reason:   f.Reason,
			Forced:   f.Forced,
			Preset:   f.HasRequestedBelt() && f.AssignedBelt == f.RequestedBelt && !f.Forced,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":   "allocation_error",
		"message": message,
	})
}
