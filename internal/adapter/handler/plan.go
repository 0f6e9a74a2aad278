package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vibecut/autoeditor/errors"
	plandto "github.com/vibecut/autoeditor/internal/adapter/dto/plan"
	"github.com/vibecut/autoeditor/internal/domain/entities"
	"github.com/vibecut/autoeditor/internal/domain/repositories"
	"github.com/vibecut/autoeditor/internal/usecase/planner"
)

// Plan exposes plan generation and retrieval
type Plan struct {
	planner planner.Service
	plans   repositories.PlanRepository
	jobs    repositories.PlanJobRepository
	videos  repositories.VideoRepository
	logger  *zap.Logger
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(plannerSvc planner.Service, plans repositories.PlanRepository, jobs repositories.PlanJobRepository, videos repositories.VideoRepository, logger *zap.Logger) *Plan {
	return &Plan{
		planner: plannerSvc,
		plans:   plans,
		jobs:    jobs,
		videos:  videos,
		logger:  logger,
	}
}

// Generate runs the planner over the supplied signals. With async=true the
// request is queued and a job id is returned instead.
func (h *Plan) Generate(c echo.Context) error {
	var req plandto.GenerateRequest
	if err := BindAndValidate(c, &req); err != nil {
		return RespondAppError(c, err)
	}

	videoID, err := uuid.Parse(req.VideoID)
	if err != nil {
		return RespondAppError(c, errors.ErrPlanInputInvalid("video_id is not a valid uuid"))
	}

	ctx := c.Request().Context()
	video, err := h.videos.FindByID(ctx, videoID)
	if err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("find video", err))
	}
	if video == nil {
		return RespondAppError(c, errors.ErrVideoNotFound(req.VideoID))
	}

	input := req.ToPlannerInput()

	if req.Async {
		job := entities.NewPlanJob(videoID, input)
		if err := h.jobs.Create(ctx, job); err != nil {
			return RespondAppError(c, errors.ErrDBQueryFailed("create plan job", err))
		}
		if h.logger != nil {
			h.logger.Info("📥 plan job queued",
				zap.String("job_id", job.ID.String()),
				zap.String("video_id", videoID.String()))
		}
		return c.JSON(http.StatusAccepted, plandto.JobFromEntity(job))
	}

	outcome, err := h.planner.Plan(ctx, input)
	if err != nil {
		return RespondAppError(c, errors.ErrInternal(err))
	}

	row := entities.NewPlan(videoID, input.Mode, input.Metadata.Duration, outcome.Plan)
	row.UsedModel = outcome.UsedModel
	row.Provider = outcome.Provider
	row.Model = outcome.Model
	if err := h.plans.Create(ctx, row); err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("create plan", err))
	}

	if err := h.videos.UpdateStatus(ctx, videoID, entities.VideoStatusPlanned); err != nil && h.logger != nil {
		h.logger.Warn("failed to mark video planned", zap.Error(err))
	}

	return c.JSON(http.StatusOK, plandto.FromEntity(row))
}

// Get returns one plan by id
func (h *Plan) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondAppError(c, errors.ErrInvalidArgument("id is not a valid uuid"))
	}

	row, err := h.plans.FindByID(c.Request().Context(), id)
	if err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("find plan", err))
	}
	if row == nil {
		return RespondAppError(c, errors.ErrPlanNotFound(id.String()))
	}
	return c.JSON(http.StatusOK, plandto.FromEntity(row))
}

// ListByVideo returns all plans for one video, newest first
func (h *Plan) ListByVideo(c echo.Context) error {
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		return RespondAppError(c, errors.ErrInvalidArgument("videoId is not a valid uuid"))
	}

	rows, err := h.plans.ListByVideo(c.Request().Context(), videoID)
	if err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("list plans", err))
	}

	out := make([]plandto.PlanResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, plandto.FromEntity(row))
	}
	return c.JSON(http.StatusOK, out)
}

// GetJob returns the status of one async planning job
func (h *Plan) GetJob(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondAppError(c, errors.ErrInvalidArgument("id is not a valid uuid"))
	}

	job, err := h.jobs.FindByID(c.Request().Context(), id)
	if err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("find plan job", err))
	}
	if job == nil {
		return RespondAppError(c, errors.ErrPlanJobNotFound(id.String()))
	}
	return c.JSON(http.StatusOK, plandto.JobFromEntity(job))
}
