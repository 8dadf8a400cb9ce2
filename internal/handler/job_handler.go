// internal/handler/job_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"receipt-service/internal/model"
	"receipt-service/internal/repository"
	"receipt-service/internal/service"
	"receipt-service/internal/utils"
)

// JobHandler serves the print job log
type JobHandler struct {
	jobService *service.JobService
	logger     *utils.ServiceLogger
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *service.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     utils.NewServiceLogger(logger, "job-handler"),
	}
}

// RegisterRoutes registers job routes
func (h *JobHandler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/stats", h.GetStats)
		jobs.GET("/:id", h.GetJob)
	}
}

// ListJobs lists print jobs
// @Summary List print jobs
// @Description Get print job history, newest first
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param method query string false "Filter by method" Enums(dialog, document, wireless, networked, serial, usb)
// @Param status query string false "Filter by status" Enums(SUCCESS, FAILED)
// @Param sale_id query string false "Filter by sale"
// @Success 200 {object} utils.APIResponse{data=object{jobs=[]model.PrintJob,pagination=service.PaginationResult}} "Jobs retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid query"
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	var filter model.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindingError(c, err)
		return
	}

	jobs, pagination, err := h.jobService.ListJobs(c.Request.Context(), &filter)
	if err != nil {
		h.logger.Error("Failed to list print jobs", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list print jobs", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Print jobs retrieved", gin.H{
		"jobs":       jobs,
		"pagination": pagination,
	})
}

// GetJob returns one print job
// @Summary Get print job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} utils.APIResponse{data=model.PrintJob} "Job retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid job ID"
// @Failure 404 {object} utils.APIResponse "Job not found"
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid job ID", err)
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			respondError(c, http.StatusNotFound, "Print job not found", err)
			return
		}
		h.logger.Error("Failed to get print job", zap.String("job_id", id.String()), zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get print job", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Print job retrieved", job)
}

// GetStats summarizes the print job log
// @Summary Print job statistics
// @Tags Jobs
// @Produce json
// @Success 200 {object} utils.APIResponse{data=repository.JobStats} "Statistics retrieved"
// @Router /jobs/stats [get]
func (h *JobHandler) GetStats(c *gin.Context) {
	stats, err := h.jobService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get job statistics", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get job statistics", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job statistics retrieved", stats)
}
