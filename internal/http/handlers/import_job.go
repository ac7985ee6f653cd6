package handlers

import (
	"net/http"
	"strings"
	"time"

	"cataloghub/internal/repo"
	"cataloghub/internal/services"
	"cataloghub/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ImportJobHandler struct {
	importService *services.ImportService
	jobRepo       *repo.ImportJobRepository
}

func NewImportJobHandler(importService *services.ImportService, jobRepo *repo.ImportJobRepository) *ImportJobHandler {
	return &ImportJobHandler{
		importService: importService,
		jobRepo:       jobRepo,
	}
}

// jobSummary is one row in the jobs list view.
type jobSummary struct {
	JobID              uuid.UUID  `json:"job_id"`
	FileName           string     `json:"file_name"`
	Status             string     `json:"status"`
	ProgressPercentage float64    `json:"progress_percentage"`
	TotalRows          int        `json:"total_rows"`
	ProcessedRows      int        `json:"processed_rows"`
	FailedRows         int        `json:"failed_rows"`
	CreatedAt          time.Time  `json:"created_at"`
	CompletedAt        *time.Time `json:"completed_at"`
}

// jobDetail mirrors the full ImportJob ledger.
type jobDetail struct {
	JobID         uuid.UUID              `json:"job_id"`
	FileName      string                 `json:"file_name"`
	Status        string                 `json:"status"`
	TotalRows     int                    `json:"total_rows"`
	ProcessedRows int                    `json:"processed_rows"`
	SuccessCount  int                    `json:"success_count"`
	ErrorCount    int                    `json:"error_count"`
	Errors        models.ImportErrorList `json:"errors"`
	Progress      float64                `json:"progress"`
	StartedAt     *time.Time             `json:"started_at"`
	CompletedAt   *time.Time             `json:"completed_at"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Upload godoc
// @Summary Upload a CSV file for import
// @Description Accept a product CSV and start an asynchronous import job
// @Tags import-jobs
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file to import"
// @Success 202 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /upload [post]
func (h *ImportJobHandler) Upload(c echo.Context) error {
	file, header, err := c.Request().FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file provided"})
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Only CSV files are allowed"})
	}

	job, err := h.importService.CreateJob(c.Request().Context(), header.Filename, file)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"job_id":  job.JobID.String(),
		"message": "Upload started successfully",
	})
}

// List godoc
// @Summary List import jobs
// @Description Get all import jobs, newest first
// @Tags import-jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /jobs [get]
func (h *ImportJobHandler) List(c echo.Context) error {
	jobs, err := h.jobRepo.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch jobs"})
	}

	summaries := make([]jobSummary, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		summaries = append(summaries, jobSummary{
			JobID:              job.JobID,
			FileName:           job.FileName,
			Status:             string(job.Status),
			ProgressPercentage: job.Progress(),
			TotalRows:          job.TotalRows,
			ProcessedRows:      job.ProcessedRows,
			FailedRows:         job.ErrorCount,
			CreatedAt:          job.CreatedAt,
			CompletedAt:        job.CompletedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": summaries})
}

// Get godoc
// @Summary Get import job detail
// @Description Get full progress detail for one import job
// @Tags import-jobs
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /jobs/{job_id} [get]
func (h *ImportJobHandler) Get(c echo.Context) error {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
	}

	job, err := h.jobRepo.GetByJobID(jobID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
	}

	errors := job.Errors
	if errors == nil {
		errors = models.ImportErrorList{}
	}

	return c.JSON(http.StatusOK, jobDetail{
		JobID:         job.JobID,
		FileName:      job.FileName,
		Status:        string(job.Status),
		TotalRows:     job.TotalRows,
		ProcessedRows: job.ProcessedRows,
		SuccessCount:  job.SuccessCount,
		ErrorCount:    job.ErrorCount,
		Errors:        errors,
		Progress:      job.Progress(),
		StartedAt:     job.StartedAt,
		CompletedAt:   job.CompletedAt,
		CreatedAt:     job.CreatedAt,
	})
}
