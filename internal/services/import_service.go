package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cataloghub/internal/tasks"
	"cataloghub/internal/telemetry"
	"cataloghub/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// chunkSize is the number of CSV rows processed between ledger checkpoints.
const chunkSize = 1000

// ProductUpserter is the slice of the product store the pipeline needs.
type ProductUpserter interface {
	Upsert(product *models.Product) (*models.Product, bool, error)
}

// ImportJobStore is the job ledger contract.
type ImportJobStore interface {
	Create(job *models.ImportJob) error
	GetByJobID(jobID uuid.UUID) (*models.ImportJob, error)
	Save(job *models.ImportJob) error
	ClaimPending(jobID uuid.UUID) (bool, error)
}

// TaskEnqueuer hands work to the background task queue.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload any) error
}

// ImportService owns the asynchronous CSV import pipeline: it accepts
// uploads on the request path and processes them chunk by chunk on the
// worker path.
type ImportService struct {
	jobs      ImportJobStore
	products  ProductUpserter
	queue     TaskEnqueuer
	uploadDir string
}

func NewImportService(jobs ImportJobStore, products ProductUpserter, queue TaskEnqueuer, uploadDir string) *ImportService {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", uploadDir).Msg("Failed to create upload directory")
	}
	return &ImportService{
		jobs:      jobs,
		products:  products,
		queue:     queue,
		uploadDir: uploadDir,
	}
}

// CreateJob persists the uploaded bytes, records a pending job and enqueues
// it for background processing. It returns as soon as the job is durable;
// no CSV row is read on this path.
func (s *ImportService) CreateJob(ctx context.Context, filename string, file io.Reader) (*models.ImportJob, error) {
	jobID := uuid.New()
	filePath := filepath.Join(s.uploadDir, jobID.String()+".csv")

	outFile, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	_, err = io.Copy(outFile, file)
	outFile.Close()
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save upload file: %w", err)
	}

	job := &models.ImportJob{
		JobID:    jobID,
		FileName: filename,
		FilePath: filePath,
		Status:   models.ImportJobStatusPending,
	}
	if err := s.jobs.Create(job); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}

	if err := s.queue.Enqueue(ctx, tasks.TypeImportProcess, tasks.ImportProcessPayload{JobID: jobID}); err != nil {
		return nil, fmt.Errorf("failed to enqueue import job: %w", err)
	}

	log.Info().Str("job_id", jobID.String()).Str("file", filename).Msg("Import job created")
	return job, nil
}

// ProcessJob is the worker entry point. It claims the job, runs the chunked
// pipeline and drives the job to a terminal state. A row-level failure never
// fails the job; only an error escaping chunk processing does.
func (s *ImportService) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	claimed, err := s.jobs.ClaimPending(jobID)
	if err != nil {
		return fmt.Errorf("failed to claim import job %s: %w", jobID, err)
	}
	if !claimed {
		log.Warn().Str("job_id", jobID.String()).Msg("Import job not pending, skipping")
		return nil
	}

	job, err := s.jobs.GetByJobID(jobID)
	if err != nil {
		return fmt.Errorf("failed to load import job %s: %w", jobID, err)
	}

	runErr := s.processFile(ctx, job)

	if runErr != nil {
		job.Status = models.ImportJobStatusFailed
		job.Errors = append(job.Errors, models.ImportError{
			Kind:    models.ImportErrorKindFatal,
			Message: runErr.Error(),
		})
		log.Error().Err(runErr).Str("job_id", jobID.String()).Msg("Import job failed")
	} else {
		now := time.Now().UTC()
		job.Status = models.ImportJobStatusCompleted
		job.CompletedAt = &now
		log.Info().
			Str("job_id", jobID.String()).
			Int("processed", job.ProcessedRows).
			Int("success", job.SuccessCount).
			Int("errors", job.ErrorCount).
			Msg("Import job completed")
	}

	if err := s.jobs.Save(job); err != nil {
		return fmt.Errorf("failed to save import job %s: %w", jobID, err)
	}

	os.Remove(job.FilePath)
	return nil
}

// processFile reads the CSV, materializes the row set to fix total_rows up
// front, then upserts rows in chunks, checkpointing the ledger after each.
func (s *ImportService) processFile(ctx context.Context, job *models.ImportJob) error {
	file, err := os.Open(job.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) == 0 {
		// Empty file: nothing to import, the job still completes.
		job.TotalRows = 0
		return s.jobs.Save(job)
	}

	columns := columnIndex(records[0])
	rows := records[1:]

	job.TotalRows = len(rows)
	if err := s.jobs.Save(job); err != nil {
		return fmt.Errorf("failed to record row count: %w", err)
	}

	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		for _, record := range rows[start:end] {
			s.processRow(ctx, job, columns, record)
		}

		job.ProcessedRows = end
		if err := s.jobs.Save(job); err != nil {
			return fmt.Errorf("failed to checkpoint progress: %w", err)
		}
	}

	return nil
}

// processRow upserts one CSV row. Failures are recorded in the job's error
// list and never abort the chunk.
func (s *ImportService) processRow(ctx context.Context, job *models.ImportJob, columns map[string]int, record []string) {
	row := rowValues(columns, record)

	product, err := parseProductRow(row)
	if err == nil {
		var created bool
		product, created, err = s.products.Upsert(product)
		if err == nil {
			job.SuccessCount++
			telemetry.ImportRows.WithLabelValues("success").Inc()

			event := models.EventProductUpdated
			if created {
				event = models.EventProductCreated
			}
			payload := tasks.WebhookDispatchPayload{EventType: event, ProductID: product.ID}
			if enqueueErr := s.queue.Enqueue(ctx, tasks.TypeWebhookDispatch, payload); enqueueErr != nil {
				log.Warn().Err(enqueueErr).Str("job_id", job.JobID.String()).Msg("Failed to enqueue webhook dispatch")
			}
			return
		}
	}

	job.ErrorCount++
	job.Errors = append(job.Errors, models.ImportError{
		Kind:    models.ImportErrorKindRow,
		Row:     row,
		Message: err.Error(),
	})
	telemetry.ImportRows.WithLabelValues("error").Inc()
}

// parseProductRow validates one row of the fixed column set.
func parseProductRow(row map[string]string) (*models.Product, error) {
	sku := models.NormalizeSKU(row["sku"])
	if sku == "" {
		return nil, fmt.Errorf("sku is required")
	}
	name := strings.TrimSpace(row["name"])
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	priceStr := strings.TrimSpace(row["price"])
	if priceStr == "" {
		return nil, fmt.Errorf("price is required")
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", priceStr)
	}
	if price <= 0 {
		return nil, fmt.Errorf("price must be greater than zero")
	}

	return &models.Product{
		SKU:         sku,
		Name:        name,
		Description: row["description"],
		Price:       price,
		IsActive:    true,
	}, nil
}

// columnIndex maps lowercased header names to their positions.
func columnIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

// rowValues rebuilds the row as a name→value map, which is also what goes
// into the error list so callers can see the offending input.
func rowValues(columns map[string]int, record []string) map[string]string {
	row := make(map[string]string, len(columns))
	for name, idx := range columns {
		if idx < len(record) {
			row[name] = strings.TrimSpace(record[idx])
		}
	}
	return row
}
