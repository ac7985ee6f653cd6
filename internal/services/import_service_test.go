package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"cataloghub/internal/tasks"
	"cataloghub/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeJobStore struct {
	job         *models.ImportJob
	checkpoints []int
	claims      int
}

func (s *fakeJobStore) Create(job *models.ImportJob) error {
	s.job = job
	return nil
}

func (s *fakeJobStore) GetByJobID(jobID uuid.UUID) (*models.ImportJob, error) {
	if s.job == nil || s.job.JobID != jobID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.job, nil
}

func (s *fakeJobStore) Save(job *models.ImportJob) error {
	s.job = job
	s.checkpoints = append(s.checkpoints, job.ProcessedRows)
	return nil
}

func (s *fakeJobStore) ClaimPending(jobID uuid.UUID) (bool, error) {
	s.claims++
	if s.job == nil || s.job.JobID != jobID || s.job.Status != models.ImportJobStatusPending {
		return false, nil
	}
	s.job.Status = models.ImportJobStatusProcessing
	return true, nil
}

type fakeProductStore struct {
	bySKU map[string]*models.Product
	order []string
}

func (s *fakeProductStore) Upsert(product *models.Product) (*models.Product, bool, error) {
	if s.bySKU == nil {
		s.bySKU = make(map[string]*models.Product)
	}
	s.order = append(s.order, product.SKU)
	if existing, ok := s.bySKU[product.SKU]; ok {
		existing.Name = product.Name
		existing.Description = product.Description
		existing.Price = product.Price
		return existing, false, nil
	}
	product.ID = uuid.New()
	s.bySKU[product.SKU] = product
	return product, true, nil
}

type enqueuedTask struct {
	taskType string
	payload  any
}

type fakeQueue struct {
	tasks []enqueuedTask
}

func (q *fakeQueue) Enqueue(ctx context.Context, taskType string, payload any) error {
	q.tasks = append(q.tasks, enqueuedTask{taskType: taskType, payload: payload})
	return nil
}

func (q *fakeQueue) dispatches() []tasks.WebhookDispatchPayload {
	var out []tasks.WebhookDispatchPayload
	for _, task := range q.tasks {
		if task.taskType == tasks.TypeWebhookDispatch {
			out = append(out, task.payload.(tasks.WebhookDispatchPayload))
		}
	}
	return out
}

func newTestImportService(t *testing.T) (*ImportService, *fakeJobStore, *fakeProductStore, *fakeQueue) {
	t.Helper()
	jobs := &fakeJobStore{}
	products := &fakeProductStore{}
	queue := &fakeQueue{}
	svc := NewImportService(jobs, products, queue, t.TempDir())
	return svc, jobs, products, queue
}

func runImport(t *testing.T, csvData string) (*models.ImportJob, *fakeJobStore, *fakeProductStore, *fakeQueue) {
	t.Helper()
	svc, jobs, products, queue := newTestImportService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, "products.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	require.NoError(t, svc.ProcessJob(ctx, job.JobID))
	return jobs.job, jobs, products, queue
}

func TestCreateJobIsPendingAndEnqueued(t *testing.T) {
	svc, jobs, _, queue := newTestImportService(t)

	job, err := svc.CreateJob(context.Background(), "catalog.csv", strings.NewReader("sku,name,price\nA1,Widget,9.99\n"))
	require.NoError(t, err)

	assert.Equal(t, models.ImportJobStatusPending, job.Status)
	assert.Equal(t, "catalog.csv", job.FileName)
	assert.Equal(t, 0, job.TotalRows)
	assert.FileExists(t, job.FilePath)
	require.NotNil(t, jobs.job)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, tasks.TypeImportProcess, queue.tasks[0].taskType)
	assert.Equal(t, tasks.ImportProcessPayload{JobID: job.JobID}, queue.tasks[0].payload)
}

func TestProcessJobMixedRows(t *testing.T) {
	csvData := "sku,name,description,price\n" +
		"A1,Widget,Blue widget,9.99\n" +
		"A2,Gadget,,abc\n" +
		"A3,,No name,5.00\n" +
		"A4,Doodad,Small,1.25\n"

	job, _, products, queue := runImport(t, csvData)

	assert.Equal(t, models.ImportJobStatusCompleted, job.Status)
	assert.Equal(t, 4, job.TotalRows)
	assert.Equal(t, 4, job.ProcessedRows)
	assert.Equal(t, 2, job.SuccessCount)
	assert.Equal(t, 2, job.ErrorCount)
	require.NotNil(t, job.CompletedAt)
	assert.Equal(t, float64(100), job.Progress())

	require.Len(t, job.Errors, 2)
	assert.Equal(t, models.ImportErrorKindRow, job.Errors[0].Kind)
	assert.Equal(t, `invalid price "abc"`, job.Errors[0].Message)
	assert.Equal(t, "A2", job.Errors[0].Row["sku"])
	assert.Equal(t, "name is required", job.Errors[1].Message)

	assert.Len(t, products.bySKU, 2)
	assert.Len(t, queue.dispatches(), 2)
}

func TestProcessJobNormalizesSKUAndEmitsUpdateEvents(t *testing.T) {
	csvData := "sku,name,price\n" +
		"abc-1,First,1.00\n" +
		"ABC-1,Second,2.00\n"

	job, _, products, queue := runImport(t, csvData)

	assert.Equal(t, 2, job.SuccessCount)
	assert.Equal(t, 0, job.ErrorCount)

	require.Len(t, products.bySKU, 1)
	product := products.bySKU["ABC-1"]
	require.NotNil(t, product)
	assert.Equal(t, "Second", product.Name)
	assert.Equal(t, 2.00, product.Price)

	dispatches := queue.dispatches()
	require.Len(t, dispatches, 2)
	assert.Equal(t, models.EventProductCreated, dispatches[0].EventType)
	assert.Equal(t, models.EventProductUpdated, dispatches[1].EventType)
	assert.Equal(t, product.ID, dispatches[0].ProductID)
	assert.Equal(t, product.ID, dispatches[1].ProductID)
}

func TestProcessJobChunkedCheckpoints(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("sku,name,price\n")
	for i := 0; i < 2500; i++ {
		fmt.Fprintf(&sb, "SKU-%04d,Product %d,%d.50\n", i, i, i+1)
	}

	job, jobs, _, _ := runImport(t, sb.String())

	assert.Equal(t, models.ImportJobStatusCompleted, job.Status)
	assert.Equal(t, 2500, job.TotalRows)
	assert.Equal(t, 2500, job.ProcessedRows)
	assert.Equal(t, 2500, job.SuccessCount)
	assert.Equal(t, 0, job.ErrorCount)

	// One save fixing total_rows, one per chunk, one terminal save.
	require.Equal(t, []int{0, 1000, 2000, 2500, 2500}, jobs.checkpoints)
	for i := 1; i < len(jobs.checkpoints); i++ {
		assert.GreaterOrEqual(t, jobs.checkpoints[i], jobs.checkpoints[i-1])
	}
}

func TestProcessJobEmptyFile(t *testing.T) {
	job, _, _, queue := runImport(t, "")

	assert.Equal(t, models.ImportJobStatusCompleted, job.Status)
	assert.Equal(t, 0, job.TotalRows)
	assert.Equal(t, 0, job.ProcessedRows)
	require.NotNil(t, job.CompletedAt)
	assert.Empty(t, queue.dispatches())
}

func TestProcessJobHeaderOnly(t *testing.T) {
	job, _, _, _ := runImport(t, "sku,name,price\n")

	assert.Equal(t, models.ImportJobStatusCompleted, job.Status)
	assert.Equal(t, 0, job.TotalRows)
	assert.Equal(t, 0, job.SuccessCount)
	assert.Equalf(t, float64(0), job.Progress(), "progress must not divide by zero")
}

func TestProcessJobMissingFileFailsJob(t *testing.T) {
	svc, jobs, _, _ := newTestImportService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, "gone.csv", strings.NewReader("sku,name,price\nA1,Widget,1.00\n"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(job.FilePath))

	require.NoError(t, svc.ProcessJob(ctx, job.JobID))

	final := jobs.job
	assert.Equal(t, models.ImportJobStatusFailed, final.Status)
	assert.Nil(t, final.CompletedAt)
	require.Len(t, final.Errors, 1)
	assert.Equal(t, models.ImportErrorKindFatal, final.Errors[0].Kind)
	assert.Contains(t, final.Errors[0].Message, "failed to open file")
}

func TestProcessJobSkipsAlreadyClaimed(t *testing.T) {
	svc, jobs, _, queue := newTestImportService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, "dup.csv", strings.NewReader("sku,name,price\nA1,Widget,1.00\n"))
	require.NoError(t, err)

	require.NoError(t, svc.ProcessJob(ctx, job.JobID))
	first := *jobs.job

	// A second delivery of the same task must be a no-op.
	require.NoError(t, svc.ProcessJob(ctx, job.JobID))

	assert.Equal(t, 2, jobs.claims)
	assert.Equal(t, first.SuccessCount, jobs.job.SuccessCount)
	assert.Len(t, queue.dispatches(), 1)
}

func TestProcessJobRemovesUploadedFile(t *testing.T) {
	svc, _, _, _ := newTestImportService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, "cleanup.csv", strings.NewReader("sku,name,price\nA1,Widget,1.00\n"))
	require.NoError(t, err)
	require.NoError(t, svc.ProcessJob(ctx, job.JobID))

	assert.NoFileExists(t, job.FilePath)
}

func TestImportErrorsSerializeForAPI(t *testing.T) {
	job, _, _, _ := runImport(t, "sku,name,price\nA1,Widget,-3\n")

	require.Len(t, job.Errors, 1)
	data, err := json.Marshal(job.Errors)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"row"`)
	assert.Contains(t, string(data), "price must be greater than zero")
}
