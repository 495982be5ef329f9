package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/presentation/controllers/dtos"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/services"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/application"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/jobs"
)

// ImportController accepts catalog uploads and answers job-status polls.
// The import itself runs on a background goroutine; the upload request only
// validates, enqueues and returns a job ID.
type ImportController struct {
	app           application.Application
	imports       *services.ImportService
	tracker       *jobs.Tracker
	maxUploadSize int64
	basePath      string
}

func NewImportController(app application.Application, tracker *jobs.Tracker, maxUploadSize int64) application.Controller {
	return &ImportController{
		app:           app,
		imports:       app.Service(services.ImportService{}).(*services.ImportService),
		tracker:       tracker,
		maxUploadSize: maxUploadSize,
		basePath:      "/catalog/api/imports",
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.Upload).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Status).Methods(http.MethodGet)
}

func (c *ImportController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadSize)
	if err := r.ParseMultipartForm(c.maxUploadSize); err != nil {
		writeAPIError(w, r, http.StatusRequestEntityTooLarge, "IMPORT_FILE_TOO_LARGE",
			fmt.Sprintf("upload exceeds the %d byte limit", c.maxUploadSize))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_FILE_MISSING", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_FILE_UNREADABLE", "could not read the uploaded file")
		return
	}

	dto := dtos.ImportRequestDTO{
		Source:  r.FormValue("source"),
		Region:  r.FormValue("region"),
		Replace: r.FormValue("replace") == "true",
	}
	dto.Month, _ = strconv.Atoi(r.FormValue("month"))
	dto.Year, _ = strconv.Atoi(r.FormValue("year"))
	if errs, ok := dto.Ok(); !ok {
		message := "validation failed"
		for field, tag := range errs {
			message = fmt.Sprintf("%s: %s", field, tag)
			break
		}
		writeAPIError(w, r, http.StatusUnprocessableEntity, "IMPORT_VALIDATION_FAILED", message)
		return
	}

	jobID, err := c.tracker.Start(r.Context())
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "IMPORT_INTERNAL", "could not enqueue the import")
		return
	}

	go c.run(jobID, dto, header.Filename, data)

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

// run executes the import detached from the request, so it must carry its
// own context with the pool attached.
func (c *ImportController) run(jobID string, dto dtos.ImportRequestDTO, filename string, data []byte) {
	ctx := composables.WithPool(context.Background(), c.app.DB())
	cmd := &services.ImportCommand{
		Filename: filename,
		Data:     data,
		Region:   dto.Region,
		Month:    dto.Month,
		Year:     dto.Year,
		Replace:  dto.Replace,
		OnProgress: func(percent int, message string) {
			_ = c.tracker.Progress(ctx, jobID, percent, message)
		},
	}

	var result *services.ImportResult
	var err error
	switch dto.Source {
	case services.SourceSINAPI:
		result, err = c.imports.ImportSINAPI(ctx, cmd)
	case services.SourceSICRO:
		result, err = c.imports.ImportSICRO(ctx, cmd)
	default:
		result, err = c.imports.ImportSICROAnalytic(ctx, cmd)
	}
	if err != nil {
		c.app.Logger().WithError(errors.Wrap(err, "catalog import failed")).
			WithField("job_id", jobID).Error("import job failed")
		_ = c.tracker.Fail(ctx, jobID, err.Error())
		return
	}
	_ = c.tracker.Complete(ctx, jobID, fmt.Sprintf(
		"%d itens, %d preços, %d vínculos importados", result.Items, result.Prices, result.Links,
	))
}

func (c *ImportController) Status(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status, err := c.tracker.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrJobNotFound) {
		writeAPIError(w, r, http.StatusNotFound, "JOB_NOT_FOUND", "no import job with that id")
		return
	}
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "IMPORT_INTERNAL", "could not read job status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}
