package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler exposes the ingest and answer boundary over HTTP.
type Handler struct {
	ingest  usecase.IngestDocumentUsecase
	answer  usecase.AnswerQueryUsecase
	docRepo domain.DocumentRepository
	jobRepo domain.JobRepository
	logger  *slog.Logger
}

func NewHandler(
	ingest usecase.IngestDocumentUsecase,
	answer usecase.AnswerQueryUsecase,
	docRepo domain.DocumentRepository,
	jobRepo domain.JobRepository,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		ingest:  ingest,
		answer:  answer,
		docRepo: docRepo,
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// Register mounts all routes on the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/v1/documents", h.EnqueueDocument)
	e.POST("/v1/documents/:id/ingest", h.IngestDocument)
	e.GET("/v1/documents/:id", h.GetDocument)
	e.DELETE("/v1/documents/:id", h.DeleteDocument)
	e.POST("/v1/query", h.Query)
}

type registerDocumentRequest struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	SourcePath string `json:"source_path"`
}

// EnqueueDocument registers a document and queues it for background
// ingestion.
func (h *Handler) EnqueueDocument(c echo.Context) error {
	var req registerDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if req.DocumentID == "" || req.SourcePath == "" {
		return c.JSON(http.StatusBadRequest, errorBody("document_id and source_path are required"))
	}

	ctx := c.Request().Context()
	now := time.Now()

	exists, err := h.docRepo.Exists(ctx, req.DocumentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	if !exists {
		if err := h.docRepo.Create(ctx, &domain.DocumentRecord{
			ID:         req.DocumentID,
			Filename:   req.Filename,
			SourcePath: req.SourcePath,
			Status:     domain.DocumentStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
		}
	}

	if err := h.jobRepo.Enqueue(ctx, &domain.IngestJob{
		ID:         uuid.New(),
		DocumentID: req.DocumentID,
		Filename:   req.Filename,
		SourcePath: req.SourcePath,
		Status:     "pending",
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"document_id": req.DocumentID,
		"status":      string(domain.DocumentStatusPending),
	})
}

// IngestDocument runs the ingestion pipeline synchronously.
func (h *Handler) IngestDocument(c echo.Context) error {
	var req registerDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	documentID := c.Param("id")
	if req.SourcePath == "" {
		return c.JSON(http.StatusBadRequest, errorBody("source_path is required"))
	}

	count, err := h.ingest.Ingest(c.Request().Context(), documentID, req.Filename, req.SourcePath)
	if err != nil {
		h.logger.Error("ingest_request_failed",
			slog.String("document_id", documentID),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"document_id":    documentID,
		"chunks_indexed": count,
	})
}

// GetDocument returns the catalog entry with ingestion status.
func (h *Handler) GetDocument(c echo.Context) error {
	doc, err := h.docRepo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, errorBody("document not found"))
	}
	return c.JSON(http.StatusOK, toDocumentResponse(doc))
}

// DeleteDocument removes a document's chunks and catalog entry.
func (h *Handler) DeleteDocument(c echo.Context) error {
	if err := h.ingest.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}

type queryRequest struct {
	Query       string   `json:"query"`
	DocumentIDs []string `json:"document_ids"`
	TopK        int      `json:"top_k"`
}

// Query answers a question across the requested documents.
func (h *Handler) Query(c echo.Context) error {
	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	response, err := h.answer.Execute(c.Request().Context(), domain.Query{
		Text:        req.Query,
		DocumentIDs: req.DocumentIDs,
		TopK:        req.TopK,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyQuery),
			errors.Is(err, domain.ErrEmptyDocumentIDs),
			errors.Is(err, domain.ErrTopKOutOfRange):
			return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, domain.ErrUnknownDocument):
			return c.JSON(http.StatusNotFound, errorBody(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
		}
	}

	return c.JSON(http.StatusOK, toQueryResponse(response))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
