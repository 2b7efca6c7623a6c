package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgchrksv/designnewshub/export"
	"github.com/srgchrksv/designnewshub/models"
	"github.com/srgchrksv/designnewshub/services"
)

// ReportOrchestrator is what the handlers need from *services.Orchestrator.
type ReportOrchestrator interface {
	Start(ctx context.Context) (<-chan struct{}, error)
	Retry(ctx context.Context) (<-chan struct{}, error)
	Reset() error
	Snapshot() models.Snapshot
	Subscribe() <-chan models.Snapshot
	Unsubscribe(sub <-chan models.Snapshot)
}

type Handler struct {
	orchestrator ReportOrchestrator
	// ctx outlives requests; cycles and status streams stop when it is cancelled.
	ctx context.Context
}

func NewHandler(ctx context.Context, orchestrator ReportOrchestrator) *Handler {
	return &Handler{orchestrator: orchestrator, ctx: ctx}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, toStatusResponse(h.orchestrator.Snapshot()))
}

func (h *Handler) StartReport(c *gin.Context) {
	h.launch(c, h.orchestrator.Start)
}

func (h *Handler) RetryReport(c *gin.Context) {
	h.launch(c, h.orchestrator.Retry)
}

func (h *Handler) launch(c *gin.Context, start func(context.Context) (<-chan struct{}, error)) {
	if _, err := start(h.ctx); err != nil {
		transitionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, toStatusResponse(h.orchestrator.Snapshot()))
}

func (h *Handler) ResetReport(c *gin.Context) {
	if err := h.orchestrator.Reset(); err != nil {
		transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatusResponse(h.orchestrator.Snapshot()))
}

func transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCycleInFlight), errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("report transition failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// completed returns the snapshot when a finished report is available, and
// writes a 404 otherwise.
func (h *Handler) completed(c *gin.Context) (models.Snapshot, bool) {
	snap := h.orchestrator.Snapshot()
	if snap.Status != models.StatusCompleted || snap.Report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No report available", "status": snap.Status})
		return snap, false
	}
	return snap, true
}

func (h *Handler) GetReport(c *gin.Context) {
	snap, ok := h.completed(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap.Report)
}

func (h *Handler) DownloadPDF(c *gin.Context) {
	snap, ok := h.completed(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, snap.Report); err != nil {
		slog.Error("error rendering pdf", "cycle_id", snap.CycleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PDF generation failed"})
		return
	}

	c.Header("Content-Disposition", attachment(export.PDFFilename(snap.Report.Date)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) DownloadAudio(c *gin.Context) {
	snap, ok := h.completed(c)
	if !ok {
		return
	}
	if snap.Audio == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No audio available"})
		return
	}

	c.Header("Content-Disposition", attachment(export.AudioFilename(snap.Report.Date)))
	c.Data(http.StatusOK, "audio/wav", snap.Audio.WAV())
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
