package handlers

import (
	"time"

	"github.com/srgchrksv/designnewshub/models"
)

type StatusResponse struct {
	Status     models.GenerationStatus `json:"status"`
	CycleID    string                  `json:"cycle_id,omitempty"`
	Error      string                  `json:"error,omitempty"`
	StartedAt  string                  `json:"started_at,omitempty"`
	FinishedAt string                  `json:"finished_at,omitempty"`
	Report     *models.NewsReport      `json:"report,omitempty"`
	AudioURL   string                  `json:"audio_url,omitempty"`
	PDFURL     string                  `json:"pdf_url,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toStatusResponse(s models.Snapshot) StatusResponse {
	res := StatusResponse{
		Status:     s.Status,
		CycleID:    s.CycleID,
		Error:      s.Error,
		StartedAt:  formatTime(s.StartedAt),
		FinishedAt: formatTime(s.FinishedAt),
	}
	if s.Status == models.StatusCompleted && s.Report != nil {
		res.Report = s.Report
		res.PDFURL = "/reports/current/pdf"
		if s.Audio != nil {
			res.AudioURL = "/reports/current/audio"
		}
	}
	return res
}
