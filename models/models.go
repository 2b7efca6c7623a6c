package models

import "time"

type NewsItem struct {
	Title    string `json:"title" validate:"required"`
	Source   string `json:"source" validate:"required"`
	URL      string `json:"url" validate:"required"`
	Summary  string `json:"summary" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// NewsReport is one day's search result. FullText is the narration that gets
// sent to speech synthesis.
type NewsReport struct {
	Date     string     `json:"date" validate:"required"`
	Items    []NewsItem `json:"items" validate:"required,dive"`
	FullText string     `json:"fullText" validate:"required"`
}

// Snapshot is a copy of the orchestrator state handed to the presentation
// layer. Report and Audio are only set when Status is StatusCompleted.
type Snapshot struct {
	Status     GenerationStatus
	CycleID    string
	Report     *NewsReport
	Audio      *AudioResult
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
