package models

type GenerationStatus string

const (
	StatusIdle      GenerationStatus = "IDLE"
	StatusSearching GenerationStatus = "SEARCHING"
	// StatusSummarizing is part of the published enum but no transition enters it.
	StatusSummarizing     GenerationStatus = "SUMMARIZING"
	StatusGeneratingAudio GenerationStatus = "GENERATING_AUDIO"
	StatusCompleted       GenerationStatus = "COMPLETED"
	StatusError           GenerationStatus = "ERROR"
)

var AllStatuses = []GenerationStatus{
	StatusIdle,
	StatusSearching,
	StatusSummarizing,
	StatusGeneratingAudio,
	StatusCompleted,
	StatusError,
}

// InFlight reports whether a cycle is running in this status.
func (s GenerationStatus) InFlight() bool {
	switch s {
	case StatusSearching, StatusSummarizing, StatusGeneratingAudio:
		return true
	}
	return false
}

func (s GenerationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}
