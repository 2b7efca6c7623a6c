package services

import (
	"errors"
	"fmt"
)

var (
	ErrNoAudio           = errors.New("no se pudo generar el audio")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCycleInFlight     = errors.New("a report cycle is already running")
)

// RemoteServiceError is returned when the call to the AI service itself fails
// (network, auth, quota, malformed request).
type RemoteServiceError struct {
	Op  string
	Err error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s: remote service error: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// DeserializationError is returned when the search response does not decode
// into a complete NewsReport. Raw holds the text that was received.
type DeserializationError struct {
	Err error
	Raw string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode news report: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

type AudioExtractionError struct {
	Err error
}

func (e *AudioExtractionError) Error() string {
	return fmt.Sprintf("extract audio: %v", e.Err)
}

func (e *AudioExtractionError) Unwrap() error { return e.Err }

// displayMessage is the Spanish text shown for a failed cycle. Remote failures
// show the service's own message; Op and kind stay in the logs.
func displayMessage(err error) string {
	var (
		remote *RemoteServiceError
		decode *DeserializationError
	)
	switch {
	case errors.Is(err, ErrNoAudio):
		return "No se pudo generar el audio"
	case errors.As(err, &decode):
		return "La respuesta de noticias no tiene el formato esperado"
	case errors.As(err, &remote) && remote.Err != nil:
		return remote.Err.Error()
	}
	return err.Error()
}

// errorKind names the error class for logs and metrics.
func errorKind(err error) string {
	var (
		remote *RemoteServiceError
		decode *DeserializationError
		audio  *AudioExtractionError
	)
	switch {
	case errors.As(err, &remote):
		return "remote_service"
	case errors.As(err, &decode):
		return "deserialization"
	case errors.As(err, &audio):
		return "audio_extraction"
	}
	return "unknown"
}
