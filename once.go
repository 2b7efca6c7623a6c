package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/srgchrksv/designnewshub/export"
	"github.com/srgchrksv/designnewshub/models"
)

// cycleRunner is the part of *services.Orchestrator the -once mode drives.
type cycleRunner interface {
	Start(ctx context.Context) (<-chan struct{}, error)
	Snapshot() models.Snapshot
}

// runOnce drives a single cycle to completion and writes both exports to dir.
func runOnce(ctx context.Context, runner cycleRunner, dir string) error {
	done, err := runner.Start(ctx)
	if err != nil {
		return fmt.Errorf("start cycle: %w", err)
	}
	<-done

	snap := runner.Snapshot()
	if snap.Status != models.StatusCompleted {
		return errors.New(snap.Error)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	pdfPath := filepath.Join(dir, export.PDFFilename(snap.Report.Date))
	f, err := os.Create(pdfPath)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := export.WritePDF(f, snap.Report); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close pdf: %w", err)
	}

	audioPath := filepath.Join(dir, export.AudioFilename(snap.Report.Date))
	if err := os.WriteFile(audioPath, snap.Audio.WAV(), 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}

	slog.Info("report written", "pdf", pdfPath, "audio", audioPath, "items", len(snap.Report.Items))
	return nil
}
