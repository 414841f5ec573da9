package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	log "github.com/sirupsen/logrus"

	"quicklook-service/internal/config"
	ports "quicklook-service/internal/core/ports/output"
)

// Calibrator shells out to the detector1 pipeline executable to turn an
// uncalibrated exposure into jump and rate products.
type Calibrator struct {
	command string
	timeout time.Duration
}

func NewCalibrator(cfg *config.MonitorConfig) *Calibrator {
	return &Calibrator{command: cfg.PipelineCommand, timeout: cfg.PipelineTimeout}
}

var _ ports.Calibrator = (*Calibrator)(nil)

func (c *Calibrator) RunDetector1(ctx context.Context, uncalPath, outDir string) error {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.command, uncalPath, "--output-dir", outDir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	log.WithFields(log.Fields{"file": uncalPath, "out_dir": outDir}).Info("running detector1 pipeline")

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("pipeline timed out after %s: %s", c.timeout, uncalPath)
		}
		return fmt.Errorf("pipeline failed for %s: %w: %s", uncalPath, err, stderr.String())
	}

	log.WithFields(log.Fields{"file": uncalPath, "duration": time.Since(start)}).Info("pipeline completed")
	return nil
}
