package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quicklook-service/internal/config"
)

func TestRunDetector1(t *testing.T) {
	c := NewCalibrator(&config.MonitorConfig{PipelineCommand: "true", PipelineTimeout: 5 * time.Second})

	err := c.RunDetector1(context.Background(), "/tmp/exposure_uncal.fits", t.TempDir())
	assert.NoError(t, err)
}

func TestRunDetector1_Fails(t *testing.T) {
	c := NewCalibrator(&config.MonitorConfig{PipelineCommand: "false", PipelineTimeout: 5 * time.Second})

	err := c.RunDetector1(context.Background(), "/tmp/exposure_uncal.fits", t.TempDir())
	assert.Error(t, err)
}

func TestRunDetector1_MissingCommand(t *testing.T) {
	c := NewCalibrator(&config.MonitorConfig{PipelineCommand: "definitely-not-a-command"})

	err := c.RunDetector1(context.Background(), "/tmp/exposure_uncal.fits", t.TempDir())
	assert.Error(t, err)
}
