package ports

import (
	"context"

	"quicklook-service/internal/core/domain"
)

// ExposureStore resolves science files in the archive filesystem and
// manages per-observation working directories.
type ExposureStore interface {
	// Locate maps an exposure file name onto its path in the archive tree.
	// Returns domain.ErrFileNotFound when the file is absent and
	// domain.ErrBadFilename when the name cannot be parsed.
	Locate(filename string) (string, error)
	// CopyToWorkDir copies files into the working directory for the given
	// monitor, creating it as needed. Files that could not be copied are
	// returned separately.
	CopyToWorkDir(paths []string, subdir string) (copied []string, failed []string, err error)
	// Products lists the pipeline output files present in an observation
	// directory.
	Products(obsDir string) ([]string, error)
	LoadJumpProduct(path string) (*domain.JumpProduct, error)
	LoadRateProduct(path string) (*domain.RateProduct, error)
}

// Calibrator runs the stage-1 calibration pipeline on an uncalibrated
// exposure, producing jump and ramp-fit products in the output directory.
type Calibrator interface {
	RunDetector1(ctx context.Context, uncalPath, outDir string) error
}
