package filesystem

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"quicklook-service/internal/config"
	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
)

// Store resolves exposure files under the archive root and stages copies
// under the monitor output root.
type Store struct {
	archiveRoot string
	outputRoot  string
}

func NewStore(cfg *config.FilesystemConfig) *Store {
	return &Store{archiveRoot: cfg.ArchiveRoot, outputRoot: cfg.OutputRoot}
}

var _ ports.ExposureStore = (*Store)(nil)

// Locate maps a raw filename to its archive path. Exposures live under a
// per-program directory named jw<program_id>.
func (s *Store) Locate(filename string) (string, error) {
	props, err := domain.ParseFilename(filename)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.archiveRoot, "jw"+props.ProgramID, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", filename, domain.ErrFileNotFound)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return path, nil
}

// CopyToWorkDir stages files into <output_root>/<subdir>, skipping files
// that already exist with the same size. Returns copied and failed paths.
func (s *Store) CopyToWorkDir(paths []string, subdir string) ([]string, []string, error) {
	destDir := filepath.Join(s.outputRoot, subdir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create work dir %s: %w", destDir, err)
	}

	var copied, failed []string
	for _, src := range paths {
		dest := filepath.Join(destDir, filepath.Base(src))
		if sameSize(src, dest) {
			copied = append(copied, dest)
			continue
		}
		if err := copyFile(src, dest); err != nil {
			log.WithError(err).WithField("file", src).Warn("failed to stage file")
			failed = append(failed, src)
			continue
		}
		copied = append(copied, dest)
	}
	return copied, failed, nil
}

// Products lists the pipeline output files in an observation directory.
func (s *Store) Products(obsDir string) ([]string, error) {
	entries, err := os.ReadDir(obsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read products dir %s: %w", obsDir, err)
	}

	var products []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		products = append(products, filepath.Join(obsDir, entry.Name()))
	}
	return products, nil
}

func (s *Store) LoadJumpProduct(path string) (*domain.JumpProduct, error) {
	var product domain.JumpProduct
	if err := loadJSON(path, &product); err != nil {
		return nil, err
	}
	if product.Ramp.Len() == 0 || product.DQ.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrMissingJumpProduct)
	}
	if product.Ramp.Len() != product.DQ.Len() {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrProductShapeMismatch)
	}
	// A truncated values array would index out of range during the jump
	// scan, so reject it here.
	if len(product.Ramp.Values) != product.Ramp.Len() || len(product.DQ.Values) != product.DQ.Len() {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrProductShapeMismatch)
	}
	return &product, nil
}

func (s *Store) LoadRateProduct(path string) (*domain.RateProduct, error) {
	var product domain.RateProduct
	if err := loadJSON(path, &product); err != nil {
		return nil, err
	}
	if product.Rate.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrMissingRateProduct)
	}
	if len(product.Rate.Values) != product.Rate.Len() {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrProductShapeMismatch)
	}
	return &product, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, domain.ErrFileNotFound)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dest), ".staging-*")
	if err != nil {
		return err
	}
	tmp := out.Name()
	defer os.Remove(tmp)

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}

func sameSize(src, dest string) bool {
	si, err := os.Stat(src)
	if err != nil {
		return false
	}
	di, err := os.Stat(dest)
	if err != nil {
		return false
	}
	return si.Size() == di.Size()
}
