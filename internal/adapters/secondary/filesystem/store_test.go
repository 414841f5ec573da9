package filesystem

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quicklook-service/internal/config"
	"quicklook-service/internal/core/domain"
)

const testFilename = "jw02733001001_02101_00001_mirimage_uncal.fits"

func newTestStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	archiveRoot := t.TempDir()
	outputRoot := t.TempDir()
	store := NewStore(&config.FilesystemConfig{ArchiveRoot: archiveRoot, OutputRoot: outputRoot})
	return store, archiveRoot, outputRoot
}

func writeArchiveFile(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, "jw02733")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("exposure data"), 0o644))
	return path
}

func TestLocate(t *testing.T) {
	store, archiveRoot, _ := newTestStore(t)
	want := writeArchiveFile(t, archiveRoot, testFilename)

	path, err := store.Locate(testFilename)
	assert.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestLocate_NotFound(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Locate(testFilename)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestLocate_BadFilename(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Locate("notes.txt")
	assert.ErrorIs(t, err, domain.ErrBadFilename)
}

func TestCopyToWorkDir(t *testing.T) {
	store, archiveRoot, outputRoot := newTestStore(t)
	src := writeArchiveFile(t, archiveRoot, testFilename)

	copied, failed, err := store.CopyToWorkDir([]string{src}, "cosmic_ray_monitor/data")
	assert.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, copied, 1)
	assert.Equal(t, filepath.Join(outputRoot, "cosmic_ray_monitor", "data", testFilename), copied[0])

	data, err := os.ReadFile(copied[0])
	assert.NoError(t, err)
	assert.Equal(t, "exposure data", string(data))
}

func TestCopyToWorkDir_SkipsExisting(t *testing.T) {
	store, archiveRoot, _ := newTestStore(t)
	src := writeArchiveFile(t, archiveRoot, testFilename)

	first, _, err := store.CopyToWorkDir([]string{src}, "data")
	require.NoError(t, err)
	info1, err := os.Stat(first[0])
	require.NoError(t, err)

	second, _, err := store.CopyToWorkDir([]string{src}, "data")
	require.NoError(t, err)
	info2, err := os.Stat(second[0])
	require.NoError(t, err)

	assert.Equal(t, info1.ModTime(), info2.ModTime())
}

func TestCopyToWorkDir_ReportsFailures(t *testing.T) {
	store, _, _ := newTestStore(t)

	copied, failed, err := store.CopyToWorkDir([]string{"/nonexistent/file.fits"}, "data")
	assert.NoError(t, err)
	assert.Empty(t, copied)
	assert.Len(t, failed, 1)
}

func TestProducts(t *testing.T) {
	store, _, outputRoot := newTestStore(t)
	obsDir := filepath.Join(outputRoot, "obs")
	require.NoError(t, os.MkdirAll(obsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(obsDir, "a_jump.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(obsDir, "a_0_ramp_fit.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(obsDir, ".staging-tmp"), []byte(""), 0o644))

	products, err := store.Products(obsDir)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProducts_MissingDir(t *testing.T) {
	store, _, outputRoot := newTestStore(t)

	products, err := store.Products(filepath.Join(outputRoot, "nope"))
	assert.NoError(t, err)
	assert.Empty(t, products)
}

func TestLoadJumpProduct(t *testing.T) {
	store, _, outputRoot := newTestStore(t)

	product := domain.JumpProduct{
		Header: domain.ExposureHeader{NInts: 1, NGroups: 2, GroupTime: 2.0},
		Ramp:   domain.Cube{Dims: []int{2, 1, 1}, Values: []float64{1, 2}},
		DQ:     domain.IntCube{Dims: []int{2, 1, 1}, Values: []int{0, domain.JumpDetected}},
	}
	path := filepath.Join(outputRoot, "jump.json")
	data, err := json.Marshal(product)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := store.LoadJumpProduct(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, loaded.Header.NInts)
	assert.Len(t, loaded.JumpLocations(), 1)
}

func TestLoadJumpProduct_ShapeMismatch(t *testing.T) {
	store, _, outputRoot := newTestStore(t)

	product := domain.JumpProduct{
		Ramp: domain.Cube{Dims: []int{2, 1, 1}, Values: []float64{1, 2}},
		DQ:   domain.IntCube{Dims: []int{3, 1, 1}, Values: []int{0, 0, 0}},
	}
	path := filepath.Join(outputRoot, "jump.json")
	data, err := json.Marshal(product)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = store.LoadJumpProduct(path)
	assert.ErrorIs(t, err, domain.ErrProductShapeMismatch)
}

func TestLoadJumpProduct_TruncatedValues(t *testing.T) {
	store, _, outputRoot := newTestStore(t)

	// Dims claim eight elements, the arrays carry two.
	product := domain.JumpProduct{
		Header: domain.ExposureHeader{NInts: 1, NGroups: 2, GroupTime: 2.0},
		Ramp:   domain.Cube{Dims: []int{2, 2, 2}, Values: []float64{1, 2}},
		DQ:     domain.IntCube{Dims: []int{2, 2, 2}, Values: []int{0, 0}},
	}
	path := filepath.Join(outputRoot, "jump.json")
	data, err := json.Marshal(product)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = store.LoadJumpProduct(path)
	assert.ErrorIs(t, err, domain.ErrProductShapeMismatch)
}

func TestLoadRateProduct(t *testing.T) {
	store, _, outputRoot := newTestStore(t)

	product := domain.RateProduct{Rate: domain.Cube{Dims: []int{1, 1}, Values: []float64{1.5}}}
	path := filepath.Join(outputRoot, "rate.json")
	data, err := json.Marshal(product)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := store.LoadRateProduct(path)
	assert.NoError(t, err)
	assert.Equal(t, 1.5, loaded.Rate.At(0, 0))
}

func TestLoadRateProduct_TruncatedValues(t *testing.T) {
	store, _, outputRoot := newTestStore(t)

	product := domain.RateProduct{Rate: domain.Cube{Dims: []int{2, 2}, Values: []float64{1.5}}}
	path := filepath.Join(outputRoot, "rate.json")
	data, err := json.Marshal(product)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = store.LoadRateProduct(path)
	assert.ErrorIs(t, err, domain.ErrProductShapeMismatch)
}

func TestLoadRateProduct_Missing(t *testing.T) {
	store, _, outputRoot := newTestStore(t)

	_, err := store.LoadRateProduct(filepath.Join(outputRoot, "nope.json"))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}
