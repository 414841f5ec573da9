package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
)

// MockQueryHistoryRepo is a mock of QueryHistoryRepository.
type MockQueryHistoryRepo struct {
	mock.Mock
}

func (m *MockQueryHistoryRepo) Create(ctx context.Context, entry *domain.QueryHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockQueryHistoryRepo) List(ctx context.Context, filter ports.HistoryFilter) ([]*domain.QueryHistory, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.QueryHistory), args.Int(1), args.Error(2)
}

func (m *MockQueryHistoryRepo) MostRecentEnd(ctx context.Context, instrument domain.Instrument, aperture string) (float64, bool, error) {
	args := m.Called(ctx, instrument, aperture)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// MockCosmicRayStatsRepo is a mock of CosmicRayStatsRepository.
type MockCosmicRayStatsRepo struct {
	mock.Mock
}

func (m *MockCosmicRayStatsRepo) Create(ctx context.Context, stats *domain.CosmicRayStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockCosmicRayStatsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CosmicRayStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CosmicRayStats), args.Error(1)
}

func (m *MockCosmicRayStatsRepo) List(ctx context.Context, filter ports.StatsFilter) ([]*domain.CosmicRayStats, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.CosmicRayStats), args.Int(1), args.Error(2)
}

// MockJobRepo is a mock of JobRepository.
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.MonitorJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MonitorJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonitorJob), args.Error(1)
}

func (m *MockJobRepo) Update(ctx context.Context, job *domain.MonitorJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepo) List(ctx context.Context, filter ports.JobFilter) ([]*domain.MonitorJob, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.MonitorJob), args.Int(1), args.Error(2)
}

// MockArchiveClient is a mock of ArchiveClient.
type MockArchiveClient struct {
	mock.Mock
}

func (m *MockArchiveClient) Inventory(ctx context.Context, query ports.InventoryQuery) ([]ports.InventoryEntry, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.InventoryEntry), args.Error(1)
}

// MockEDBClient is a mock of EDBClient.
type MockEDBClient struct {
	mock.Mock
}

func (m *MockEDBClient) Meta(ctx context.Context, mnemonic string) (domain.MnemonicMeta, error) {
	args := m.Called(ctx, mnemonic)
	return args.Get(0).(domain.MnemonicMeta), args.Error(1)
}

func (m *MockEDBClient) Values(ctx context.Context, mnemonic string, start, end time.Time, bracket bool) ([]ports.TelemetrySample, error) {
	args := m.Called(ctx, mnemonic, start, end, bracket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.TelemetrySample), args.Error(1)
}

func (m *MockEDBClient) Info(ctx context.Context, mnemonic string) (domain.MnemonicInfo, error) {
	args := m.Called(ctx, mnemonic)
	return args.Get(0).(domain.MnemonicInfo), args.Error(1)
}

func (m *MockEDBClient) Inventory(ctx context.Context) ([]ports.InventoryMnemonic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.InventoryMnemonic), args.Error(1)
}

// MockJobQueue is a mock of JobQueue.
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Enqueue(ctx context.Context, job *domain.MonitorJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobQueue) Dequeue(ctx context.Context) (*domain.MonitorJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonitorJob), args.Error(1)
}

func (m *MockJobQueue) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockExposureStore is a mock of ExposureStore.
type MockExposureStore struct {
	mock.Mock
}

func (m *MockExposureStore) Locate(filename string) (string, error) {
	args := m.Called(filename)
	return args.String(0), args.Error(1)
}

func (m *MockExposureStore) CopyToWorkDir(paths []string, subdir string) ([]string, []string, error) {
	args := m.Called(paths, subdir)
	var copied, failed []string
	if args.Get(0) != nil {
		copied = args.Get(0).([]string)
	}
	if args.Get(1) != nil {
		failed = args.Get(1).([]string)
	}
	return copied, failed, args.Error(2)
}

func (m *MockExposureStore) Products(obsDir string) ([]string, error) {
	args := m.Called(obsDir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockExposureStore) LoadJumpProduct(path string) (*domain.JumpProduct, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JumpProduct), args.Error(1)
}

func (m *MockExposureStore) LoadRateProduct(path string) (*domain.RateProduct, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateProduct), args.Error(1)
}

// MockCalibrator is a mock of Calibrator.
type MockCalibrator struct {
	mock.Mock
}

func (m *MockCalibrator) RunDetector1(ctx context.Context, uncalPath, outDir string) error {
	args := m.Called(ctx, uncalPath, outDir)
	return args.Error(0)
}
