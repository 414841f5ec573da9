package domain

import "errors"

// ============================================================================
// Observation Errors
// ============================================================================

var (
	ErrBadFilename       = errors.New("file does not follow the JWST naming convention")
	ErrFileNotFound      = errors.New("file not found in the archive filesystem")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrUnsupportedSuffix = errors.New("only uncal exposures can be processed")
)

// ============================================================================
// Monitor Errors
// ============================================================================

var (
	ErrStatsNotFound        = errors.New("cosmic ray stats entry not found")
	ErrJobNotFound          = errors.New("monitor job not found")
	ErrUnknownMonitor       = errors.New("unknown monitor")
	ErrMonitorNotSupported  = errors.New("monitor does not support this instrument")
	ErrMissingJumpProduct   = errors.New("no jump product found for observation")
	ErrMissingRateProduct   = errors.New("no rate product found for observation")
	ErrProductShapeMismatch = errors.New("pipeline product dimensions are inconsistent")
)

// ============================================================================
// Telemetry Errors
// ============================================================================

var (
	ErrMnemonicNotFound    = errors.New("mnemonic not found in the engineering database")
	ErrMnemonicMismatch    = errors.New("cannot combine series of different mnemonics")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrSeriesTooShort      = errors.New("series has too few samples for this operation")
	ErrSeriesLengthChanged = errors.New("both series changed length during intersection")
	ErrInvalidStatsMode    = errors.New("invalid statistics mode")
)

// ============================================================================
// Upstream Errors
// ============================================================================

var (
	ErrArchiveUnavailable = errors.New("observation archive is unavailable")
	ErrEDBUnavailable     = errors.New("engineering database is unavailable")
	ErrQueryIncomplete    = errors.New("engineering database query did not complete")
)
