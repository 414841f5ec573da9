package ports

import (
	"context"
	"time"

	"quicklook-service/internal/core/domain"
)

// TelemetrySample is one raw datapoint returned by the engineering
// database.
type TelemetrySample struct {
	Time  time.Time
	Value float64
}

// InventoryMnemonic is one row of the engineering database inventory.
type InventoryMnemonic struct {
	Mnemonic    string `json:"tlmMnemonic"`
	Identifier  string `json:"tlmIdentifier"`
	Description string `json:"description"`
	Subsystem   string `json:"subsystem"`
}

// EDBClient talks to the DMS engineering database mnemonic services.
//
// When querying values the underlying service returns the datapoint
// preceding the requested start time and the one following the requested
// end time if bracketing is requested.
type EDBClient interface {
	Meta(ctx context.Context, mnemonic string) (domain.MnemonicMeta, error)
	Values(ctx context.Context, mnemonic string, start, end time.Time, bracket bool) ([]TelemetrySample, error)
	Info(ctx context.Context, mnemonic string) (domain.MnemonicInfo, error)
	Inventory(ctx context.Context) ([]InventoryMnemonic, error)
}
