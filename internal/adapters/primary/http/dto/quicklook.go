package dto

import (
	"time"

	"github.com/google/uuid"

	"quicklook-service/internal/core/domain"
)

type EnqueueJobRequest struct {
	Monitor    string `json:"monitor" binding:"required"`
	Instrument string `json:"instrument" binding:"required"`
}

type JobResponse struct {
	ID         uuid.UUID `json:"id"`
	Monitor    string    `json:"monitor"`
	Instrument string    `json:"instrument"`
	Status     string    `json:"status"`
	EnqueuedAt string    `json:"enqueued_at"`
	StartedAt  *string   `json:"started_at,omitempty"`
	FinishedAt *string   `json:"finished_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type ListJobsResponse struct {
	Items      []JobResponse `json:"items"`
	Total      int           `json:"total"`
	PageSize   int           `json:"page_size"`
	NextOffset int           `json:"next_offset"`
}

func ToJobResponse(j *domain.MonitorJob) JobResponse {
	return JobResponse{
		ID:         j.ID,
		Monitor:    j.Monitor,
		Instrument: string(j.Instrument),
		Status:     string(j.Status),
		EnqueuedAt: j.EnqueuedAt.Format(time.RFC3339),
		StartedAt:  formatTimePtr(j.StartedAt),
		FinishedAt: formatTimePtr(j.FinishedAt),
		Error:      j.Error,
	}
}

type CosmicRayStatsResponse struct {
	ID           uuid.UUID `json:"id"`
	Instrument   string    `json:"instrument"`
	Aperture     string    `json:"aperture"`
	SourceFile   string    `json:"source_file"`
	ObsStartTime string    `json:"obs_start_time"`
	ObsEndTime   string    `json:"obs_end_time"`
	JumpCount    int       `json:"jump_count"`
	ImpactRate   float64   `json:"impact_rate"`
	Magnitudes   []float64 `json:"magnitudes,omitempty"`
	EntryDate    string    `json:"entry_date"`
}

type ListCosmicRayStatsResponse struct {
	Items      []CosmicRayStatsResponse `json:"items"`
	Total      int                      `json:"total"`
	PageSize   int                      `json:"page_size"`
	NextOffset int                      `json:"next_offset"`
}

// ToCosmicRayStatsResponse converts a stats row, deriving the impact rate
// from the jump count and the observation duration. includeMagnitudes
// controls whether the per-jump magnitude list is attached, list responses
// omit it to keep payloads small.
func ToCosmicRayStatsResponse(s *domain.CosmicRayStats, includeMagnitudes bool) CosmicRayStatsResponse {
	resp := CosmicRayStatsResponse{
		ID:           s.ID,
		Instrument:   string(s.Instrument),
		Aperture:     s.Aperture,
		SourceFile:   s.SourceFile,
		ObsStartTime: s.ObsStartTime.Format(time.RFC3339),
		ObsEndTime:   s.ObsEndTime.Format(time.RFC3339),
		JumpCount:    s.JumpCount,
		ImpactRate:   domain.ImpactRate(s.JumpCount, s.ObsEndTime.Sub(s.ObsStartTime).Seconds()),
		EntryDate:    s.EntryDate.Format(time.RFC3339),
	}
	if includeMagnitudes {
		resp.Magnitudes = s.Magnitudes
	}
	return resp
}

type QueryHistoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Instrument   string    `json:"instrument"`
	Aperture     string    `json:"aperture"`
	StartTimeMJD float64   `json:"start_time_mjd"`
	EndTimeMJD   float64   `json:"end_time_mjd"`
	FilesFound   int       `json:"files_found"`
	RunMonitor   bool      `json:"run_monitor"`
	EntryDate    string    `json:"entry_date"`
}

type ListQueryHistoryResponse struct {
	Items      []QueryHistoryResponse `json:"items"`
	Total      int                    `json:"total"`
	PageSize   int                    `json:"page_size"`
	NextOffset int                    `json:"next_offset"`
}

func ToQueryHistoryResponse(h *domain.QueryHistory) QueryHistoryResponse {
	return QueryHistoryResponse{
		ID:           h.ID,
		Instrument:   string(h.Instrument),
		Aperture:     h.Aperture,
		StartTimeMJD: h.StartTimeMJD,
		EndTimeMJD:   h.EndTimeMJD,
		FilesFound:   h.FilesFound,
		RunMonitor:   h.RunMonitor,
		EntryDate:    h.EntryDate.Format(time.RFC3339),
	}
}

type TelemetrySampleDTO struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

type MnemonicStatsDTO struct {
	Mean        []float64 `json:"mean"`
	Median      []float64 `json:"median"`
	Stdev       []float64 `json:"stdev"`
	MedianTimes []string  `json:"median_times,omitempty"`
}

type MnemonicSeriesResponse struct {
	Identifier     string               `json:"identifier"`
	Description    string               `json:"description,omitempty"`
	Unit           string               `json:"unit,omitempty"`
	ChangeOnly     bool                 `json:"change_only"`
	RequestedStart string               `json:"requested_start"`
	RequestedEnd   string               `json:"requested_end"`
	Samples        []TelemetrySampleDTO `json:"samples"`
	Blocks         []int                `json:"blocks,omitempty"`
	Stats          *MnemonicStatsDTO    `json:"stats,omitempty"`
}

func ToMnemonicSeriesResponse(s *domain.MnemonicSeries) MnemonicSeriesResponse {
	samples := make([]TelemetrySampleDTO, 0, s.Len())
	for i := range s.Times {
		samples = append(samples, TelemetrySampleDTO{
			Time:  s.Times[i].Format(time.RFC3339Nano),
			Value: s.Values[i],
		})
	}

	resp := MnemonicSeriesResponse{
		Identifier:     s.Identifier,
		Description:    s.Info.Description,
		Unit:           s.Info.Unit,
		ChangeOnly:     !s.Meta.AllPoints,
		RequestedStart: s.RequestedStart.Format(time.RFC3339),
		RequestedEnd:   s.RequestedEnd.Format(time.RFC3339),
		Samples:        samples,
		Blocks:         s.Blocks,
	}
	if len(s.Mean) > 0 {
		stats := &MnemonicStatsDTO{Mean: s.Mean, Median: s.Median, Stdev: s.Stdev}
		for _, t := range s.MedianTimes {
			stats.MedianTimes = append(stats.MedianTimes, t.Format(time.RFC3339Nano))
		}
		resp.Stats = stats
	}
	return resp
}

type MnemonicInfoResponse struct {
	Mnemonic    string `json:"mnemonic"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
}

func ToMnemonicInfoResponse(info domain.MnemonicInfo) MnemonicInfoResponse {
	return MnemonicInfoResponse{
		Mnemonic:    info.Mnemonic,
		Description: info.Description,
		Category:    info.Category,
		Unit:        info.Unit,
	}
}

type InventoryMnemonicResponse struct {
	Mnemonic    string `json:"mnemonic"`
	Identifier  string `json:"identifier"`
	Description string `json:"description"`
	Subsystem   string `json:"subsystem"`
}

type ListInventoryResponse struct {
	Items []InventoryMnemonicResponse `json:"items"`
	Total int                         `json:"total"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
