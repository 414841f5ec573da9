package domain

import (
	"time"

	"github.com/google/uuid"
)

// QueryEpochMJD is the archive search start used when an instrument/aperture
// combination has no query history yet (2015-12-01, CV3 ground testing).
const QueryEpochMJD = 57357.0

// JumpDetected is the data-quality flag value marking a cosmic ray jump.
const JumpDetected = 4

// QueryHistory records one archive search performed by the cosmic ray
// monitor for an instrument/aperture combination.
type QueryHistory struct {
	ID           uuid.UUID  `json:"id"`
	Instrument   Instrument `json:"instrument"`
	Aperture     string     `json:"aperture"`
	StartTimeMJD float64    `json:"start_time_mjd"`
	EndTimeMJD   float64    `json:"end_time_mjd"`
	FilesFound   int        `json:"files_found"`
	RunMonitor   bool       `json:"run_monitor"`
	EntryDate    time.Time  `json:"entry_date"`
}

// CosmicRayStats holds the analysis result for a single exposure.
type CosmicRayStats struct {
	ID           uuid.UUID  `json:"id"`
	Instrument   Instrument `json:"instrument"`
	Aperture     string     `json:"aperture"`
	SourceFile   string     `json:"source_file"`
	ObsStartTime time.Time  `json:"obs_start_time"`
	ObsEndTime   time.Time  `json:"obs_end_time"`
	JumpCount    int        `json:"jump_count"`
	Magnitudes   []float64  `json:"magnitudes"`
	EntryDate    time.Time  `json:"entry_date"`
}

// ExposureHeader carries the exposure metadata the monitor needs from a
// pipeline product.
type ExposureHeader struct {
	Filename    string  `json:"filename"`
	NInts       int     `json:"nints"`
	NGroups     int     `json:"ngroups"`
	GroupTime   float64 `json:"group_time"`   // TGROUP, seconds
	EffExpTime  float64 `json:"eff_exp_time"` // EFFEXPTM, seconds
	ExpStartMJD float64 `json:"exp_start_mjd"`
	ExpEndMJD   float64 `json:"exp_end_mjd"`
}

// Cube is a row-major n-dimensional float array, the Go rendering of the
// ramp and rate arrays the calibration pipeline writes.
type Cube struct {
	Dims   []int     `json:"dims"`
	Values []float64 `json:"values"`
}

func (c Cube) At(idx ...int) float64 {
	return c.Values[c.offset(idx)]
}

func (c Cube) offset(idx []int) int {
	off := 0
	for i, d := range c.Dims {
		off = off*d + idx[i]
	}
	return off
}

// Len reports the total number of elements implied by the dimensions.
func (c Cube) Len() int {
	if len(c.Dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range c.Dims {
		n *= d
	}
	return n
}

// IntCube mirrors Cube for integer data-quality flags.
type IntCube struct {
	Dims   []int `json:"dims"`
	Values []int `json:"values"`
}

func (c IntCube) Len() int {
	if len(c.Dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range c.Dims {
		n *= d
	}
	return n
}

// JumpProduct is the output of the jump-detection pipeline step: the ramp
// cube plus the data-quality cube flagging detected jumps.
type JumpProduct struct {
	Header ExposureHeader `json:"header"`
	Ramp   Cube           `json:"ramp"`
	DQ     IntCube        `json:"dq"`
}

// RateProduct is the output of the ramp-fit step: per-pixel slopes in DN/s.
// Two-dimensional (y, x) for single-integration exposures, three-dimensional
// (integration, y, x) otherwise.
type RateProduct struct {
	Rate Cube `json:"rate"`
}

// JumpLocation is the coordinate of a pixel flagged with a jump.
// Integration is zero for single-integration exposures.
type JumpLocation struct {
	Integration int
	Group       int
	Y           int
	X           int
}

// JumpLocations scans the DQ cube for the jump-detected flag. The cube is
// 4-D (integration, group, y, x) for multi-integration exposures and 3-D
// (group, y, x) otherwise.
func (p JumpProduct) JumpLocations() []JumpLocation {
	dims := p.DQ.Dims
	var locations []JumpLocation

	switch len(dims) {
	case 4:
		ni, ng, ny, nx := dims[0], dims[1], dims[2], dims[3]
		for i := 0; i < ni; i++ {
			for g := 0; g < ng; g++ {
				for y := 0; y < ny; y++ {
					for x := 0; x < nx; x++ {
						if p.DQ.Values[((i*ng+g)*ny+y)*nx+x] == JumpDetected {
							locations = append(locations, JumpLocation{Integration: i, Group: g, Y: y, X: x})
						}
					}
				}
			}
		}
	case 3:
		ng, ny, nx := dims[0], dims[1], dims[2]
		for g := 0; g < ng; g++ {
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					if p.DQ.Values[(g*ny+y)*nx+x] == JumpDetected {
						locations = append(locations, JumpLocation{Group: g, Y: y, X: x})
					}
				}
			}
		}
	}

	return locations
}

// Magnitude computes the size of a single cosmic ray hit: the ramp value at
// the jump minus the value one group earlier, minus the accumulation the
// fitted slope accounts for over one group time. Jumps flagged in the first
// group have no prior sample and report false.
func (p JumpProduct) Magnitude(loc JumpLocation, rate RateProduct) (float64, bool) {
	if loc.Group == 0 {
		return 0, false
	}

	var slope float64
	if p.Header.NInts > 1 {
		slope = rate.Rate.At(loc.Integration, loc.Y, loc.X)
	} else {
		slope = rate.Rate.At(loc.Y, loc.X)
	}

	var here, before float64
	if len(p.Ramp.Dims) == 4 {
		here = p.Ramp.At(loc.Integration, loc.Group, loc.Y, loc.X)
		before = p.Ramp.At(loc.Integration, loc.Group-1, loc.Y, loc.X)
	} else {
		here = p.Ramp.At(loc.Group, loc.Y, loc.X)
		before = p.Ramp.At(loc.Group-1, loc.Y, loc.X)
	}

	return here - before - slope*p.Header.GroupTime, true
}

// Magnitudes computes the magnitude of every located jump.
func (p JumpProduct) Magnitudes(locations []JumpLocation, rate RateProduct) []float64 {
	mags := make([]float64, 0, len(locations))
	for _, loc := range locations {
		if mag, ok := p.Magnitude(loc, rate); ok {
			mags = append(mags, mag)
		}
	}
	return mags
}

// ImpactRate reports cosmic ray hits per second over the given exposure
// time, nominally the effective exposure time.
func ImpactRate(count int, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return float64(count) / seconds
}
