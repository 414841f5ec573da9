package domain

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type Instrument string

const (
	InstrumentMIRI    Instrument = "miri"
	InstrumentNIRCam  Instrument = "nircam"
	InstrumentNIRISS  Instrument = "niriss"
	InstrumentNIRSpec Instrument = "nirspec"
	InstrumentFGS     Instrument = "fgs"
)

// Instruments lists every JWST instrument in canonical (lowercase) form.
var Instruments = []Instrument{
	InstrumentMIRI,
	InstrumentNIRCam,
	InstrumentNIRISS,
	InstrumentNIRSpec,
	InstrumentFGS,
}

// InstrumentDisplayNames maps canonical names to their mixed-case form.
var InstrumentDisplayNames = map[Instrument]string{
	InstrumentMIRI:    "MIRI",
	InstrumentNIRCam:  "NIRCam",
	InstrumentNIRISS:  "NIRISS",
	InstrumentNIRSpec: "NIRSpec",
	InstrumentFGS:     "FGS",
}

func ParseInstrument(name string) (Instrument, error) {
	ins := Instrument(strings.ToLower(name))
	for _, known := range Instruments {
		if ins == known {
			return ins, nil
		}
	}
	return "", ErrUnknownInstrument
}

// Apertures lists full-frame detector apertures per instrument. The cosmic
// ray monitor iterates these when searching the archive for new data.
var Apertures = map[Instrument][]string{
	InstrumentMIRI: {
		"MIRIM_FULL", "MIRIM_ILLUM", "MIRIM_BRIGHTSKY", "MIRIM_SUB256",
		"MIRIM_SUB128", "MIRIM_SUB64", "MIRIM_SLITLESSPRISM",
	},
	InstrumentNIRCam: {
		"NRCA1_FULL", "NRCA2_FULL", "NRCA3_FULL", "NRCA4_FULL", "NRCA5_FULL",
		"NRCB1_FULL", "NRCB2_FULL", "NRCB3_FULL", "NRCB4_FULL", "NRCB5_FULL",
	},
}

// MJDEpoch is the zero point of the Modified Julian Date scale.
var MJDEpoch = time.Date(1858, time.November, 17, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 86400.0

func MJDToTime(mjd float64) time.Time {
	return MJDEpoch.Add(time.Duration(mjd * secondsPerDay * float64(time.Second)))
}

func TimeToMJD(t time.Time) float64 {
	return t.Sub(MJDEpoch).Seconds() / secondsPerDay
}

// filenamePattern matches JWST stage-0 product names of the form
// jw<PPPPP><OOO><VVV>_<GGSAA>_<EEEEE>_<detector>_<suffix>.
var filenamePattern = regexp.MustCompile(
	`^[a-z]+` +
		`(?P<program_id>\d{5})` +
		`(?P<observation>\d{3})` +
		`(?P<visit>\d{3})` +
		`_(?P<visit_group>\d{2})` +
		`(?P<parallel_seq_id>\d)` +
		`(?P<activity>\d{2})` +
		`_(?P<exposure_id>\d+)` +
		`_(?P<detector>[a-zA-Z0-9]+)` +
		`_(?P<suffix>[a-zA-Z0-9]+)`)

// FileProperties holds the fields encoded in a JWST file name.
type FileProperties struct {
	ProgramID     string
	Observation   string
	Visit         string
	VisitGroup    string
	ParallelSeqID string
	Activity      string
	ExposureID    string
	Detector      string
	Suffix        string
}

// ParseFilename extracts the properties of a JWST file (program ID, visit
// number, detector, etc.) from its name. A path is reduced to its base name
// first. Returns ErrBadFilename when the name does not follow the convention.
func ParseFilename(filename string) (FileProperties, error) {
	base := filepath.Base(filename)

	m := filenamePattern.FindStringSubmatch(base)
	if m == nil {
		return FileProperties{}, ErrBadFilename
	}

	fields := map[string]string{}
	for i, name := range filenamePattern.SubexpNames() {
		if name != "" {
			fields[name] = m[i]
		}
	}

	return FileProperties{
		ProgramID:     fields["program_id"],
		Observation:   fields["observation"],
		Visit:         fields["visit"],
		VisitGroup:    fields["visit_group"],
		ParallelSeqID: fields["parallel_seq_id"],
		Activity:      fields["activity"],
		ExposureID:    fields["exposure_id"],
		Detector:      fields["detector"],
		Suffix:        fields["suffix"],
	}, nil
}

// ObservationDirName derives the working-directory name for an exposure:
// the first four underscore-joined segments of the file name.
func ObservationDirName(filename string) string {
	base := filepath.Base(filename)
	parts := strings.Split(base, "_")
	if len(parts) > 4 {
		parts = parts[:4]
	}
	return strings.Join(parts, "_")
}
