package registration

import (
	"fmt"

	"github.com/banshee-data/scanalign/internal/geom"
)

// Scan is one scanner's beacon report in its own local frame.
type Scan struct {
	ID     int
	Points []geom.Point
}

// Registration places a scan in the global frame.
type Registration struct {
	ScanID   int
	Rotation geom.Rotation
	// Origin is the scanner's position in the global frame.
	Origin geom.Offset
	// Points are the scan's beacons rotated and translated into the global frame.
	Points []geom.Point
	// Seed is the ID of the scan this one was matched against, or -1 for
	// the reference scan.
	Seed int
	// Overlap is the number of beacons shared with the seed.
	Overlap int
}

// IsReference reports whether r anchors the global frame.
func (r Registration) IsReference() bool { return r.Seed < 0 }

func (r Registration) String() string {
	if r.IsReference() {
		return fmt.Sprintf("scanner %d: reference", r.ScanID)
	}
	return fmt.Sprintf("scanner %d: origin %v rotation #%d via scanner %d (%d shared)",
		r.ScanID, r.Origin, r.Rotation.Index(), r.Seed, r.Overlap)
}

// Status tracks a scan through assembly.
type Status int

const (
	// Unregistered scans have no known place in the global frame yet.
	Unregistered Status = iota
	// Registered scans are placed and waiting to serve as a seed.
	Registered
	// Retired scans have been tried as a seed against every unregistered scan.
	Retired
)

func (s Status) String() string {
	switch s {
	case Unregistered:
		return "unregistered"
	case Registered:
		return "registered"
	case Retired:
		return "retired"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// referenceRegistration anchors the global frame at s.
func referenceRegistration(s Scan) Registration {
	pts := make([]geom.Point, len(s.Points))
	copy(pts, s.Points)
	return Registration{
		ScanID:   s.ID,
		Rotation: geom.Identity,
		Points:   pts,
		Seed:     -1,
		Overlap:  len(pts),
	}
}
