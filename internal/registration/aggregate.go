package registration

import "github.com/banshee-data/scanalign/internal/geom"

// ScanOrigin is a scanner's position in the global frame.
type ScanOrigin struct {
	ScanID int
	Origin geom.Offset
}

// Summary is the reduction of a completed assembly.
type Summary struct {
	// BeaconCount is the number of distinct global-frame beacons.
	BeaconCount int
	// MaxDistance is the largest Manhattan distance between two scanner origins.
	MaxDistance int
	// Farthest holds the IDs of a pair of scanners at MaxDistance.
	Farthest [2]int
	// Origins lists scanner positions in registration order.
	Origins []ScanOrigin
	// Beacons lists the distinct beacons sorted by X, Y, Z.
	Beacons []geom.Point
}

// Aggregate merges the registrations' beacons and measures the spread of
// their origins. With fewer than two registrations MaxDistance is zero.
func Aggregate(regs []Registration) Summary {
	beacons := make(geom.PointSet)
	origins := make([]ScanOrigin, len(regs))
	for i, r := range regs {
		beacons.AddAll(r.Points)
		origins[i] = ScanOrigin{ScanID: r.ScanID, Origin: r.Origin}
	}

	s := Summary{
		BeaconCount: beacons.Len(),
		Origins:     origins,
		Beacons:     beacons.Sorted(),
	}
	if len(regs) > 0 {
		s.Farthest = [2]int{regs[0].ScanID, regs[0].ScanID}
	}
	for i := range origins {
		for j := i + 1; j < len(origins); j++ {
			d := origins[i].Origin.Sub(origins[j].Origin).Manhattan()
			if d > s.MaxDistance {
				s.MaxDistance = d
				s.Farthest = [2]int{origins[i].ScanID, origins[j].ScanID}
			}
		}
	}
	return s
}
