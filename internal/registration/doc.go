// Package registration assembles independently oriented scans into one
// global frame.
//
// Responsibilities: overlap matching (Matcher), incremental assembly from a
// reference scan (Assembler), and reductions over the finished assembly
// (Aggregate).
// Key types: Scan, Registration, Result, Summary.
//
// The global frame is the reference scan's own frame. A scan is accepted
// once some rotation and translation of its beacons puts at least
// MinOverlap of them on beacons already placed by a registered scan. Scans
// that cannot be chained to the reference through such overlaps make the
// whole assembly fail with ErrRegistrationFailed; there is no partial
// result.
//
// Input scans are never modified. Registrations hold transformed copies.
package registration
