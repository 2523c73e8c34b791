// internal/status/snapshot.go
package status

// Snapshot is the live part of a status block.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
	GoodCycles     uint16
	FailedCycles   uint16
}

// Observe folds one mirror cycle outcome into s.
// code is ErrNone for a successful cycle.
// It reports whether any slot changed.
func (s *Snapshot) Observe(code uint16) bool {
	prev := *s
	if code == ErrNone {
		s.Health = HealthOK
		s.LastErrorCode = ErrNone
		s.SecondsInError = 0
		s.GoodCycles++
	} else {
		s.Health = HealthError
		s.LastErrorCode = code
		s.FailedCycles++
	}
	return *s != prev
}

// Tick advances seconds_in_error while not healthy.
// It reports whether the slot changed.
func (s *Snapshot) Tick() bool {
	if s.Health == HealthOK || s.SecondsInError == 0xffff {
		return false
	}
	s.SecondsInError++
	return true
}
