package chat

import "time"

// Sweep exposes the registry sweeper to the external test package.
func (r *Registry) Sweep(now time.Time) int { return r.sweep(now) }
