package api

// Server-side bounds for per-run resource parameters. Values outside the
// range are clamped rather than rejected; zero or negative means "absent"
// and yields the default.
const (
	MinTimeSec     = 1
	MaxTimeSec     = 30
	DefaultTimeSec = 5

	MinMemoryMB     = 64
	MaxMemoryMB     = 2048
	DefaultMemoryMB = 512

	MinCpus     = 0.1
	MaxCpus     = 4.0
	DefaultCpus = 0.5
)

// Limits are the resource ceilings applied to one run.
type Limits struct {
	TimeSec  float64 `json:"time_sec"`
	MemoryMB int     `json:"memory_mb"`
	Cpus     float64 `json:"cpus"`
}

// Clamped returns a copy with every field forced into its safe range.
func (l Limits) Clamped() Limits {
	res := l
	if res.TimeSec <= 0 {
		res.TimeSec = DefaultTimeSec
	}
	if res.TimeSec < MinTimeSec {
		res.TimeSec = MinTimeSec
	}
	if res.TimeSec > MaxTimeSec {
		res.TimeSec = MaxTimeSec
	}

	if res.MemoryMB <= 0 {
		res.MemoryMB = DefaultMemoryMB
	}
	if res.MemoryMB < MinMemoryMB {
		res.MemoryMB = MinMemoryMB
	}
	if res.MemoryMB > MaxMemoryMB {
		res.MemoryMB = MaxMemoryMB
	}

	if res.Cpus <= 0 {
		res.Cpus = DefaultCpus
	}
	if res.Cpus < MinCpus {
		res.Cpus = MinCpus
	}
	if res.Cpus > MaxCpus {
		res.Cpus = MaxCpus
	}
	return res
}
