package monitor

// Point-in-time resource queries against a running process and its
// descendants, built on gopsutil. Every query degrades to a zero value when
// the process has exited or a lookup fails: sampling must never abort the
// benchmark run it is observing.

import (
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

type Sampler struct {
	proc *process.Process
}

// NewSampler returns a sampler for the given PID. If the process cannot be
// looked up, the sampler is still valid and all queries return zero values.
func NewSampler(pid int32) *Sampler {
	proc, err := process.NewProcess(pid)
	if err != nil {
		proc = nil
	}
	return &Sampler{proc: proc}
}

func (s *Sampler) running() bool {
	if s.proc == nil {
		return false
	}
	ok, err := s.proc.IsRunning()
	return err == nil && ok
}

// CPUPercent returns CPU utilization measured over the given interval.
// The call blocks for the interval while the process is running; a zero
// interval yields an instantaneous (noisier) reading. Returns 0 if the
// process is not running.
func (s *Sampler) CPUPercent(interval time.Duration) float64 {
	if !s.running() {
		return 0
	}
	pct, err := s.proc.Percent(interval)
	if err != nil {
		return 0
	}
	return pct
}

// MemoryBytes returns the resident set size, or 0 if the process is not
// running.
func (s *Sampler) MemoryBytes() uint64 {
	if !s.running() {
		return 0
	}
	info, err := s.proc.MemoryInfo()
	if err != nil || info == nil {
		return 0
	}
	return info.RSS
}

// OpenFileCount returns the number of open file descriptors. Best-effort
// diagnostic: access denied or a vanished process both count as 0.
func (s *Sampler) OpenFileCount() int {
	if !s.running() {
		return 0
	}
	files, err := s.proc.OpenFiles()
	if err != nil {
		return 0
	}
	return len(files)
}

// HasZombieDescendant walks all descendants of the process and reports
// whether any is in a terminated-but-unreaped state. Returns false if the
// process has already exited or descendants cannot be enumerated.
func (s *Sampler) HasZombieDescendant() bool {
	if !s.running() {
		return false
	}
	children, err := s.proc.Children()
	if err != nil {
		return false
	}
	for _, child := range children {
		if isZombie(child) || hasZombieDescendant(child) {
			return true
		}
	}
	return false
}

func hasZombieDescendant(p *process.Process) bool {
	children, err := p.Children()
	if err != nil {
		return false
	}
	for _, child := range children {
		if isZombie(child) || hasZombieDescendant(child) {
			return true
		}
	}
	return false
}

func isZombie(p *process.Process) bool {
	statuses, err := p.Status()
	if err != nil {
		return false
	}
	for _, status := range statuses {
		if status == process.Zombie {
			return true
		}
	}
	return false
}
