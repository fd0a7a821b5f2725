package perfstats

import "time"

// Stopwatch measures the duration of one stage at a time
type Stopwatch struct {
	start   time.Time
	elapsed time.Duration
	running bool
}

func StartStopwatch() *Stopwatch {
	s := &Stopwatch{}
	s.Restart()
	return s
}

// Restart zeroes the stopwatch and starts it
func (s *Stopwatch) Restart() {
	s.start = time.Now()
	s.elapsed = 0
	s.running = true
}

// Stop freezes the elapsed time, and returns it
func (s *Stopwatch) Stop() time.Duration {
	if s.running {
		s.elapsed = time.Since(s.start)
		s.running = false
	}
	return s.elapsed
}

func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return time.Since(s.start)
	}
	return s.elapsed
}

// Milliseconds is convenient for log messages such as "Found 3 sequences in 1.234 ms"
func Milliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// Accumulate samples of how long something took
type TimeAccumulator struct {
	Samples int64
	Total   time.Duration
}

func (a *TimeAccumulator) Reset() {
	a.Samples = 0
	a.Total = 0
}

func (a *TimeAccumulator) AddSample(v time.Duration) {
	a.Samples++
	a.Total += v
}

func (a *TimeAccumulator) Average() time.Duration {
	if a.Samples == 0 {
		return 0
	}
	return time.Duration(a.Total.Nanoseconds() / a.Samples)
}
