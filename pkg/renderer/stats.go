package renderer

// RenderStats contains statistics about a rendered frame
type RenderStats struct {
	TotalPixels  int     // Total number of pixels rendered
	Hits         int     // Pixels that reached the surface
	Misses       int     // Rays that never entered the grid cube
	Escaped      int     // Rays that left the grid without reaching the surface
	Exhausted    int     // Rays stopped by the march step cap
	TotalSteps   int     // March steps taken across all pixels
	MaxSteps     int     // Most steps taken by a single pixel
	AverageSteps float64 // Average march steps per pixel
}

// pixelOutcome classifies how a single ray finished
type pixelOutcome int

const (
	outcomeMiss pixelOutcome = iota
	outcomeHit
	outcomeEscaped
	outcomeExhausted
)

func (o pixelOutcome) String() string {
	switch o {
	case outcomeMiss:
		return "miss"
	case outcomeHit:
		return "hit"
	case outcomeEscaped:
		return "escaped"
	case outcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// record adds a single pixel to the statistics
func (s *RenderStats) record(outcome pixelOutcome, steps int) {
	s.TotalPixels++
	s.TotalSteps += steps
	s.MaxSteps = max(s.MaxSteps, steps)
	switch outcome {
	case outcomeHit:
		s.Hits++
	case outcomeMiss:
		s.Misses++
	case outcomeEscaped:
		s.Escaped++
	case outcomeExhausted:
		s.Exhausted++
	}
}

// merge folds the statistics of another stripe into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.Hits += other.Hits
	s.Misses += other.Misses
	s.Escaped += other.Escaped
	s.Exhausted += other.Exhausted
	s.TotalSteps += other.TotalSteps
	s.MaxSteps = max(s.MaxSteps, other.MaxSteps)
}

// finalize calculates derived statistics after all stripes are merged
func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSteps = float64(s.TotalSteps) / float64(s.TotalPixels)
	}
}
