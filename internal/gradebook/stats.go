package gradebook

import (
	"math"
	"sort"
)

// Trend labels for the regression slope.
const (
	TrendRising  = "Rising"
	TrendFalling = "Falling"
	TrendFlat    = "Flat"
	TrendNone    = "N/A"
)

const trendThreshold = 0.25

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stdDev is the population standard deviation (divide by n).
func stdDev(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// olsSlope fits y = a + b*x and returns b. Nil with fewer than two
// points; zero when the x axis has no variance.
func olsSlope(xs, ys []float64) *float64 {
	n := len(ys)
	if n < 2 || len(xs) != n {
		return nil
	}
	mx, my := mean(xs), mean(ys)
	var num, den float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		num += dx * (ys[i] - my)
		den += dx * dx
	}
	if den == 0 {
		return f64(0)
	}
	return f64(num / den)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gradePoints maps a rounded whole percentage onto the 4.0 step table.
func gradePoints(pct float64) float64 {
	p := math.Round(pct)
	steps := []struct {
		min    float64
		points float64
	}{
		{93, 4.0}, {90, 3.7}, {87, 3.3}, {83, 3.0}, {80, 2.7},
		{77, 2.3}, {73, 2.0}, {70, 1.7}, {67, 1.3}, {63, 1.0}, {60, 0.7},
	}
	for _, s := range steps {
		if p >= s.min {
			return s.points
		}
	}
	return 0
}

// ComputeStats builds the statistical summary for one section from its
// timeline. The series holds one percentage per graded, non-dropped,
// positive-max row, on the timeline's x-axis.
func ComputeStats(view SectionView, ov *Overlay) StatsSnapshot {
	events := BuildTimeline(view, ov)

	var snap StatsSnapshot
	var xs, ys []float64
	for _, ev := range events {
		row := ev.Row
		if row.Dropped {
			snap.DroppedCount++
			continue
		}
		if row.Score == nil || row.Max == nil {
			snap.UngradedCount++
			continue
		}
		if *row.Max == 0 && *row.Score >= 0 {
			snap.ExtraCreditTotal += *row.Score
		}
		if *row.Max > 0 && *row.Score >= 0 {
			xs = append(xs, ev.X)
			ys = append(ys, *row.Score / *row.Max * 100)
		}
	}

	snap.Mean = mean(ys)
	snap.Median = median(ys)
	snap.StdDev = stdDev(ys)
	if n := len(ys); n > 0 {
		start := n - 5
		if start < 0 {
			start = 0
		}
		snap.Last5Avg = mean(ys[start:])
	}
	snap.Slope = olsSlope(xs, ys)
	snap.TrendLabel = trendLabel(snap.Slope)
	if len(ys) >= 6 {
		last3 := mean(ys[len(ys)-3:])
		prev3 := mean(ys[len(ys)-6 : len(ys)-3])
		snap.Momentum = f64(last3 - prev3)
	}
	snap.Consistency = clamp(100-snap.StdDev, 0, 100)

	if section, _ := AggregateSection(view, ov, RegimeCurrent); section.Pct != nil {
		snap.GradePoints = f64(gradePoints(*section.Pct))
	}
	return snap
}

func trendLabel(slope *float64) string {
	switch {
	case slope == nil:
		return TrendNone
	case *slope > trendThreshold:
		return TrendRising
	case *slope < -trendThreshold:
		return TrendFalling
	default:
		return TrendFlat
	}
}

// ComputeOverall averages grade points across the sections that have a
// computable current grade.
func ComputeOverall(views []SectionView, ov *Overlay) OverallSnapshot {
	out := OverallSnapshot{Sections: len(views)}
	sum := 0.0
	for _, view := range views {
		section, _ := AggregateSection(view, ov, RegimeCurrent)
		if section.Pct == nil {
			continue
		}
		sum += gradePoints(*section.Pct)
		out.GradedSections++
	}
	if out.GradedSections > 0 {
		out.GPA = f64(sum / float64(out.GradedSections))
	}
	return out
}
