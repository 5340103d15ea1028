package gradebook

import "sort"

// timestampFloor rejects zero and placeholder epochs some upstreams
// emit (unix millis, 2000-01-01T00:00:00Z).
const timestampFloor = 946684800000

// usableTimestamp picks the x-axis candidate for one record: graded
// time when sane, else due time when sane, else nothing.
func usableTimestamp(rec AssignmentRecord) (float64, bool) {
	if rec.GradedAt >= timestampFloor {
		return float64(rec.GradedAt), true
	}
	if rec.DueAt >= timestampFloor {
		return float64(rec.DueAt), true
	}
	return 0, false
}

// resolveAxis assigns an x to every record. When at least two records
// carry usable timestamps spanning a real range, timestamp-less records
// get a synthetic x interpolated from their insertion position across
// that range. Otherwise every record falls back to its insertion index,
// which keeps the axis strictly increasing.
func resolveAxis(records []AssignmentRecord) []float64 {
	n := len(records)
	xs := make([]float64, n)
	have := make([]bool, n)

	usable := 0
	var lo, hi float64
	for i, rec := range records {
		if x, ok := usableTimestamp(rec); ok {
			xs[i], have[i] = x, true
			if usable == 0 || x < lo {
				lo = x
			}
			if usable == 0 || x > hi {
				hi = x
			}
			usable++
		}
	}

	if usable < 2 || hi <= lo {
		for i := range xs {
			xs[i] = float64(i)
		}
		return xs
	}
	for i := range xs {
		if !have[i] {
			xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		}
	}
	return xs
}

// BuildTimeline orders a section's assignments on a reconciled x-axis
// and replays the current-regime aggregation one event at a time, so
// each event carries the section percentage as it stood after that
// assignment landed. Dropped rows still appear as events but contribute
// nothing to the running sums.
func BuildTimeline(view SectionView, ov *Overlay) []TimelineEvent {
	xs := resolveAxis(view.Records)

	idx := make([]int, len(view.Records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	cats := view.Section.Categories
	running := make([]AggregationResult, len(cats))
	catSlot := make(map[int]int, len(cats))
	for i, c := range cats {
		catSlot[c.Index] = i
	}

	events := make([]TimelineEvent, 0, len(idx))
	for _, i := range idx {
		rec := view.Records[i]
		row := ov.Effective(rec)
		if slot, ok := catSlot[rec.CategoryIndex]; ok && !row.Dropped {
			res := running[slot]
			res.Pct = nil
			accumulate(&res, row.Score, row.Max)
			finishPct(&res)
			running[slot] = res
		}
		section := combineSection(cats, running)
		events = append(events, TimelineEvent{
			X:                 xs[i],
			AssignmentID:      rec.AssignmentID,
			CategoryIndex:     rec.CategoryIndex,
			Row:               row,
			RunningSectionPct: section.Pct,
		})
	}
	return events
}
