package gradebook

// RecordKind distinguishes server-reported assignments from user-added ones.
type RecordKind string

const (
	KindOfficial RecordKind = "official"
	KindCustom   RecordKind = "custom"
)

// AssignmentRecord is one assignment as reported by the upstream gradebook
// (or synthesized for a custom entry). Immutable after creation; every
// user adjustment lives in the overlay.
type AssignmentRecord struct {
	SectionID     string     `json:"section_id"`
	AssignmentID  string     `json:"assignment_id"`
	Kind          RecordKind `json:"kind"`
	Title         string     `json:"title,omitempty"`
	OriginalScore *float64   `json:"original_score"`
	OriginalMax   *float64   `json:"original_max"`
	CategoryIndex int        `json:"category_index"`

	// Unix milliseconds; 0 means the upstream omitted the field.
	DueAt    int64 `json:"due_at,omitempty"`
	GradedAt int64 `json:"graded_at,omitempty"`
}

// Category is one weighting bucket within a section. Weight 0 marks an
// unweighted category; a section is in weighted mode when any weight > 0.
type Category struct {
	Index  int     `json:"index"`
	Weight float64 `json:"weight"`
	Title  string  `json:"title,omitempty"`
}

// Section is the course-section metadata the upstream reports alongside
// its assignments. ReportedPct is the institution's own percentage, when
// it published one.
type Section struct {
	ID          string     `json:"id"`
	Categories  []Category `json:"categories"`
	ReportedPct *float64   `json:"reported_percentage,omitempty"`
}

// SectionView bundles a section with its records in stable insertion
// order. Aggregation, timelines, and stats all consume this shape.
type SectionView struct {
	Section Section
	Records []AssignmentRecord
}

// EffectiveRow is the ephemeral merge of a record with its overlay entry.
type EffectiveRow struct {
	Score   *float64 `json:"score"`
	Max     *float64 `json:"max"`
	Dropped bool     `json:"dropped,omitempty"`
}

// AggregationResult is an earned/max roll-up at category or section
// granularity. Pct is nil when nothing gradable contributed.
type AggregationResult struct {
	Earned   float64  `json:"earned"`
	Max      float64  `json:"max"`
	Pct      *float64 `json:"percentage"`
	Ungraded int      `json:"ungraded"`
}

// CategorySummary pairs both regimes for one category.
type CategorySummary struct {
	Index    int               `json:"index"`
	Title    string            `json:"title,omitempty"`
	Weight   float64           `json:"weight"`
	Original AggregationResult `json:"original"`
	Current  AggregationResult `json:"current"`
	Changed  bool              `json:"changed"`
}

// SectionSummary is the full roll-up exposed to the presentation layer.
type SectionSummary struct {
	SectionID   string            `json:"section_id"`
	Original    AggregationResult `json:"original"`
	Current     AggregationResult `json:"current"`
	ReportedPct *float64          `json:"reported_percentage,omitempty"`
	Categories  []CategorySummary `json:"categories"`
	Changed     bool              `json:"changed"`
	Display     DisplayPolicy     `json:"display"`
}

// TimelineEvent is one point on a section's reconstructed grade history.
type TimelineEvent struct {
	X                 float64      `json:"x"`
	AssignmentID      string       `json:"assignment_id"`
	CategoryIndex     int          `json:"category_index"`
	Row               EffectiveRow `json:"row"`
	RunningSectionPct *float64     `json:"running_section_percentage"`
}

// StatsSnapshot is the per-section statistical summary. Slope and
// Momentum are nil when too few points exist to define them.
type StatsSnapshot struct {
	Mean             float64  `json:"mean"`
	Median           float64  `json:"median"`
	StdDev           float64  `json:"std_dev"`
	Last5Avg         float64  `json:"last5_avg"`
	Slope            *float64 `json:"slope"`
	TrendLabel       string   `json:"trend_label"`
	Momentum         *float64 `json:"momentum"`
	Consistency      float64  `json:"consistency"`
	DroppedCount     int      `json:"dropped_count"`
	UngradedCount    int      `json:"ungraded_count"`
	ExtraCreditTotal float64  `json:"extra_credit_total"`
	GradePoints      *float64 `json:"grade_points"`
}

// OverallSnapshot rolls every section's latest result into one figure.
type OverallSnapshot struct {
	GPA            *float64 `json:"gpa"`
	Sections       int      `json:"sections"`
	GradedSections int      `json:"graded_sections"`
}

// CustomRecord is the round-trippable form of a user-added assignment.
type CustomRecord struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Score         *float64 `json:"score"`
	Max           *float64 `json:"max"`
	SectionID     string   `json:"sectionId"`
	CategoryIndex int      `json:"categoryIndex"`
}

func f64(v float64) *float64 { return &v }
