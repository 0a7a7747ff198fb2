package analysis

// Category enum untuk area assessment organisasi
type Category string

const (
	CategorySkills      Category = "skills"
	CategoryStructure   Category = "structure"
	CategoryCulture     Category = "culture"
	CategoryPerformance Category = "performance"
	CategoryTalent      Category = "talent"
	CategoryRetention   Category = "retention"
	CategoryHiring      Category = "hiring"
	// CategoryCompliance only shows up in the flat recommendation list,
	// the assessment engine has no dedicated compliance sub-result.
	CategoryCompliance Category = "compliance"
)

// CategoryResult hasil assessment per kategori.
// Score is a fraction of target (1.0 = on-target, may exceed for
// over-performing orgs).
type CategoryResult struct {
	Score           float64  `json:"score"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	Risks           []string `json:"risks,omitempty"`
	Gaps            []string `json:"gaps,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Recommendation cross-category dari analysis engine
type Recommendation struct {
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Details  string   `json:"details,omitempty"`
}

// Result adalah payload assessment dari analysis subsystem.
// Immutable: engine cuma baca, tidak pernah tulis.
type Result struct {
	Categories      map[Category]CategoryResult `json:"categories"`
	Recommendations []Recommendation            `json:"recommendations,omitempty"`
}

// Category lookup; ok=false kalau kategori tidak ada di hasil analysis
func (r *Result) Category(c Category) (CategoryResult, bool) {
	cr, ok := r.Categories[c]
	return cr, ok
}

// RecommendationTitles filter flat recommendations by category
func (r *Result) RecommendationTitles(c Category) []string {
	var out []string
	for _, rec := range r.Recommendations {
		if rec.Category == c {
			out = append(out, rec.Title)
		}
	}
	return out
}
