package evidence

import (
	"time"

	"mercator-hq/meridian/pkg/compliance"
)

// HashedFile is one evidence file that was found and hashed.
type HashedFile struct {
	// Filename is the base name of the file within the evidence directory.
	Filename string `json:"filename"`

	// SHA256 is the hex-encoded content hash.
	SHA256 string `json:"sha256"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Category is the inferred document category, "uncategorized" when no
	// keyword matched.
	Category string `json:"category"`
}

// Gap is a missing or unmatched piece of evidence for a claim.
type Gap struct {
	// Category is the gap category (e.g., "LICENSE_EVIDENCE").
	Category string `json:"category"`

	Description string `json:"description"`

	// Severity is ERROR or WARNING; evidence gaps are never advisory.
	Severity compliance.Severity `json:"severity"`

	// EntityName is the entity the gap belongs to.
	EntityName string `json:"entity_name"`
}

// Report is the output of one evidence validator call.
type Report struct {
	EntityName string       `json:"entity_name"`
	CheckedAt  time.Time    `json:"checked_at"`
	Directory  string       `json:"directory"`
	Files      []HashedFile `json:"files"`
	Gaps       []Gap        `json:"gaps"`
}

func (r *Report) addGap(category, description string, severity compliance.Severity) {
	r.Gaps = append(r.Gaps, Gap{
		Category:    category,
		Description: description,
		Severity:    severity,
		EntityName:  r.EntityName,
	})
}

// ErrorGaps returns the number of ERROR-severity gaps.
func (r *Report) ErrorGaps() int {
	n := 0
	for _, g := range r.Gaps {
		if g.Severity == compliance.SeverityError {
			n++
		}
	}
	return n
}

// Passed reports whether the evidence check produced no ERROR gaps.
func (r *Report) Passed() bool { return r.ErrorGaps() == 0 }

// filesInCategory returns the hashed files with the given category.
func (r *Report) filesInCategory(category string) []HashedFile {
	var out []HashedFile
	for _, f := range r.Files {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}
