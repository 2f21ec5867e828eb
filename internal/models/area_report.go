package models

// AreaReport aggregates the new files of one area for a single run.
// Files is already truncated to the per-area cap, in catalog order;
// Remaining counts the files dropped by that truncation. Bytes sums the
// included files only.
type AreaReport struct {
	Area      Area          `json:"area"`
	Files     []*FileRecord `json:"files"`
	Remaining int           `json:"remaining"`
	Bytes     int64         `json:"bytes"`
}
