package domain

// RowError describes why a single file row was rejected.
type RowError struct {
	// Row is the 1-based line number in the uploaded file, counting the
	// header row, so the first data row is row 2.
	Row      int      `json:"row"`
	Name     string   `json:"name,omitempty"`
	Messages []string `json:"messages"`
}

// ImportReport summarizes one import call. It is built fresh per call,
// returned once and never persisted.
type ImportReport struct {
	Total   int        `json:"total"`
	Success int        `json:"success"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

// NewImportReport returns an empty report ready to accumulate rows.
func NewImportReport() ImportReport {
	return ImportReport{Errors: []RowError{}}
}

// AddError records a rejected row. Failed stays equal to len(Errors).
func (r *ImportReport) AddError(row int, name string, messages []string) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{Row: row, Name: name, Messages: messages})
}
