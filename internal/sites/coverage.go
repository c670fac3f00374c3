package sites

// ColumnCoverage counts filled and blank cells for one dataset column.
type ColumnCoverage struct {
	Name    string `json:"name" yaml:"name"`
	NonNull int    `json:"non_null" yaml:"non_null"`
	Missing int    `json:"missing" yaml:"missing"`
}

// Coverage reports, for each known column in dataset order, how many rows
// carry a non-blank value. A column absent from the header counts as
// missing in every row.
func Coverage(rows []RawRecord) []ColumnCoverage {
	out := make([]ColumnCoverage, len(Columns))
	for i, col := range Columns {
		out[i].Name = col
		for _, r := range rows {
			if tidy(r.Get(col)) == "" {
				out[i].Missing++
			} else {
				out[i].NonNull++
			}
		}
	}
	return out
}
