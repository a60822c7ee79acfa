package domain

// ResultSet is a tabular report result: the column legend plus rows whose
// cells line up with it.
type ResultSet struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// ColumnIndex returns the index of the named column, or -1.
func (rs *ResultSet) ColumnIndex(name string) int {
	for i, c := range rs.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the legend names in order.
func (rs *ResultSet) ColumnNames() []string {
	names := make([]string, len(rs.Columns))
	for i, c := range rs.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnLabels returns the legend labels in order, falling back to the name
// for unlabeled columns.
func (rs *ResultSet) ColumnLabels() []string {
	labels := make([]string, len(rs.Columns))
	for i, c := range rs.Columns {
		labels[i] = c.Label
		if labels[i] == "" {
			labels[i] = c.Name
		}
	}
	return labels
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}
