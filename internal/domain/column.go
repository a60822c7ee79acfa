package domain

// Datatypes understood by the reshaper and output renderers.
const (
	DatatypeString  = "string"
	DatatypeInteger = "integer"
	DatatypeFloat   = "float"
	DatatypeTime    = "time"
)

// ColumnKind distinguishes columns the appliance returns from columns a
// run computes itself.
type ColumnKind int

const (
	// ColumnStatic is requested from and returned by the appliance.
	ColumnStatic ColumnKind = iota

	// ColumnEphemeral exists only for the lifetime of a run and is never
	// sent to the appliance.
	ColumnEphemeral
)

func (k ColumnKind) String() string {
	if k == ColumnEphemeral {
		return "ephemeral"
	}
	return "static"
}

// Column describes one result column.
type Column struct {
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	Datatype  string     `json:"datatype"`
	Formatter string     `json:"formatter,omitempty"`
	Units     string     `json:"units,omitempty"`
	Kind      ColumnKind `json:"kind"`
	IsKey     bool       `json:"iskey,omitempty"`
	IsSortCol bool       `json:"issortcol,omitempty"`
}

// Ephemeral reports whether the column is computed locally.
func (c Column) Ephemeral() bool { return c.Kind == ColumnEphemeral }

// StaticColumnNames returns the names of the columns that must be requested
// from the appliance, preserving order.
func StaticColumnNames(cols []Column) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		if !c.Ephemeral() {
			names = append(names, c.Name)
		}
	}
	return names
}

// ColumnsFromNames builds static columns for plain column-name lists.
func ColumnsFromNames(names []string) []Column {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, Column{Name: n, Label: n, Datatype: DatatypeString})
	}
	return cols
}
