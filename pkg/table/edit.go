package table

import "fmt"

// DropColumn returns a table without the named column.
func (t *Table) DropColumn(name string) (*Table, error) {
	pos := t.ColumnPos(name)
	if pos < 0 {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidLabel, name)
	}
	cols := t.columns()
	cols = append(cols[:pos], cols[pos+1:]...)
	return New(t.index, cols...)
}

// DropRow returns a table without the labeled row.
func (t *Table) DropRow(label string) (*Table, error) {
	pos := t.RowPos(label)
	if pos < 0 {
		return nil, fmt.Errorf("%w: no row %q", ErrInvalidLabel, label)
	}
	index := make([]string, 0, len(t.index)-1)
	index = append(index, t.index[:pos]...)
	index = append(index, t.index[pos+1:]...)
	cols := t.columns()
	for i := range cols {
		v := cols[i].Values
		cols[i].Values = append(v[:pos:pos], v[pos+1:]...)
	}
	return New(index, cols...)
}

// InsertColumn returns a table with col inserted at pos. pos may equal
// NCols to append.
func (t *Table) InsertColumn(pos int, col Column) (*Table, error) {
	if pos < 0 || pos > t.NCols() {
		return nil, fmt.Errorf("%w: column position %d not in [0, %d]", ErrPositionOutOfRange, pos, t.NCols())
	}
	if t.HasColumn(col.Name) {
		return nil, fmt.Errorf("%w: column %q already exists", ErrDuplicateLabel, col.Name)
	}
	if len(col.Values) != t.NRows() {
		return nil, fmt.Errorf("%w: column %q has %d cells, table has %d rows",
			ErrDimensionMismatch, col.Name, len(col.Values), t.NRows())
	}
	cols := t.columns()
	out := make([]Column, 0, len(cols)+1)
	out = append(out, cols[:pos]...)
	out = append(out, col)
	out = append(out, cols[pos:]...)
	return New(t.index, out...)
}

// AppendColumn inserts col after the last column.
func (t *Table) AppendColumn(col Column) (*Table, error) {
	return t.InsertColumn(t.NCols(), col)
}

// InsertRow returns a table with a new row at pos. Cells are given by
// column name; columns the map does not mention get missing cells and names
// the table lacks are a dimension mismatch. pos may equal NRows to append.
func (t *Table) InsertRow(pos int, label string, cells map[string]any) (*Table, error) {
	if pos < 0 || pos > t.NRows() {
		return nil, fmt.Errorf("%w: row position %d not in [0, %d]", ErrPositionOutOfRange, pos, t.NRows())
	}
	if t.HasRow(label) {
		return nil, fmt.Errorf("%w: row %q already exists", ErrDuplicateLabel, label)
	}
	for name := range cells {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("%w: row %q has a cell for column %q which the table lacks",
				ErrDimensionMismatch, label, name)
		}
	}

	index := make([]string, 0, len(t.index)+1)
	index = append(index, t.index[:pos]...)
	index = append(index, label)
	index = append(index, t.index[pos:]...)

	cols := t.columns()
	for i := range cols {
		v := cols[i].Values
		nv := make([]any, 0, len(v)+1)
		nv = append(nv, v[:pos]...)
		nv = append(nv, cells[cols[i].Name])
		nv = append(nv, v[pos:]...)
		cols[i].Values = nv
	}
	return New(index, cols...)
}

// AppendRow inserts a row after the last row.
func (t *Table) AppendRow(label string, cells map[string]any) (*Table, error) {
	return t.InsertRow(t.NRows(), label, cells)
}

// RowCells returns the labeled row keyed by column name.
func (t *Table) RowCells(label string) (map[string]any, error) {
	vals, err := t.Row(label)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(vals))
	for i, name := range t.Columns() {
		out[name] = vals[i]
	}
	return out, nil
}

// RenameColumn returns a table whose column old is called name.
func (t *Table) RenameColumn(old, name string) (*Table, error) {
	pos := t.ColumnPos(old)
	if pos < 0 {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidLabel, old)
	}
	if old != name && t.HasColumn(name) {
		return nil, fmt.Errorf("%w: column %q already exists", ErrDuplicateLabel, name)
	}
	cols := t.columns()
	cols[pos].Name = name
	return New(t.index, cols...)
}

// RenameRow returns a table whose row old is labeled name.
func (t *Table) RenameRow(old, name string) (*Table, error) {
	pos := t.RowPos(old)
	if pos < 0 {
		return nil, fmt.Errorf("%w: no row %q", ErrInvalidLabel, old)
	}
	if old != name && t.HasRow(name) {
		return nil, fmt.Errorf("%w: row %q already exists", ErrDuplicateLabel, name)
	}
	index := t.Index()
	index[pos] = name
	return New(index, t.columns()...)
}

// ReplaceColumn returns a table where the named column is substituted, in
// place, by repl. repl may be empty.
func (t *Table) ReplaceColumn(name string, repl ...Column) (*Table, error) {
	pos := t.ColumnPos(name)
	if pos < 0 {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidLabel, name)
	}
	cols := t.columns()
	out := make([]Column, 0, len(cols)-1+len(repl))
	out = append(out, cols[:pos]...)
	out = append(out, repl...)
	out = append(out, cols[pos+1:]...)
	return New(t.index, out...)
}

// Transpose swaps the axes: column names become row labels and row labels
// become column names. Column storage types are re-inferred from the cells.
func (t *Table) Transpose() *Table {
	names := t.Columns()
	cols := make([]Column, len(t.index))
	for r, label := range t.index {
		cols[r] = Column{Name: label, Values: t.RowAt(r)}
	}
	// Unique labels and names on t guarantee New cannot fail here.
	return MustNew(names, cols...)
}
