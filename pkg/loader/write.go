package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/akhildatla/reshape/pkg/table"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
)

// IndexColumn is the header used for row labels when a table with
// non-default labels is written.
const IndexColumn = "index"

// WriteCSV writes t as CSV. Missing cells are written as empty fields. Row
// labels are written as a leading IndexColumn unless they are the default
// 0..n-1 or a column already has that name.
func WriteCSV(ctx context.Context, w io.Writer, t *table.Table) error {
	empty := ""
	return exports.ExportToCSV(ctx, w, frameWithIndex(t), exports.CSVExportOptions{
		NullString: &empty,
		Separator:  ',',
	})
}

// SaveAll writes every table of s to dir as <name>.csv.
func SaveAll(ctx context.Context, dir string, s *table.Store) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range s.Names() {
		t, err := s.Resolve(name)
		if err != nil {
			return err
		}
		if err := saveCSV(ctx, filepath.Join(dir, name+".csv"), t); err != nil {
			return fmt.Errorf("save table %q: %w", name, err)
		}
	}
	return nil
}

func saveCSV(ctx context.Context, path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(ctx, f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func frameWithIndex(t *table.Table) *dataframe.DataFrame {
	index := t.Index()
	if slices.Equal(index, table.DefaultIndex(len(index))) || t.HasColumn(IndexColumn) {
		return t.Frame()
	}
	labels := make([]any, len(index))
	for i, l := range index {
		labels[i] = l
	}
	withIndex, err := t.InsertColumn(0, table.Column{Name: IndexColumn, Values: labels})
	if err != nil {
		return t.Frame()
	}
	return withIndex.Frame()
}
