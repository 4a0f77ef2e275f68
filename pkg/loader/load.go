// Package loader reads tables from CSV, JSON and Parquet files and writes
// them back out as CSV.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akhildatla/reshape/pkg/table"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedFormat is returned for file extensions with no reader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// maxParallelLoads bounds concurrent file reads in LoadAll.
const maxParallelLoads = 4

// Load reads one file into a table. The format is chosen by extension: .csv,
// .json/.jsonl or .parquet. A leading IndexColumn of distinct, non-missing
// cells becomes the row labels, as written by WriteCSV; otherwise rows get
// the default labels.
func Load(ctx context.Context, path string) (*table.Table, error) {
	var (
		df  *dataframe.DataFrame
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		df, err = loadCSV(ctx, path)
	case ".json", ".jsonl":
		df, err = loadJSON(ctx, path)
	case ".parquet":
		df, err = loadParquet(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	t, err := table.FromFrame(df)
	if err != nil {
		return nil, err
	}
	return restoreIndex(t), nil
}

// restoreIndex moves a leading IndexColumn into the row labels. Tables whose
// first column cannot serve as labels are returned unchanged.
func restoreIndex(t *table.Table) *table.Table {
	if t.NCols() == 0 || t.Columns()[0] != IndexColumn {
		return t
	}
	cells := t.ColumnAt(0)
	labels := make([]string, len(cells))
	for i, c := range cells {
		if table.IsMissing(c) {
			return t
		}
		labels[i] = table.FormatCell(c)
	}
	rest, err := t.DropColumn(IndexColumn)
	if err != nil {
		return t
	}
	out, err := rest.WithIndex(labels)
	if err != nil {
		return t
	}
	return out
}

// LoadAll reads every file of paths, keyed by table name, into a new store.
// Files load concurrently; the first failure cancels the rest.
func LoadAll(ctx context.Context, paths map[string]string) (*table.Store, error) {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	tables := make([]*table.Table, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := Load(ctx, paths[name])
			if err != nil {
				return fmt.Errorf("table %q: %w", name, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byName := make(map[string]*table.Table, len(names))
	for i, name := range names {
		byName[name] = tables[i]
	}
	return table.NewStoreFrom(byName), nil
}
