package loader

import (
	"context"
	"errors"
	"io"
	"os"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
)

// CSV errors.
var (
	ErrEmptyFile = errors.New("empty CSV file")
)

// LoadCSV reads a CSV file and returns a DataFrame using dataframe-go.
//   - First row is header (column names)
//   - Column types are inferred (int64, float64, string)
//   - Empty fields become missing cells
func LoadCSV(path string) (*dataframe.DataFrame, error) {
	return loadCSV(context.Background(), path)
}

func loadCSV(ctx context.Context, path string) (*dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(ctx, file)
}

// ReadCSV parses CSV from r with the same rules as LoadCSV.
func ReadCSV(ctx context.Context, r io.ReadSeeker) (*dataframe.DataFrame, error) {
	empty := ""
	df, err := imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		Comma:          ',',
		NilValue:       &empty,
		InferDataTypes: true,
	})
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, err
	}

	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyFile
	}

	return df, nil
}
