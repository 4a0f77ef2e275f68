package loader

import (
	"bytes"
	"context"
	"errors"
	"os"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
)

// JSON errors.
var (
	ErrEmptyJSON = errors.New("empty JSON file")
)

// LoadJSON reads a JSON file of objects, one record per object, and returns
// a DataFrame. Column types are inferred automatically.
func LoadJSON(path string) (*dataframe.DataFrame, error) {
	return loadJSON(context.Background(), path)
}

func loadJSON(ctx context.Context, path string) (*dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyJSON
	}

	df, err := imports.LoadFromJSON(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyJSON
	}

	return df, nil
}
