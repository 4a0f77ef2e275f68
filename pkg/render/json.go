package render

import (
	"math"
	"slices"

	"github.com/akhildatla/reshape/pkg/interp"
	tbl "github.com/akhildatla/reshape/pkg/table"
)

type document struct {
	Tables []tableDoc `json:"tables"`
	Tests  []testDoc  `json:"tests,omitempty"`
}

type tableDoc struct {
	Name    string   `json:"name"`
	Index   []string `json:"index"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type testDoc struct {
	Index     int      `json:"index"`
	Table     string   `json:"table"`
	Label1    string   `json:"label1"`
	Label2    string   `json:"label2"`
	Strategy  string   `json:"strategy"`
	Statistic *float64 `json:"statistic"`
	DF        float64  `json:"df"`
	PValue    float64  `json:"p_value"`
}

func newDocument(s *tbl.Store, tests []interp.TestResult) document {
	doc := document{Tables: make([]tableDoc, 0, s.Len()), Tests: newTestDocs(tests)}
	for _, name := range slices.Sorted(slices.Values(s.Names())) {
		t, err := s.Resolve(name)
		if err != nil {
			continue
		}
		doc.Tables = append(doc.Tables, newTableDoc(name, t))
	}
	return doc
}

func newTableDoc(name string, t *tbl.Table) tableDoc {
	doc := tableDoc{
		Name:    name,
		Index:   t.Index(),
		Columns: t.Columns(),
		Rows:    make([][]any, t.NRows()),
	}
	for i := range doc.Rows {
		row := t.RowAt(i)
		for j, v := range row {
			// JSON has no encoding for NaN or infinities.
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				row[j] = nil
			}
		}
		doc.Rows[i] = row
	}
	return doc
}

func newTestDocs(tests []interp.TestResult) []testDoc {
	if len(tests) == 0 {
		return nil
	}
	docs := make([]testDoc, len(tests))
	for i, tr := range tests {
		docs[i] = testDoc{
			Index:    tr.Index,
			Table:    tr.Table,
			Label1:   tr.Label1,
			Label2:   tr.Label2,
			Strategy: tr.Strategy.String(),
			DF:       tr.DF,
			PValue:   tr.PValue,
		}
		if !math.IsNaN(tr.Statistic) && !math.IsInf(tr.Statistic, 0) {
			stat := tr.Statistic
			docs[i].Statistic = &stat
		}
	}
	return docs
}
