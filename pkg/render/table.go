package render

import (
	"strconv"

	"github.com/Gobusters/ectolinq"

	"github.com/GabrielASF2/lead-cental/pkg/schema"
)

// Column is one rendered header cell.
type Column struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Row is one rendered body row. Key is the row's id value when present,
// otherwise its position in the batch.
type Row struct {
	Key   string `json:"key"`
	Cells []Cell `json:"cells"`
}

// Table is the rendered dynamic table.
type Table struct {
	Columns      []Column `json:"columns,omitempty"`
	Rows         []Row    `json:"rows,omitempty"`
	EmptyMessage string   `json:"emptyMessage,omitempty"`
}

// emptyMessage is shown instead of a header-less table when there are no rows.
const emptyMessage = "No leads found."

// VisibleColumns filters the schema down to displayable columns. Primary keys
// and surrogate identifiers never show: the id column and every uuid-typed
// column are dropped. Visibility depends only on the schema, never on row
// content.
func VisibleColumns(columns []schema.Descriptor) []schema.Descriptor {
	return ectolinq.Filter(columns, func(col schema.Descriptor) bool {
		return col.Name != "id" && col.Type != schema.TypeUUID
	})
}

// RenderTable renders a header and body from the detected schema and a batch
// of rows. A row missing a visible column renders that cell as the null
// placeholder.
func RenderTable(columns []schema.Descriptor, rows []schema.Row) Table {
	visible := VisibleColumns(columns)

	if len(rows) == 0 {
		return Table{EmptyMessage: emptyMessage}
	}

	table := Table{
		Columns: make([]Column, 0, len(visible)),
		Rows:    make([]Row, 0, len(rows)),
	}
	for _, col := range visible {
		table.Columns = append(table.Columns, Column{Name: col.Name, Label: col.Label})
	}

	for i, row := range rows {
		rendered := Row{
			Key:   rowKey(row, i),
			Cells: make([]Cell, 0, len(visible)),
		}
		for _, col := range visible {
			rendered.Cells = append(rendered.Cells, RenderCell(row.Value(col.Name), col))
		}
		table.Rows = append(table.Rows, rendered)
	}

	return table
}

func rowKey(row schema.Row, position int) string {
	if id := row.Value("id"); id != nil {
		return stringify(id)
	}
	return strconv.Itoa(position)
}
