package ledger

import "expensetracker/ledger/model"

// View tells how a WorkingSet was produced.
type View int

const (
	// ViewEmpty is the zero value: nothing has been loaded yet.
	ViewEmpty View = iota
	// ViewAll is the result of ListAll.
	ViewAll
	// ViewFiltered is the result of ListByDateRange.
	ViewFiltered
)

func (v View) String() string {
	switch v {
	case ViewAll:
		return "all"
	case ViewFiltered:
		return "filtered"
	default:
		return "empty"
	}
}

// WorkingSet is the set of records loaded by the last list operation. Totals,
// grouping and export are computed from it and never re-query the store.
type WorkingSet struct {
	View    View
	From    string
	To      string
	Records []model.Expense
}

// Len returns the number of loaded records.
func (ws WorkingSet) Len() int {
	return len(ws.Records)
}

// IsEmpty reports whether there is nothing to total, group or export.
func (ws WorkingSet) IsEmpty() bool {
	return len(ws.Records) == 0
}

// IDs returns the record ids in working set order.
func (ws WorkingSet) IDs() []string {
	ids := make([]string, 0, len(ws.Records))
	for _, r := range ws.Records {
		ids = append(ids, r.ID)
	}

	return ids
}
