package dashboard

import "github.com/sells-group/prospector-cli/internal/model"

// boardColumns are the active pipeline stages shown on the board.
var boardColumns = []struct {
	status model.CRMStatus
	label  string
}{
	{model.CRMStatusNew, "New Prospects"},
	{model.CRMStatusContacted, "Contacted"},
	{model.CRMStatusMeeting, "Meetings"},
	{model.CRMStatusClosed, "Closed Won"},
}

// Column is one kanban stage and the leads in it, in store order.
type Column struct {
	Status model.CRMStatus      `json:"status"`
	Label  string               `json:"label"`
	Count  int                  `json:"count"`
	Leads  []model.BusinessLead `json:"leads"`
}

// Board groups saved leads by pipeline stage. Lost leads sit outside the
// columns.
type Board struct {
	Columns []Column             `json:"columns"`
	Lost    []model.BusinessLead `json:"lost"`
}

// BuildBoard groups leads into columns, preserving their order.
func BuildBoard(leads []model.BusinessLead) Board {
	b := Board{
		Columns: make([]Column, len(boardColumns)),
		Lost:    []model.BusinessLead{},
	}
	index := make(map[model.CRMStatus]int, len(boardColumns))
	for i, c := range boardColumns {
		b.Columns[i] = Column{Status: c.status, Label: c.label, Leads: []model.BusinessLead{}}
		index[c.status] = i
	}

	for _, l := range leads {
		if l.CRMStatus == model.CRMStatusLost {
			b.Lost = append(b.Lost, l.Clone())
			continue
		}
		i, ok := index[l.CRMStatus]
		if !ok {
			continue
		}
		b.Columns[i].Leads = append(b.Columns[i].Leads, l.Clone())
		b.Columns[i].Count++
	}
	return b
}
