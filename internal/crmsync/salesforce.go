package crmsync

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/pkg/salesforce"
)

const (
	leadSource = "Prospector"
	// unknownContact fills the required LastName when no person is known.
	unknownContact = "Unknown"
)

// sfStatus maps pipeline stages onto the standard Lead Status picklist.
var sfStatus = map[model.CRMStatus]string{
	model.CRMStatusNew:       "Open - Not Contacted",
	model.CRMStatusContacted: "Working - Contacted",
	model.CRMStatusMeeting:   "Working - Contacted",
	model.CRMStatusClosed:    "Closed - Converted",
	model.CRMStatusLost:      "Closed - Not Converted",
}

// SalesforceSink upserts leads as Salesforce Lead records matched on Company.
type SalesforceSink struct {
	client salesforce.Client
}

// NewSalesforceSink creates a sink over client.
func NewSalesforceSink(client salesforce.Client) *SalesforceSink {
	return &SalesforceSink{client: client}
}

// Push implements Sink.
func (s *SalesforceSink) Push(ctx context.Context, leads []model.BusinessLead) (Result, error) {
	names := make([]string, len(leads))
	for i, l := range leads {
		names[i] = l.Name
	}
	existing, err := salesforce.FindLeadsByCompany(ctx, s.client, names)
	if err != nil {
		return Result{}, eris.Wrap(err, "crmsync: salesforce lookup")
	}

	var (
		inserts     []map[string]any
		insertNames []string
		updates     []salesforce.CollectionRecord
		updateNames []string
	)
	for _, l := range leads {
		fields := sfFields(l)
		if rec, ok := existing[l.Name]; ok {
			delete(fields, "LastName")
			updates = append(updates, salesforce.CollectionRecord{ID: rec.ID, Fields: fields})
			updateNames = append(updateNames, l.Name)
			continue
		}
		inserts = append(inserts, fields)
		insertNames = append(insertNames, l.Name)
	}

	var res Result
	created, err := salesforce.BulkInsertLeads(ctx, s.client, inserts)
	tally(&res.Created, &res, insertNames, created)
	if err != nil {
		return res, eris.Wrap(err, "crmsync: salesforce insert")
	}
	updated, err := salesforce.BulkUpdateLeads(ctx, s.client, updates)
	tally(&res.Updated, &res, updateNames, updated)
	if err != nil {
		return res, eris.Wrap(err, "crmsync: salesforce update")
	}
	return res, nil
}

func tally(ok *int, res *Result, names []string, results []salesforce.CollectionResult) {
	for i, r := range results {
		if r.Success {
			*ok++
			continue
		}
		name := ""
		if i < len(names) {
			name = names[i]
		}
		res.fail(name, eris.New(strings.Join(r.Errors, "; ")))
	}
}

func sfFields(l model.BusinessLead) map[string]any {
	fields := map[string]any{
		"Company":    l.Name,
		"LastName":   unknownContact,
		"Status":     sfStatus[l.CRMStatus],
		"Industry":   l.Industry,
		"City":       l.Location,
		"LeadSource": leadSource,
	}
	if l.Website != "" {
		fields["Website"] = l.Website
	}
	if l.ContactInfo != "" {
		fields["Phone"] = l.ContactInfo
	}
	if desc := strings.TrimSpace(l.Description + "\n\n" + l.AIAnalysis); desc != "" {
		fields["Description"] = desc
	}
	return fields
}
