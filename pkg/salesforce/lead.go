package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// leadObject is the Salesforce SObject pushed leads land in.
const leadObject = "Lead"

// Lead represents a Salesforce Lead record.
type Lead struct {
	ID          string `json:"Id" salesforce:"Id"`
	Company     string `json:"Company" salesforce:"Company"`
	LastName    string `json:"LastName" salesforce:"LastName"`
	Status      string `json:"Status" salesforce:"Status"`
	Industry    string `json:"Industry" salesforce:"Industry"`
	Website     string `json:"Website" salesforce:"Website"`
	Phone       string `json:"Phone" salesforce:"Phone"`
	City        string `json:"City" salesforce:"City"`
	Description string `json:"Description" salesforce:"Description"`
	LeadSource  string `json:"LeadSource" salesforce:"LeadSource"`
}

// leadFields are the SOQL fields selected for Lead queries.
var leadFields = []string{
	"Id", "Company", "LastName", "Status", "Industry",
	"Website", "Phone", "City", "Description", "LeadSource",
}

// FindLeadsByCompany returns the Leads whose Company is one of names, keyed
// by company. Names are queried in chunks to keep the SOQL under its length limit.
func FindLeadsByCompany(ctx context.Context, c Client, names []string) (map[string]Lead, error) {
	out := make(map[string]Lead, len(names))
	for start := 0; start < len(names); start += maxBatchSize {
		end := min(start+maxBatchSize, len(names))

		quoted := make([]string, 0, end-start)
		for _, n := range names[start:end] {
			quoted = append(quoted, "'"+escapeSoql(n)+"'")
		}
		soql := fmt.Sprintf(
			"SELECT %s FROM Lead WHERE Company IN (%s)",
			strings.Join(leadFields, ", "),
			strings.Join(quoted, ", "),
		)

		var leads []Lead
		if err := c.Query(ctx, soql, &leads); err != nil {
			return nil, eris.Wrap(err, fmt.Sprintf("sf: find leads batch %d-%d", start, end))
		}
		for _, l := range leads {
			if _, seen := out[l.Company]; !seen {
				out[l.Company] = l
			}
		}
	}
	return out, nil
}

// CreateLead creates a Lead record and returns the new Salesforce ID.
func CreateLead(ctx context.Context, c Client, fields map[string]any) (string, error) {
	if fields["Company"] == nil || fields["Company"] == "" {
		return "", eris.New("sf: lead Company is required")
	}
	if fields["LastName"] == nil || fields["LastName"] == "" {
		return "", eris.New("sf: lead LastName is required")
	}
	id, err := c.InsertOne(ctx, leadObject, fields)
	if err != nil {
		return "", eris.Wrap(err, "sf: create lead")
	}
	return id, nil
}

// UpdateLead updates a Lead record with the given fields.
func UpdateLead(ctx context.Context, c Client, leadID string, fields map[string]any) error {
	if leadID == "" {
		return eris.New("sf: lead id is required")
	}
	if len(fields) == 0 {
		return eris.New("sf: no fields to update")
	}
	if err := c.UpdateOne(ctx, leadObject, leadID, fields); err != nil {
		return eris.Wrap(err, fmt.Sprintf("sf: update lead %s", leadID))
	}
	return nil
}

// escapeSoql escapes backslashes and single quotes in SOQL string literals.
func escapeSoql(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
