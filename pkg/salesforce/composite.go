package salesforce

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

// maxBatchSize is the Salesforce Collections API limit per request.
const maxBatchSize = 200

// BulkInsertLeads splits records into batches of 200 and sends them via
// InsertCollection. Results are returned in input order.
func BulkInsertLeads(ctx context.Context, c Client, records []map[string]any) ([]CollectionResult, error) {
	var all []CollectionResult
	for start := 0; start < len(records); start += maxBatchSize {
		end := min(start+maxBatchSize, len(records))
		results, err := c.InsertCollection(ctx, leadObject, records[start:end])
		if err != nil {
			return all, eris.Wrap(err, fmt.Sprintf("sf: bulk insert leads batch %d-%d", start, end))
		}
		all = append(all, results...)
	}
	return all, nil
}

// BulkUpdateLeads splits updates into batches of 200 and sends them via
// UpdateCollection.
func BulkUpdateLeads(ctx context.Context, c Client, updates []CollectionRecord) ([]CollectionResult, error) {
	var all []CollectionResult
	for start := 0; start < len(updates); start += maxBatchSize {
		end := min(start+maxBatchSize, len(updates))
		results, err := c.UpdateCollection(ctx, leadObject, updates[start:end])
		if err != nil {
			return all, eris.Wrap(err, fmt.Sprintf("sf: bulk update leads batch %d-%d", start, end))
		}
		all = append(all, results...)
	}
	return all, nil
}
