package crmsync

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/pkg/notion"
)

// notionTitle is the title property leads are matched on.
const notionTitle = "Name"

// NotionSink upserts leads as pages of a Notion database.
type NotionSink struct {
	client notion.Client
	dbID   string
}

// NewNotionSink writes to the database dbID.
func NewNotionSink(client notion.Client, dbID string) *NotionSink {
	return &NotionSink{client: client, dbID: dbID}
}

// Push implements Sink.
func (s *NotionSink) Push(ctx context.Context, leads []model.BusinessLead) (Result, error) {
	pages, err := notion.QueryAll(ctx, s.client, s.dbID, nil)
	if err != nil {
		return Result{}, eris.Wrap(err, "crmsync: notion list pages")
	}
	existing := notion.IndexByTitle(pages, notionTitle)

	var res Result
	for _, l := range leads {
		props := notionProperties(l)
		if pageID, ok := existing[l.Name]; ok {
			if _, err := s.client.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props}); err != nil {
				res.fail(l.Name, err)
				continue
			}
			res.Updated++
			continue
		}

		_, err := s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(s.dbID),
			},
			Properties: props,
		})
		if err != nil {
			res.fail(l.Name, err)
			continue
		}
		res.Created++
	}
	return res, nil
}

func notionProperties(l model.BusinessLead) notionapi.Properties {
	props := notionapi.Properties{
		notionTitle:    notion.Title(l.Name),
		"Stage":        notion.Select(string(l.CRMStatus)),
		"Web Presence": notion.Select(l.Status.Label()),
		"Industry":     notion.RichText(l.Industry),
		"Location":     notion.RichText(l.Location),
		"Contact":      notion.RichText(l.ContactInfo),
		"Audit Score":  notionapi.NumberProperty{Type: notionapi.PropertyTypeNumber, Number: float64(l.AuditScore)},
	}
	if l.Website != "" {
		props["Website"] = notionapi.URLProperty{Type: notionapi.PropertyTypeURL, URL: l.Website}
	}
	if l.AIAnalysis != "" {
		props["Analysis"] = notion.RichText(l.AIAnalysis)
	}
	return props
}
