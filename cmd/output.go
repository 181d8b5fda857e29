package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sells-group/prospector-cli/internal/dashboard"
	"github.com/sells-group/prospector-cli/internal/discovery"
	"github.com/sells-group/prospector-cli/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// printResults lists search results numbered from 1, the index --select takes.
func printResults(w io.Writer, leads []model.BusinessLead) {
	if len(leads) == 0 {
		fmt.Fprintln(w, "No businesses found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tNAME\tPRESENCE\tSCORE\tCONTACT")
	for i, l := range leads {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", i+1, l.Name, l.Status.Label(), l.AuditScore, orDash(l.ContactInfo))
	}
	_ = tw.Flush()
}

// printLeads lists saved leads with their pipeline stage.
func printLeads(w io.Writer, leads []model.BusinessLead) {
	if len(leads) == 0 {
		fmt.Fprintln(w, "No saved leads yet.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSTAGE\tPRESENCE\tSCORE\tLOCATION")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", l.ID, l.Name, l.CRMStatus, l.Status.Label(), l.AuditScore, l.Location)
	}
	_ = tw.Flush()
}

func printBoard(w io.Writer, b dashboard.Board) {
	for _, col := range b.Columns {
		fmt.Fprintf(w, "%s (%d)\n", col.Label, col.Count)
		for _, l := range col.Leads {
			fmt.Fprintf(w, "  - %s [%s] score %d\n", l.Name, l.Status.Label(), l.AuditScore)
		}
	}
	if len(b.Lost) > 0 {
		fmt.Fprintf(w, "Lost (%d)\n", len(b.Lost))
	}
}

func printCards(w io.Writer, cards []dashboard.Card) {
	tw := newTable(w)
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\n", c.Title, c.Value)
	}
	_ = tw.Flush()
}

func printEnrichment(w io.Writer, lead model.BusinessLead, e discovery.Enrichment) {
	fmt.Fprintf(w, "\n%s (%s)\n", lead.Name, e.State)
	if lead.MapURL != "" {
		fmt.Fprintln(w, lead.MapURL)
	}
	if e.Analysis != "" {
		fmt.Fprintf(w, "\nAnalysis\n%s\n", e.Analysis)
	}
	if len(e.Competitors) > 0 {
		fmt.Fprintln(w, "\nCompetitors")
		for _, c := range e.Competitors {
			fmt.Fprintf(w, "  - %s (%s): %s\n", c.Name, orDash(c.Website), c.Advantage)
		}
	}
	for _, a := range model.EmailApproaches {
		if text, ok := e.Emails[a]; ok {
			fmt.Fprintf(w, "\nEmail: %s\n%s\n", a, strings.TrimSpace(text))
		}
	}
}

func printPosition(w io.Writer, pos model.Coordinates) {
	if pos.Label != "" {
		fmt.Fprintf(w, "Searching near %s (%.4f, %.4f)\n", pos.Label, pos.Lat, pos.Lng)
		return
	}
	fmt.Fprintf(w, "Searching near %.4f, %.4f\n", pos.Lat, pos.Lng)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
