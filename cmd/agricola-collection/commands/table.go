package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	collection "github.com/koizuka/agricola-collection"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func printCards(out io.Writer, cards []collection.CardRecord) {
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Deck", "Name", "Type", "Yes", "No", "Sum", "Votes"})
	for _, card := range cards {
		t.AppendRow(table.Row{card.ID, card.DeckID, card.Name, card.Type, card.YesVotes, card.NoVotes, card.SumVotes, card.VoteText})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d cards", len(cards))})
	t.Render()
}

func printTypes(out io.Writer, groups []collection.TypeGroup) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Type", "Cards"})
	for _, group := range groups {
		t.AppendRow(table.Row{group.Type, len(group.Cards)})
	}
	t.Render()
}

func printReport(out io.Writer, collectionName string, report *collection.SubmissionReport) {
	fmt.Fprintf(out, "Cards Added to Collection %q\n", collectionName)
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Name", "Result"})
	for _, outcome := range report.Outcomes {
		result := "added"
		if !outcome.Success {
			result = fmt.Sprintf("failed: %v", outcome.Err)
		}
		t.AppendRow(table.Row{outcome.Card.ID, outcome.Card.Name, result})
	}
	t.Render()

	total := len(report.Outcomes)
	fmt.Fprintf(out, "Successfully added %d of %d cards.\n", report.Successful, total)
	if report.Failed > 0 {
		fmt.Fprintf(out, "Failed to add %d cards.\n", report.Failed)
	}
	if report.Canceled {
		fmt.Fprintln(out, "Stopped before every card was tried.")
	}
}
