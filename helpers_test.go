package collection

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type DummyLogger struct{}

func (logger DummyLogger) Printf(format string, a ...interface{}) {}

// cardRow renders card as a listing table row the way the gallery does.
func cardRow(index int, card CardRecord) string {
	return fmt.Sprintf(`<tr>
  <td><input type="hidden" id="id%[1]d" value="%[2]s"></td>
  <td id="crdname%[1]d">%[3]s</td>
  <td id=" crdtype%[1]d">%[4]s</td>
  <td id=" vote%[1]d">%[5]dY,%[6]dN,0??</td>
  <td><input type="hidden" id="yes%[1]d" value="%[5]d"><input type="hidden" id="no%[1]d" value="%[6]d"><input type="hidden" id="sum%[1]d" value="%[7]d"></td>
  <td><a id=" crddeck%[1]d" href="#">deck</a></td>
</tr>`, index, card.ID, card.Name, card.Type, card.YesVotes, card.NoVotes, card.SumVotes)
}

func listingPage(cards ...CardRecord) string {
	var sb strings.Builder
	sb.WriteString("<html><body><table><tr><th>Name</th></tr>\n")
	for i, card := range cards {
		sb.WriteString(cardRow(i+1, card))
		sb.WriteString("\n")
	}
	sb.WriteString("</table></body></html>")
	return sb.String()
}

// testCard is the record cardRow/parseCardRow round trip produces for id at index.
func testCard(index int, id string, yes int) CardRecord {
	return CardRecord{
		Index:    fmt.Sprint(index),
		ID:       id,
		DeckID:   fmt.Sprintf("crddeck%d", index),
		Name:     "Card " + id,
		Type:     "Minor",
		YesVotes: yes,
		SumVotes: yes,
		VoteText: fmt.Sprintf("%dY,0N", yes),
	}
}

func testPage(ids ...string) string {
	cards := make([]CardRecord, len(ids))
	for i, id := range ids {
		cards[i] = testCard(i+1, id, 0)
	}
	return listingPage(cards...)
}

func testConfig() Config {
	config := DefaultConfig()
	config.Username = "tester"
	config.MaxPages = 10
	config.MinUniqueCards = 100
	config.MaxConsecutiveEmptyPages = 2
	config.PageDelayMillis = 0
	config.SubmitDelayMillis = 0
	return config
}

type waitRecorder struct {
	waits []time.Duration
}

func (recorder *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	recorder.waits = append(recorder.waits, d)
	return ctx.Err()
}
