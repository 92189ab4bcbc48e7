package collection

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dimchansky/utfbom"
)

const (
	CSVHeader   = "id,crdDeckId,name,type,yesVotes,noVotes,sumVotes,voteText"
	CSVHeaderID = "id"
)

// EncodeCSV renders cards as CSV text: a header line and one line per card.
// The free text columns are always quoted with embedded quotes doubled.
func EncodeCSV(cards []CardRecord) string {
	var sb strings.Builder
	sb.WriteString(CSVHeader)
	sb.WriteByte('\n')
	for _, card := range cards {
		sb.WriteString(card.ID)
		sb.WriteByte(',')
		sb.WriteString(quoteCSV(card.DeckID))
		sb.WriteByte(',')
		sb.WriteString(quoteCSV(card.Name))
		sb.WriteByte(',')
		sb.WriteString(quoteCSV(card.Type))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(card.YesVotes))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(card.NoVotes))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(card.SumVotes))
		sb.WriteByte(',')
		sb.WriteString(quoteCSV(card.VoteText))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSVFile writes EncodeCSV(cards) to filename.
func WriteCSVFile(filename string, cards []CardRecord) error {
	err := os.WriteFile(filename, []byte(EncodeCSV(cards)), os.FileMode(0644))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// DecodeCardIDs takes field column of every non-blank line of text.
//
// Lines are split on every comma; quoting is not understood. That matches
// EncodeCSV only while the columns up to column hold no commas or quotes,
// which is true for card ids. The header line is not special: its "id" cell
// is returned like any other value.
func DecodeCardIDs(text string, column int) []string {
	var ids []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) <= column {
			continue
		}
		if id := strings.TrimSpace(fields[column]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ReadCardIDs is DecodeCardIDs over a reader. A leading UTF-8 BOM is dropped.
func ReadCardIDs(r io.Reader, column int) ([]string, error) {
	b, err := io.ReadAll(utfbom.SkipOnly(r))
	if err != nil {
		return nil, err
	}
	return DecodeCardIDs(string(b), column), nil
}

// DropHeaderID removes a leading header cell from ids decoded out of an exported CSV.
func DropHeaderID(ids []string) []string {
	if len(ids) > 0 && ids[0] == CSVHeaderID {
		return ids[1:]
	}
	return ids
}
