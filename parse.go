package collection

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reLeadingInt = regexp.MustCompile(`^\s*([+-]?[0-9]+)`)
	reVoteText   = regexp.MustCompile(`([0-9]+)Y,([0-9]+)N`)
)

// ParseCards extracts the card rows of a listing page in document order.
// Unparseable input yields no cards.
//
// A row is a card row when it holds an input whose id is "id<index>". The other
// cells of the card are looked up by "<field><index>" ids; the site sometimes
// renders those ids with a leading space.
func ParseCards(html string) []CardRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var cards []CardRecord
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if card, ok := parseCardRow(row); ok {
			cards = append(cards, card)
		}
	})
	return cards
}

func parseCardRow(row *goquery.Selection) (CardRecord, bool) {
	idInput := row.Find(`input[id^="id"]`).First()
	if idInput.Length() == 0 {
		return CardRecord{}, false
	}
	inputID, _ := idInput.Attr("id")
	index := strings.TrimPrefix(inputID, "id")
	cardID, _ := idInput.Attr("value")
	if cardID == "" || cardID == unknownCardID {
		return CardRecord{}, false
	}

	name := cellText(findByID(row, "td", "crdname"+index))
	if name == "" {
		name = UnknownCardName
	}
	if name == UnknownCardName {
		return CardRecord{}, false
	}

	cardType := cellText(findByID(row, "td", "crdtype"+index))
	if cardType == "" {
		cardType = UnknownCardType
	}

	card := CardRecord{
		Index:    index,
		ID:       cardID,
		Name:     name,
		Type:     cardType,
		YesVotes: inputInt(findByID(row, "input", "yes"+index)),
		NoVotes:  inputInt(findByID(row, "input", "no"+index)),
		SumVotes: inputInt(findByID(row, "input", "sum"+index)),
	}

	if deck := findByID(row, "a", "crddeck"+index); deck.Length() > 0 {
		id, _ := deck.Attr("id")
		card.DeckID = strings.Join(strings.Fields(id), "")
	}

	if vote := findByID(row, "td", "vote"+index); vote.Length() > 0 {
		if m := reVoteText.FindStringSubmatch(vote.Text()); m != nil {
			card.VoteText = m[1] + "Y," + m[2] + "N"
		}
	}

	return card, true
}

// findByID returns the first tag element under row whose id is id or " "+id.
func findByID(row *goquery.Selection, tag string, id string) *goquery.Selection {
	return row.Find(tag + "[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id || v == " "+id
	}).First()
}

func cellText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

// inputInt reads the leading integer of an input's value. Anything else, including negatives, is 0.
func inputInt(sel *goquery.Selection) int {
	if sel.Length() == 0 {
		return 0
	}
	value, _ := sel.Attr("value")
	return parseCount(value)
}

func parseCount(s string) int {
	m := reLeadingInt.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
