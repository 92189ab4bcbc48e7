package collection

import (
	"sort"
)

// CardRecord is one card row of a listing page.
type CardRecord struct {
	Index    string // row index on its page, not unique across pages
	ID       string
	DeckID   string
	Name     string
	Type     string
	YesVotes int
	NoVotes  int
	SumVotes int
	VoteText string // "<yes>Y,<no>N" or empty
}

const (
	unknownCardID   = "0"
	UnknownCardName = "Unknown"
	UnknownCardType = "Unknown"
)

type StopReason int

const (
	StopMaxPages StopReason = iota
	StopFetchFailed
	StopEmptyPage
	StopTargetReached
	StopNoNewCards
	StopCanceled
)

func (reason StopReason) String() string {
	switch reason {
	case StopMaxPages:
		return "page limit reached"
	case StopFetchFailed:
		return "page fetch failed"
	case StopEmptyPage:
		return "page without cards"
	case StopTargetReached:
		return "target card count reached"
	case StopNoNewCards:
		return "too many pages without new cards"
	case StopCanceled:
		return "canceled"
	}
	return "unknown"
}

// PageStat records what one listing page contributed to a scan.
type PageStat struct {
	Page             int
	Found            int
	New              int
	ConsecutiveEmpty int // value of the no-new-cards counter after this page
}

type ScanResult struct {
	Cards      []CardRecord // unique by ID, sorted by YesVotes descending
	Pages      []PageStat
	StopReason StopReason
	StopPage   int
	HighVoted  []CardRecord
}

// sortByYesVotes orders cards by YesVotes descending, keeping encounter order for ties.
func sortByYesVotes(cards []CardRecord) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].YesVotes > cards[j].YesVotes
	})
}

// HighVoted returns the cards with at least threshold yes votes, in order.
func HighVoted(cards []CardRecord, threshold int) []CardRecord {
	var high []CardRecord
	for _, card := range cards {
		if card.YesVotes >= threshold {
			high = append(high, card)
		}
	}
	return high
}

type TypeGroup struct {
	Type  string
	Cards []CardRecord
}

// ByType groups cards by Type. Groups are sorted by type name, cards keep their order.
func ByType(cards []CardRecord) []TypeGroup {
	index := map[string]int{}
	var groups []TypeGroup
	for _, card := range cards {
		i, ok := index[card.Type]
		if !ok {
			i = len(groups)
			index[card.Type] = i
			groups = append(groups, TypeGroup{Type: card.Type})
		}
		groups[i].Cards = append(groups[i].Cards, card)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Type < groups[j].Type
	})
	return groups
}

// CardsOfType returns the cards whose Type equals typ.
func CardsOfType(cards []CardRecord, typ string) []CardRecord {
	var matched []CardRecord
	for _, card := range cards {
		if card.Type == typ {
			matched = append(matched, card)
		}
	}
	return matched
}

// CardsFromIDs wraps bare card ids, as read from a CSV, for submission.
func CardsFromIDs(ids []string) []CardRecord {
	cards := make([]CardRecord, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, CardRecord{ID: id})
	}
	return cards
}

func (card CardRecord) label() string {
	if card.Name == "" {
		return "card " + card.ID
	}
	return card.Name + " (ID: " + card.ID + ")"
}
