package collection

import (
	"context"
	"strings"
	"time"
)

// PageSource returns the HTML of one listing page. *PageFetcher implements it.
type PageSource interface {
	FetchPage(ctx context.Context, page int) (string, error)
}

// Scanner walks the listing pages and collects unique cards.
type Scanner struct {
	source   PageSource
	config   Config
	log      Logger
	progress ProgressReporter
	wait     func(ctx context.Context, d time.Duration) error
}

func NewScanner(source PageSource, config Config, log Logger, progress ProgressReporter) *Scanner {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Scanner{
		source:   source,
		config:   config,
		log:      log,
		progress: progress,
		wait:     sleepContext,
	}
}

// Scan fetches pages one at a time until one of these happens:
// the page limit is used up, a fetch fails, a page has no cards,
// MinUniqueCards unique cards are collected, or MaxConsecutiveEmptyPages
// pages in a row add nothing new. Failures end the scan, they are not retried.
func (scanner *Scanner) Scan(ctx context.Context) *ScanResult {
	config := scanner.config
	scanner.log.Printf("Starting to scan for cards...")
	scanner.log.Printf("Target: at least %d unique cards or %d pages", config.MinUniqueCards, config.MaxPages)

	result := &ScanResult{StopReason: StopMaxPages}
	seen := map[string]struct{}{}
	consecutiveEmpty := 0

	for page := 1; page <= config.MaxPages; page++ {
		result.StopPage = page
		scanner.progress.ScanProgress(page, len(result.Cards), config.MinUniqueCards)

		html, err := scanner.source.FetchPage(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				result.StopReason = StopCanceled
			} else {
				result.StopReason = StopFetchFailed
			}
			scanner.log.Printf("Failed to fetch page %d, stopping scan.", page)
			break
		}

		cards := ParseCards(html)
		if len(cards) == 0 {
			scanner.log.Printf("No cards found on page %d, stopping scan.", page)
			result.StopReason = StopEmptyPage
			break
		}

		ids := make([]string, len(cards))
		for i, card := range cards {
			ids[i] = card.ID
		}
		scanner.log.Printf("Page %d - All Card IDs: %s", page, strings.Join(ids, ", "))

		newCards := 0
		for _, card := range cards {
			if _, ok := seen[card.ID]; ok {
				continue
			}
			seen[card.ID] = struct{}{}
			result.Cards = append(result.Cards, card)
			newCards++
			scanner.log.Printf("Page %d - New unique card: %s (ID: %s, Type: %s)", page, card.Name, card.ID, card.Type)
		}
		scanner.log.Printf("Found %d cards on page %d, added %d new unique cards", len(cards), page, newCards)

		if newCards == 0 {
			consecutiveEmpty++
		} else {
			consecutiveEmpty = 0
		}
		result.Pages = append(result.Pages, PageStat{
			Page:             page,
			Found:            len(cards),
			New:              newCards,
			ConsecutiveEmpty: consecutiveEmpty,
		})

		if newCards == 0 {
			scanner.log.Printf("No new cards found on page %d (%d/%d)", page, consecutiveEmpty, config.MaxConsecutiveEmptyPages)
			if consecutiveEmpty >= config.MaxConsecutiveEmptyPages {
				scanner.log.Printf("Hit %d consecutive pages with no new cards, stopping scan.", config.MaxConsecutiveEmptyPages)
				result.StopReason = StopNoNewCards
				break
			}
		}

		if len(result.Cards) >= config.MinUniqueCards {
			scanner.log.Printf("Reached target of %d unique cards, stopping scan.", config.MinUniqueCards)
			result.StopReason = StopTargetReached
			break
		}

		if page < config.MaxPages {
			if err := scanner.wait(ctx, config.PageDelay()); err != nil {
				result.StopReason = StopCanceled
				break
			}
		}
	}

	scanner.log.Printf("Total unique cards found: %d", len(result.Cards))

	sortByYesVotes(result.Cards)
	result.HighVoted = HighVoted(result.Cards, config.HighVoteThreshold)
	return result
}
