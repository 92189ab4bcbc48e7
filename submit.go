package collection

import (
	"context"
	"time"
)

// SubmissionOutcome is the result of adding one card. Response holds the
// server's answer when Success, Err the transport failure otherwise.
type SubmissionOutcome struct {
	Card     CardRecord
	Success  bool
	Response string
	Err      error
}

type SubmissionReport struct {
	Outcomes   []SubmissionOutcome
	Successful int
	Failed     int
	Canceled   bool // the context ended before every card was tried
}

// Submitter adds cards to a collection through the site's save form.
type Submitter struct {
	poster   FormPoster
	config   Config
	log      Logger
	progress ProgressReporter
	wait     func(ctx context.Context, d time.Duration) error
}

func NewSubmitter(poster FormPoster, config Config, log Logger, progress ProgressReporter) *Submitter {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Submitter{
		poster:   poster,
		config:   config,
		log:      log,
		progress: progress,
		wait:     sleepContext,
	}
}

func AddToCollectionForm(cardID string, collectionName string, username string, password string) *Form {
	return NewForm().
		Add("id", cardID).
		Add("action", "11").
		Add("x1", collectionName).
		Add("x2", "0").
		Add("user", username).
		Add("password", password).
		Add("fake", "").
		Add("ut", "")
}

// AddCard posts a single add-to-collection request. The response body is
// reported, not interpreted: only a transport error counts as failure.
func (submitter *Submitter) AddCard(ctx context.Context, card CardRecord, collectionName string, username string, password string) SubmissionOutcome {
	submitter.log.Printf("Adding %s to collection %q...", card.label(), collectionName)
	form := AddToCollectionForm(card.ID, collectionName, username, password)
	body, err := submitter.poster.PostForm(ctx, submitter.config.SaveCardURL(), form)
	if err != nil {
		submitter.log.Printf("Failed to add %s: %v", card.label(), err)
		return SubmissionOutcome{Card: card, Err: err}
	}
	submitter.log.Printf("Server response: %s", body)
	return SubmissionOutcome{Card: card, Success: true, Response: body}
}

// Submit adds cards one after another, waiting SubmitDelay between requests.
// A failed card is recorded and the run goes on with the next one.
func (submitter *Submitter) Submit(ctx context.Context, cards []CardRecord, collectionName string, username string, password string) *SubmissionReport {
	submitter.log.Printf("Adding %d cards to collection %q...", len(cards), collectionName)
	report := &SubmissionReport{Outcomes: make([]SubmissionOutcome, 0, len(cards))}

	for i, card := range cards {
		if ctx.Err() != nil {
			report.Canceled = true
			break
		}
		submitter.progress.SubmitProgress(i+1, len(cards), report.Successful, report.Failed)

		outcome := submitter.AddCard(ctx, card, collectionName, username, password)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Success {
			report.Successful++
		} else {
			report.Failed++
		}

		if i < len(cards)-1 {
			if err := submitter.wait(ctx, submitter.config.SubmitDelay()); err != nil {
				report.Canceled = true
				break
			}
		}
	}

	submitter.log.Printf("Added %d of %d cards to collection %q", report.Successful, len(cards), collectionName)
	if report.Failed > 0 {
		submitter.log.Printf("Failed to add %d cards.", report.Failed)
	}
	return report
}
