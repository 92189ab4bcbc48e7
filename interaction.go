package collection

import (
	"context"
	"time"
)

// Interaction asks the user for input. Implementations return ErrCanceled
// when the user gives no answer.
type Interaction interface {
	Prompt(message string, defaultValue string) (string, error)
	Password(message string) (string, error)
	Confirm(message string) (bool, error)
}

// ProgressReporter receives progress of long running scans and submissions.
type ProgressReporter interface {
	ScanProgress(page int, uniqueCards int, target int)
	SubmitProgress(current int, total int, successful int, failed int)
}

type NopProgress struct{}

func (NopProgress) ScanProgress(int, int, int)        {}
func (NopProgress) SubmitProgress(int, int, int, int) {}

// LogProgress writes progress lines to a Logger.
type LogProgress struct {
	Log Logger
}

func (progress LogProgress) ScanProgress(page int, uniqueCards int, target int) {
	progress.Log.Printf("Scanning cards... page: %d, unique cards: %d, target: %d", page, uniqueCards, target)
}

func (progress LogProgress) SubmitProgress(current int, total int, successful int, failed int) {
	progress.Log.Printf("Adding cards to collection... progress: %d/%d, success: %d, failed: %d", current, total, successful, failed)
}

// AskCollection asks for the collection name and the password, in that order.
func AskCollection(ui Interaction, message string, defaultName string) (name string, password string, err error) {
	name, err = ui.Prompt(message, defaultName)
	if err != nil {
		return "", "", err
	}
	if name == "" {
		return "", "", ErrCanceled
	}
	password, err = AskPassword(ui)
	if err != nil {
		return "", "", err
	}
	return name, password, nil
}

func AskPassword(ui Interaction) (string, error) {
	password, err := ui.Password("Enter your password:")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", ErrCanceled
	}
	return password, nil
}

// ConfirmOrCancel returns ErrCanceled unless the user agrees.
func ConfirmOrCancel(ui Interaction, message string) error {
	ok, err := ui.Confirm(message)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCanceled
	}
	return nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
