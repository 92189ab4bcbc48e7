package commands

import (
	"context"
	"fmt"

	collection "github.com/koizuka/agricola-collection"
	"github.com/spf13/cobra"
)

type scanOptions struct {
	csv          string
	maxPages     int
	target       int
	addHighVoted bool
	cardType     string
}

var scanFlags scanOptions

func init() {
	flags := scanCmd.Flags()
	flags.StringVar(&scanFlags.csv, "csv", "", "CSV file to write (default from config, agricola_cards.csv).")
	flags.IntVar(&scanFlags.maxPages, "max-pages", 0, "Override the maximum number of pages to scan.")
	flags.IntVar(&scanFlags.target, "target", 0, "Override the number of unique cards to collect.")
	flags.BoolVar(&scanFlags.addHighVoted, "add-high-voted", false, "Add every high-voted card to a collection after the scan.")
	flags.StringVar(&scanFlags.cardType, "type", "", "Add every card of this type to a collection after the scan.")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan [--csv <file>] [--add-high-voted] [--type <type>]",
	Short: "Scans the card gallery, prints a summary and writes the cards to CSV.",
	Args:  cobra.NoArgs,
	RunE: runWith(func(ctx context.Context, env *environment, _ []string) error {
		return runScan(ctx, env, scanFlags)
	}),
}

func runScan(ctx context.Context, env *environment, opts scanOptions) error {
	if err := requireUsername(env.config); err != nil {
		return err
	}
	config := env.config
	if opts.maxPages > 0 {
		config.MaxPages = opts.maxPages
	}
	if opts.target > 0 {
		config.MinUniqueCards = opts.target
	}

	fetcher := collection.NewPageFetcher(env.poster, config, env.log)
	result := collection.NewScanner(fetcher, config, env.log, env.progress).Scan(ctx)
	env.log.Printf("Scan finished on page %d: %v", result.StopPage, result.StopReason)

	fmt.Fprintln(env.out, "CARD DATA SUMMARY")
	printCards(env.out, result.Cards)

	filename := opts.csv
	if filename == "" {
		filename = config.CSVFilename
	}
	if err := collection.WriteCSVFile(filename, result.Cards); err != nil {
		return err
	}
	env.log.Printf("Wrote %d cards to %s", len(result.Cards), filename)

	if len(result.HighVoted) > 0 {
		fmt.Fprintf(env.out, "CARDS WITH %d+ YES VOTES: %d\n", config.HighVoteThreshold, len(result.HighVoted))
		printCards(env.out, result.HighVoted)
	}
	printTypes(env.out, collection.ByType(result.Cards))

	if opts.addHighVoted {
		err := submitCards(ctx, env, result.HighVoted, "Enter collection name:", config.CollectionName)
		if err != nil {
			return err
		}
	}
	if opts.cardType != "" {
		cards := collection.CardsOfType(result.Cards, opts.cardType)
		message := fmt.Sprintf("Enter collection name for %s cards:", opts.cardType)
		err := submitCards(ctx, env, cards, message, opts.cardType+"-cards")
		if err != nil {
			return err
		}
	}
	return nil
}

func requireUsername(config collection.Config) error {
	if config.Username == "" {
		return collection.ConfigError{Field: "username", Message: "must be set in the config or with --user"}
	}
	return nil
}
