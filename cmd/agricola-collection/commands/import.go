package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	collection "github.com/koizuka/agricola-collection"
	"github.com/spf13/cobra"
)

type importOptions struct {
	collection string
	column     int
	keepHeader bool
}

var importFlags importOptions

func init() {
	flags := importCmd.Flags()
	flags.StringVarP(&importFlags.collection, "collection", "c", "", "Collection to add the cards to (default from config).")
	flags.IntVar(&importFlags.column, "column", -1, "Index of the CSV column holding card ids (default from config).")
	flags.BoolVar(&importFlags.keepHeader, "keep-header", false, `Do not drop a leading "id" header cell.`)
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv|-> [--collection <name>] [--column <n>]",
	Short: "Adds every card id listed in a CSV file to a collection.",
	Args:  cobra.ExactArgs(1),
	RunE: runWith(func(ctx context.Context, env *environment, args []string) error {
		in, closeIn, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer closeIn()
		return runImport(ctx, env, in, importFlags)
	}),
}

func openInput(filename string) (io.Reader, func(), error) {
	if filename == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func runImport(ctx context.Context, env *environment, in io.Reader, opts importOptions) error {
	if err := requireUsername(env.config); err != nil {
		return err
	}
	collectionName := opts.collection
	if collectionName == "" {
		collectionName = env.config.CollectionName
	}
	column := opts.column
	if column < 0 {
		column = env.config.CSVFieldIndex
	}

	password, err := collection.AskPassword(env.ui)
	if err != nil {
		return err
	}

	ids, err := collection.ReadCardIDs(in, column)
	if err != nil {
		return err
	}
	if !opts.keepHeader {
		ids = collection.DropHeaderID(ids)
	}
	if len(ids) == 0 {
		env.log.Printf("No valid card IDs found in the CSV file")
		return nil
	}

	err = collection.ConfirmOrCancel(env.ui, fmt.Sprintf("Add %d cards to collection %q?", len(ids), collectionName))
	if err != nil {
		return err
	}

	submitter := collection.NewSubmitter(env.poster, env.config, env.log, env.progress)
	report := submitter.Submit(ctx, collection.CardsFromIDs(ids), collectionName, env.config.Username, password)
	printReport(env.out, collectionName, report)
	return nil
}
