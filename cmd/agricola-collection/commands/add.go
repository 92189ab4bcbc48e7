package commands

import (
	"context"
	"fmt"

	collection "github.com/koizuka/agricola-collection"
	"github.com/spf13/cobra"
)

var addCollection string

func init() {
	addCmd.Flags().StringVarP(&addCollection, "collection", "c", "", "Collection to add the cards to (default from config).")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <card id>... [--collection <name>]",
	Short: "Adds the given cards to a collection.",
	Args:  cobra.MinimumNArgs(1),
	RunE: runWith(func(ctx context.Context, env *environment, args []string) error {
		return runAdd(ctx, env, args, addCollection)
	}),
}

func runAdd(ctx context.Context, env *environment, ids []string, collectionName string) error {
	if err := requireUsername(env.config); err != nil {
		return err
	}
	if collectionName == "" {
		collectionName = env.config.CollectionName
	}

	password, err := collection.AskPassword(env.ui)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("Add %d cards to collection %q?", len(ids), collectionName)
	if len(ids) == 1 {
		message = fmt.Sprintf("Add card %s to collection %q?", ids[0], collectionName)
	}
	if err := collection.ConfirmOrCancel(env.ui, message); err != nil {
		return err
	}

	submitter := collection.NewSubmitter(env.poster, env.config, env.log, env.progress)
	report := submitter.Submit(ctx, collection.CardsFromIDs(ids), collectionName, env.config.Username, password)
	printReport(env.out, collectionName, report)
	return nil
}
