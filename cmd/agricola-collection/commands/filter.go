package commands

import (
	"fmt"
	"os"

	collection "github.com/koizuka/agricola-collection"
	"github.com/spf13/cobra"
)

var filterMinSum int

func init() {
	filterCmd.Flags().IntVar(&filterMinSum, "min-sum", -1, "Keep cards whose sumVotes is at least this (default from config, 3).")
	rootCmd.AddCommand(filterCmd)
}

var filterCmd = &cobra.Command{
	Use:   "filter <in.csv> <out.csv> [--min-sum <n>]",
	Short: "Copies the cards of an exported CSV with enough summed votes to a new CSV.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := collection.LoadConfig(globalFlags.config)
		if err != nil {
			return err
		}
		minSum := filterMinSum
		if minSum < 0 {
			minSum = config.FilterMinSumVotes
		}
		kept, err := runFilter(args[0], args[1], minSum)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Filtered %d cards with sumVotes >= %d\n", kept, minSum)
		return nil
	},
}

func runFilter(inFilename string, outFilename string, minSum int) (int, error) {
	in, err := os.Open(inFilename)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(outFilename)
	if err != nil {
		return 0, err
	}
	kept, err := collection.FilterCSV(in, out, minSum)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return kept, err
}
