package collection

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dimchansky/utfbom"
)

const sumVotesColumn = "sumVotes"

// FilterCSV copies the header and every row whose sumVotes is at least minSumVotes
// from r to w. It returns the number of rows kept.
func FilterCSV(r io.Reader, w io.Writer, minSumVotes int) (int, error) {
	reader := csv.NewReader(utfbom.SkipOnly(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return 0, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return 0, err
	}
	column := -1
	for i, name := range header {
		if strings.TrimSpace(name) == sumVotesColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return 0, fmt.Errorf("csv has no %v column", sumVotesColumn)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return 0, err
	}

	kept := 0
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return kept, err
		}
		if column >= len(record) {
			return kept, fmt.Errorf("row %d: missing %v", row, sumVotesColumn)
		}
		sum, err := strconv.Atoi(strings.TrimSpace(record[column]))
		if err != nil {
			return kept, fmt.Errorf("row %d: %v: %w", row, sumVotesColumn, err)
		}
		if sum < minSumVotes {
			continue
		}
		if err := writer.Write(record); err != nil {
			return kept, err
		}
		kept++
	}
	writer.Flush()
	return kept, writer.Error()
}
