package collection

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/titanous/json5"
)

const (
	DefaultBaseURL     = "http://play-agricola.com/Agricola/Cards"
	DefaultCSVFilename = "agricola_cards.csv"
)

// Config holds every tunable of a scan or submission run.
// Zero delays disable waiting, which tests rely on.
type Config struct {
	BaseURL  string `json:"base_url"`
	Username string `json:"username"`

	MaxPages                 int `json:"max_pages"`
	ItemsPerPage             int `json:"items_per_page"`
	MinUniqueCards           int `json:"min_unique_cards"`            // stop once this many unique cards are collected
	MaxConsecutiveEmptyPages int `json:"max_consecutive_empty_pages"` // stop after this many pages without a new card

	PageDelayMillis      int `json:"page_delay_ms"`
	SubmitDelayMillis    int `json:"submit_delay_ms"`
	RequestTimeoutMillis int `json:"request_timeout_ms"` // 0 means no timeout

	HighVoteThreshold int    `json:"high_vote_threshold"`
	CSVFieldIndex     int    `json:"csv_field_index"` // column holding card ids when importing a CSV
	CSVFilename       string `json:"csv_filename"`
	CollectionName    string `json:"collection_name"`
	FilterMinSumVotes int    `json:"filter_min_sum_votes"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:                  DefaultBaseURL,
		MaxPages:                 50,
		ItemsPerPage:             100,
		MinUniqueCards:           4107,
		MaxConsecutiveEmptyPages: 3,
		PageDelayMillis:          300,
		SubmitDelayMillis:        500,
		HighVoteThreshold:        4,
		CSVFieldIndex:            0,
		CSVFilename:              DefaultCSVFilename,
		CollectionName:           "top-rated-cards",
		FilterMinSumVotes:        3,
	}
}

// LoadConfig overlays the JSON5 file at filename on DefaultConfig.
// An empty filename returns the defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()
	if filename == "" {
		return config, nil
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return config, fmt.Errorf("failed to read config %s: %w", filename, err)
	}
	if err := json5.Unmarshal(b, &config); err != nil {
		return config, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	return config, nil
}

func (config Config) Validate() error {
	switch {
	case config.BaseURL == "":
		return ConfigError{"base_url", "must not be empty"}
	case config.MaxPages < 1:
		return ConfigError{"max_pages", "must be at least 1"}
	case config.ItemsPerPage < 1:
		return ConfigError{"items_per_page", "must be at least 1"}
	case config.MaxConsecutiveEmptyPages < 1:
		return ConfigError{"max_consecutive_empty_pages", "must be at least 1"}
	case config.PageDelayMillis < 0, config.SubmitDelayMillis < 0, config.RequestTimeoutMillis < 0:
		return ConfigError{"delay", "must not be negative"}
	case config.CSVFieldIndex < 0:
		return ConfigError{"csv_field_index", "must not be negative"}
	}
	return nil
}

func (config Config) ListURL() string {
	return strings.TrimRight(config.BaseURL, "/") + "/index.php"
}

func (config Config) SaveCardURL() string {
	return strings.TrimRight(config.BaseURL, "/") + "/saveCard.php"
}

func (config Config) PageDelay() time.Duration {
	return time.Duration(config.PageDelayMillis) * time.Millisecond
}

func (config Config) SubmitDelay() time.Duration {
	return time.Duration(config.SubmitDelayMillis) * time.Millisecond
}

func (config Config) RequestTimeout() time.Duration {
	return time.Duration(config.RequestTimeoutMillis) * time.Millisecond
}
