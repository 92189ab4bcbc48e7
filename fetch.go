package collection

import (
	"context"
	"strconv"
)

// FormPoster posts a urlencoded form and returns the response body.
// *Session and *ChromeSession implement it.
type FormPoster interface {
	PostForm(ctx context.Context, postUrl string, form *Form) (string, error)
}

// PageFetcher requests pages of the card gallery listing.
type PageFetcher struct {
	poster FormPoster
	config Config
	log    Logger
}

func NewPageFetcher(poster FormPoster, config Config, log Logger) *PageFetcher {
	return &PageFetcher{poster: poster, config: config, log: log}
}

// StartOffset returns the 1-based position of the first card of page.
func (fetcher *PageFetcher) StartOffset(page int) int {
	return (page-1)*fetcher.config.ItemsPerPage + 1
}

// ListForm builds the listing request of page, newest cards first.
// The password stays empty since listing needs no login.
func (fetcher *PageFetcher) ListForm(page int) *Form {
	return NewForm().
		Add("s", "new").
		Add("v", "all").
		Add("p", strconv.Itoa(fetcher.StartOffset(page))).
		Add("i", strconv.Itoa(fetcher.config.ItemsPerPage)).
		Add("m", "").
		Add("parm", "").
		Add("parm2", "").
		Add("parm3", "").
		Add("parm4", "1").
		Add("parm5", "-13").
		Add("user", fetcher.config.Username).
		Add("password", "").
		Add("reg", "3")
}

// FetchPage returns the HTML of the listing page.
func (fetcher *PageFetcher) FetchPage(ctx context.Context, page int) (string, error) {
	fetcher.log.Printf("Fetching page %d (starting position: %d)...", page, fetcher.StartOffset(page))
	html, err := fetcher.poster.PostForm(ctx, fetcher.config.ListURL(), fetcher.ListForm(page))
	if err != nil {
		fetcher.log.Printf("Failed to fetch page %d: %v", page, err)
		return "", err
	}
	return html, nil
}
