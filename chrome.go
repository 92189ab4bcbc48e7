package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

type NewChromeOptions struct {
	Headless  bool
	NoSandbox bool
	Timeout   time.Duration
	StartURL  string // opened before any request so that fetch() runs with the site's origin and cookies
}

// ChromeSession posts forms from inside a browser tab with fetch(),
// exactly as a script pasted into the site's developer console would.
type ChromeSession struct {
	ctx             context.Context
	Log             Logger
	ShowFormPosting bool
}

func (session *Session) NewChromeOpt(options NewChromeOptions) (*ChromeSession, context.CancelFunc, error) {
	chromeUserDataDir, err := filepath.Abs(filepath.Join(session.getDirectory(), "chromeUserData"))
	if err != nil {
		return nil, func() {}, err
	}
	if err := os.MkdirAll(chromeUserDataDir, 0777); err != nil {
		return nil, func() {}, fmt.Errorf("couldn't create directory: %v", chromeUserDataDir)
	}

	allocOptions := []chromedp.ExecAllocatorOption{
		chromedp.UserDataDir(chromeUserDataDir),
	}
	if options.Headless {
		allocOptions = append(allocOptions,
			chromedp.Headless,
			chromedp.DisableGPU,
		)
	}
	if options.NoSandbox {
		allocOptions = append(allocOptions,
			chromedp.NoSandbox,
			chromedp.NoFirstRun,
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOptions...)

	ctxt, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(session.Printf))
	timeoutCancel := func() {}
	if options.Timeout != 0 {
		ctxt, timeoutCancel = context.WithTimeout(ctxt, options.Timeout)
	}
	cancelFunc := func() {
		timeoutCancel()
		cancel()
		allocCancel()
	}

	if options.StartURL != "" {
		if err := chromedp.Run(ctxt, chromedp.Navigate(options.StartURL)); err != nil {
			return nil, cancelFunc, err
		}
	}

	return &ChromeSession{
		ctx:             ctxt,
		Log:             session.Log,
		ShowFormPosting: session.ShowFormPosting,
	}, cancelFunc, nil
}

// PostForm runs fetch() in the current tab and returns the response text.
// A rejected fetch is returned as ScriptError. Ending ctx abandons a fetch in flight.
func (chrome *ChromeSession) PostForm(ctx context.Context, postUrl string, form *Form) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if chrome.ShowFormPosting {
		printForm(chrome.Log, form)
	}
	script, err := fetchScript(postUrl, form)
	if err != nil {
		return "", err
	}

	runCtx, cancel := context.WithCancel(chrome.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var text string
	err = chromedp.Run(runCtx, chromedp.Evaluate(script, &text, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var exception *runtime.ExceptionDetails
		if errors.As(err, &exception) {
			return "", ScriptError{URL: postUrl, Message: exception.Error()}
		}
		return "", err
	}
	return text, nil
}

// fetchScript builds the javascript posting form to postUrl.
func fetchScript(postUrl string, form *Form) (string, error) {
	pairs := make([][2]string, 0, len(form.fields))
	for _, f := range form.fields {
		pairs = append(pairs, [2]string{f.Name, f.Value})
	}
	body, err := json.Marshal(pairs)
	if err != nil {
		return "", err
	}
	target, err := json.Marshal(postUrl)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(async () => {
  const response = await fetch(%s, {
    method: 'POST',
    body: new URLSearchParams(%s),
    headers: {'Content-Type': 'application/x-www-form-urlencoded'},
  });
  return await response.text();
})()`, target, body), nil
}
