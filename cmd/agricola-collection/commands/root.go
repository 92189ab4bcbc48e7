package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	collection "github.com/koizuka/agricola-collection"
	"github.com/spf13/cobra"
)

const sessionName = ".agricola-collection"

var globalFlags struct {
	config   string
	username string
	browser  bool
	headless bool
	record   string
	replay   string
	cookies  bool
	verbose  bool
}

var rootCmd = &cobra.Command{
	Use:          "agricola-collection",
	Short:        "Scans the Play-Agricola card gallery and adds cards to your collections.",
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalFlags.config, "config", "", "JSON5 config file overriding the defaults.")
	flags.StringVarP(&globalFlags.username, "user", "u", "", "Site username (overrides the config).")
	flags.BoolVar(&globalFlags.browser, "browser", false, "Send requests from a Chrome tab instead of the built-in HTTP client.")
	flags.BoolVar(&globalFlags.headless, "headless", false, "Run Chrome headless (with --browser).")
	flags.StringVar(&globalFlags.record, "record", "", "Record every response into this directory.")
	flags.StringVar(&globalFlags.replay, "replay", "", "Replay responses recorded with --record instead of using the network.")
	flags.BoolVar(&globalFlags.cookies, "cookies", false, "Load and save cookies in the session directory.")
	flags.BoolVarP(&globalFlags.verbose, "verbose", "v", false, "Print request headers and posted forms.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// environment is what every command runs with.
type environment struct {
	config   collection.Config
	log      collection.Logger
	ui       collection.Interaction
	progress collection.ProgressReporter
	poster   collection.FormPoster
	out      io.Writer
	close    func()
}

func newEnvironment(cmd *cobra.Command) (*environment, error) {
	config, err := collection.LoadConfig(globalFlags.config)
	if err != nil {
		return nil, err
	}
	if globalFlags.username != "" {
		config.Username = globalFlags.username
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	log := collection.ConsoleLogger{Writer: cmd.ErrOrStderr()}
	env := &environment{
		config:   config,
		log:      log,
		ui:       newTerminal(cmd.InOrStdin(), cmd.OutOrStdout()),
		progress: collection.LogProgress{Log: log},
		out:      cmd.OutOrStdout(),
		close:    func() {},
	}

	name := sessionName
	switch {
	case globalFlags.record != "" && globalFlags.replay != "":
		return nil, errors.New("--record and --replay are exclusive")
	case globalFlags.record != "":
		name = globalFlags.record
	case globalFlags.replay != "":
		name = globalFlags.replay
	}
	session := collection.NewSession(name, log)
	session.SaveToFile = globalFlags.record != ""
	session.NotUseNetwork = globalFlags.replay != ""
	session.SetTimeout(config.RequestTimeout())
	if globalFlags.verbose {
		session.ShowRequestHeader = true
		session.ShowResponseHeader = true
		session.ShowFormPosting = true
	}
	if globalFlags.cookies {
		if err := session.LoadCookie(); err != nil {
			return nil, fmt.Errorf("failed to load cookies: %w", err)
		}
		env.close = func() {
			if err := session.SaveCookie(); err != nil {
				log.Printf("failed to save cookies: %v", err)
			}
		}
	}
	env.poster = session

	if globalFlags.browser {
		chrome, cancel, err := session.NewChromeOpt(collection.NewChromeOptions{
			Headless: globalFlags.headless,
			StartURL: config.ListURL(),
		})
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to start chrome: %w", err)
		}
		closeSession := env.close
		env.close = func() {
			cancel()
			closeSession()
		}
		env.poster = chrome
	}
	return env, nil
}

// runWith builds the environment and runs fn with it. A user cancellation ends the command quietly.
func runWith(fn func(ctx context.Context, env *environment, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		return quietCancel(env.log, fn(cmd.Context(), env, args))
	}
}

func quietCancel(log collection.Logger, err error) error {
	if errors.Is(err, collection.ErrCanceled) {
		log.Printf("Operation cancelled")
		return nil
	}
	return err
}

// submitCards asks for the collection and password, confirms and adds cards.
func submitCards(ctx context.Context, env *environment, cards []collection.CardRecord, message string, defaultName string) error {
	if len(cards) == 0 {
		env.log.Printf("No cards to add")
		return nil
	}
	name, password, err := collection.AskCollection(env.ui, message, defaultName)
	if err != nil {
		return err
	}
	err = collection.ConfirmOrCancel(env.ui, fmt.Sprintf("Add %d cards to collection %q?", len(cards), name))
	if err != nil {
		return err
	}
	submitter := collection.NewSubmitter(env.poster, env.config, env.log, env.progress)
	report := submitter.Submit(ctx, cards, name, env.config.Username, password)
	printReport(env.out, name, report)
	return nil
}
