package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sprinkle/internal/config"
	"sprinkle/internal/core"
	"sprinkle/internal/editor"
	"sprinkle/internal/logging"
	"sprinkle/internal/perception"
	"sprinkle/internal/resolver"
	"sprinkle/internal/store"
	"sprinkle/internal/tactile"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exitCancelled is the conventional status for a run the user interrupted.
const exitCancelled = 130

var (
	// Global flags
	verbose    bool
	configPath string

	// Root flags
	printOnly   bool
	useEditor   bool
	model       string
	shell       string
	noHistory   bool
	timeout     time.Duration
	concurrency int
)

// rootCmd turns a prompt with {{...}} placeholders into a shell command.
var rootCmd = &cobra.Command{
	Use:   "sprinkle [prompt...]",
	Short: "Fill {{natural language}} gaps in a shell command and run it",
	Long: `sprinkle takes a shell command in which some parts are written in plain
language between {{ and }}, asks a language model to turn every such part into
shell syntax, stitches the answers back into the command and runs it with
` + "`bash -c`" + ` (or prints it with -o).

Example:
  sprinkle delete {{the log files}} from /tmp
  sprinkle -o -e find . -name {{every go test file}}

All placeholders are resolved concurrently. A prompt without placeholders is
run as is without contacting the model.`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return initLogging(cfg)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runPrompt,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print the intermediate steps")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")

	// Prompt flags
	rootCmd.Flags().BoolVarP(&printOnly, "output", "o", false, "Print the command instead of running it")
	rootCmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Review and edit the command before it is dispatched")
	rootCmd.Flags().StringVar(&model, "model", "", "Model used to resolve placeholders")
	rootCmd.Flags().StringVar(&shell, "shell", "", "Shell used to run the command")
	rootCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-request model timeout (default from config)")
	rootCmd.Flags().IntVar(&concurrency, "max-concurrency", -1, "Cap on simultaneous model requests (0 = unbounded)")

	// Everything after the first word of the prompt belongs to the prompt, so
	// `sprinkle ls -la {{...}}` does not treat -la as a sprinkle flag.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	os.Exit(execute(rootCmd, os.Stderr))
}

// execute runs cmd and maps its error to an exit status.
func execute(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, editor.ErrCancelled), errors.Is(err, context.Canceled):
		return exitCancelled
	default:
		msg := err.Error()
		if errors.Is(err, core.ErrEmptyPrompt) {
			msg += "."
		}
		fmt.Fprintln(stderr, color.New(color.FgRed).Sprint(msg))
		return 1
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Lookup("model") != nil && model != "" {
		cfg.LLM.Model = model
	}
	if flags.Lookup("shell") != nil && shell != "" {
		cfg.Execution.Shell = shell
	}
	if flags.Lookup("timeout") != nil && timeout > 0 {
		cfg.LLM.Timeout = timeout.String()
	}
	if flags.Lookup("max-concurrency") != nil && concurrency >= 0 {
		cfg.Resolver.MaxConcurrency = concurrency
	}
	if flags.Lookup("no-history") != nil && noHistory {
		cfg.History.Enabled = false
	}

	activeConfig = cfg
	return cfg, nil
}

// activeConfig is set by loadConfig for the running command.
var activeConfig *config.Config

func initLogging(cfg *config.Config) error {
	err := logging.Initialize(logging.Options{
		Verbose:    verbose,
		Level:      cfg.Logging.Level,
		JSON:       cfg.Logging.Format == "json",
		Categories: cfg.Logging.Categories,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// joinArgs rebuilds the prompt the way the shell split it.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg := activeConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt := joinArgs(args)
	if strings.TrimSpace(prompt) == "" {
		return core.ErrEmptyPrompt
	}

	opts := []core.Option{core.WithMode(tactile.ModeExecute)}
	if printOnly {
		opts[0] = core.WithMode(tactile.ModePrint)
	}
	if useEditor {
		opts = append(opts, core.WithEditor(func(ctx context.Context, initial string) (string, error) {
			return editor.Run(ctx, initial, editor.WithOutput(os.Stderr))
		}))
	}
	if cfg.History.Enabled {
		hist, err := store.NewHistoryStore(cfg.History.Path)
		if err != nil {
			logging.Get(logging.CategoryBoot).Warn("history disabled", zap.Error(err))
		} else {
			defer hist.Close()
			opts = append(opts, core.WithHistory(closingHistory{hist}))
		}
	}

	dispatcher := tactile.NewDispatcher(
		tactile.WithShell(cfg.Execution.Shell),
		tactile.WithOutput(cmd.OutOrStdout()),
	)
	pipeline := core.NewPipeline(newResolver(ctx, cfg), dispatcher, opts...)
	return pipeline.Run(ctx, prompt)
}

// closingHistory closes the store right after recording, since dispatch may never return.
type closingHistory struct {
	s *store.HistoryStore
}

func (h closingHistory) Record(ctx context.Context, e store.Entry) error {
	err := h.s.Record(ctx, e)
	if cerr := h.s.Close(); err == nil {
		err = cerr
	}
	return err
}

// newResolver defers building the Gemini client until a placeholder needs it, so prompts
// without placeholders work without an API key.
func newResolver(ctx context.Context, cfg *config.Config) core.Resolver {
	return core.LazyResolver(func() (core.Resolver, error) {
		client, err := perception.NewClientFromConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logging.Get(logging.CategoryBoot).Debug("llm client ready",
			zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

		gen := perception.NewCommandGenerator(client)
		opts := []resolver.Option{resolver.WithConcurrencyLimit(cfg.Resolver.MaxConcurrency)}
		if cfg.Resolver.Mask != "" {
			opts = append(opts, resolver.WithMask(cfg.Resolver.Mask))
		}
		if !cfg.Resolver.IncludeContext {
			opts = append(opts, resolver.WithoutContext())
		}
		return resolver.New(gen, opts...), nil
	})
}
