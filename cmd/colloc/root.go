package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cognicore/colloc/pkg/colloc"
	"github.com/cognicore/colloc/pkg/colloc/config"
	"github.com/cognicore/colloc/pkg/colloc/corpus"
	"github.com/cognicore/colloc/pkg/colloc/store"
	"github.com/cognicore/colloc/pkg/colloc/store/sqlite"
)

type rootOptions struct {
	fileInput   string
	searchTerm  string
	outputType  string
	window      int
	outputDir   string
	configPath  string
	archivePath string
	stripHTML   bool
	verbose     bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:           "colloc",
		Short:         "Collocation analysis by mutual-information score",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, opts, stdout, stderr)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.fileInput, "file_input", "f", "", "The filename or directory to work with")
	flags.StringVarP(&opts.searchTerm, "search_term", "s", "", "The search term to find collocates for")
	flags.StringVarP(&opts.outputType, "output_type", "o", config.OutputSeparate, "Output for directories: 'separate' (one table per file) or 'gathered' (one table for all files)")
	flags.IntVarP(&opts.window, "window", "w", config.DefaultWindow, "Number of tokens to either side of the search term")
	flags.StringVar(&opts.outputDir, "output_dir", config.DefaultOutputDir, "Directory for result tables")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML settings file")
	flags.StringVar(&opts.archivePath, "archive", "", "SQLite database recording every result table")
	flags.BoolVar(&opts.stripHTML, "strip_html", false, "Extract visible text from HTML input")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	_ = rootCmd.MarkFlagRequired("file_input")
	_ = rootCmd.MarkFlagRequired("search_term")

	return rootCmd
}

// resolveSettings layers explicitly set flags over the settings file.
func resolveSettings(cmd *cobra.Command, opts rootOptions) (config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return settings, fmt.Errorf("load config: %w", err)
		}
		settings = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("output_type") {
		settings.OutputType = opts.outputType
	}
	if flags.Changed("window") {
		settings.Window = opts.window
	}
	if flags.Changed("output_dir") {
		settings.OutputDir = opts.outputDir
	}
	if flags.Changed("archive") {
		settings.ArchivePath = opts.archivePath
	}
	if flags.Changed("strip_html") {
		settings.StripHTML = opts.stripHTML
	}

	return settings, settings.Validate()
}

func runAnalysis(cmd *cobra.Command, opts rootOptions, stdout, stderr io.Writer) error {
	ctx := cmd.Context()

	settings, err := resolveSettings(cmd, opts)
	if err != nil {
		return err
	}

	loader := config.Loader{Settings: settings}
	components, err := loader.Load()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var archive store.Store
	if settings.ArchivePath != "" {
		archive, err = sqlite.OpenSQLite(ctx, settings.ArchivePath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
	}

	colorize := shouldColorize(stdout)
	status := newStatusReporter(stdout, colorize)

	c := colloc.New(colloc.Options{
		Tokenizer:    components.Tokenizer,
		Scorer:       components.Scorer,
		OutputDir:    settings.OutputDir,
		MaxFileBytes: settings.MaxFileBytes,
		Store:        archive,
		Reporter:     status,
		Logger:       logger,
	})
	defer c.Close()

	in, err := corpus.Resolve(opts.fileInput)
	if err != nil {
		return err
	}
	status.info(fmt.Sprintf("Input is a %s", in.Kind))
	if in.Kind == corpus.KindDir {
		status.info("Collocation analysis ...")
	}

	summary, runErr := c.Run(ctx, colloc.Request{
		Input:      opts.fileInput,
		Keyword:    opts.searchTerm,
		Window:     settings.Window,
		OutputType: settings.OutputType,
	})
	if len(summary.Files) > 0 {
		fmt.Fprintln(stdout, renderSummary(summary))
	}
	if runErr != nil {
		return runErr
	}

	status.ok("Script success.")
	return nil
}
