package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	osfs "github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/fluentkeys/internal/config"
	"github.com/agentic-research/fluentkeys/internal/diag"
	"github.com/agentic-research/fluentkeys/internal/extract"
)

var (
	flagLanguages          []string
	flagI18nKeys           []string
	flagI18nKeysAppend     []string
	flagI18nKeysPrefix     []string
	flagExcludeDirs        []string
	flagExcludeDirsAppend  []string
	flagIgnoreAttributes   []string
	flagIgnoreAttrsAppend  []string
	flagIgnoreKwargs       []string
	flagCommentJunks       bool
	flagDefaultFTLFilename string
	flagCommentKeysMode    string
	flagLineEndings        string
	flagDryRun             bool
	flagVerbose            bool
	flagSilent             bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <code_path> <output_path>",
	Short: "Extract i18n keys from Python source and reconcile them against stored Fluent files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		codePath := args[0]
		outputPath := args[1]

		opts := config.Defaults()
		if configPath != "" {
			file, err := config.LoadFile(configPath)
			if err != nil {
				return diag.Wrap("config", diag.KindConfig, err)
			}
			opts = opts.ApplyFile(file)
		}
		opts = opts.ApplyFlags(collectFlags(cmd))

		sink := diag.New(os.Stdout, os.Stderr, opts.Verbose, opts.Silent)
		fsys := osfs.New("/", osfs.WithBoundOS())

		start := time.Now()
		sink.Info("extracting %s -> %s (%d locale(s))", codePath, outputPath, len(opts.Locales))

		run, err := extract.Run(context.Background(), fsys, codePath, outputPath, opts, sink)
		if err != nil {
			return err
		}

		sink.Info("done in %v: %d source file(s), %d .ftl file(s) reconciled", time.Since(start), run.PyFilesCount, run.FtlFilesCount)
		if opts.Verbose {
			out, err := run.MarshalJSON()
			if err != nil {
				return diag.Wrap("stats", diag.KindIO, err)
			}
			fmt.Println(string(out))
		}
		return nil
	},
}

// collectFlags builds a config.Flags from the subcommand's flag set,
// leaving every field nil/empty that the user never passed so ApplyFlags
// can tell "not set" from "set to the zero value".
func collectFlags(cmd *cobra.Command) config.Flags {
	f := config.Flags{
		Locales:           flagLanguages,
		I18nKeys:          flagI18nKeys,
		I18nKeysAppend:    flagI18nKeysAppend,
		I18nKeysPrefix:    flagI18nKeysPrefix,
		IgnoreAttributes:  flagIgnoreAttributes,
		IgnoreAttrsAppend: flagIgnoreAttrsAppend,
		IgnoreKwargs:      flagIgnoreKwargs,
		ExcludeDirs:       flagExcludeDirs,
		ExcludeDirsAppend: flagExcludeDirsAppend,
	}
	if cmd.Flags().Changed("comment-junks") {
		f.CommentJunks = &flagCommentJunks
	}
	if cmd.Flags().Changed("default-ftl-file") {
		f.DefaultFTLFilename = &flagDefaultFTLFilename
	}
	if cmd.Flags().Changed("comment-keys-mode") {
		f.CommentKeysMode = &flagCommentKeysMode
	}
	if cmd.Flags().Changed("line-endings") {
		f.LineEndings = &flagLineEndings
	}
	if cmd.Flags().Changed("dry-run") {
		f.DryRun = &flagDryRun
	}
	if cmd.Flags().Changed("verbose") {
		f.Verbose = &flagVerbose
	}
	if cmd.Flags().Changed("silent") {
		f.Silent = &flagSilent
	}
	return f
}

func init() {
	flags := extractCmd.Flags()
	flags.StringArrayVarP(&flagLanguages, "language", "l", nil, "locale to process (repeatable); default [\"en\"]")
	flags.StringSliceVarP(&flagI18nKeys, "i18n-keys", "k", nil, "replaces the default translator-function name set")
	flags.StringSliceVarP(&flagI18nKeysAppend, "i18n-keys-append", "K", nil, "unions into the translator-function name set")
	flags.StringSliceVarP(&flagI18nKeysPrefix, "i18n-keys-prefix", "p", nil, "receiver-prefix names (e.g. self, cls)")
	flags.StringSliceVarP(&flagExcludeDirs, "exclude-dirs", "e", nil, "replaces the default exclusion globs")
	flags.StringSliceVarP(&flagExcludeDirsAppend, "exclude-dirs-append", "E", nil, "unions into exclusions")
	flags.StringSliceVarP(&flagIgnoreAttributes, "ignore-attributes", "i", nil, "replaces the default ignore-attribute set")
	flags.StringSliceVarP(&flagIgnoreAttrsAppend, "append-ignore-attributes", "I", nil, "unions into ignore-attributes")
	flags.StringSliceVar(&flagIgnoreKwargs, "ignore-kwargs", nil, "keyword arguments to drop from placeholders")
	flags.BoolVar(&flagCommentJunks, "comment-junks", false, "comment out unparseable stored entries")
	flags.StringVar(&flagDefaultFTLFilename, "default-ftl-file", config.DefaultFTLFilename, "fallback target file name")
	flags.StringVar(&flagCommentKeysMode, "comment-keys-mode", "comment", "comment|warn")
	flags.StringVar(&flagLineEndings, "line-endings", "default", "default|lf|cr|crlf")
	flags.BoolVar(&flagDryRun, "dry-run", false, "compute but do not write")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "print a statistics block at end of run")
	flags.BoolVar(&flagSilent, "silent", false, "only print errors")
}
