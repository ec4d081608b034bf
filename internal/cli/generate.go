package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MalithGihan/flowgen-service/internal/config"
	"github.com/MalithGihan/flowgen-service/internal/ctxlog"
	"github.com/MalithGihan/flowgen-service/pkg/types"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"json", "yaml"}

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Format  string
	Offline bool
	Verbose bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <description...>",
		Short: "Generate a workflow and print it",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidFormats {
				if f == opts.Format {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "json", "output format (json|yaml)")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "skip the AI provider and use the keyword synthesizer")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions, description string) error {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logOut := io.Discard
	if opts.Verbose {
		logOut = os.Stderr
	}
	logger := ctxlog.New(logOut, cfg.Debug)

	svc, err := newService(cfg, logger, opts.Offline, nil)
	if err != nil {
		return err
	}
	ctx := ctxlog.WithLogger(cmd.Context(), logger)
	res, err := svc.Generate(ctx, description)
	if err != nil {
		return fmt.Errorf("generate workflow: %w", err)
	}
	logger.Info("workflow ready", "source", res.Source, "cause", res.Cause.String())
	return writeWorkflow(cmd.OutOrStdout(), opts.Format, res.Workflow)
}

func writeWorkflow(w io.Writer, format string, wf types.Workflow) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(wf); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(wf)
	}
}
