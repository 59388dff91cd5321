package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davidbrazdil/minsfi-llvm"
	"github.com/davidbrazdil/minsfi-llvm/internal/diagnostic"
	"github.com/davidbrazdil/minsfi-llvm/internal/irjson"
)

// verifyResult is the JSON --format=json payload, grounded on roach88-nysm's
// CLIResponse/ValidationResult shape.
type verifyResult struct {
	Accepted    bool     `json:"accepted"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// NewVerifyCommand builds the "verify" subcommand: decode a JSON IR module,
// run it through abiverify.Verify, and report.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	var allowDebug, streaming bool
	var dialectVersion string
	var fatalThreshold int

	cmd := &cobra.Command{
		Use:   "verify <module.json>",
		Short: "Verify that a JSON-encoded IR module is a member of the accepted subset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := resolveConfig(rootOpts.ConfigPath)
			if err != nil {
				return newExitError(ExitCommandError, err)
			}
			if cmd.Flags().Changed("allow-debug-metadata") {
				config = config.WithAllowDebugMetadata(allowDebug)
			}
			if cmd.Flags().Changed("streaming-mode") {
				config = config.WithStreamingMode(streaming)
			}
			if cmd.Flags().Changed("dialect-version") {
				config = config.WithDialectVersion(dialectVersion)
			}
			if cmd.Flags().Changed("fatal-threshold") {
				config = config.WithFatalThreshold(fatalThreshold)
			}

			verifier, err := abiverify.NewVerifierWithConfig(config)
			if err != nil {
				return newExitError(ExitCommandError, err)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return newExitError(ExitCommandError, fmt.Errorf("reading module: %w", err))
			}
			module, err := irjson.Decode(data)
			if err != nil {
				return newExitError(ExitCommandError, err)
			}

			report, err := verifier.Verify(module)
			if err != nil {
				return newExitError(ExitCommandError, err)
			}

			return printVerifyResult(cmd, rootOpts.Format, report.Diagnostics(), report.CheckFatal())
		},
	}

	cmd.Flags().BoolVar(&allowDebug, "allow-debug-metadata", false, "admit llvm.dbg.* metadata and the dbg intrinsics")
	cmd.Flags().BoolVar(&streaming, "streaming-mode", false, "tolerate function declarations without a body")
	cmd.Flags().StringVar(&dialectVersion, "dialect-version", "", "IR dialect version to resolve the vector-length table from")
	cmd.Flags().IntVar(&fatalThreshold, "fatal-threshold", 0, "diagnostics to accumulate before halting (0 = collect all)")

	return cmd
}

func resolveConfig(path string) (*abiverify.Config, error) {
	if path == "" {
		return abiverify.NewConfig(), nil
	}
	return abiverify.LoadConfigFile(path)
}

func printVerifyResult(cmd *cobra.Command, format string, diags []diagnostic.Diagnostic, fatal bool) error {
	messages := make([]string, len(diags))
	for i, d := range diags {
		messages[i] = d.Message
	}

	if format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(verifyResult{Accepted: len(diags) == 0, Diagnostics: messages}); err != nil {
			return newExitError(ExitCommandError, err)
		}
	} else {
		if len(diags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "accepted")
		} else {
			for _, msg := range messages {
				fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", msg)
			}
		}
	}

	if len(diags) > 0 {
		code := ExitDisallowed
		if fatal {
			code = ExitFatalThreshold
		}
		return newExitError(code, fmt.Errorf("module is not a member of the accepted subset (%d diagnostic(s))", len(diags)))
	}
	return nil
}
