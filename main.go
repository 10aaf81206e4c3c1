package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"decomp/pkg/asm"
	"decomp/pkg/compiler"
)

type options struct {
	logLevel  string
	logFormat string
	table     bool
	quiet     bool
}

func main() {
	if err := runCommand(newRootCmd(os.Stdout, os.Stderr), os.Stderr); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// runCommand executes cmd and prints any error the compiler's logger has not
// already reported.
func runCommand(cmd *cobra.Command, stderr io.Writer) error {
	err := cmd.Execute()
	if err != nil && !reported(err) {
		fmt.Fprintln(stderr, err)
	}
	return err
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "decomp <source file> <target file>",
		Short: "Compile DeCompLanguage source for the DeComp accumulator machine",
		Long: `decomp translates a DeCompLanguage program into DeComp machine code.

The instruction listing is written to standard output and the binary dump
(program counter and instruction word, in 4-bit groups) to the target file.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return fmt.Errorf("%w\nusage: %s", err, cmd.UseLine())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(stderr, opts)
			if err != nil {
				return err
			}
			return run(args[0], args[1], stdout, logger, opts)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "diagnostic level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "text", "diagnostic format: text or json")
	cmd.Flags().BoolVar(&opts.table, "table", false, "print the listing as a table with encoded words")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the listing")
	return cmd
}

// reported tells whether err already went through the compiler's logger.
func reported(err error) bool {
	var lexErr *compiler.LexError
	var trErr *compiler.TranslateError
	return errors.As(err, &lexErr) || errors.As(err, &trErr)
}

func newLogger(w io.Writer, opts *options) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(opts.logFormat) {
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q: want text or json", opts.logFormat)
	}
}

func run(sourcePath, targetPath string, stdout io.Writer, logger *slog.Logger, opts *options) error {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source file %q: %w", sourcePath, err)
	}
	logger.Debug("read source", "path", sourcePath, "bytes", len(source))

	diagnostics := compiler.NewSlogLogger(logger)

	tokens, err := compiler.NewLexer(diagnostics).Parse(string(source))
	if err != nil {
		return fmt.Errorf("lexing failed: %w", err)
	}
	logger.Debug("lexed", "tokens", len(tokens))

	instructions, err := compiler.NewTranslator(diagnostics).Translate(tokens)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	logger.Debug("translated", "cells", len(instructions))

	dump, err := asm.Dump(instructions)
	if err != nil {
		return fmt.Errorf("encoding failed: %w", err)
	}

	if !opts.quiet {
		listing := asm.Listing(instructions)
		if opts.table {
			if listing, err = asm.Table(instructions); err != nil {
				return fmt.Errorf("encoding failed: %w", err)
			}
		}
		fmt.Fprint(stdout, listing, "\n\n")
	}

	if err := writeTarget(targetPath, dump); err != nil {
		return fmt.Errorf("failed to write target file %q: %w", targetPath, err)
	}
	logger.Info("compiled", "source", sourcePath, "target", targetPath, "cells", len(instructions))
	return nil
}

// writeTarget writes data next to path and renames it into place, so a
// failed run never leaves a truncated target behind.
func writeTarget(path string, data string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	atexit.Register(func() { os.Remove(name) })

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}
