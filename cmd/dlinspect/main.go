package main

import (
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"decomp/pkg/asm"
	"decomp/pkg/compiler"
)

const testSource = `.data
x 5
p 0x10
.main
mov acm &p
if [ load x ] nz and [ sub x 1 ] nz do
  output x
else
  output 0
end
stop
`

func main() {
	if err := newInspectCmd(os.Stdout).Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func newInspectCmd(stdout io.Writer) *cobra.Command {
	var noTokens, noSymbols bool

	cmd := &cobra.Command{
		Use:   "dlinspect [source file]",
		Short: "Print every stage of a DeCompLanguage compilation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := testSource
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read error: %w", err)
				}
				src = string(data)
			}
			return inspect(stdout, src, !noTokens, !noSymbols)
		},
	}
	cmd.SetOut(stdout)
	cmd.Flags().BoolVar(&noTokens, "no-tokens", false, "do not dump the token stream")
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "do not dump the variable and label tables")
	return cmd
}

func inspect(w io.Writer, src string, showTokens, showSymbols bool) error {
	fmt.Fprintf(w, "Source:\n%s\n", src)

	tokens, err := compiler.Lex(src)
	if err != nil {
		return fmt.Errorf("lex error: %w", err)
	}

	if showTokens {
		fmt.Fprintf(w, "Tokens (%d)\n", len(tokens))
		pp.Fprintln(w, tokens)
		fmt.Fprintln(w)
	}

	tr := compiler.NewTranslator(nil)
	instructions, err := tr.Translate(tokens)
	if err != nil {
		return fmt.Errorf("translate error: %w", err)
	}

	listing, err := asm.Table(instructions)
	if err != nil {
		return fmt.Errorf("encode error: %w", err)
	}
	fmt.Fprintln(w, "Instructions")
	fmt.Fprintln(w, listing)
	fmt.Fprintln(w)

	if showSymbols {
		fmt.Fprintln(w, tr.Symbols().Render())
	}
	return nil
}
