package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vmini/internal/errors"
)

// Error output formats for --error-format.
const (
	errorFormatText    = "text"
	errorFormatCompact = "compact"
	errorFormatJSON    = "json"
)

// reportError writes err to w in the requested format.
func reportError(w io.Writer, err error, format string) {
	switch format {
	case errorFormatJSON:
		errors.FprintJSON(w, err, errors.CategoryCLI)
	case errorFormatCompact:
		var ve *errors.VmError
		if stderrors.As(err, &ve) {
			fmt.Fprintln(w, ve.FormatCompact())
			return
		}
		fmt.Fprintln(w, err.Error())
	default:
		errors.Fprint(w, err)
	}
}

func checkErrorFormat(format string) error {
	switch format {
	case "", errorFormatText, errorFormatCompact, errorFormatJSON:
		return nil
	}
	return errors.New("E401").
		WithDetailf("--error-format %q is not one of text, compact, json", format)
}

func explainCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error or warning code",
		Long: `Explain prints the registered message and detail for an error code.

Examples:
  vmini explain E302
  vmini explain --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				codes := errors.Codes()
				sort.Strings(codes)
				for _, code := range codes {
					fmt.Fprintln(out, errors.New(code).FormatCompact())
				}
				return nil
			}
			if len(args) == 0 {
				return errors.New("E401").WithDetail("explain needs a code or --list")
			}

			code := strings.ToUpper(args[0])
			if _, ok := errors.Lookup(code); !ok {
				return errors.New("E401").
					WithDetailf("%s is not a known code", code).
					WithSuggestion("Run 'vmini explain --list' to see every code")
			}
			fmt.Fprint(out, errors.New(code).Format())
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List every registered code")
	return cmd
}
