package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"navsync/internal/logging"
	"navsync/internal/narrow"
	"navsync/internal/overlay"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [query]",
	Short: "Encode a search query into a narrow fragment",
	Long: `Encodes a search-box query into the fragment the router would write.

Example:
  navsync encode 'stream:Denmark -topic:"party time"'`,
	RunE: runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode [fragment]",
	Short: "Decode a narrow fragment into its filter terms",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [fragment]",
	Short: "Report how the router would treat a fragment",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func runEncode(cmd *cobra.Command, args []string) error {
	f, err := narrow.ParseFilter(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(f) == 0 {
		f = nil
	}
	if f.HasContactOperator() && cfg.Directory().Len() == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: no people configured, contact addresses are written out in full")
	}
	fragment := codec().Encode(f)
	logs.Get(logging.CategoryCodec).Debug("encoded", zap.String("query", f.String()), zap.String("fragment", fragment))
	fmt.Fprintln(cmd.OutOrStdout(), fragment)
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	fragment := args[0]
	if !narrow.IsNarrow(fragment) {
		return fmt.Errorf("%q is not a narrow fragment", fragment)
	}
	f, err := codec().Decode(fragment)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, f.String())
	for _, t := range f {
		sign := " "
		if t.Negated {
			sign = "-"
		}
		fmt.Fprintf(out, "  %s%-12s %s\n", sign, t.Operator, t.Operand)
	}
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	fragment := args[0]
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch {
	case reg.IsOverlay(fragment):
		base := overlay.MainSegment(fragment)
		group := reg.GroupName(reg.GroupOf(base))
		if group == "" {
			group = "(none)"
		}
		fmt.Fprintf(out, "overlay %s group=%s\n", base, group)
	case narrow.IsNarrow(fragment):
		f, err := codec().Decode(fragment)
		if err != nil {
			fmt.Fprintf(out, "malformed narrow: %v\n", err)
			return nil
		}
		fmt.Fprintf(out, "narrow %s\n", f.String())
	case fragment == "" || fragment == "#":
		fmt.Fprintln(out, "home")
	default:
		fmt.Fprintf(out, "primary %s\n", fragment)
	}
	return nil
}
