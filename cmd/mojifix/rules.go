package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/mojifix/internal/normalize"
)

// NewRulesCmd creates the rules command.
func NewRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule table",
		Long: `Rules prints the cleanup and insertion rules that 'mojifix fix' would
apply with the same configuration file and flags, in evaluation order.

Examples:
  # Show the built-in cleanup table and any rules from .mojifix
  mojifix rules

  # Include the checkmark and tier emoji rules
  mojifix rules --checkmarks --tier-emojis

  # Render the table as Markdown
  mojifix rules --markdown`,
		Args: cobra.NoArgs,
		RunE: runRulesCmd,
	}

	addConfigFlags(cmd)
	addDecorationFlags(cmd)
	cmd.Flags().Bool("no-clean", false,
		"Leave out the cleanup rules")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the table in Markdown format")

	return cmd
}

// ruleRow is one printed rule.
type ruleRow struct {
	kind   string
	name   string
	detail string
}

// runRulesCmd executes the rules command.
func runRulesCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	n, d, err := buildEngines(cfg)
	if err != nil {
		return err
	}

	rows := make([]ruleRow, 0)
	if n != nil {
		for _, r := range n.Rules() {
			rows = append(rows, ruleRow{kind: r.Kind().String(), name: r.Name(), detail: describeRule(r)})
		}
	}
	if d != nil {
		for _, r := range d.Rules() {
			rows = append(rows, ruleRow{kind: r.Kind().String(), name: r.Name(), detail: describeRule(r)})
		}
	}

	if cfg.MarkdownReport {
		return printRulesMarkdown(cmd.OutOrStdout(), rows)
	}
	printRulesText(cmd.OutOrStdout(), rows, cfg.ConfigFilePath)
	return nil
}

// describeRule renders what a rule matches and produces.
func describeRule(r normalize.Rule) string {
	switch rule := r.(type) {
	case normalize.Literal:
		if rule.Replacement == "" {
			return fmt.Sprintf("delete %q", rule.Match)
		}
		return fmt.Sprintf("%q -> %q", rule.Match, rule.Replacement)
	case normalize.PrefixRun:
		stop := rule.Stop
		if stop == "" {
			stop = normalize.StopASCIIAlnumSpace
		}
		return fmt.Sprintf("delete %q run until %s", rule.Marker, stop)
	case normalize.Insert:
		return fmt.Sprintf("%q between %q and %q", rule.Glyph, rule.After, rule.Before)
	default:
		return ""
	}
}

func printRulesText(out io.Writer, rows []ruleRow, configPath string) {
	if configPath != "" {
		fmt.Fprintf(out, "Configuration: %s\n\n", configPath)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No rules enabled.")
		return
	}

	fmt.Fprintf(out, "  %-3s  %-8s  %-28s  %s\n", "#", "Kind", "Name", "Effect")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 76))
	for i, row := range rows {
		fmt.Fprintf(out, "  %-3d  %-8s  %-28s  %s\n", i+1, row.kind, row.name, row.detail)
	}
}

func printRulesMarkdown(out io.Writer, rows []ruleRow) error {
	md := markdown.NewMarkdown(out)
	md.H1("Mojifix Rules")
	md.PlainText("")

	if len(rows) == 0 {
		md.PlainText("No rules enabled.")
		return md.Build()
	}

	tableRows := make([][]string, len(rows))
	for i, row := range rows {
		tableRows[i] = []string{strconv.Itoa(i + 1), row.kind, row.name, "`" + row.detail + "`"}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Kind", "Name", "Effect"},
		Rows:   tableRows,
	})

	return md.Build()
}
