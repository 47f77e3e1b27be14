package main

import (
	"archive/zip"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/odsheet/internal/xmlevent"
)

var eventsMember string

var eventsCmd = &cobra.Command{
	Use:   "events <file>",
	Short: "List the XML events of an archive member",
	Long: `Print one line per XML event of a member of the archive, prefixed
with the element depth after the event.

Examples:
  odsdump events budget.ods
  odsdump events budget.ods --member styles.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsMember, "member", "m", "content.xml", "Archive member to list")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	zr, err := zip.OpenReader(args[0])
	if err != nil {
		return fmt.Errorf("opening ODS archive: %w", err)
	}
	defer zr.Close()

	var member *zip.File
	for _, f := range zr.File {
		if f.Name == eventsMember {
			member = f
			break
		}
	}
	if member == nil {
		return fmt.Errorf("member not found: %s", eventsMember)
	}

	rc, err := member.Open()
	if err != nil {
		return fmt.Errorf("reading %s: %w", member.Name, err)
	}
	defer rc.Close()

	out := cmd.OutOrStdout()
	r := xmlevent.NewReader(rc)
	for {
		ev, err := r.Next()
		if err != nil {
			return fmt.Errorf("reading %s: %w", member.Name, err)
		}
		if ev.Kind == xmlevent.EOF {
			if depth := r.Depth(); depth > 0 {
				fmt.Fprintf(out, "%s ended with %d open elements\n", member.Name, depth)
			}
			return nil
		}
		// line breaks around the root element
		if ev.Kind == xmlevent.Text && r.Depth() == 0 && strings.TrimSpace(ev.Text) == "" {
			continue
		}
		fmt.Fprintf(out, "%s%d %s\n", strings.Repeat("  ", r.Depth()), r.Depth(), ev)
	}
}
