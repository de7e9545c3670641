// Command chatlens analyses a chat export offline and prints its metrics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatlens",
		Short: "Analyse chat exports",
		Long: `chatlens parses a chat export (.txt or .zip) and computes
conversation metrics without uploading anything.

Examples:
  # Full metrics as JSON
  chatlens analyze "WhatsApp Chat with Ana.txt"

  # Anonymised teaser as YAML
  chatlens analyze export.zip --anonymize --teaser --format yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newVocabCommand())

	return cmd
}
