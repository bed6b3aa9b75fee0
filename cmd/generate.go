package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kayz/adcraft/internal/ad"
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate one ad and print it as JSON",
	Example: `  adcraft generate "ad for a personal finance app for young adults"
  OPENAI_API_KEY=sk-... adcraft generate --log debug "ad for trail running shoes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return fmt.Errorf("prompt must be a non-empty string")
	}

	a, err := newApp("stderr")
	if err != nil {
		return err
	}
	defer a.close()

	generated, err := a.orchestrator.Generate(cmd.Context(), prompt)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(map[string]ad.Generated{"ad": generated})
}
