package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"clinicbot/internal/intent"
)

var (
	askText   string
	askIntent bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a single question",
	Long: `Answer one question without keeping conversation state.
Bookings need several answers, so use 'clinicbot chat' to book.

Examples:
  clinicbot ask -q "what are your working hours"
  clinicbot ask -q "does aqualyx hurt" --intent`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askText, "query", "q", "", "question to answer (required)")
	askCmd.Flags().BoolVar(&askIntent, "intent", false, "print the matched intent before the answer")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	assistant, err := newAssistant(GetConfig(), GetCorpusPath(GetRootDir()))
	if err != nil {
		return err
	}

	reply, err := assistant.Ask(askText)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	out := cmd.OutOrStdout()
	if askIntent {
		fmt.Fprintf(out, "[%s]\n", reply.Intent)
	}
	fmt.Fprintln(out, reply.Text)
	if reply.Intent == intent.Booking {
		fmt.Fprintln(out, "\nBookings need several answers; run 'clinicbot chat' to book an appointment.")
	}
	return nil
}
