package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"clinicbot/internal/intent"
	"clinicbot/internal/usecase"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive assistant",
	Long: `Start an interactive conversation with the clinic assistant.
Type 'exit' to quit. Type 'cancel' while booking to abandon the booking.

Examples:
  clinicbot chat
  clinicbot chat --corpus /srv/clinic/corpus.db`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	assistant, err := newAssistant(GetConfig(), GetCorpusPath(GetRootDir()))
	if err != nil {
		return err
	}

	return runConsole(cmd.InOrStdin(), cmd.OutOrStdout(), assistant.NewSession())
}

// runConsole reads one line per turn from in and writes each reply to out
// until "exit" or end of input. Lines have no length limit; oversized
// queries are answered by the session.
func runConsole(in io.Reader, out io.Writer, session *usecase.Session) error {
	fmt.Fprintln(out, "Elite Body Home Polyclinic Chatbot (Offline RAG)")
	fmt.Fprintln(out, "Type 'exit' to quit.")

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			fmt.Fprintln(out)
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		if strings.ToLower(line) == "exit" {
			return nil
		}

		if session.Booking() && strings.EqualFold(strings.TrimSpace(line), "cancel") {
			session.Cancel()
			fmt.Fprintln(out, "\nBot: Booking cancelled.")
			continue
		}

		response, err := session.Respond(line)
		if err != nil {
			slog.Error("failed to answer", "error", err)
			response = intent.NotFoundText
		}
		fmt.Fprintln(out, "\nBot:", response)
	}
}
