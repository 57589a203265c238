package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"clinicbot/internal/adapter/store"
	"clinicbot/internal/domain"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print corpus metadata",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	dbPath := GetCorpusPath(GetRootDir())

	st, err := store.OpenCorpusStore(dbPath)
	if err != nil {
		return &domain.StartupLoadError{Path: dbPath, Err: err}
	}
	defer st.Close()

	meta, err := st.Meta()
	if err != nil {
		return &domain.StartupLoadError{Path: dbPath, Err: err}
	}
	schema, err := st.SchemaInfo()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Corpus:       %s\n", dbPath)
	fmt.Fprintf(out, "Schema:       v%d\n", meta.SchemaVersion)
	fmt.Fprintf(out, "Provider:     %s\n", meta.Provider)
	fmt.Fprintf(out, "Model:        %s\n", meta.Model)
	fmt.Fprintf(out, "Dimension:    %d\n", meta.Dimension)
	fmt.Fprintf(out, "Metric:       %s\n", meta.Metric)
	fmt.Fprintf(out, "Paragraphs:   %d\n", meta.Count)
	fmt.Fprintf(out, "Built at:     %s\n", meta.BuiltAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Config hash:  %s\n", schema.ConfigHash)
	fmt.Fprintf(out, "Source hash:  %s\n", schema.SourceHash)
	return nil
}
