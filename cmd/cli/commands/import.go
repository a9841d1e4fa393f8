package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/clients/sheetsclient"
	"github.com/jakechorley/relief-coordinator/pkg/core/services"
	"github.com/jakechorley/relief-coordinator/pkg/snapshotfile"
)

// ImportSheetCmd creates the importSheet command
func ImportSheetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importSheet",
		Short: "Import operations and volunteers from the registration spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Cfg.Sheets.Enabled() {
				return fmt.Errorf("no spreadsheet configured: set sheets.spreadsheetID in the config")
			}

			app.Logger.Info("Initializing sheets client", zap.String("spreadsheet_id", app.Cfg.Sheets.SpreadsheetID))
			client, err := sheetsclient.NewClient(app.Ctx, app.Cfg.Sheets.CredentialsFile)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			source := sheetsclient.NewSource(client, app.Cfg.Sheets)
			result, err := services.ImportRecords(app.Ctx, source, app.Database, app.Logger)
			if err != nil {
				return err
			}

			printImportResult(os.Stdout, result)
			return nil
		},
	}
}

// ImportFileCmd creates the importFile command
func ImportFileCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importFile <path>",
		Short: "Import operations and volunteers from a YAML or JSON snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := snapshotfile.Load(args[0])
			if err != nil {
				return err
			}

			result, err := services.ImportRecords(app.Ctx, source, app.Database, app.Logger)
			if err != nil {
				return err
			}

			printImportResult(os.Stdout, result)
			return nil
		},
	}
}

func printImportResult(w io.Writer, result *services.ImportResult) {
	fmt.Fprintf(w, "\n✓ Import completed!\n\n")
	fmt.Fprintf(w, "Operations: %d\n", result.Operations)
	fmt.Fprintf(w, "Volunteers: %d\n", result.Volunteers)

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\n⚠️  Skipped %d records:\n", len(result.Skipped))
		for _, s := range result.Skipped {
			id := s.ID
			if id == "" {
				id = "no id"
			}
			fmt.Fprintf(w, "  ✗ %s #%d (%s): %s\n", s.Kind, s.Index+1, id, s.Reason)
		}
	}
	fmt.Fprintln(w)
}
