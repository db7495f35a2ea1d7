package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SShoshia/book-giveaway/services"
	"github.com/spf13/cobra"
)

var bookOwner string

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage listed books",
}

var bookImportCmd = &cobra.Command{
	Use:   "import <file.csv|file.xlsx>",
	Short: "List the books of a CSV or Excel file under one owner",
	Long:  "List the books of a CSV or Excel file under one owner. The header row must name the columns title, author, genre, condition and location; Excel files are read from their first sheet.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		owner, err := services.NewIdentityService(db, cfg.BcryptCost).GetByUsername(cmd.Context(), bookOwner)
		if err != nil {
			return fmt.Errorf("owner %q: %w", bookOwner, err)
		}

		catalog := services.NewCatalogService(db)
		var n int
		if strings.EqualFold(filepath.Ext(args[0]), ".xlsx") {
			n, err = catalog.ImportXLSX(cmd.Context(), owner.ID, data)
		} else {
			n, err = catalog.ImportCSV(cmd.Context(), owner.ID, bytes.NewReader(data))
		}
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d books for %s\n", n, owner.Username)
		return nil
	},
}

func init() {
	bookImportCmd.Flags().StringVar(&bookOwner, "owner", "", "username that will own the imported books")
	_ = bookImportCmd.MarkFlagRequired("owner")
	bookCmd.AddCommand(bookImportCmd)
}
