package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NishantsCode/NextHire/internal/services"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the plain text of a pdf, doc, docx or txt document",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	mediaType, err := services.MediaTypeForFile(args[0])
	if err != nil {
		return err
	}

	tk, err := newToolkit(cmd.Context())
	if err != nil {
		return err
	}
	defer tk.Close()

	text, err := tk.extractor.Extract(cmd.Context(), args[0], mediaType)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
