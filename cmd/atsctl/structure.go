package main

import (
	"github.com/spf13/cobra"

	"github.com/NishantsCode/NextHire/internal/services"
)

var structureCmd = &cobra.Command{
	Use:   "structure <jd-file>",
	Short: "Convert a job description document into structured JSON",
	Long:  "Extract the job description text and ask the model for the structured job description plus its formatted description.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStructure,
}

var structureCheck bool

func init() {
	structureCmd.Flags().BoolVar(&structureCheck, "check", false, "Also report required fields that are missing")
	rootCmd.AddCommand(structureCmd)
}

type structureOutput struct {
	*services.StructuringResult
	MissingFields []string `json:"missingFields,omitempty"`
}

func runStructure(cmd *cobra.Command, args []string) error {
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

	result, err := services.NewStructuringEngine(tk.gemini, tk.log).Structure(cmd.Context(), text)
	if err != nil {
		return err
	}

	out := structureOutput{StructuringResult: result}
	if structureCheck {
		out.MissingFields = services.MissingJobFields(result.StructuredJD)
	}

	return writeJSON(cmd.OutOrStdout(), out)
}
