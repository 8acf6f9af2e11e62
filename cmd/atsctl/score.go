package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NishantsCode/NextHire/internal/services"
)

var scoreCmd = &cobra.Command{
	Use:   "score <resume> [resume...]",
	Short: "Score one or more resumes against a job",
	Long: "Score resumes against a job given either as structured JSON (--job) or as a job description document (--jd). " +
		"Several resumes are scored in batches and printed in input order.",
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

var (
	scoreJobFile string
	scoreJDFile  string
	scoreTitle   string
	scoreBatch   int
)

func init() {
	scoreCmd.Flags().StringVar(&scoreJobFile, "job", "", "Path to structured job description JSON")
	scoreCmd.Flags().StringVar(&scoreJDFile, "jd", "", "Path to a job description document to structure first")
	scoreCmd.Flags().StringVar(&scoreTitle, "title", "", "Job title (defaults to the structured title)")
	scoreCmd.Flags().IntVar(&scoreBatch, "batch-size", 0, "Concurrent scoring calls per batch (default BULK_BATCH_SIZE)")
	scoreCmd.MarkFlagsMutuallyExclusive("job", "jd")
	scoreCmd.MarkFlagsOneRequired("job", "jd")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tk, err := newToolkit(ctx)
	if err != nil {
		return err
	}
	defer tk.Close()

	job, err := loadJobContext(cmd, tk)
	if err != nil {
		return err
	}

	candidates := make([]services.BulkCandidate, 0, len(args))
	for _, path := range args {
		mediaType, err := services.MediaTypeForFile(path)
		if err != nil {
			return err
		}
		candidates = append(candidates, services.BulkCandidate{
			ID:     filepath.Base(path),
			Resume: services.ResumeSource{ID: path, FilePath: path, MediaType: mediaType},
		})
	}

	scoring := services.NewScoringEngine(tk.gemini, tk.extractor, tk.log)
	results := services.NewBulkScoringCoordinator(scoring, tk.batchSize(), tk.log).ScoreAll(ctx, job, candidates)

	if len(results) == 1 && !results[0].Success {
		return results[0].Err
	}

	return writeJSON(cmd.OutOrStdout(), results)
}

func loadJobContext(cmd *cobra.Command, tk *toolkit) (services.JobContext, error) {
	if scoreJobFile != "" {
		raw, err := os.ReadFile(scoreJobFile)
		if err != nil {
			return services.JobContext{}, fmt.Errorf("failed to read job file: %w", err)
		}
		jd, err := services.ParseStructuredJDOverride(string(raw))
		if err != nil {
			return services.JobContext{}, err
		}
		if jd == nil {
			return services.JobContext{}, fmt.Errorf("job file %s is empty", scoreJobFile)
		}
		title := scoreTitle
		if title == "" {
			title = jd.Title
		}
		return services.JobContext{
			Title:        title,
			Description:  services.FormatStructuredJD(*jd),
			StructuredJD: *jd,
		}, nil
	}

	mediaType, err := services.MediaTypeForFile(scoreJDFile)
	if err != nil {
		return services.JobContext{}, err
	}
	text, err := tk.extractor.Extract(cmd.Context(), scoreJDFile, mediaType)
	if err != nil {
		return services.JobContext{}, err
	}
	result, err := services.NewStructuringEngine(tk.gemini, tk.log).Structure(cmd.Context(), text)
	if err != nil {
		return services.JobContext{}, err
	}

	title := scoreTitle
	if title == "" {
		title = result.StructuredJD.Title
	}
	return services.JobContext{
		Title:        title,
		Description:  result.Description,
		StructuredJD: result.StructuredJD,
	}, nil
}
