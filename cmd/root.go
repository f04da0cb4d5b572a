package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pdfnight/converter"
	"pdfnight/converter/batch"
	"pdfnight/logx"
)

var (
	outputDir  string
	outputName string
	operation  string
	scale      float64
	workers    int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfnight <input.pdf> [input2.pdf ...]",
	Short: "Convert PDFs to dark mode and merge documents",
	Long: `A CLI tool to convert PDF documents to a dark visual theme and
optionally merge multiple documents into one.

Supported operations:
  - convert            one dark-mode PDF per input (<name>_dark.pdf)
  - merge              concatenate inputs into one PDF, unconverted
  - convert-and-merge  convert every input, then merge the results`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logx.SetVerbose(verbose)

		op, err := converter.ParseOperation(operation)
		if err != nil {
			return err
		}
		if scale <= 0 {
			return fmt.Errorf("invalid scale: %v (must be positive)", scale)
		}

		for _, input := range args {
			info, err := converter.AnalyzeFile(input)
			if err != nil {
				logx.Warn("%v", err)
				continue
			}
			sizeMB := float64(info.Size) / (1024 * 1024)
			fmt.Printf("%s (%d pages, %.1fMB)\n", info.Path, info.Pages, sizeMB)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		bar := progressbar.NewOptions(len(args),
			progressbar.OptionSetDescription(operation),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(50),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)

		orch := batch.New(func(p batch.Progress) {
			bar.Describe(string(p.Phase))
			bar.Set(p.FilesDone)
		})

		job := batch.Job{
			Inputs:     args,
			Op:         op,
			OutputDir:  outputDir,
			OutputName: outputName,
			Scale:      scale,
			Workers:    workers,
		}

		res, runErr := orch.Run(ctx, job)

		for _, f := range res.Files {
			if f.Ok() {
				fmt.Printf("  ok     %s -> %s\n", f.Input, f.OutputPath)
			} else {
				fmt.Printf("  failed %s: %v\n", f.Input, f.Err)
			}
		}
		if res.Output != "" {
			fmt.Printf("Successfully created: %s\n", res.Output)
		}

		if runErr != nil {
			return fmt.Errorf("%s %s: %w", operation, res.Status, runErr)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "d", ".", "Directory for output files")
	rootCmd.Flags().StringVarP(&outputName, "output", "o", "", "Merged output file name (merge operations only)")
	rootCmd.Flags().StringVarP(&operation, "operation", "p", "convert", "Operation: 'convert', 'merge' or 'convert-and-merge'")
	rootCmd.Flags().Float64Var(&scale, "scale", converter.DefaultScale, "Render resolution multiplier (1.0 = 72 DPI)")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "Max concurrent file conversions (0 = number of CPUs - 1)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print per-page progress to stderr")
}

// SetVersionInfo wires build-time version metadata into the root command.
func SetVersionInfo(version, buildTime, gitCommit string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", version, buildTime, gitCommit)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
