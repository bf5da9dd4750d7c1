package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/amal-assist/amal/pkg/eventbus"
	"github.com/amal-assist/amal/pkg/usecase/analyze"
)

func analyzeCommand() *cli.Command {
	var (
		cfg       config
		confValue float64
	)

	flags := []cli.Flag{
		&cli.FloatFlag{
			Name:        "conf",
			Usage:       "Detection recall threshold",
			Value:       analyze.DefaultConfThreshold,
			Sources:     cli.EnvVars("AMAL_CONF_THRESHOLD"),
			Destination: &confValue,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, backendFlags(&cfg)...)

	return &cli.Command{
		Name:      "analyze",
		Usage:     "Classify a breast ultrasound image",
		ArgsUsage: "<image file>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("image file is required")
			}

			ctx, closer, err := cfg.setupLogger(ctx)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			bus := eventbus.New()
			registerEventLogging(ctx, bus)

			analyzer := analyze.New(cfg.newDetector(ctx), bus)
			result, err := runAnalysis(ctx, analyzer, c.Args().First(), confValue)
			if err != nil {
				return err
			}

			printAnalysis(c.Root().Writer, result)
			return nil
		},
	}
}

func runAnalysis(ctx context.Context, analyzer *analyze.Analyzer, path string, confThreshold float64) (*analyze.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read image", goerr.V("path", path))
	}

	return analyzer.Run(ctx, data, confThreshold)
}

func printAnalysis(w io.Writer, result *analyze.Result) {
	if len(result.Boxes) == 0 {
		fmt.Fprintln(w, "No mass detected in the image.")
		return
	}

	fmt.Fprintf(w, "Analysis %s: %d detection(s)\n", result.AnalysisID, len(result.Boxes))
	for i, cl := range result.Boxes {
		verdict := "benign"
		if cl.Malignant {
			verdict = "malignant"
		}
		fmt.Fprintf(w, "  #%d %-10s confidence %.2f  [%.0f %.0f %.0f %.0f]\n",
			i+1, verdict, cl.Box.Confidence,
			cl.Box.X1, cl.Box.Y1, cl.Box.X2, cl.Box.Y2)
	}

	fmt.Fprintf(w, "Conclusion: %s (highest confidence %.2f, %d malignant / %d benign)\n",
		result.Condition, result.HighestConfidence,
		result.MalignantCount, result.BenignCount)
}
