package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/amal-assist/amal/pkg/eventbus"
	"github.com/amal-assist/amal/pkg/knowledge"
)

func knowledgeCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "knowledge",
		Usage: "Build the knowledge base and show what was extracted",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, closer, err := cfg.setupLogger(ctx)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			src, err := knowledge.LoadSources(cfg.sourcesPath)
			if err != nil {
				return err
			}

			bus := eventbus.New()
			registerEventLogging(ctx, bus)

			base := knowledge.NewLoader(bus).Build(ctx, src)

			w := c.Root().Writer
			fmt.Fprintf(w, "Sources: %d PDF(s), %d URL(s)\n", len(src.PDFs), len(src.URLs))
			fmt.Fprintf(w, "Knowledge base: %d characters, %d paragraph(s)\n",
				len([]rune(base)), countParagraphs(base))

			return nil
		},
	}
}

func countParagraphs(s string) int {
	n := 0
	for _, p := range strings.Split(s, "\n\n") {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}
