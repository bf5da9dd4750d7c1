package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/amal-assist/amal/pkg/adapter"
	"github.com/amal-assist/amal/pkg/eventbus"
	"github.com/amal-assist/amal/pkg/lang"
	"github.com/amal-assist/amal/pkg/model"
	"github.com/amal-assist/amal/pkg/usecase/analyze"
	"github.com/amal-assist/amal/pkg/usecase/chat"
	"github.com/amal-assist/amal/pkg/utils/logging"
)

func chatCommand() *cli.Command {
	var (
		cfg       config
		imagePath string
		confValue float64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "image",
			Aliases:     []string{"i"},
			Usage:       "Analyze this image before starting the conversation",
			Sources:     cli.EnvVars("AMAL_IMAGE"),
			Destination: &imagePath,
		},
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
		Name:  "chat",
		Usage: "Interactive conversation about breast cancer",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, closer, err := cfg.setupLogger(ctx)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			w := c.Root().Writer
			bus := eventbus.New()
			registerEventLogging(ctx, bus)

			session := model.NewSession()
			bus.Publish(ctx, model.EventStartup, map[string]any{
				"session_id": string(session.ID),
			})

			sp := newSpinner(w)
			sp.Suffix = " loading knowledge base..."
			sp.Start()
			knowledgeBase := cfg.buildKnowledge(ctx, bus)
			sp.Stop()

			responder := chat.New(chat.NewInput{
				Generator:     cfg.newGenerator(ctx),
				Bus:           bus,
				Detector:      lang.NewDetector(),
				KnowledgeBase: knowledgeBase,
			})

			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return goerr.Wrap(err, "failed to read image", goerr.V("path", imagePath))
				}
				analyzer := analyze.New(cfg.newDetector(ctx), bus)
				session.Condition = preloadCondition(ctx, w, analyzer, data, confValue)
			}

			storage, err := cfg.newStorage()
			if err != nil {
				return err
			}

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize prompt")
			}
			defer rl.Close()

			fmt.Fprintf(w, "Chat session started. Type 'exit' to quit, '/help' for commands.\n")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				input := strings.TrimSpace(line)
				if input == "" {
					continue
				}
				if input == "exit" {
					break
				}

				if strings.HasPrefix(input, "/") {
					if err := runSlashCommand(ctx, w, input, bus, session, storage); err != nil {
						fmt.Fprintf(w, "error: %v\n", err)
					}
					continue
				}

				sp := newSpinner(w)
				sp.Suffix = " thinking..."
				sp.Start()
				received := 0
				reply := responder.Respond(ctx, session, input, func(chunk string) {
					received += len([]rune(chunk))
					sp.Suffix = fmt.Sprintf(" generating... (%d chars)", received)
				})
				sp.Stop()

				fmt.Fprintf(w, "%s\n\n", reply)
			}

			bus.Publish(ctx, model.EventSessionEnd, map[string]any{
				"session_id":       string(session.ID),
				"session_duration": time.Since(session.StartedAt).Seconds(),
			})

			fmt.Fprintf(w, "\nChat session completed\n")
			return nil
		},
	}
}

// preloadCondition analyzes the image before the conversation starts.
// Analysis failure is not fatal: the failure is shown to the user, the
// detection module has already reported it on the bus, and the session
// opens without a detected condition.
func preloadCondition(ctx context.Context, w io.Writer, analyzer *analyze.Analyzer, image []byte, confThreshold float64) model.Condition {
	result, err := analyzer.Run(ctx, image, confThreshold)
	if err != nil {
		logging.From(ctx).Warn("image analysis unavailable", "error", err)
		fmt.Fprintf(w, "Image analysis unavailable: %v\n", err)
		return model.ConditionNone
	}

	printAnalysis(w, result)
	return result.Condition
}

// runSlashCommand handles the in-session commands: event history
// save/clear and conversation reset.
func runSlashCommand(ctx context.Context, w io.Writer, input string, bus *eventbus.Bus, session *model.Session, storage adapter.Storage) error {
	fields := strings.Fields(input)

	switch fields[0] {
	case "/help":
		fmt.Fprintln(w, "/save [name]  save event history as JSON")
		fmt.Fprintln(w, "/clear        clear event history")
		fmt.Fprintln(w, "/reset        reset the conversation")
		fmt.Fprintln(w, "exit          quit")

	case "/save":
		name := "session_history_" + string(session.ID) + ".json"
		if len(fields) > 1 {
			name = fields[1]
		}
		f, err := storage.Put(ctx, name)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := bus.SaveHistory(f); err != nil {
			return err
		}
		fmt.Fprintf(w, "Event history saved as %s\n", name)

	case "/clear":
		bus.ClearHistory()
		fmt.Fprintln(w, "Event history cleared")

	case "/reset":
		bus.Publish(ctx, model.EventSessionEnd, map[string]any{
			"session_id":       string(session.ID),
			"session_duration": time.Since(session.StartedAt).Seconds(),
		})
		session.Reset()
		fmt.Fprintf(w, "Conversation reset, new session %s\n", session.ID)

	default:
		fmt.Fprintf(w, "Unknown command %q, try /help\n", fields[0])
	}

	return nil
}

// registerEventLogging subscribes log output to the bus so every
// message exchange and error ends up in the application log.
func registerEventLogging(ctx context.Context, bus *eventbus.Bus) {
	logger := logging.From(ctx)

	_ = bus.Register(model.EventMessage, func(ctx context.Context, payload map[string]any) {
		logger.Info("message exchanged", "language", payload["detected_language"])
	})
	_ = bus.Register(model.EventError, func(ctx context.Context, payload map[string]any) {
		logger.Warn("component error",
			"error_type", payload["error_type"],
			"module", payload["module"],
		)
	})
}

func newSpinner(w io.Writer) *spinner.Spinner {
	return spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(asStderr(w)))
}

// asStderr keeps spinner output off the conversation stream when the
// command writer is stdout.
func asStderr(w io.Writer) io.Writer {
	if w == os.Stdout {
		return os.Stderr
	}
	return w
}
