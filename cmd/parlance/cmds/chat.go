package cmds

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	input "github.com/tcnksm/go-input"

	"github.com/go-go-golems/parlance/pkg/content"
	"github.com/go-go-golems/parlance/pkg/session"
	"github.com/go-go-golems/parlance/pkg/tokens"
)

func NewChatCommand() *cobra.Command {
	var model string
	var systemPrompt string
	var sessionPath string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := session.NewOpenAIManager(viper.GetString("openai-api-key"))

			var sess *session.Session
			if sessionPath != "" {
				restored, err := manager.LoadSession(sessionPath)
				switch {
				case err == nil:
					sess = restored
					log.Info().Str("path", sessionPath).Msg("restored session")
					if model != "" {
						sess.SetModel(model)
					}
				case errors.Is(err, session.ErrNotFound):
					// fresh session, saved to that path on exit
				default:
					return err
				}
			}
			if sess == nil {
				var options []session.SessionOption
				if systemPrompt != "" {
					options = append(options, session.WithSystemPrompt(systemPrompt))
				}
				if model == "" {
					model = "gpt-4o-mini"
				}
				sess = manager.NewSession(model, options...)
			}

			err := runChatLoop(sess)
			if err != nil {
				return err
			}

			if sessionPath != "" {
				if err := sess.Save(sessionPath); err != nil {
					return err
				}
				fmt.Printf("session saved to %s\n", sessionPath)
			}

			printUsage(sess.Usage)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model to chat with")
	cmd.Flags().StringVarP(&systemPrompt, "system", "s", "", "system prompt for a new session")
	cmd.Flags().StringVar(&sessionPath, "session", "", "session file to restore from and save to")

	return cmd
}

func runChatLoop(sess *session.Session) error {
	ui := &input.UI{
		Writer: os.Stdout,
		Reader: os.Stdin,
	}

	fmt.Println("type a message, /image <path-or-url> <text> to attach an image,")
	fmt.Println("/clear to deactivate the conversation, /tokens for an estimate, /quit to leave")

	for {
		line, err := ui.Ask("you", &input.Options{
			Required:  false,
			HideOrder: true,
		})
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/clear":
			sess.History.Clear(false)
			fmt.Println("conversation deactivated, system prompt kept")
			continue
		case line == "/tokens":
			estimate, err := tokens.EstimateMessages(sess.Model, sess.History.BuildMessages())
			if err != nil {
				fmt.Printf("could not estimate: %s\n", err)
				continue
			}
			fmt.Printf("~%d tokens in the active set\n", estimate)
			continue
		case strings.HasPrefix(line, "/image "):
			if err := sendImage(sess, strings.TrimPrefix(line, "/image ")); err != nil {
				fmt.Printf("error: %s\n", err)
			}
			continue
		}

		reply, err := sess.Send(context.Background(), line)
		if err != nil {
			fmt.Printf("error: %s\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", reply)
	}
}

func sendImage(sess *session.Session, rest string) error {
	fields := strings.SplitN(strings.TrimSpace(rest), " ", 2)
	if len(fields) == 0 || fields[0] == "" {
		return errors.New("usage: /image <path-or-url> <text>")
	}

	parts := []interface{}{content.NewImage(fields[0])}
	if len(fields) == 2 && strings.TrimSpace(fields[1]) != "" {
		parts = append([]interface{}{strings.TrimSpace(fields[1])}, parts...)
	}

	reply, err := sess.Send(context.Background(), parts...)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s\n\n", reply)
	return nil
}
