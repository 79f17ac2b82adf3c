package cmds

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/parlance/pkg/tokens"
)

func NewTokensCommand() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "tokens [text...]",
		Short: "Count tokens in text using the model's tokenizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				text = string(data)
			}

			count, err := tokens.EstimateText(model, text)
			if err != nil {
				return err
			}

			fmt.Printf("Model: %s\n", model)
			fmt.Printf("Total tokens: %d\n", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "gpt-4", "model used for encoding")

	return cmd
}
