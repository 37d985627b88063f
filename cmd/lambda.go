package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lambda",
		Aliases: []string{"l"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}

			logger.Info("lambda starting...")
			lambda.StartWithOptions(rt.HandleEvent,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}

	return cmd
}
