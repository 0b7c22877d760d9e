package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var headCmd = &cobra.Command{
	Use:   "head <slug>",
	Short: "Print the SEO head tags of a published post or page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		tags, err := app.HeadTags(args[0])
		if err != nil {
			return err
		}
		for _, t := range tags {
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(headCmd)
}
