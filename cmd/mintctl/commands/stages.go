package commands

import (
	"github.com/spf13/cobra"

	"mintgate/internal/mint/bootstrap"
)

func newStagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stages",
		Short: "Validate stage files",
	}

	var file string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a stages file and print the parsed stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			stages, err := bootstrap.LoadStages(file)
			if err != nil {
				return err
			}
			type row struct {
				Index     int    `json:"index"`
				Price     string `json:"price"`
				Public    bool   `json:"public"`
				StartTime int64  `json:"start_time"`
				EndTime   int64  `json:"end_time"`
			}
			rows := make([]row, len(stages))
			for i, s := range stages {
				rows[i] = row{i, s.UnitPrice().String(), s.IsPublic(), s.StartTime, s.EndTime}
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"valid": true, "stages": rows})
		},
	}
	validateCmd.Flags().StringVarP(&file, "file", "f", "", "stages YAML file")
	_ = validateCmd.MarkFlagRequired("file")

	cmd.AddCommand(validateCmd)
	return cmd
}
