package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/congo-pay/arithguard/internal/scenario"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := pterm.TableData{{"Name", "Steps", "Description"}}
		for _, s := range scenario.Builtin() {
			data = append(data, []string{s.Name, fmt.Sprint(len(s.Steps)), s.Description})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}
