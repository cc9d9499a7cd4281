package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/scenario"
)

var (
	runScenario      string
	runMaxDeposit    uint64
	runMaxRewardRate uint64
)

func init() {
	runCmd.Flags().StringVarP(&runScenario, "scenario", "s", "", "Run only the named scenario")
	runCmd.Flags().Uint64Var(&runMaxDeposit, "max-deposit", ledger.DefaultMaxDeposit, "Deposit ceiling for the checked ledger")
	runCmd.Flags().Uint64Var(&runMaxRewardRate, "max-reward-rate", ledger.DefaultMaxRewardRate, "Reward rate ceiling for the checked ledger")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run scenarios in process against both ledgers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scenarios, err := selectScenarios(runScenario)
		if err != nil {
			return err
		}

		// Scenario limits apply unless a ceiling was set explicitly.
		if cmd.Flags().Changed("max-deposit") || cmd.Flags().Changed("max-reward-rate") {
			for i := range scenarios {
				limits := scenarios[i].EffectiveLimits()
				if cmd.Flags().Changed("max-deposit") {
					limits.MaxDeposit = runMaxDeposit
				}
				if cmd.Flags().Changed("max-reward-rate") {
					limits.MaxRewardRate = runMaxRewardRate
				}
				scenarios[i].Limits = limits
			}
		}

		comparisons, err := scenario.CompareAll(cmd.Context(), scenarios)
		if err != nil {
			return err
		}
		demonstrated := 0
		for _, cmp := range comparisons {
			if err := renderComparison(cmp); err != nil {
				return err
			}
			if cmp.Demonstrates() {
				demonstrated++
			}
		}
		pterm.Info.Printfln("%d of %d scenarios corrupted the wrapping ledger while the checked ledger held", demonstrated, len(comparisons))
		return nil
	},
}

func selectScenarios(name string) ([]scenario.Scenario, error) {
	if name == "" {
		return scenario.Builtin(), nil
	}
	s, ok := scenario.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q, see 'harness list'", name)
	}
	return []scenario.Scenario{s}, nil
}
