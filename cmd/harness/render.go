package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/congo-pay/arithguard/internal/scenario"
)

func renderComparison(cmp scenario.Comparison) error {
	limits := cmp.Scenario.EffectiveLimits()
	pterm.DefaultSection.Println(cmp.Scenario.Name)
	pterm.Println(cmp.Scenario.Description)
	pterm.Printfln("start balance %s SOL, max deposit %s SOL, max reward rate %d",
		scenario.FormatSOL(cmp.Scenario.Setup.Balance), scenario.FormatSOL(limits.MaxDeposit), limits.MaxRewardRate)

	data := pterm.TableData{{"#", "Op", "Amount", "Exact", "Unsafe", "Safe"}}
	for i, step := range cmp.Scenario.Steps {
		data = append(data, []string{
			fmt.Sprint(i + 1),
			string(step.Op),
			fmt.Sprint(step.Amount),
			cmp.Unsafe.Steps[i].Exact,
			outcome(cmp.Unsafe.Steps[i]),
			outcome(cmp.Safe.Steps[i]),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	if hasTokenSteps(cmp.Scenario) {
		if cmp.Demonstrates() {
			pterm.Warning.Printfln("wrapping token vault paid out %d against %d deposited",
				cmp.Unsafe.FinalTokens.TotalWithdrawn, cmp.Unsafe.FinalTokens.TotalDeposited)
		}
		pterm.Success.Printfln("checked token vault paid out %d against %d deposited",
			cmp.Safe.FinalTokens.TotalWithdrawn, cmp.Safe.FinalTokens.TotalDeposited)
		return nil
	}

	if cmp.Demonstrates() {
		pterm.Warning.Printfln("wrapping ledger ended at %s SOL", scenario.FormatSOL(cmp.Unsafe.Final.Balance))
	}
	pterm.Success.Printfln("checked ledger ended at %s SOL", scenario.FormatSOL(cmp.Safe.Final.Balance))
	return nil
}

func hasTokenSteps(s scenario.Scenario) bool {
	for _, step := range s.Steps {
		if step.Op.Tokens() {
			return true
		}
	}
	return false
}

func outcome(r scenario.StepResult) string {
	switch {
	case r.Failed() && r.Kind != "":
		return pterm.LightYellow(fmt.Sprintf("%s (%d)", r.Kind, r.Code))
	case r.Failed():
		return pterm.LightYellow(r.Error)
	case r.Wrapped:
		return pterm.LightRed(fmt.Sprintf("%d WRAPPED", r.Result))
	default:
		return pterm.LightGreen(fmt.Sprint(r.Result))
	}
}
