package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var commonCurrencies = predict.Set{"USD", "EUR", "GBP", "JPY", "INR", "CHF", "CAD", "AUD", "CNY", "SGD"}

// completionTree describes fxctl's commands and flags for shell completion.
func completionTree() *complete.Command {
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"api-url":          predict.Nothing,
			"token":            predict.Nothing,
			"jwt-secret":       predict.Nothing,
			"jwt-issuer":       predict.Nothing,
			"scheduler-secret": predict.Nothing,
			"timeout":          predict.Set{"10s", "30s", "1m"},
		},
		Sub: map[string]*complete.Command{
			"convert": {
				Flags: map[string]complete.Predictor{"d": predict.Nothing},
				Args:  commonCurrencies,
			},
			"rates": {
				Flags: map[string]complete.Predictor{
					"from": commonCurrencies,
					"to":   commonCurrencies,
					"n":    predict.Nothing,
				},
			},
			"refresh": {
				Flags: map[string]complete.Predictor{"last": predict.Nothing},
			},
			"balance": {
				Flags: map[string]complete.Predictor{"c": commonCurrencies},
			},
			"breakdown":  {},
			"completion": {},
			"help":       {},
			"flags":      {},
		},
	}
}

// Complete answers a shell completion request for name and exits, or returns when the
// process was not started by the shell's completion hook.
func Complete(name string) {
	completionTree().Complete(name)
}

type completionCmd struct{}

func (*completionCmd) Name() string     { return "completion" }
func (*completionCmd) Synopsis() string { return "explain how to enable shell completion" }
func (*completionCmd) Usage() string {
	return `fxctl completion
`
}

func (*completionCmd) SetFlags(*flag.FlagSet) {}

func (*completionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Println("To install completion for bash, zsh or fish run:")
	fmt.Println()
	fmt.Println("  COMP_INSTALL=1 fxctl")
	fmt.Println()
	fmt.Println("and COMP_UNINSTALL=1 fxctl to remove it.")
	return subcommands.ExitSuccess
}
