// Package setup holds the interactive pieces of the CLI.
package setup

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// ConfirmWithdrawal asks the operator to approve the sized withdrawal
// before it is submitted. Used only when --confirm is set; the default
// run stays fully scripted.
func ConfirmWithdrawal(burnAmount, minReceived, symbol string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Submit withdrawal?").
				Description(fmt.Sprintf("Burn %s LP for at least %s %s.", burnAmount, minReceived, symbol)).
				Affirmative("Withdraw").
				Negative("Abort").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
