package components

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// ConfirmAction runs a blocking confirmation prompt for a destructive
// operation. All destructive flows (delete, enable/disable) share this
// one prompt so the affirmative/negative wording stays consistent.
func ConfirmAction(title, description string) (bool, error) {
	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Sí").
				Negative("No").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return confirmed, nil
}
