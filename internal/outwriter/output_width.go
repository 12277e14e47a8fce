package outwriter

import (
	"os"

	"github.com/lootlens/lootlens/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNameWidth calculates the maximum width for item names in table output
// based on terminal width and the number of other columns.
func GetMaxTableNameWidth(cfg *contract.Config, columns int) int {
	termWidth := cfg.Width

	if termWidth <= 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Every other column gets roughly 12 characters with borders and padding
	available := termWidth - 12*max(columns-1, 0) - 4
	if available < 12 {
		return 12
	}
	if available > 48 {
		return 48
	}
	return available
}
