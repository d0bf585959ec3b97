// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskmgr/internal/controller"
)

// descIndent lines up descriptions under the title column.
const descIndent = "      "

// FormatCard formats one task card.
// Format: "{ID:>4}  {TITLE}\n" followed by each description line indented
// under the title.
func FormatCard(w io.Writer, card controller.Card) {
	fmt.Fprintf(w, "%4d  %s\n", card.ID, card.Heading)

	body := strings.ReplaceAll(card.Body, "\r\n", "\n")
	if strings.TrimSpace(body) == "" {
		return
	}
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(w, "%s%s\n", descIndent, line)
	}
}

// FormatList formats every card in store order. An empty list writes
// nothing; callers pick their own empty-state text.
func FormatList(w io.Writer, st controller.State) {
	for _, card := range st.Cards() {
		FormatCard(w, card)
	}
}
