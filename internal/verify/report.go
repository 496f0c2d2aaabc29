package verify

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SuccessMessage is printed after a run in which every case passed.
const SuccessMessage = "OK!"

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(36)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(8)
)

// Render writes one line per case and a closing verdict.
func (r *Report) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, titleStyle.Render(r.Suite)); err != nil {
		return err
	}

	for _, res := range r.Results {
		var status string
		switch {
		case res.Skipped:
			status = skipStyle.Render("SKIP")
		case res.Err != nil:
			status = failStyle.Render("FAIL")
		default:
			status = passStyle.Render("PASS")
		}

		line := fmt.Sprintf("  %s  %s", status, nameStyle.Render(res.Name))
		if !res.Skipped {
			line += skipStyle.Render(res.Duration.Round(time.Microsecond).String())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if res.Err != nil {
			if _, err := fmt.Fprintln(w, errStyle.Render(res.Err.Error())); err != nil {
				return err
			}
		}
	}

	if r.Passed() {
		_, err := fmt.Fprintln(w, SuccessMessage)
		return err
	}

	failed := len(r.Failures())
	_, err := fmt.Fprintln(w, failStyle.Render(fmt.Sprintf("FAILED (%d of %d)", failed, len(r.Results))))
	return err
}
