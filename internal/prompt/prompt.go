// Package prompt renders candidate confirmation prompts on the terminal.
// Single-accept shows a styled card for each candidate and asks a y/N
// question; AutoApprove replaces the interactive surface in scripts and
// tests.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"jaehyun/sms-ledger/internal/models"

	"github.com/charmbracelet/lipgloss"
)

// Confirmer asks the user whether one candidate should be submitted.
type Confirmer interface {
	Confirm(candidate models.ExpenseCandidate) (bool, error)
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(10)

	amountStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	lowConfidenceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))
)

// TerminalConfirmer prompts on out and reads answers from in.
type TerminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalConfirmer creates a confirmer over the given streams.
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm renders the candidate card and asks y/N. Anything other than an
// explicit yes declines.
func (c *TerminalConfirmer) Confirm(candidate models.ExpenseCandidate) (bool, error) {
	fmt.Fprintln(c.out, RenderCard(candidate))
	fmt.Fprint(c.out, "Add this expense? [y/N] ")

	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("error reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// AutoApprove answers yes to everything. Used by --yes and in tests.
type AutoApprove struct{}

// Confirm always approves.
func (AutoApprove) Confirm(models.ExpenseCandidate) (bool, error) { return true, nil }

// RenderCard formats one candidate as a bordered summary card.
func RenderCard(candidate models.ExpenseCandidate) string {
	confidence := fmt.Sprintf("%.0f%%", candidate.Confidence*100)
	if candidate.Confidence < 0.7 {
		confidence = lowConfidenceStyle.Render(confidence + " (check the details)")
	}

	rows := []string{
		labelStyle.Render("Amount") + amountStyle.Render(FormatAmount(candidate.Amount)+"원"),
		labelStyle.Render("Merchant") + candidate.Merchant,
		labelStyle.Render("Category") + candidate.Category,
		labelStyle.Render("Date") + candidate.Date.Format("2006-01-02 15:04"),
		labelStyle.Render("Confidence") + confidence,
	}
	if candidate.Issuer != "" {
		rows = append(rows[:1], append([]string{labelStyle.Render("Issuer") + candidate.Issuer}, rows[1:]...)...)
	}

	return cardStyle.Render(strings.Join(rows, "\n"))
}

// FormatAmount renders an amount in won with thousands separators.
func FormatAmount(amount int64) string {
	text := fmt.Sprintf("%d", amount)
	if len(text) <= 3 {
		return text
	}
	var sb strings.Builder
	lead := len(text) % 3
	if lead > 0 {
		sb.WriteString(text[:lead])
	}
	for i := lead; i < len(text); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(text[i : i+3])
	}
	return sb.String()
}
