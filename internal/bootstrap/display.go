package bootstrap

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/juniorxam/Gestaodevendas/internal/config"
	"github.com/juniorxam/Gestaodevendas/internal/version"
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#42E7FF"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4473"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE763"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60F281"))
)

// printBanner emits the fixed product banner before anything else runs.
func (b *Bootstrapper) printBanner() {
	fmt.Fprintln(b.out)
	fmt.Fprintln(b.out, bannerStyle.Render(" ========================================"))
	fmt.Fprintln(b.out, bannerStyle.Render("  "+config.AppTitle))
	fmt.Fprintln(b.out, bannerStyle.Render(" ========================================"))
	fmt.Fprintf(b.out, "\n Launcher v%s\n\n", version.LauncherVersion)
}

// printProbeFailure tells the operator how to remediate a missing runtime.
func (b *Bootstrapper) printProbeFailure(err error) {
	fmt.Fprintln(b.out)
	fmt.Fprintln(b.out, errorStyle.Render(" ERRO: runtime não encontrado."))
	fmt.Fprintf(b.out, " %v\n\n", err)
	fmt.Fprintf(b.out, " Instale %q e verifique se está no PATH antes de tentar novamente.\n",
		b.config.RuntimeProbe.Name)
}

// printFooter reports how the application stopped. The generic advice line
// prints for every exit class; the headline differs so a crash reads
// differently from a clean shutdown.
func (b *Bootstrapper) printFooter(status ExitStatus) {
	fmt.Fprintln(b.out)
	switch status.Class {
	case ExitClean:
		fmt.Fprintln(b.out, successStyle.Render(" O sistema foi encerrado normalmente."))
	case ExitSignaled:
		fmt.Fprintf(b.out, "%s\n",
			warningStyle.Render(fmt.Sprintf(" O sistema foi interrompido (sinal: %s).", status.Signal)))
	default:
		fmt.Fprintf(b.out, "%s\n",
			errorStyle.Render(fmt.Sprintf(" O sistema terminou com erro (código %d).", status.Code)))
	}
	fmt.Fprintln(b.out, " O programa parou de ser executado. Verifique as mensagens acima.")
}
