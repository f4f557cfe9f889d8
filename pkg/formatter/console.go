package formatter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/johnsaigle/ghprofile/pkg/languages"
	"github.com/johnsaigle/ghprofile/pkg/types"
	"github.com/johnsaigle/ghprofile/pkg/viewer"
)

const barWidth = 24

var (
	colorCyan = lipgloss.Color("36")
	colorRed  = lipgloss.Color("167")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")
	colorStar = lipgloss.Color("220")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeading = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleStar    = lipgloss.NewStyle().Foreground(colorStar)
)

// ConsoleFormatter formats output for human-readable console display
type ConsoleFormatter struct {
	opts Options
}

// Format writes the snapshot in human-readable console format
func (f *ConsoleFormatter) Format(w io.Writer, snap viewer.Snapshot) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	if snap.State == viewer.Failed {
		fmt.Fprintf(&b, "%s %s\n", styleError.Render("✗"), styleError.Render(snap.Error))
	}

	if snap.Profile != nil {
		f.writeProfile(&b, p, snap.Profile)
	}

	if len(snap.Languages.Entries) > 0 {
		b.WriteString("\n")
		f.writeLanguages(&b, p, snap.Languages)
	}

	if len(snap.Repositories) > 0 {
		b.WriteString("\n")
		f.writeRepositories(&b, p, snap)
	} else if snap.State == viewer.Ready {
		fmt.Fprintf(&b, "\n%s\n", styleDim.Render("No public repositories."))
	}

	if f.opts.Verbose && snap.QueryID != "" {
		source := "fetched"
		if snap.FromCache {
			source = "cached"
		}
		fmt.Fprintf(&b, "\n%s\n", styleDim.Render(fmt.Sprintf("query %s (%s)", snap.QueryID, source)))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *ConsoleFormatter) writeProfile(b *strings.Builder, p *message.Printer, profile *types.Profile) {
	title := styleTitle.Render(profile.DisplayName())
	if profile.Name != "" {
		title += " " + styleDim.Render("@"+profile.Login)
	}
	fmt.Fprintln(b, title)

	if profile.Bio != "" {
		fmt.Fprintf(b, "  %s\n", profile.Bio)
	}
	if profile.HTMLURL != "" {
		fmt.Fprintf(b, "  %s\n", styleDim.Render(profile.HTMLURL))
	}
	p.Fprintf(b, "  %s %d  %s %d  %s %d\n",
		styleLabel.Render("Followers:"), profile.Followers,
		styleLabel.Render("Following:"), profile.Following,
		styleLabel.Render("Repos:"), profile.PublicRepos)
}

func (f *ConsoleFormatter) writeLanguages(b *strings.Builder, p *message.Printer, stats types.LanguageStats) {
	fmt.Fprintf(b, "%s %s\n", styleHeading.Render("Language Usage"), styleDim.Render("("+string(stats.Weighting)+")"))

	width := 0
	for _, e := range stats.Entries {
		width = max(width, lipgloss.Width(e.Language))
	}

	for _, e := range stats.Entries {
		filled := int(math.Round(e.Percent / 100 * barWidth))
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(languages.Color(e.Language))).
			Render(strings.Repeat("█", filled))
		bar += styleDim.Render(strings.Repeat("░", barWidth-filled))

		weight := p.Sprintf("%d repos", e.Weight)
		if stats.ByteAccurate() {
			weight = humanize.Bytes(uint64(e.Weight))
		}
		fmt.Fprintf(b, "  %-*s %s %5.1f%%  %s\n", width, e.Language, bar, e.Percent, styleDim.Render(weight))
	}
}

func (f *ConsoleFormatter) writeRepositories(b *strings.Builder, p *message.Printer, snap viewer.Snapshot) {
	repos := snap.Page.Visible
	heading := fmt.Sprintf("(page %d of %d, %s total)", snap.Page.Current, snap.Page.TotalPages,
		p.Sprintf("%d", len(snap.Repositories)))
	if f.opts.AllRepos {
		repos = snap.Repositories
		heading = p.Sprintf("(%d total)", len(snap.Repositories))
	}
	fmt.Fprintf(b, "%s %s\n", styleHeading.Render("Repositories"), styleDim.Render(heading))

	now := f.opts.now()
	for _, r := range repos {
		line := fmt.Sprintf("  %s %s", r.Name, styleStar.Render(p.Sprintf("★ %d", r.Stars)))
		if r.HasLanguage() {
			line += " " + lipgloss.NewStyle().Foreground(lipgloss.Color(languages.Color(r.Language))).Render(r.Language)
		}
		if !r.PushedAt.IsZero() {
			line += " " + styleDim.Render("pushed "+humanize.RelTime(r.PushedAt, now, "ago", "from now"))
		}
		fmt.Fprintln(b, line)
		if f.opts.Verbose && r.HTMLURL != "" {
			fmt.Fprintf(b, "    %s\n", styleDim.Render(r.HTMLURL))
		}
	}
}

// ShouldExit returns the exit code for the snapshot
func (f *ConsoleFormatter) ShouldExit(snap viewer.Snapshot) int {
	return exitCode(f.opts, snap)
}
