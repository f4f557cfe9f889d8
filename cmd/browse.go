package cmd

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/johnsaigle/ghprofile/pkg/formatter"
	"github.com/johnsaigle/ghprofile/pkg/viewer"
)

var (
	browseHelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	browseLoadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <username>",
		Short: "Page through a profile's repositories interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := a.newViewer(ctx)
			if err != nil {
				return err
			}

			fmtr, _ := formatter.New("console", formatter.Options{Verbose: opts.verbose})
			m := newBrowseModel(ctx, v, fmtr, args[0], opts.token)

			_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// queryDoneMsg is sent when the background query finishes.
type queryDoneMsg struct {
	err error
}

// browseModel is the bubbletea model driving the repository pager.
type browseModel struct {
	ctx     context.Context
	viewer  *viewer.Viewer
	fmtr    formatter.Formatter
	handle  string
	token   string
	snap    viewer.Snapshot
	loading bool
}

func newBrowseModel(ctx context.Context, v *viewer.Viewer, fmtr formatter.Formatter, handle, tok string) *browseModel {
	return &browseModel{ctx: ctx, viewer: v, fmtr: fmtr, handle: handle, token: tok, loading: true}
}

func (m *browseModel) submit() tea.Cmd {
	return func() tea.Msg {
		return queryDoneMsg{err: m.viewer.SubmitQuery(m.ctx, m.handle, m.token)}
	}
}

// Init implements tea.Model.
func (m *browseModel) Init() tea.Cmd {
	return m.submit()
}

// Update implements tea.Model.
func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case queryDoneMsg:
		m.loading = false
		m.snap = m.viewer.Snapshot()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "p":
			m.turn(-1)
		case "right", "l", "n":
			m.turn(1)
		case "r":
			if !m.loading {
				m.loading = true
				return m, m.submit()
			}
		}
	}
	return m, nil
}

func (m *browseModel) turn(delta int) {
	if m.loading {
		return
	}
	if m.viewer.GoToPage(m.snap.Page.Current + delta) {
		m.snap = m.viewer.Snapshot()
	}
}

// View implements tea.Model.
func (m *browseModel) View() string {
	if m.loading {
		return browseLoadingStyle.Render("Loading "+m.handle+"...") + "\n"
	}

	var b strings.Builder
	_ = m.fmtr.Format(&b, m.snap)
	b.WriteString("\n")
	b.WriteString(browseHelpStyle.Render("←/h prev • →/l next • r refresh • q quit"))
	b.WriteString("\n")
	return b.String()
}
