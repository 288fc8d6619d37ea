package tui

import (
	"fmt"
	"strings"
	"time"

	"social-media-bot/internal/analytics"
	"social-media-bot/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DashboardView 决定当前展示的页面
type DashboardView int

const (
	ViewSummary DashboardView = iota
	ViewFeatures
	ViewPlatforms
	ViewErrors
	ViewRecent
)

const refreshInterval = 10 * time.Second

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	costStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
)

// snapshot 一次查询得到的全部展示数据
type snapshot struct {
	total     *model.TotalStats
	today     *model.TodayStats
	estimate  float64
	features  []model.FeatureUsage
	platforms []model.PlatformDownloads
	topUsers  []model.TopUser
	errors    []model.ErrorStat
	recent    []model.UserActivity
	err       error
}

type refreshMsg struct{ data *snapshot }

type tickMsg time.Time

// Model 分析仪表盘
type Model struct {
	store *analytics.Store
	view  DashboardView
	data  *snapshot
	width int
}

func New(store *analytics.Store) Model {
	return Model{store: store}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refresh() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		data := &snapshot{}

		if data.total, data.err = store.TotalStats(); data.err != nil {
			return refreshMsg{data}
		}
		if data.today, data.err = store.TodayStats(); data.err != nil {
			return refreshMsg{data}
		}
		if data.estimate, data.err = store.EstimateMonthlyCost(); data.err != nil {
			return refreshMsg{data}
		}
		if data.features, data.err = store.FeatureUsage(); data.err != nil {
			return refreshMsg{data}
		}
		if data.platforms, data.err = store.PlatformDownloads(); data.err != nil {
			return refreshMsg{data}
		}
		if data.topUsers, data.err = store.TopUsers(10); data.err != nil {
			return refreshMsg{data}
		}
		if data.errors, data.err = store.ErrorStats(20); data.err != nil {
			return refreshMsg{data}
		}
		data.recent, data.err = store.RecentActivity(20)
		return refreshMsg{data}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		case "1":
			m.view = ViewSummary
		case "2":
			m.view = ViewFeatures
		case "3":
			m.view = ViewPlatforms
		case "4":
			m.view = ViewErrors
		case "5":
			m.view = ViewRecent
		case "tab":
			m.view = (m.view + 1) % 5
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshMsg:
		m.data = msg.data
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📊 Bot Analytics Dashboard"))
	b.WriteString("\n\n")

	if m.data == nil {
		b.WriteString("Loading analytics...")
		return b.String()
	}
	if m.data.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.data.err.Error()))
		return b.String()
	}

	switch m.view {
	case ViewFeatures:
		b.WriteString(m.renderFeatures())
	case ViewPlatforms:
		b.WriteString(m.renderPlatforms())
	case ViewErrors:
		b.WriteString(m.renderErrors())
	case ViewRecent:
		b.WriteString(m.renderRecent())
	default:
		b.WriteString(m.renderSummary())
	}

	b.WriteString(helpStyle.Render("\n[1] Summary  [2] Features  [3] Platforms  [4] Errors  [5] Recent  [r] Refresh  [q] Quit"))
	return b.String()
}

func (m Model) renderSummary() string {
	var b strings.Builder
	total, today := m.data.total, m.data.today

	b.WriteString(sectionStyle.Render("Totals"))
	b.WriteString("\n")
	b.WriteString(row("Users", fmt.Sprintf("%d", total.TotalUsers)))
	b.WriteString(row("API Calls", fmt.Sprintf("%d", total.TotalAPICalls)))
	b.WriteString(row("Downloads", fmt.Sprintf("%d", total.TotalDownloads)))
	b.WriteString(row("Tokens", fmt.Sprintf("%d", total.TotalTokens)))
	b.WriteString("  " + labelStyle.Render("Total Cost:    ") + costStyle.Render(fmt.Sprintf("$%.4f", total.TotalCost)) + "\n")

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Today"))
	b.WriteString("\n")
	b.WriteString(row("Users", fmt.Sprintf("%d", today.TodayUsers)))
	b.WriteString(row("API Calls", fmt.Sprintf("%d", today.TodayAPICalls)))
	b.WriteString(row("Downloads", fmt.Sprintf("%d", today.TodayDownloads)))
	b.WriteString("  " + labelStyle.Render("Today Cost:    ") + costStyle.Render(fmt.Sprintf("$%.4f", today.TodayCost)) + "\n")

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Projection"))
	b.WriteString("\n")
	b.WriteString("  " + labelStyle.Render("Est. Monthly:  ") + costStyle.Render(fmt.Sprintf("$%.2f", m.data.estimate)) + "\n")

	if len(m.data.topUsers) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Top Users"))
		b.WriteString("\n")
		for _, u := range m.data.topUsers {
			b.WriteString(fmt.Sprintf("  %-20s %s\n",
				valueStyle.Render("@"+u.Username),
				labelStyle.Render(fmt.Sprintf("%d actions", u.ActivityCount))))
		}
	}

	return b.String()
}

func (m Model) renderFeatures() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Feature Usage"))
	b.WriteString("\n")

	if len(m.data.features) == 0 {
		b.WriteString(labelStyle.Render("  No API usage recorded yet"))
		return b.String()
	}

	for _, f := range m.data.features {
		b.WriteString(fmt.Sprintf("  %-16s %6d calls  %8d tokens  %s\n",
			valueStyle.Render(f.Feature),
			f.UsageCount,
			f.TotalTokens,
			costStyle.Render(fmt.Sprintf("$%.4f", f.TotalCost))))
	}
	return b.String()
}

func (m Model) renderPlatforms() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Platform Downloads"))
	b.WriteString("\n")

	if len(m.data.platforms) == 0 {
		b.WriteString(labelStyle.Render("  No downloads recorded yet"))
		return b.String()
	}

	for _, p := range m.data.platforms {
		b.WriteString(fmt.Sprintf("  %-12s %6d total  %6d ok  %6d failed  %s\n",
			valueStyle.Render(p.Platform),
			p.DownloadCount,
			p.Successful,
			p.Failed,
			labelStyle.Render(fmt.Sprintf("%.0f%%", p.GetSuccessRate()*100))))
	}
	return b.String()
}

func (m Model) renderErrors() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Errors"))
	b.WriteString("\n")

	if len(m.data.errors) == 0 {
		b.WriteString(labelStyle.Render("  No errors recorded 🎉"))
		return b.String()
	}

	for _, e := range m.data.errors {
		b.WriteString(fmt.Sprintf("  %-16s %4d×  %s\n",
			valueStyle.Render(e.Feature),
			e.ErrorCount,
			errorStyle.Render(truncate(e.ErrorMessage, 60))))
	}
	return b.String()
}

func (m Model) renderRecent() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Recent Activity"))
	b.WriteString("\n")

	if len(m.data.recent) == 0 {
		b.WriteString(labelStyle.Render("  No activity recorded yet"))
		return b.String()
	}

	for _, a := range m.data.recent {
		b.WriteString(fmt.Sprintf("  %s  %-14s %s\n",
			labelStyle.Render(a.Timestamp.Format("01-02 15:04")),
			valueStyle.Render(a.Action),
			labelStyle.Render("@"+a.Username)))
	}
	return b.String()
}

func row(label, value string) string {
	return fmt.Sprintf("  %s%s\n",
		labelStyle.Render(fmt.Sprintf("%-15s", label+":")),
		valueStyle.Render(value))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
