package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentrace/agentrace/internal/ingest"
	"github.com/agentrace/agentrace/internal/store"
	"github.com/agentrace/agentrace/internal/trace"
)

// tickMsg is sent periodically to poll a live trace file
type tickMsg time.Time

const (
	CtrlC   = "ctrl+c"
	KeyUp   = "up"
	KeyDown = "down"
)

// ViewMode represents the current viewing mode
type ViewMode int

const (
	RunListView ViewMode = iota
	TreeView
	DetailView
)

// DetailTab represents the active tab in the details panel
type DetailTab int

const (
	TabOverview DetailTab = iota
	TabContent
	TabData
	TabTimeline
)

var tabNames = []string{"Overview", "Content", "Data", "Timeline"}

// RunData pairs a run's metadata with its step sequence.
type RunData struct {
	Run   store.Run
	Steps []*trace.Step
}

// Model is the main bubbletea model for the trace viewer
type Model struct {
	// Multi-run support
	allRuns     []RunData
	runCursor   int
	selectedRun int

	// Current run
	runID     string
	run       store.Run
	steps     []*trace.Step
	tree      *trace.Tree
	collapsed map[string]struct{}
	visible   []trace.FlatItem
	cursor    int

	viewMode       ViewMode
	selectedTab    DetailTab
	treeViewport   viewport.Model
	detailViewport viewport.Model
	ready          bool
	width          int
	height         int

	// Computed metrics
	summary  trace.Summary
	duration int64

	// Live follow
	follower   *ingest.Follower
	isLive     bool
	lastUpdate time.Time

	// Search state
	searchMode    bool
	searchQuery   string
	searchMatches []int
	searchIndex   int
}

// NewViewer creates a viewer for a single run. A non-nil follower keeps the
// tree growing as the trace file is appended to.
func NewViewer(runID string, steps []*trace.Step, follower *ingest.Follower) Model {
	m := Model{
		runID:          runID,
		collapsed:      make(map[string]struct{}),
		viewMode:       TreeView,
		selectedTab:    TabOverview,
		treeViewport:   viewport.New(40, 10),
		detailViewport: viewport.New(40, 10),
		follower:       follower,
		isLive:         follower != nil,
		lastUpdate:     time.Now(),
		searchIndex:    -1,
	}
	m.setSteps(steps)
	return m
}

// NewExplorer creates a viewer over multiple stored runs, starting on the
// run list.
func NewExplorer(runs []RunData) Model {
	m := Model{
		allRuns:        runs,
		collapsed:      make(map[string]struct{}),
		viewMode:       RunListView,
		treeViewport:   viewport.New(40, 10),
		detailViewport: viewport.New(40, 10),
		searchIndex:    -1,
	}
	if len(runs) > 0 {
		m.loadRun(0)
	}
	return m
}

// loadRun switches the model to a specific stored run
func (m *Model) loadRun(index int) {
	if index < 0 || index >= len(m.allRuns) {
		return
	}
	run := m.allRuns[index]
	m.selectedRun = index
	m.runID = run.Run.ID
	m.run = run.Run
	m.collapsed = make(map[string]struct{})
	m.cursor = 0
	m.setSteps(run.Steps)
}

// setSteps rebuilds the tree and everything derived from it. Collapse state
// survives rebuilds because it is keyed by step id, so a live append never
// reopens what the user folded away.
func (m *Model) setSteps(steps []*trace.Step) {
	m.steps = steps
	m.tree = trace.Build(steps)
	m.visible = trace.Flatten(m.tree.Roots, m.collapsed)
	m.summary = trace.Summarize(m.tree.Roots)
	m.duration = trace.TraceDuration(m.tree.Roots)
	if m.cursor >= len(m.visible) && len(m.visible) > 0 {
		m.cursor = len(m.visible) - 1
	}
}

// reflatten recomputes the visible list after a collapse change
func (m *Model) reflatten() {
	m.visible = trace.Flatten(m.tree.Roots, m.collapsed)
	if m.cursor >= len(m.visible) && len(m.visible) > 0 {
		m.cursor = len(m.visible) - 1
	}
}

func (m *Model) isCollapsed(id string) bool {
	_, ok := m.collapsed[id]
	return ok
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.isLive {
		return m.tickCmd()
	}
	return nil
}

// tickCmd returns a command that sends a tick after 500ms
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		if m.isLive && m.follower != nil {
			if newSteps, err := m.follower.Poll(); err == nil && len(newSteps) > 0 {
				m.setSteps(append(m.steps, newSteps...))
				m.lastUpdate = time.Now()
			}
			return m, m.tickCmd()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case RunListView:
			return m.updateRunListView(msg)
		case TreeView:
			if m.searchMode {
				return m.updateSearchInput(msg)
			}
			return m.updateTreeView(msg)
		case DetailView:
			return m.updateDetailView(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		availableWidth := msg.Width - 6
		availableHeight := msg.Height - 10

		treeHeight := (availableHeight * 55) / 100
		if treeHeight < 8 {
			treeHeight = 8
		}
		detailHeight := availableHeight - treeHeight
		if detailHeight < 6 {
			detailHeight = 6
		}

		if !m.ready {
			m.treeViewport = viewport.New(availableWidth, treeHeight)
			m.detailViewport = viewport.New(availableWidth, detailHeight)
			m.ready = true
		} else {
			m.treeViewport.Width = availableWidth
			m.treeViewport.Height = treeHeight
			m.detailViewport.Width = availableWidth
			m.detailViewport.Height = detailHeight
		}
	}

	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// updateRunListView handles input in run list view
func (m Model) updateRunListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", CtrlC:
		return m, tea.Quit

	case KeyUp, "k":
		if m.runCursor > 0 {
			m.runCursor--
		}

	case KeyDown, "j":
		if m.runCursor < len(m.allRuns)-1 {
			m.runCursor++
		}

	case "enter", "l", "right":
		if m.runCursor < len(m.allRuns) {
			m.loadRun(m.runCursor)
			m.viewMode = TreeView
		}
	}

	return m, nil
}

func (m Model) updateTreeView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", CtrlC:
		return m, tea.Quit

	case "esc", "backspace":
		if len(m.searchMatches) > 0 {
			m.searchMatches = nil
			m.searchIndex = -1
			m.searchQuery = ""
			return m, nil
		}
		if len(m.allRuns) > 0 {
			m.viewMode = RunListView
			return m, nil
		}
		return m, tea.Quit

	case KeyUp, "k", KeyDown, "j":
		m = m.handleTreeNavigation(msg.String())

	case "enter", " ":
		m = m.handleTreeToggle()

	case "h", "left":
		m = m.handleTreeCollapse()

	case "l", "right":
		m = m.handleTreeExpand()

	case "d":
		if m.cursor < len(m.visible) {
			m.viewMode = DetailView
			m.updateDetailViewport()
		}

	case "1":
		m.selectedTab = TabOverview
	case "2":
		m.selectedTab = TabContent
	case "3":
		m.selectedTab = TabData
	case "4":
		m.selectedTab = TabTimeline

	case "/":
		m.searchMode = true
		m.searchQuery = ""
		return m, nil

	case "n":
		if len(m.searchMatches) > 0 {
			m.searchIndex = (m.searchIndex + 1) % len(m.searchMatches)
			m.cursor = m.searchMatches[m.searchIndex]
		}

	case "N":
		if len(m.searchMatches) > 0 {
			if m.searchIndex <= 0 {
				m.searchIndex = len(m.searchMatches) - 1
			} else {
				m.searchIndex--
			}
			m.cursor = m.searchMatches[m.searchIndex]
		}

	case "e":
		m = m.jumpToError(1)

	case "E":
		m = m.jumpToError(-1)

	case "[", "]":
		m = m.handleRunSwitching(msg.String())
	}

	return m, nil
}

// updateSearchInput handles keyboard input in search mode
func (m Model) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.searchQuery = ""
		return m, nil

	case "enter":
		m.searchMode = false
		m = m.executeSearch()
		return m, nil

	case "backspace":
		if len(m.searchQuery) > 0 {
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
		}
		return m, nil

	default:
		if len(msg.String()) == 1 {
			m.searchQuery += msg.String()
		}
		return m, nil
	}
}

// executeSearch populates matches as indices into the visible list
func (m Model) executeSearch() Model {
	m.searchMatches = nil
	m.searchIndex = -1

	if m.searchQuery == "" {
		return m
	}

	query := strings.ToLower(m.searchQuery)
	for i, item := range m.visible {
		if matchesSearch(item.Node, query) {
			m.searchMatches = append(m.searchMatches, i)
		}
	}

	if len(m.searchMatches) > 0 {
		m.searchIndex = 0
		m.cursor = m.searchMatches[0]
	}
	return m
}

func matchesSearch(n *trace.Node, query string) bool {
	if strings.Contains(strings.ToLower(stepLabel(n)), query) {
		return true
	}
	if strings.Contains(strings.ToLower(string(n.Status)), query) {
		return true
	}
	if n.Step != nil {
		if strings.Contains(strings.ToLower(n.Step.Content), query) {
			return true
		}
		if strings.Contains(strings.ToLower(n.Step.Model), query) {
			return true
		}
		if strings.Contains(strings.ToLower(n.Step.Error), query) {
			return true
		}
	}
	return false
}

func (m Model) handleTreeNavigation(key string) Model {
	switch key {
	case KeyUp, "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case KeyDown, "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	}
	return m
}

func (m Model) handleTreeToggle() Model {
	if m.cursor < len(m.visible) {
		item := m.visible[m.cursor]
		if item.HasChildren {
			if m.isCollapsed(item.Node.ID) {
				delete(m.collapsed, item.Node.ID)
			} else {
				m.collapsed[item.Node.ID] = struct{}{}
			}
			m.reflatten()
		} else {
			m.viewMode = DetailView
			m.updateDetailViewport()
		}
	}
	return m
}

func (m Model) handleTreeCollapse() Model {
	if m.cursor >= len(m.visible) {
		return m
	}
	item := m.visible[m.cursor]
	if item.HasChildren && !m.isCollapsed(item.Node.ID) {
		m.collapsed[item.Node.ID] = struct{}{}
		m.reflatten()
		return m
	}
	// Already folded or a leaf: move the cursor to the parent
	if item.Node.ParentID != "" {
		for i, v := range m.visible {
			if v.Node.ID == item.Node.ParentID {
				m.cursor = i
				break
			}
		}
	}
	return m
}

func (m Model) handleTreeExpand() Model {
	if m.cursor < len(m.visible) {
		item := m.visible[m.cursor]
		if item.HasChildren && m.isCollapsed(item.Node.ID) {
			delete(m.collapsed, item.Node.ID)
			m.reflatten()
		}
	}
	return m
}

// jumpToError moves the cursor to the next (dir=1) or previous (dir=-1)
// errored step, wrapping around
func (m Model) jumpToError(dir int) Model {
	if len(m.visible) == 0 {
		return m
	}
	n := len(m.visible)
	for step := 1; step < n; step++ {
		i := ((m.cursor+dir*step)%n + n) % n
		if m.visible[i].Node.Status == trace.StatusError {
			m.cursor = i
			break
		}
	}
	return m
}

func (m Model) handleRunSwitching(key string) Model {
	if key == "[" && len(m.allRuns) > 0 && m.selectedRun > 0 {
		m.loadRun(m.selectedRun - 1)
		m.runCursor = m.selectedRun
	} else if key == "]" && len(m.allRuns) > 0 && m.selectedRun < len(m.allRuns)-1 {
		m.loadRun(m.selectedRun + 1)
		m.runCursor = m.selectedRun
	}
	return m
}

func (m Model) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q", CtrlC:
		return m, tea.Quit

	case "esc", "backspace":
		m.viewMode = TreeView
		return m, nil

	case "left":
		if m.selectedTab > 0 {
			m.selectedTab--
		} else {
			m.selectedTab = TabTimeline
		}
		m.updateDetailViewport()
		return m, nil

	case "right":
		if m.selectedTab < TabTimeline {
			m.selectedTab++
		} else {
			m.selectedTab = TabOverview
		}
		m.updateDetailViewport()
		return m, nil

	case "1", "2", "3", "4":
		m.selectedTab = DetailTab(msg.String()[0] - '1')
		m.updateDetailViewport()
		return m, nil

	default:
		m.detailViewport, cmd = m.detailViewport.Update(msg)
	}

	return m, cmd
}

func (m *Model) updateDetailViewport() {
	if m.cursor >= len(m.visible) {
		return
	}
	m.detailViewport.SetContent(m.renderTabContent(m.visible[m.cursor].Node))
}

func (m Model) renderTabContent(node *trace.Node) string {
	switch m.selectedTab {
	case TabContent:
		return m.renderContentTab(node)
	case TabData:
		return m.renderDataTab(node)
	case TabTimeline:
		return m.renderTimelineTab()
	default:
		return m.renderOverviewTab(node)
	}
}

// View renders the model
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var lines []string
	lines = append(lines, m.renderGlobalHeader())

	switch m.viewMode {
	case RunListView:
		lines = append(lines, m.renderRunListView())
	case TreeView:
		lines = append(lines, m.renderTreeView())
	case DetailView:
		lines = append(lines, m.renderDetailView())
	}

	lines = append(lines, m.renderStatusBar())
	return strings.Join(lines, "\n")
}

func (m Model) renderGlobalHeader() string {
	var b strings.Builder

	title := "Agentrace Viewer"
	if m.isLive {
		title = "🔴 LIVE  " + title
	}
	b.WriteString(TitleStyle.Render(title))

	if m.runID != "" && m.viewMode != RunListView {
		b.WriteString("  ")
		b.WriteString(MutedStyle.Render(m.runID))
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(m.width-6, 1)))
	return b.String()
}

func (m Model) renderStatusBar() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("─", max(m.width-4, 1)))
	b.WriteString("\n")

	var statusParts []string
	switch m.viewMode {
	case RunListView:
		statusParts = append(statusParts, SelectedStyle.Render(" Run List "))
	case TreeView:
		statusParts = append(statusParts, SelectedStyle.Render(" Tree "))
	case DetailView:
		statusParts = append(statusParts, SelectedStyle.Render(" Detail:"+tabNames[m.selectedTab]+" "))
	}

	var keys []string
	if m.searchMode {
		keys = []string{
			HelpKeyStyle.Render("[Type]") + " Search",
			HelpKeyStyle.Render("[Enter]") + " Confirm",
			HelpKeyStyle.Render("[Esc]") + " Cancel",
		}
	} else {
		switch m.viewMode {
		case RunListView:
			keys = []string{
				HelpKeyStyle.Render("[↑↓]") + " Navigate",
				HelpKeyStyle.Render("[Enter]") + " Open",
				HelpKeyStyle.Render("[q]") + " Quit",
			}
		case TreeView:
			keys = []string{
				HelpKeyStyle.Render("[↑↓]") + " Nav",
				HelpKeyStyle.Render("[Space]") + " Fold",
				HelpKeyStyle.Render("[h/l]") + " Collapse/Expand",
				HelpKeyStyle.Render("[d]") + " Detail",
				HelpKeyStyle.Render("[/]") + " Search",
				HelpKeyStyle.Render("[e]") + " Errors",
				HelpKeyStyle.Render("[q]") + " Quit",
			}
		case DetailView:
			keys = []string{
				HelpKeyStyle.Render("[←→]") + " Tabs",
				HelpKeyStyle.Render("[1-4]") + " Jump",
				HelpKeyStyle.Render("[↑↓]") + " Scroll",
				HelpKeyStyle.Render("[Esc]") + " Back",
			}
		}
	}

	if len(m.searchMatches) > 0 && !m.searchMode {
		statusParts = append(statusParts, SuccessStyle.Render(fmt.Sprintf("🔍 %d matches", len(m.searchMatches))))
	}

	statusLine := strings.Join(statusParts, " ")
	if len(keys) > 0 {
		statusLine += "  " + strings.Join(keys, " ")
	}

	b.WriteString(HelpStyle.Render(statusLine))
	return b.String()
}

func (m Model) renderRunListView() string {
	var b strings.Builder

	if len(m.allRuns) == 0 {
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render("No runs found. Import one with 'agentrace import <file.jsonl>'."))
		b.WriteString("\n")
		return b.String()
	}

	maxVisible := m.height - 8
	if maxVisible < 5 {
		maxVisible = 5
	}
	scrollOffset := 0
	if m.runCursor >= maxVisible {
		scrollOffset = m.runCursor - maxVisible + 1
	}

	for i, run := range m.allRuns {
		if i < scrollOffset || i >= scrollOffset+maxVisible {
			continue
		}

		status := StatusStyle(run.Run.Status).Render(fmt.Sprintf("[%s]", run.Run.Status))
		name := run.Run.Name
		if name == "" {
			name = "-"
		}
		runLine := fmt.Sprintf("%-28s  %-16s  %8s  %4d steps  %s",
			run.Run.ID,
			name,
			formatDurationPtr(run.Run.DurationMs),
			run.Run.StepCount,
			status,
		)

		if i == m.runCursor {
			b.WriteString(CursorStyle.Render("→ "))
			b.WriteString(SelectedStyle.Render(runLine))
		} else {
			b.WriteString("  ")
			b.WriteString(runLine)
		}
		b.WriteString("\n")
	}

	if len(m.allRuns) > maxVisible {
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render(fmt.Sprintf("[%d/%d runs]", m.runCursor+1, len(m.allRuns))))
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTreeView() string {
	var b strings.Builder

	if len(m.allRuns) > 0 {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("[Esc] Back to list  |  Run %d/%d", m.selectedRun+1, len(m.allRuns))))
		b.WriteString("\n")
	}

	b.WriteString(m.renderRunSummary())
	b.WriteString("\n")

	treeContent := m.renderTreePanel()
	detailContent := m.renderDetailPanel()

	width := max(m.width-6, 20)
	b.WriteString(lipgloss.JoinVertical(
		lipgloss.Left,
		PaneStyle.Width(width).Render(treeContent),
		PaneStyle.Width(width).Render(detailContent),
	))

	if m.searchMode {
		b.WriteString("\n")
		b.WriteString(m.renderSearchBar())
	}

	return b.String()
}

func (m Model) renderRunSummary() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d steps", m.summary.TotalSteps))
	parts = append(parts, DurationStyle.Render(formatDuration(m.duration)))
	if m.summary.TotalTokens > 0 {
		parts = append(parts, fmt.Sprintf("%d tokens", m.summary.TotalTokens))
	}
	if m.summary.TotalCost > 0 {
		parts = append(parts, fmt.Sprintf("$%.4f", m.summary.TotalCost))
	}
	if m.summary.Errors > 0 {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("%d errors", m.summary.Errors)))
	}
	return HelpStyle.Render(strings.Join(parts, "  │  "))
}

// renderTreePanel renders the step tree with the viewport scrolled to the
// cursor
func (m Model) renderTreePanel() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Steps"))
	b.WriteString("\n")

	var content strings.Builder
	for i, item := range m.visible {
		content.WriteString(m.renderStepLine(item, i == m.cursor))
		content.WriteString("\n")
	}
	m.treeViewport.SetContent(content.String())

	if m.cursor < m.treeViewport.YOffset {
		m.treeViewport.YOffset = m.cursor
	} else if m.cursor >= m.treeViewport.YOffset+m.treeViewport.Height {
		m.treeViewport.YOffset = m.cursor - m.treeViewport.Height + 1
	}

	b.WriteString(m.treeViewport.View())
	return b.String()
}

func (m Model) renderStepLine(item trace.FlatItem, selected bool) string {
	n := item.Node

	indent := strings.Repeat("  ", n.Depth)

	marker := "  "
	if item.HasChildren {
		if item.Expanded {
			marker = "▼ "
		} else {
			marker = "▶ "
		}
	}

	label := KindStyle(n.Kind).Render(KindIcon(n.Kind) + " " + stepLabel(n))
	dur := DurationStyle.Render(formatDurationPtr(n.Duration))
	status := ""
	if n.Status == trace.StatusError {
		status = " " + ErrorStyle.Render("✗")
	} else if n.Status == trace.StatusRunning {
		status = " " + WarningStyle.Render("…")
	}

	line := fmt.Sprintf("%s%s%s  %s%s", indent, marker, label, dur, status)
	if selected {
		return CursorStyle.Render("→ ") + SelectedStyle.Render(line)
	}
	return "  " + line
}

func (m Model) renderDetailPanel() string {
	var b strings.Builder

	var tabBar strings.Builder
	for i, tab := range tabNames {
		if DetailTab(i) == m.selectedTab {
			tabBar.WriteString(SelectedStyle.Render(" " + tab + " "))
		} else {
			tabBar.WriteString(MutedStyle.Render(" " + tab + " "))
		}
		if i < len(tabNames)-1 {
			tabBar.WriteString(MutedStyle.Render("│"))
		}
	}
	b.WriteString(tabBar.String())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")

	if m.cursor >= len(m.visible) {
		b.WriteString(MutedStyle.Render("No step selected"))
		return b.String()
	}

	m.detailViewport.SetContent(m.renderTabContent(m.visible[m.cursor].Node))
	b.WriteString(m.detailViewport.View())
	return b.String()
}

func (m Model) renderDetailView() string {
	var b strings.Builder
	b.WriteString(m.renderDetailPanel())
	return PaneStyle.Width(max(m.width-6, 20)).Render(b.String())
}

func (m Model) renderOverviewTab(node *trace.Node) string {
	var b strings.Builder

	b.WriteString(SectionHeaderStyle.Render("Overview"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%-12s %s\n", "Label:", stepLabel(node)))
	b.WriteString(fmt.Sprintf("%-12s %s\n", "Kind:", node.Kind))
	b.WriteString(fmt.Sprintf("%-12s %s\n", "Status:", StatusStyle(node.Status).Render(string(node.Status))))
	b.WriteString(fmt.Sprintf("%-12s %s\n", "Duration:", formatDurationPtr(node.Duration)))
	b.WriteString(fmt.Sprintf("%-12s +%s\n", "Started:", formatDuration(node.StartOffset)))
	b.WriteString(fmt.Sprintf("%-12s %d\n", "Depth:", node.Depth))

	if node.Step == nil {
		return b.String()
	}
	if node.Step.Model != "" {
		b.WriteString("\n")
		b.WriteString(SectionHeaderStyle.Render("Model"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-12s %s\n", "Model:", node.Step.Model))
		if node.Step.TotalTokens > 0 {
			b.WriteString(fmt.Sprintf("%-12s %d\n", "Tokens:", node.Step.TotalTokens))
		}
		if node.Step.TotalCost > 0 {
			b.WriteString(fmt.Sprintf("%-12s $%.6f\n", "Cost:", node.Step.TotalCost))
		}
	}
	if node.Step.Error != "" {
		b.WriteString("\n")
		b.WriteString(SectionHeaderStyle.Render("Error"))
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(node.Step.Error))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderContentTab(node *trace.Node) string {
	if node.Step == nil || node.Step.Content == "" {
		return MutedStyle.Render("No content for this step")
	}
	return node.Step.Content
}

func (m Model) renderDataTab(node *trace.Node) string {
	if node.Step == nil || len(node.Step.Data) == 0 {
		return MutedStyle.Render("No structured data for this step")
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, node.Step.Data, "", "  "); err != nil {
		return string(node.Step.Data)
	}
	return pretty.String()
}

func (m Model) renderSearchBar() string {
	return HelpStyle.Render("Search: ") + m.searchQuery + CursorStyle.Render("█")
}

func stepLabel(n *trace.Node) string {
	if n.Step != nil {
		if n.Step.Title != "" {
			return n.Step.Title
		}
		if n.Step.NodeLabel != "" {
			return n.Step.NodeLabel
		}
		if n.Step.Model != "" {
			return n.Step.Model
		}
	}
	return n.ID
}

func formatDuration(ms int64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.2fs", float64(ms)/1000)
	}
	return fmt.Sprintf("%dms", ms)
}

func formatDurationPtr(ms *int64) string {
	if ms == nil {
		return "-"
	}
	return formatDuration(*ms)
}
