package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowboard-io/flowboard/pkg/canvas"
	"github.com/flowboard-io/flowboard/pkg/client"
	"github.com/flowboard-io/flowboard/pkg/graph"
	"github.com/flowboard-io/flowboard/pkg/render"
)

// Config
const (
	frameRate  = 50 * time.Millisecond
	nodeWidth  = 18
	nodeHeight = 3

	// API workflows use pixel-ish coordinates; the terminal works in cells.
	scaleX = 10
	scaleY = 20
)

// Styles
var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	wireStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	nodeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	draggingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
)

type frameMsg time.Time

type workflowMsg struct {
	workflow *graph.Workflow
	err      error
}

type node struct {
	spec *graph.Node
	el   *canvas.Element
	drag *canvas.DragController
}

type model struct {
	spinner  spinner.Model
	client   *client.Client
	workflow *graph.Workflow

	doc      *canvas.Document
	loop     *canvas.Loop
	viewport *canvas.Viewport
	registry *canvas.Registry
	renderer *render.Renderer
	nodes    []*node

	width  int
	height int
	ready  bool
	err    error
}

func initialModel(endpoint string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner: s,
		client:  client.NewClient(endpoint),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadWorkflow(),
		frame(),
	)
}

func (m model) loadWorkflow() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		// The daemon may still be starting; back off between pings instead
		// of failing the first paint.
		if err := c.WaitReady(ctx, 5, client.DefaultBackoff()); err != nil {
			return workflowMsg{err: err}
		}

		workflows, err := c.ListWorkflows(ctx, client.ListOptions{})
		if err != nil {
			return workflowMsg{err: err}
		}
		if len(workflows) > 0 {
			return workflowMsg{workflow: workflows[0]}
		}

		// Nothing stored yet: seed a small demo board.
		w := graph.NewWorkflow("Demo Board", "seeded by flowboard-tui")
		w.Nodes = []graph.Node{
			{ID: "n1", Type: graph.NodeDataSource, Label: "Source", X: 40, Y: 60},
			{ID: "n2", Type: graph.NodeTransform, Label: "Transform", X: 340, Y: 60},
			{ID: "n3", Type: graph.NodeLLM, Label: "LLM", X: 640, Y: 160},
		}
		w.Connections = []graph.Connection{
			{ID: "c1", Source: "n1", Target: "n2"},
			{ID: "c2", Source: "n2", Target: "n3"},
		}
		created, err := c.CreateWorkflow(ctx, w)
		if err != nil {
			return workflowMsg{err: err}
		}
		return workflowMsg{workflow: created}
	}
}

// buildScene turns the workflow into an element tree with one draggable
// element per node and 1x1 port children feeding the position registry.
func (m *model) buildScene() {
	root := canvas.NewElement("div")
	root.Width = float64(m.width)
	root.Height = float64(m.height)

	m.doc = &canvas.Document{Root: root}
	m.loop = canvas.NewLoop(frameRate)
	m.viewport = canvas.NewViewport(float64(m.width), float64(m.height))
	m.registry = canvas.NewRegistry(m.loop, m.viewport, 0)
	m.renderer = render.NewRenderer(m.registry)
	m.nodes = nil

	for i := range m.workflow.Nodes {
		spec := &m.workflow.Nodes[i]

		el := canvas.NewElement("div")
		el.SetOffset(canvas.Point{X: spec.X / scaleX, Y: spec.Y / scaleY})
		el.Width = nodeWidth
		el.Height = nodeHeight
		root.AppendChild(el)

		input := canvas.NewElement("div")
		input.SetOffset(canvas.Point{X: 0, Y: nodeHeight / 2})
		input.Width = 1
		input.Height = 1
		el.AppendChild(input)

		output := canvas.NewElement("div")
		output.SetOffset(canvas.Point{X: nodeWidth - 1, Y: nodeHeight / 2})
		output.Width = 1
		output.Height = 1
		el.AppendChild(output)

		m.registry.Register(canvas.PortRef(spec.ID, "input", 0), input)
		m.registry.Register(canvas.PortRef(spec.ID, "output", 0), output)

		n := &node{spec: spec, el: el}
		registry := m.registry
		n.drag = canvas.Attach(m.doc, el, canvas.DragOptions{
			OnDrag: func(ev canvas.PointerEvent, pos canvas.Point) {
				registry.Invalidate()
			},
			OnEnd: func(ev canvas.PointerEvent, pos canvas.Point) {
				moved := el.Offset()
				spec.X = moved.X * scaleX
				spec.Y = moved.Y * scaleY
				registry.Invalidate()
			},
		})
		m.nodes = append(m.nodes, n)
	}

	m.renderer.SetConnections(m.workflow.Connections)
	m.registry.RecomputeAll()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.registry != nil {
				m.registry.Close()
			}
			return m, tea.Quit
		case "s":
			if m.workflow != nil {
				cmds = append(cmds, m.saveWorkflow())
			}
		}

	case tea.MouseMsg:
		if m.doc != nil {
			if ev, ok := pointerEvent(msg); ok {
				m.doc.Dispatch(ev)
				m.loop.Step()
			}
		}

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case frameMsg:
		if m.loop != nil {
			m.loop.StepAt(time.Time(msg))
		}
		cmds = append(cmds, frame())

	case workflowMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.workflow = msg.workflow
			if m.width > 0 {
				m.buildScene()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.viewport != nil {
			m.viewport.Resize(float64(msg.Width), float64(msg.Height))
		}
		if m.workflow != nil && m.doc == nil {
			m.buildScene()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) saveWorkflow() tea.Cmd {
	workflow := m.workflow
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		updated, err := c.UpdateWorkflow(ctx, workflow)
		if err != nil {
			return workflowMsg{err: err}
		}
		return workflowMsg{workflow: updated}
	}
}

// headerRows is the terminal row offset of the canvas grid.
const headerRows = 1

// pointerEvent maps a terminal mouse message onto the canvas event model.
func pointerEvent(msg tea.MouseMsg) (canvas.PointerEvent, bool) {
	pos := canvas.Point{X: float64(msg.X), Y: float64(msg.Y - headerRows)}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return canvas.PointerEvent{}, false
		}
		return canvas.PointerEvent{Kind: canvas.PointerDown, Pos: pos}, true
	case tea.MouseActionMotion:
		return canvas.PointerEvent{Kind: canvas.PointerMove, Pos: pos}, true
	case tea.MouseActionRelease:
		return canvas.PointerEvent{Kind: canvas.PointerUp, Pos: pos}, true
	}
	return canvas.PointerEvent{}, false
}

// cell kinds for the paint grid
const (
	cellEmpty = iota
	cellWire
	cellNode
	cellNodeDragging
	cellLabel
)

func (m model) View() string {
	if !m.ready || m.workflow == nil {
		status := fmt.Sprintf("\n%s Loading board...", m.spinner.View())
		if m.err != nil {
			status += "\n" + errorStyle.Render(fmt.Sprintf("Offline: %v", m.err))
		}
		return status
	}

	gridH := m.height - 2
	if gridH < nodeHeight {
		gridH = nodeHeight
	}
	runes := make([][]rune, gridH)
	kinds := make([][]int, gridH)
	for y := range runes {
		runes[y] = make([]rune, m.width)
		kinds[y] = make([]int, m.width)
		for x := range runes[y] {
			runes[y][x] = ' '
		}
	}

	for _, seg := range m.renderer.Frame() {
		drawWire(runes, kinds, seg.From, seg.To)
	}
	for _, n := range m.nodes {
		drawNode(runes, kinds, n, n.drag.Dragging())
	}

	var status string
	if m.err != nil {
		status = errorStyle.Render(fmt.Sprintf("Offline: %v", m.err))
	} else {
		status = okStyle.Render(fmt.Sprintf("%s • %d nodes • %d connections",
			m.workflow.Name, len(m.workflow.Nodes), len(m.workflow.Connections)))
	}

	header := headerStyle.Render(fmt.Sprintf("%s flowboard", m.spinner.View()))
	footer := subtleStyle.Render("drag nodes with the mouse • s to save • q to quit")

	return header + "\n" + paint(runes, kinds) + status + "  " + footer
}

func drawWire(runes [][]rune, kinds [][]int, from, to canvas.Point) {
	x1, y1 := int(from.X), int(from.Y)
	x2, y2 := int(to.X), int(to.Y)
	midX := (x1 + x2) / 2

	for x := min(x1, midX); x <= max(x1, midX); x++ {
		set(runes, kinds, x, y1, '─', cellWire)
	}
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		set(runes, kinds, midX, y, '│', cellWire)
	}
	for x := min(midX, x2); x <= max(midX, x2); x++ {
		set(runes, kinds, x, y2, '─', cellWire)
	}
	set(runes, kinds, x2, y2, '▶', cellWire)
}

func drawNode(runes [][]rune, kinds [][]int, n *node, dragging bool) {
	rect, ok := n.el.PageRect()
	if !ok {
		return
	}
	x, y := int(rect.Left), int(rect.Top)
	w, h := int(rect.Width), int(rect.Height)
	kind := cellNode
	if dragging {
		kind = cellNodeDragging
	}

	for i := 0; i < w; i++ {
		set(runes, kinds, x+i, y, '─', kind)
		set(runes, kinds, x+i, y+h-1, '─', kind)
	}
	for j := 0; j < h; j++ {
		set(runes, kinds, x, y+j, '│', kind)
		set(runes, kinds, x+w-1, y+j, '│', kind)
	}
	set(runes, kinds, x, y, '╭', kind)
	set(runes, kinds, x+w-1, y, '╮', kind)
	set(runes, kinds, x, y+h-1, '╰', kind)
	set(runes, kinds, x+w-1, y+h-1, '╯', kind)

	label := n.spec.Label
	if label == "" {
		label = string(n.spec.Type)
	}
	if len(label) > w-4 {
		label = label[:w-4]
	}
	for i, r := range label {
		set(runes, kinds, x+2+i, y+h/2, r, cellLabel)
	}
}

func set(runes [][]rune, kinds [][]int, x, y int, r rune, kind int) {
	if y < 0 || y >= len(runes) || x < 0 || x >= len(runes[y]) {
		return
	}
	// Node boxes paint over wires, labels over everything.
	if kinds[y][x] > kind {
		return
	}
	runes[y][x] = r
	kinds[y][x] = kind
}

func paint(runes [][]rune, kinds [][]int) string {
	styles := map[int]lipgloss.Style{
		cellWire:         wireStyle,
		cellNode:         nodeStyle,
		cellNodeDragging: draggingStyle,
		cellLabel:        labelStyle,
	}

	var out []byte
	for y := range runes {
		x := 0
		for x < len(runes[y]) {
			kind := kinds[y][x]
			start := x
			for x < len(runes[y]) && kinds[y][x] == kind {
				x++
			}
			run := string(runes[y][start:x])
			if style, ok := styles[kind]; ok {
				run = style.Render(run)
			}
			out = append(out, run...)
		}
		out = append(out, '\n')
	}
	return string(out)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func frame() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func main() {
	endpoint := os.Getenv("FLOWBOARD_ENDPOINT")
	p := tea.NewProgram(initialModel(endpoint), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
