package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"qtermstab/gates"
	"qtermstab/sampler"
	"qtermstab/simulator"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
	focusSelectTarget
	focusInputParam
	focusRecord
)

// Model represents the TUI application state.
type Model struct {
	cfg *Config
	log *log.Logger

	grid        Grid
	cursorQubit int
	cursorStep  int
	width       int
	height      int
	focus       focus
	statusMsg   string

	bias simulator.Bias
	seed uint64
	snap snapshot

	// Menu state
	menuCat  int
	menuItem int

	// Pending placement (two-qubit target selection, argument entry)
	pending     *gates.Gate
	pendingArgs []float64
	targetQubit int
	paramInput  string

	record       viewport.Model
	shots        []*bitset.BitSet
	shotsWidth   int
	sampling     bool
	shotsPercent []float64
}

func newModel(cfg *Config, logger *log.Logger) Model {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	m := Model{
		cfg:    cfg,
		log:    logger,
		grid:   Grid{NumQubits: cfg.Qubits},
		focus:  focusCircuit,
		bias:   cfg.CollapseBias(),
		seed:   cfg.Seed,
		record: viewport.New(statePanelW, 8),
	}
	m.refresh()
	return m
}

// refresh re-runs the simulator up to the cursor step.
func (m *Model) refresh() {
	m.snap = simulate(&m.grid, m.cursorStep, m.seed, m.bias, m.cfg.MaxTermQubits, m.log)
	if m.snap.Err != nil {
		m.log.Warn("simulation failed", "err", m.snap.Err)
	}
	m.record.SetContent(m.renderRecord())
	m.record.GotoBottom()
}

// placeGate places g at the cursor. targets lists every qubit the gate acts
// on, first target first. Returns false if the placement was rejected.
func (m *Model) placeGate(g *gates.Gate, targets []int, args []float64) bool {
	before := slices.Clone(m.grid.Placements)
	m.grid.RemoveAt(m.cursorStep, m.cursorQubit)
	err := m.grid.Place(Placement{Gate: g, Targets: targets, Step: m.cursorStep, Args: args})

	m.pending = nil
	m.pendingArgs = nil
	m.paramInput = ""

	if err != nil {
		m.grid.Placements = before
		m.focus = focusCircuit
		if errors.Is(err, ErrOccupied) {
			m.statusMsg = "Cannot place: qubit already used by another gate at this step"
		} else {
			m.statusMsg = err.Error()
		}
		m.refresh()
		return false
	}
	m.log.Debug("placed gate", "gate", g.Name, "targets", targets, "step", m.cursorStep)
	if len(args) > 0 {
		m.statusMsg = fmt.Sprintf("Placed %s(%s)", g.Name, formatArgs(args))
	}
	m.cursorStep++
	m.refresh()
	return true
}

// beginPlacement starts placing the menu's gate, asking for arguments or a
// second qubit when the gate needs them.
func (m *Model) beginPlacement(g *gates.Gate) {
	m.pending = g
	m.pendingArgs = nil
	switch {
	case g.NumArgs > 0:
		m.paramInput = ""
		m.focus = focusInputParam
	case g.Arity == 2:
		m.selectTarget()
	default:
		if m.placeGate(g, []int{m.cursorQubit}, nil) {
			m.focus = focusCircuit
		}
	}
}

func (m *Model) selectTarget() {
	if m.grid.NumQubits < 2 {
		m.statusMsg = "Two-qubit gates need at least two qubits"
		m.pending = nil
		m.focus = focusCircuit
		return
	}
	m.focus = focusSelectTarget
	m.targetQubit = m.cursorQubit + 1
	if m.targetQubit >= m.grid.NumQubits {
		m.targetQubit = m.cursorQubit - 1
	}
}

func (m *Model) cancelPending() {
	m.focus = focusCircuit
	m.pending = nil
	m.pendingArgs = nil
	m.paramInput = ""
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.record.Width = statePanelW
		m.record.Height = max(msg.Height/3, 4)
		return m, nil

	case samplesMsg:
		m.sampling = false
		if msg.err != nil {
			m.statusMsg = "Sampling failed: " + msg.err.Error()
			m.log.Error("sampling failed", "err", msg.err)
			return m, nil
		}
		m.shots = msg.shots
		m.shotsWidth = msg.numMeasurements
		m.shotsPercent = onesFraction(msg.shots, msg.numMeasurements)
		m.statusMsg = fmt.Sprintf("Sampled %d shots", len(msg.shots))
		m.log.Info("sampled", "shots", len(msg.shots), "measurements", msg.numMeasurements)
		m.record.SetContent(m.renderRecord())
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusCircuit:
			return m.updateCircuit(key)
		case focusMenu:
			m.updateMenu(key)
		case focusSelectTarget:
			m.updateSelectTarget(key)
		case focusInputParam:
			m.updateInputParam(key)
		case focusRecord:
			if key == "tab" || key == "esc" {
				m.focus = focusCircuit
				return m, nil
			}
			var cmd tea.Cmd
			m.record, cmd = m.record.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateCircuit(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		m.focus = focusRecord
	case "ctrl+r":
		m.grid.Clear()
		m.cursorStep = 0
		m.shots = nil
		m.shotsPercent = nil
		m.refresh()
	case "ctrl+s":
		c, err := m.grid.Circuit(m.grid.MaxSteps)
		if err == nil {
			err = os.WriteFile(m.cfg.SavePath, []byte(c.String()), 0o644)
		}
		if err != nil {
			m.statusMsg = fmt.Sprintf("Save error: %v", err)
		} else {
			m.statusMsg = "Saved " + m.cfg.SavePath
		}
	case "ctrl+w":
		if m.shots == nil {
			m.statusMsg = "Nothing sampled yet (press p)"
			break
		}
		format, _ := sampler.ParseFormat(m.cfg.ShotsFormat)
		if err := writeShots(m.cfg.ShotsPath, format, m.shots, m.shotsWidth); err != nil {
			m.statusMsg = fmt.Sprintf("Write error: %v", err)
		} else {
			m.statusMsg = "Wrote " + m.cfg.ShotsPath
		}
	case "up", "k":
		if m.cursorQubit > 0 {
			m.cursorQubit--
		}
	case "down", "j":
		if m.cursorQubit < m.grid.NumQubits-1 {
			m.cursorQubit++
		}
	case "left", "h":
		if m.cursorStep > 0 {
			m.cursorStep--
			m.refresh()
		}
	case "right", "l":
		m.cursorStep++
		m.refresh()
	case "+", "=":
		m.grid.Resize(m.grid.NumQubits + 1)
		m.refresh()
	case "-":
		if m.grid.NumQubits > 1 {
			m.grid.Resize(m.grid.NumQubits - 1)
			m.cursorQubit = min(m.cursorQubit, m.grid.NumQubits-1)
			m.refresh()
		}
	case "a":
		m.focus = focusMenu
		m.menuCat = 0
		m.menuItem = 0
	case "backspace", "delete":
		m.grid.RemoveAt(m.cursorStep, m.cursorQubit)
		m.refresh()
	case "!":
		p := m.grid.At(m.cursorStep, m.cursorQubit)
		if p == nil || !p.Gate.Has(gates.TargetFlags) {
			m.statusMsg = "Only measurements and resets can be inverted"
			break
		}
		p.Inverted = !p.Inverted
		m.refresh()
	case "b":
		switch m.bias {
		case simulator.CollapseRandom:
			m.bias = simulator.CollapseTowardFalse
		case simulator.CollapseTowardFalse:
			m.bias = simulator.CollapseTowardTrue
		default:
			m.bias = simulator.CollapseRandom
		}
		m.statusMsg = "Collapse bias: " + m.bias.String()
		m.refresh()
	case "n":
		m.seed++
		m.statusMsg = fmt.Sprintf("Seed %d", m.seed)
		m.refresh()
	case "p":
		if m.sampling {
			break
		}
		m.sampling = true
		m.statusMsg = fmt.Sprintf("Sampling %d shots...", m.cfg.Shots)
		return m, sampleCmd(m.grid, m.cfg, m.seed, m.log)
	}
	return m, nil
}

func (m *Model) updateMenu(key string) {
	switch key {
	case "esc":
		m.focus = focusCircuit
	case "up", "k":
		if m.menuItem > 0 {
			m.menuItem--
		}
	case "down", "j":
		if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
			m.menuItem++
		}
	case "left", "h":
		if m.menuCat > 0 {
			m.menuCat--
			m.menuItem = 0
		}
	case "right", "l":
		if m.menuCat < len(gateMenu)-1 {
			m.menuCat++
			m.menuItem = 0
		}
	case "enter":
		m.beginPlacement(gateMenu[m.menuCat].items[m.menuItem].gate)
	}
}

func (m *Model) updateSelectTarget(key string) {
	switch key {
	case "esc":
		m.cancelPending()
	case "up", "k":
		for next := m.targetQubit - 1; next >= 0; next-- {
			if next != m.cursorQubit {
				m.targetQubit = next
				break
			}
		}
	case "down", "j":
		for next := m.targetQubit + 1; next < m.grid.NumQubits; next++ {
			if next != m.cursorQubit {
				m.targetQubit = next
				break
			}
		}
	case "enter":
		if m.placeGate(m.pending, []int{m.cursorQubit, m.targetQubit}, m.pendingArgs) {
			m.focus = focusCircuit
		}
	}
}

func (m *Model) updateInputParam(key string) {
	switch key {
	case "esc":
		m.cancelPending()
	case "backspace":
		if len(m.paramInput) > 0 {
			m.paramInput = m.paramInput[:len(m.paramInput)-1]
		}
	case "enter":
		args, err := parseArgs(m.paramInput)
		if err != nil {
			m.statusMsg = "Invalid probability: use 0.01, 1/8 or 5%"
			break
		}
		if len(args) != m.pending.NumArgs {
			m.statusMsg = fmt.Sprintf("%s takes %d argument(s)", m.pending.Name, m.pending.NumArgs)
			break
		}
		m.pendingArgs = args
		if m.pending.Arity == 2 {
			m.selectTarget()
			break
		}
		if m.placeGate(m.pending, []int{m.cursorQubit}, args) {
			m.focus = focusCircuit
		}
	default:
		if acceptsArgKey(key) {
			m.paramInput += key
		}
	}
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	controlsHeight := 4
	mainHeight := max(m.height-controlsHeight-2, 8)
	circuitWidth := max(m.width-statePanelW-6, 20)

	circuitPanel := m.renderCircuitPanel(circuitWidth, mainHeight)

	var side string
	switch m.focus {
	case focusMenu:
		side = m.renderMenu()
	case focusInputParam:
		side = m.renderParamInput()
	default:
		side = lipgloss.JoinVertical(lipgloss.Left,
			m.renderStatePanel(),
			m.renderRecordPanel(),
		)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, side)
	return lipgloss.JoinVertical(lipgloss.Left, top, m.renderControlsPanel(m.width-4))
}

// renderParamInput renders the argument entry box.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Enter Probability"))
	sb.WriteString("\n\n")
	if m.pending != nil {
		sb.WriteString(gateStyle.Render(m.pending.Name) + "  ")
	}
	fmt.Fprintf(&sb, "p = %s_", m.paramInput)
	sb.WriteString("\n\n")
	if m.statusMsg != "" {
		sb.WriteString(errorStyle.Render(m.statusMsg) + "\n")
	}
	sb.WriteString(dimStyle.Render("Examples: 0.01, 1/8, 5%"))
	return menuBorderStyle.Render(sb.String())
}
