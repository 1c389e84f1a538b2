package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qtermstab/gates"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres s within width terminal columns.
func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// boxName is the label drawn inside a single-qubit gate box.
func boxName(p *Placement) string {
	switch {
	case p.Gate.Has(gates.Measure) && p.Inverted:
		return "!M"
	case p.Gate.Has(gates.Reset) && p.Inverted:
		return "|1⟩"
	}
	return p.Gate.Symbol
}

// wireSymbol returns the symbol drawn on the wire of the role-th target of a
// two-qubit gate, taken from the two halves of the gate's "a─b" symbol.
func wireSymbol(g *gates.Gate, role int) string {
	parts := strings.SplitN(g.Symbol, "─", 2)
	if role < len(parts) {
		return parts[role]
	}
	return "●"
}

func styleFor(g *gates.Gate) lipgloss.Style {
	if g.Has(gates.Noisy) {
		return noiseStyle
	}
	return gateStyle
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// renderCell returns 3 lines (top, mid, bot) for a single cell, each
// cellW columns wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)
	p := info.placement

	if hl != hlNone {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1
		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")
		switch {
		case p != nil && p.Gate.Arity == 2:
			sym := wireSymbol(p.Gate, info.role)
			rest := max(innerW-dashL-lipgloss.Width(sym), 0)
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + styleFor(p.Gate).Render(sym) + strings.Repeat("─", rest) + bdr.Render("║")
		case p != nil:
			mid = bdr.Render("║") + "─┤" + styleFor(p.Gate).Render(padCenter(boxName(p), gateNameW)) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	dashL := (cellW - 1) / 2
	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case p != nil && p.Gate.Arity == 2:
		sym := wireSymbol(p.Gate, info.role)
		mid = strings.Repeat("─", dashL) + styleFor(p.Gate).Render(sym) + strings.Repeat("─", max(cellW-dashL-lipgloss.Width(sym), 0))

	case p != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		st := styleFor(p.Gate)
		top = strings.Repeat(" ", margin) + st.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + st.Render("┤"+padCenter(boxName(p), gateNameW)+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + st.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		top, bot = vertRow, vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", cellW-dashL-1)

	case info.measureBelow:
		top = dblVertRow
		mid = strings.Repeat("─", dashL) + cbitConnectorStyle.Render("╫") + strings.Repeat("─", cellW-dashL-1)

	default:
		mid = strings.Repeat("─", cellW)
	}
	if info.measureBelow {
		bot = dblVertRow
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Stabilizer Circuit"))
	sb.WriteString("\n")

	availWidth := width - labelVisualW - 4
	steps := max(availWidth/cellW, 1)
	startStep := 0
	if m.cursorStep >= steps {
		startStep = m.cursorStep - steps + 1
	}
	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", startStep, startStep+steps-1)
	} else {
		sb.WriteString("\n")
	}

	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+steps; step++ {
		label := padCenter(fmt.Sprintf("%d", step), cellW)
		if step > m.cursorStep {
			header += dimStyle.Render(label)
		} else {
			header += activeStyle.Render(label)
		}
	}
	sb.WriteString(header + "\n")

	for qubit := range m.grid.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+steps; step++ {
			hl := hlNone
			switch {
			case step == m.cursorStep && qubit == m.cursorQubit && m.focus != focusRecord:
				hl = hlCursor
			case step == m.cursorStep && qubit == m.targetQubit && m.focus == focusSelectTarget:
				hl = hlTargetSelect
			}
			top, mid, bot := renderCell(m.grid.cell(step, qubit), hl)
			topLine += top
			midLine += mid
			botLine += bot
		}
		sb.WriteString(topLine + "\n" + midLine + "\n" + botLine + "\n")
	}

	// Measurement record wire
	if n := len(m.grid.Measurements(m.grid.MaxSteps)); n > 0 {
		label := fmt.Sprintf("m%d", n)
		line := cbitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + cbitWireStyle.Render("══")
		for step := startStep; step < startStep+steps; step++ {
			q := m.grid.MeasureAtStep(step)
			if q < 0 {
				line += cbitWireStyle.Render(strings.Repeat("═", cellW))
				continue
			}
			bit := fmt.Sprintf("%d", q)
			dashL := (cellW - 1) / 2
			dashR := max(cellW-dashL-1-len(bit), 0)
			line += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
				cbitConnectorStyle.Render("╩"+bit) +
				cbitWireStyle.Render(strings.Repeat("═", dashR))
		}
		sb.WriteString(line + "\n")
	}

	if m.focus == focusSelectTarget && m.pending != nil {
		fmt.Fprintf(&sb, "\n  %s", activeStyle.Render(m.pending.Name))
		sb.WriteString("  Select second qubit: ")
		sb.WriteString(targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Step %d, Qubit %d  │  bias %s  seed %d", m.cursorStep, m.cursorQubit, m.bias, m.seed)
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", activeStyle.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderStatePanel shows the stabilizer generators and per-qubit
// determinism after the cursor step.
func (m Model) renderStatePanel() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", titleStyle.Render(fmt.Sprintf("State after step %d", m.snap.Through)))

	if m.snap.Err != nil {
		sb.WriteString(errorStyle.Render(m.snap.Err.Error()))
		return stateStyle.Width(statePanelW).Render(sb.String())
	}

	sb.WriteString(dimStyle.Render("stabilizers") + "\n")
	for _, p := range m.snap.Stabilizers {
		sb.WriteString("  " + gateStyle.Render(p.String()) + "\n")
	}

	sb.WriteString(dimStyle.Render("Z measurement") + "\n")
	for q, st := range m.snap.Qubits {
		if st.Deterministic {
			v := 0
			if st.Value {
				v = 1
			}
			fmt.Fprintf(&sb, "  q[%d] %s\n", q, fixedStyle.Render(fmt.Sprintf("always %d", v)))
		} else {
			fmt.Fprintf(&sb, "  q[%d] %s\n", q, randomStyle.Render("random"))
		}
	}

	if m.snap.Terms != nil {
		sb.WriteString(dimStyle.Render("amplitudes") + "\n")
		for _, t := range m.snap.Terms {
			fmt.Fprintf(&sb, "  |%0*b⟩ %s\n", len(m.snap.Qubits), reverseBits(t.BasisState, len(m.snap.Qubits)),
				formatAmplitude(t.Prob, t.Phase))
		}
	}
	return stateStyle.Width(statePanelW).Render(strings.TrimRight(sb.String(), "\n"))
}

// reverseBits puts qubit 0 leftmost when the basis index is printed.
func reverseBits(i, n int) int {
	out := 0
	for q := range n {
		if i&(1<<q) != 0 {
			out |= 1 << (n - 1 - q)
		}
	}
	return out
}

// formatAmplitude prints a stabilizer amplitude as magnitude and a phase in
// multiples of π/4.
func formatAmplitude(prob, phase float64) string {
	eighths := int(math.Round(phase/(math.Pi/4))) & 7
	phases := [8]string{"", "·e^{iπ/4}", "·i", "·e^{i3π/4}", "·-1", "·e^{-i3π/4}", "·-i", "·e^{-iπ/4}"}
	return fmt.Sprintf("%.4f%s", math.Sqrt(prob), phases[eighths])
}

// renderRecord builds the viewport content listing every measurement result.
func (m Model) renderRecord() string {
	var sb strings.Builder
	if len(m.snap.Record) == 0 {
		sb.WriteString(dimStyle.Render("no measurements yet"))
	}
	for i, r := range m.snap.Record {
		src := m.snap.Sources[i]
		v := "0"
		if r {
			v = "1"
		}
		fmt.Fprintf(&sb, "m%-3d q[%d] step %-3d → %s", i, src.Qubit, src.Step, activeStyle.Render(v))
		if i < len(m.shotsPercent) {
			fmt.Fprintf(&sb, "  %s", dimStyle.Render(fmt.Sprintf("P(1)≈%.2f", m.shotsPercent[i])))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderRecordPanel() string {
	title := "Measurement record"
	if m.focus == focusRecord {
		title += " [ACTIVE]"
	}
	return recordStyle.Width(statePanelW).Render(titleStyle.Render(title) + "\n" + m.record.View())
}

// renderControlsPanel renders the bottom help bar.
func (m Model) renderControlsPanel(width int) string {
	var sb strings.Builder

	sb.WriteString(activeStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Qubit  ←→/hl Step  +/- Qubits  Tab Record")
	sb.WriteString("    ")
	sb.WriteString(activeStyle.Render("a"))
	sb.WriteString(" Add gate\n")

	sb.WriteString(activeStyle.Render("Actions:  "))
	sb.WriteString("Bksp Delete  ! Invert  b Bias  n Reseed  p Sample  ^W Write shots  ^R Reset  ^S Save  q Quit")

	return controlsStyle.Width(width).Render(sb.String())
}
