package main

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"qtermstab/gates"
)

func TestRenderCellWidths(t *testing.T) {
	g := &Grid{NumQubits: 3}
	place(t, g, "ISWAP_DAG", 0, 0, 2)
	place(t, g, "SQRT_X_DAG", 1, 1)
	place(t, g, "M", 2, 0)
	assert.NoError(t, g.Place(Placement{Gate: gates.MustLookup("R"), Targets: []int{2}, Step: 2, Inverted: true}))

	for step := range 4 {
		for q := range 3 {
			for _, hl := range []cellHighlight{hlNone, hlCursor, hlTargetSelect} {
				top, mid, bot := renderCell(g.cell(step, q), hl)
				assert.Equal(t, cellW, lipgloss.Width(top), "step %d q %d hl %d top", step, q, hl)
				assert.Equal(t, cellW, lipgloss.Width(mid), "step %d q %d hl %d mid", step, q, hl)
				assert.Equal(t, cellW, lipgloss.Width(bot), "step %d q %d hl %d bot", step, q, hl)
			}
		}
	}
}

func TestWireSymbols(t *testing.T) {
	assert.Equal(t, "●", wireSymbol(gates.MustLookup("CX"), 0))
	assert.Equal(t, "⊕", wireSymbol(gates.MustLookup("CX"), 1))
	assert.Equal(t, "×†", wireSymbol(gates.MustLookup("ISWAP_DAG"), 1))
}

func TestBoxName(t *testing.T) {
	m := Placement{Gate: gates.MustLookup("M"), Inverted: true}
	assert.Equal(t, "!M", boxName(&m))
	r := Placement{Gate: gates.MustLookup("R")}
	assert.Equal(t, "|0⟩", boxName(&r))
	r.Inverted = true
	assert.Equal(t, "|1⟩", boxName(&r))
}

func TestFormatAmplitude(t *testing.T) {
	assert.Equal(t, "0.7071", formatAmplitude(0.5, 0))
	assert.Equal(t, "0.7071·i", formatAmplitude(0.5, 1.5707963267948966))
	assert.Equal(t, "1.0000·-1", formatAmplitude(1, -3.141592653589793))
	assert.Equal(t, "0.5000·-i", formatAmplitude(0.25, -1.5707963267948966))
}

func TestReverseBits(t *testing.T) {
	assert.Equal(t, 0b100, reverseBits(0b001, 3))
	assert.Equal(t, 0b011, reverseBits(0b110, 3))
}
