package main

import (
	"fmt"
	"strings"

	"qtermstab/gates"
)

// menuItem is a single gate choice in the picker.
type menuItem struct {
	label string
	gate  *gates.Gate
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

var gateLabels = map[string]string{
	"I":          "Identity",
	"X":          "Pauli-X",
	"Y":          "Pauli-Y",
	"Z":          "Pauli-Z",
	"H":          "Hadamard",
	"H_XY":       "Hadamard XY",
	"H_YZ":       "Hadamard YZ",
	"SQRT_X":     "√X",
	"SQRT_X_DAG": "√X†",
	"SQRT_Y":     "√Y",
	"SQRT_Y_DAG": "√Y†",
	"S":          "Phase (S)",
	"S_DAG":      "Phase† (S†)",
	"CX":         "CNOT",
	"CY":         "Controlled-Y",
	"CZ":         "Controlled-Z",
	"SWAP":       "SWAP",
	"ISWAP":      "iSWAP",
	"ISWAP_DAG":  "iSWAP†",
	"M":          "Measure Z",
	"R":          "Reset Z",
	"X_ERROR":    "X error",
	"Y_ERROR":    "Y error",
	"Z_ERROR":    "Z error",
}

func items(names ...string) []menuItem {
	out := make([]menuItem, len(names))
	for i, n := range names {
		label, ok := gateLabels[n]
		if !ok {
			label = n
		}
		out[i] = menuItem{label: label, gate: gates.MustLookup(n)}
	}
	return out
}

// gateMenu defines the gate picker categories and items.
var gateMenu = []menuCategory{
	{name: "Pauli", items: items("I", "X", "Y", "Z")},
	{name: "Single Qubit", items: items("H", "H_XY", "H_YZ", "SQRT_X", "SQRT_X_DAG", "SQRT_Y", "SQRT_Y_DAG", "S", "S_DAG")},
	{name: "Two Qubit", items: items(gates.Clifford(2)...)},
	{name: "Collapse", items: items("M", "R")},
	{name: "Noise", items: items("X_ERROR", "Y_ERROR", "Z_ERROR")},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 48)))
	sb.WriteString("\n")

	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ " + fmt.Sprintf("%-14s", item.label)))
			sb.WriteString(gateStyle.Render(item.gate.Symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-14s", item.label)))
			sb.WriteString(dimStyle.Render(item.gate.Symbol))
		}
		if item.gate.Arity == 2 {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		if item.gate.NumArgs > 0 {
			sb.WriteString(dimStyle.Render(" (p)"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
