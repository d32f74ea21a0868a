// Package ui renders command line output with lipgloss styles.
//
// A single [Palette] holds the title, success, error, warning and help styles. Difficulty shortnames
// are drawn as colored badges through the [Painter] interface. Rendering functions return strings so
// the cmd package decides where they are written; lipgloss drops colors when the output is not a terminal.
package ui
