// Package ui holds terminal styling helpers.
package ui

import (
	"github.com/pterm/pterm"
)

func Green(a any) string {
	return pterm.LightGreen(a)
}

func Cyan(a any) string {
	return pterm.LightCyan(a)
}

func Yellow(a any) string {
	return pterm.LightYellow(a)
}

func Red(a any) string {
	return pterm.LightRed(a)
}

func Highlight(a any) string {
	return pterm.LightWhite(a)
}

// DisableStyling disables all styling provided by pterm.
func DisableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}
