// Package report renders run results for humans.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hupe1980/crossrank/aggregate"
	"github.com/hupe1980/crossrank/model"
)

// Formats.
const (
	FormatText  = "text"
	FormatTable = "table"
)

// Status describes the parameters of a run.
type Status struct {
	K       int
	Measure string
	Indices []string
	Queries []model.DocumentKey
}

// Theme defines the color scheme of the table format.
type Theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Number lipgloss.Style
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Header: lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Number: lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		Border: lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Writer renders a status header and per-query results.
type Writer interface {
	WriteStatus(w io.Writer, s Status) error
	WriteResult(w io.Writer, r *aggregate.Result) error
}

// New returns the Writer for format.
func New(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return Text{}, nil
	case FormatTable:
		return Table{Styles: NewStyles(DefaultTheme)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", model.ErrConfiguration, format)
	}
}

// Write renders the status and then every result in order.
func Write(w io.Writer, rw Writer, s Status, results []*aggregate.Result) error {
	if err := rw.WriteStatus(w, s); err != nil {
		return err
	}
	for _, r := range results {
		if err := rw.WriteResult(w, r); err != nil {
			return err
		}
	}
	return nil
}
