package live

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the table layout for an unknown terminal width.
func defaultColumns() []table.Column {
	return columnsForWidth(100)
}

// columnsForWidth sizes the title column to the terminal width.
func columnsForWidth(width int) []table.Column {
	const fixed = 8 + 12 + 20 + 12
	title := max(width-fixed-8, 16)
	return []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Question", Width: title},
		{Title: "Type", Width: 12},
		{Title: "Status", Width: 20},
		{Title: "Points", Width: 12},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatQuestionID(row),
			formatQuestionText(row.Title),
			string(row.Kind),
			formatStatus(row, noColor),
			formatRowPoints(row),
		})
	}
	return rows
}
