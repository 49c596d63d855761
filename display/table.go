package display

import (
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/bindgen/errors"
)

// RenderTable prints rows under a header row as an aligned table.
func RenderTable(w io.Writer, header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}
