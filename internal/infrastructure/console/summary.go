package console

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"TNSBot/internal/report"
	"TNSBot/internal/usecase"
)

// NewTable returns a rounded table writer mirrored to w (stdout when nil).
func NewTable(w io.Writer) table.Writer {
	if w == nil {
		w = os.Stdout
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// WriteSummary prints the matched objects of a run and the status of every step.
func WriteSummary(w io.Writer, out usecase.Outcome) {
	objects := NewTable(w)
	objects.SetTitle("Matched objects")
	objects.AppendHeader(table.Row{"Source", "Name", "Type", "Coordinates", "Redshift"})
	for _, rec := range out.Records {
		objects.AppendRow(table.Row{
			"catalog",
			rec.FullName(),
			rec.Type,
			report.FormatCoordinates(rec.RA, rec.Dec),
			redshift(rec.Redshift),
		})
	}
	for _, note := range out.Notes {
		for _, obj := range note.Objects {
			objects.AppendRow(table.Row{
				"astronote",
				obj.Name,
				obj.Classification,
				strings.TrimSpace(obj.RA + " " + obj.Dec),
				redshift(obj.Redshift),
			})
		}
	}
	objects.AppendFooter(table.Row{"", "Total", objectCount(out)})
	objects.Render()

	steps := NewTable(w)
	steps.SetTitle("Run")
	steps.AppendHeader(table.Row{"Step", "Status", "Error"})
	delivered := false
	for _, res := range out.Steps {
		msg := ""
		if res.Err != nil {
			msg = res.Err.Error()
		}
		steps.AppendRow(table.Row{string(res.Step), res.Status.String(), msg})
		delivered = delivered || res.Step == usecase.StepDelivery
	}
	if !delivered {
		steps.AppendRow(table.Row{string(usecase.StepDelivery), out.Delivery.String(), ""})
	}
	steps.Render()
}

func objectCount(out usecase.Outcome) int {
	n := len(out.Records)
	for _, note := range out.Notes {
		n += len(note.Objects)
	}
	return n
}

func redshift(z *float64) string {
	if z == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*z, 'f', -1, 64)
}

