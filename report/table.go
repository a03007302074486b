// Package report renders the outcome of an anchor fix for people: a per-frame table and a
// trajectory plot of the subject before and after correction.
package report

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/montanaflynn/stats"

	"go.viam.com/anchorfix/anchorfix"
)

func formatPoint(p r3.Vector) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

// Table renders the anchor, original and corrected world translation of every frame.
func Table(r *anchorfix.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("%s fixed to %s, frames %d-%d, axes %s", r.Subject, r.Anchor, r.FrameStart, r.FrameEnd, r.Mask))
	tw.AppendHeader(table.Row{"Frame", "Anchor", "Original", "Corrected", "Shift"})

	shifts := make(stats.Float64Data, 0, len(r.Corrections))
	for i, c := range r.Corrections {
		if i >= len(r.Samples) {
			break
		}
		s := r.Samples[i]
		original := s.SubjectWorld.Point()
		corrected := c.DesiredWorld.Point()
		shift := corrected.Sub(original).Norm()
		shifts = append(shifts, shift)
		tw.AppendRow(table.Row{
			c.Frame,
			formatPoint(s.AnchorWorld.Point()),
			formatPoint(original),
			formatPoint(corrected),
			fmt.Sprintf("%.3f", shift),
		})
	}
	if mean, maxShift, err := ShiftStats(shifts); err == nil {
		tw.AppendFooter(table.Row{"", "", "", "mean / max", fmt.Sprintf("%.3f / %.3f", mean, maxShift)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

// ShiftStats returns the mean and largest distance the subject was moved. It errors on an
// empty input.
func ShiftStats(shifts []float64) (mean, maxShift float64, err error) {
	data := stats.Float64Data(shifts)
	if mean, err = data.Mean(); err != nil {
		return 0, 0, err
	}
	if maxShift, err = data.Max(); err != nil {
		return 0, 0, err
	}
	return mean, maxShift, nil
}
