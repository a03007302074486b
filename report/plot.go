package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.viam.com/anchorfix/anchorfix"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 4 * vg.Inch
)

var axisLabels = [3]string{"x", "y", "z"}

func axisValue(p r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// trajectory builds the plot of every axis of the subject's world translation, dashed before
// correction and solid after.
func trajectory(r *anchorfix.Report) (*plot.Plot, error) {
	if len(r.Corrections) == 0 {
		return nil, errors.New("report has no corrected frames")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s fixed to %s", r.Subject, r.Anchor)
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "world translation"
	p.Legend.Top = true

	for axis, label := range axisLabels {
		original := make(plotter.XYs, 0, len(r.Corrections))
		corrected := make(plotter.XYs, 0, len(r.Corrections))
		for i, c := range r.Corrections {
			if i >= len(r.Samples) {
				break
			}
			frame := float64(c.Frame)
			original = append(original, plotter.XY{X: frame, Y: axisValue(r.Samples[i].SubjectWorld.Point(), axis)})
			corrected = append(corrected, plotter.XY{X: frame, Y: axisValue(c.DesiredWorld.Point(), axis)})
		}

		before, err := plotter.NewLine(original)
		if err != nil {
			return nil, err
		}
		before.Color = plotutil.Color(axis)
		before.Dashes = plotutil.Dashes(1)

		after, err := plotter.NewLine(corrected)
		if err != nil {
			return nil, err
		}
		after.Color = plotutil.Color(axis)

		p.Add(before, after)
		p.Legend.Add(label+" original", before)
		p.Legend.Add(label+" corrected", after)
	}
	p.Add(plotter.NewGrid())
	return p, nil
}

// WritePlot writes the trajectory plot to w in format, one of the formats gonum/plot
// supports such as "png" or "svg".
func WritePlot(r *anchorfix.Report, w io.Writer, format string) error {
	p, err := trajectory(r)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePlot writes the trajectory plot to path, in the format its extension names.
func SavePlot(r *anchorfix.Report, path string) error {
	if strings.TrimPrefix(filepath.Ext(path), ".") == "" {
		return errors.Errorf("cannot tell plot format of %q without an extension", path)
	}
	p, err := trajectory(r)
	if err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}
