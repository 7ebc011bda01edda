/*
 * plot.go, part of dockprep.
 *
 * Copyright 2025 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * dockprep is developed at Universidad de Tarapaca (UTA)
 *
 */

package align

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotRMSD plots the backbone and pocket RMSD of each frame and saves the plot to
// filename. The format is given by the extension (png, svg, pdf, eps...).
func PlotRMSD(frames []FrameRMSD, filename string) error {
	if len(frames) == 0 {
		return fmt.Errorf("PlotRMSD: no frames to plot")
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = "Pocket-aligned RMSD"
	p.X.Label.Text = "Model"
	p.Y.Label.Text = "RMSD (nm)"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())
	bb := make(plotter.XYs, len(frames))
	pocket := make(plotter.XYs, len(frames))
	for i, v := range frames {
		bb[i].X = float64(i + 1)
		bb[i].Y = v.Backbone
		pocket[i].X = float64(i + 1)
		pocket[i].Y = v.Pocket
	}
	lbb, sbb, err := plotter.NewLinePoints(bb)
	if err != nil {
		return err
	}
	lbb.Color = color.RGBA{R: 200, A: 255}
	sbb.GlyphStyle.Color = lbb.Color
	lp, sp, err := plotter.NewLinePoints(pocket)
	if err != nil {
		return err
	}
	lp.Color = color.RGBA{B: 200, A: 255}
	sp.GlyphStyle.Color = lp.Color
	sp.GlyphStyle.Shape = draw.SquareGlyph{}
	p.Add(lbb, sbb, lp, sp)
	p.Legend.Add("Backbone", lbb, sbb)
	p.Legend.Add("Pocket", lp, sp)
	p.Legend.Top = true
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
