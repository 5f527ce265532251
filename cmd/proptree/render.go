package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/layout"
)

func newRenderCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Rasterize the border boxes of a document to PNG",
		Long: `render draws every box's border box through its transform chain,
clipped by its clip chain and faded by its accumulated opacity. Each box
gets its own hue, which makes transform and clip mistakes easy to spot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := a.loadFrame(cmd, args[0])
			if err != nil {
				return err
			}
			dc := renderFrame(frame)
			defer dc.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := dc.EncodePNG(w); err != nil {
				return fmt.Errorf("encoding %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "proptree.png", `output file, "-" for stdout`)
	return cmd
}

// renderFrame draws the frame in the forest root space, which is the
// embedder's space.
func renderFrame(frame *layout.Frame) *gg.Context {
	w := int(math.Ceil(frame.ViewportSize.W + frame.Location.X))
	h := int(math.Ceil(frame.ViewportSize.H + frame.Location.Y))
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	_ = dc.Fill()

	m := proptree.NewGeometryMapper(frame.Forest)
	root := frame.Forest.RootState()
	drawn := 0

	frame.Walk(func(o *layout.Object) bool {
		if o.Properties == nil || o.Properties.LocalBorderBoxProperties() == nil {
			return true
		}
		lbb := o.Properties.LocalBorderBoxProperties()
		toRoot, ok := m.LocalToAncestorMatrix(lbb.State.Transform, root.Transform)
		if !ok {
			proptree.Logger().Debug("render: box not mappable to root", "object", o.Name)
			return true
		}
		quad := toRoot.MapQuad(o.BorderBoxRect().Move(lbb.PaintOffset).Quad())

		dc.Push()
		if clip, ok := m.LocalToAncestorClipRect(lbb.State, root); ok {
			dc.ClipRect(clip.X, clip.Y, clip.W, clip.H)
		}
		color := gg.HSL(float64(drawn)*47, 0.65, 0.5)
		opacity := lbb.State.Effect.AccumulatedOpacity()

		points := quad.Points()
		dc.MoveTo(points[0].X, points[0].Y)
		for _, p := range points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		dc.SetRGBA(color.R, color.G, color.B, 0.3*opacity)
		_ = dc.FillPreserve()
		dc.SetRGBA(color.R, color.G, color.B, opacity)
		dc.SetLineWidth(1)
		_ = dc.Stroke()
		dc.Pop()

		drawn++
		return true
	})

	proptree.Logger().Info("rendered frame", "boxes", drawn, "width", w, "height", h)
	return dc
}
