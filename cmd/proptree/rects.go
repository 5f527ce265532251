package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/layout"
)

func newRectsCmd(a *app) *cobra.Command {
	var includeViewportClip bool
	cmd := &cobra.Command{
		Use:   "rects FILE",
		Short: "Print the visual rect of every box in frame contents space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := a.loadFrame(cmd, args[0])
			if err != nil {
				return err
			}
			m := proptree.NewGeometryMapper(frame.Forest)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			frame.Walk(func(o *layout.Object) bool {
				if o.Properties == nil || o.Properties.LocalBorderBoxProperties() == nil {
					return true
				}
				r, ok := visualRect(m, frame, o, includeViewportClip)
				if !ok {
					fmt.Fprintf(tw, "%s\t-\n", o.Name)
					return true
				}
				fmt.Fprintf(tw, "%s\t%v\n", o.Name, r)
				return true
			})
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&includeViewportClip, "include-viewport-clip", false,
		"also clip to the frame's visible content rect")
	return cmd
}

func visualRect(m *proptree.GeometryMapper, frame *layout.Frame, o *layout.Object, includeViewportClip bool) (proptree.Rect, bool) {
	if includeViewportClip {
		return frame.VisualRectInViewport(m, o)
	}
	return frame.VisualRect(m, o)
}
