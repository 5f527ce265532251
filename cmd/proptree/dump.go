package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/builder"
	"github.com/gogpu/proptree/layout"
)

func newDumpCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the property trees of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := a.loadFrame(cmd, args[0])
			if err != nil {
				return err
			}
			switch format {
			case "text":
				return writeText(cmd.OutOrStdout(), frame)
			case "toml":
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(newDump(frame))
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or toml")
	return cmd
}

// nodeEntry is one node held by the frame or one of its objects.
type nodeEntry struct {
	label string
	node  any
}

// forestIndex labels every node reachable from a frame and groups nodes by
// parent.
type forestIndex struct {
	labels   map[any]string
	children map[any][]nodeEntry
	order    []nodeEntry
}

func indexFrame(frame *layout.Frame) *forestIndex {
	f := frame.Forest
	idx := &forestIndex{
		labels: map[any]string{
			f.RootTransform(): "root",
			f.RootClip():      "root",
			f.RootEffect():    "root",
			f.RootScroll():    "root",
		},
		children: make(map[any][]nodeEntry),
	}
	builder.WalkNodes(frame, func(object, slot string, node any) {
		e := nodeEntry{label: object + "." + slot, node: node}
		idx.labels[node] = e.label
		idx.order = append(idx.order, e)
		parent := parentOf(node)
		idx.children[parent] = append(idx.children[parent], e)
	})
	return idx
}

func (idx *forestIndex) label(node any) string {
	if l, ok := idx.labels[node]; ok {
		return l
	}
	return "?"
}

func parentOf(node any) any {
	switch n := node.(type) {
	case *proptree.TransformNode:
		return n.Parent()
	case *proptree.ClipNode:
		return n.Parent()
	case *proptree.EffectNode:
		return n.Parent()
	case *proptree.ScrollNode:
		return n.Parent()
	}
	return nil
}

func treeName(node any) string {
	switch node.(type) {
	case *proptree.TransformNode:
		return "transform"
	case *proptree.ClipNode:
		return "clip"
	case *proptree.EffectNode:
		return "effect"
	case *proptree.ScrollNode:
		return "scroll"
	}
	return "unknown"
}

func (idx *forestIndex) state(s proptree.PropertyTreeState) string {
	return fmt.Sprintf("transform=%s clip=%s effect=%s scroll=%s",
		idx.label(s.Transform), idx.label(s.Clip), idx.label(s.Effect), idx.label(s.Scroll))
}

func writeText(w io.Writer, frame *layout.Frame) error {
	idx := indexFrame(frame)
	var b strings.Builder

	fmt.Fprintf(&b, "frame viewport=%v contents=%v scroll=%v\n",
		frame.ViewportSize, frame.ContentsSize, frame.ScrollOffset)

	f := frame.Forest
	for _, root := range []any{f.RootTransform(), f.RootClip(), f.RootEffect(), f.RootScroll()} {
		fmt.Fprintf(&b, "\n%s tree\n", treeName(root))
		idx.writeTree(&b, root, "root", 1)
	}

	b.WriteString("\nobjects\n")
	frame.Walk(func(o *layout.Object) bool {
		if o.Properties == nil || o.Properties.LocalBorderBoxProperties() == nil {
			return true
		}
		lbb := o.Properties.LocalBorderBoxProperties()
		fmt.Fprintf(&b, "  %s offset=%v %s\n", o.Name, lbb.PaintOffset, idx.state(lbb.State))
		return true
	})

	_, err := io.WriteString(w, b.String())
	return err
}

func (idx *forestIndex) writeTree(b *strings.Builder, node any, label string, depth int) {
	indent := strings.Repeat("  ", depth)
	if label == "root" {
		fmt.Fprintf(b, "%sroot\n", indent)
	} else {
		fmt.Fprintf(b, "%s%s %v\n", indent, label, node)
	}
	for _, c := range idx.children[node] {
		idx.writeTree(b, c.node, c.label, depth+1)
	}
}

// ---------------------------------------------------------------------------
// TOML
// ---------------------------------------------------------------------------

type frameDump struct {
	Viewport [2]float64   `toml:"viewport"`
	Contents [2]float64   `toml:"contents"`
	Scroll   [2]float64   `toml:"scroll"`
	Nodes    []nodeDump   `toml:"node"`
	Objects  []objectDump `toml:"object"`
}

type nodeDump struct {
	Name   string `toml:"name"`
	Tree   string `toml:"tree"`
	Parent string `toml:"parent"`
	Value  string `toml:"value"`
}

type objectDump struct {
	Name        string     `toml:"name"`
	Kind        string     `toml:"kind"`
	PaintOffset [2]float64 `toml:"paint_offset"`
	Transform   string     `toml:"transform"`
	Clip        string     `toml:"clip"`
	Effect      string     `toml:"effect"`
	Scroll      string     `toml:"scroll"`
}

func newDump(frame *layout.Frame) frameDump {
	idx := indexFrame(frame)
	d := frameDump{
		Viewport: [2]float64{frame.ViewportSize.W, frame.ViewportSize.H},
		Contents: [2]float64{frame.ContentsSize.W, frame.ContentsSize.H},
		Scroll:   [2]float64{frame.ScrollOffset.X, frame.ScrollOffset.Y},
	}
	for _, e := range idx.order {
		d.Nodes = append(d.Nodes, nodeDump{
			Name:   e.label,
			Tree:   treeName(e.node),
			Parent: idx.label(parentOf(e.node)),
			Value:  fmt.Sprint(e.node),
		})
	}
	frame.Walk(func(o *layout.Object) bool {
		if o.Properties == nil || o.Properties.LocalBorderBoxProperties() == nil {
			return true
		}
		lbb := o.Properties.LocalBorderBoxProperties()
		d.Objects = append(d.Objects, objectDump{
			Name:        o.Name,
			Kind:        o.Kind.String(),
			PaintOffset: [2]float64{lbb.PaintOffset.X, lbb.PaintOffset.Y},
			Transform:   idx.label(lbb.State.Transform),
			Clip:        idx.label(lbb.State.Clip),
			Effect:      idx.label(lbb.State.Effect),
			Scroll:      idx.label(lbb.State.Scroll),
		})
		return true
	})
	return d
}
