// Package document turns a small HTML subset into a laid out frame.
//
// It stands in for a real layout engine in tests and in the proptree
// command. Only inline style attributes are honored, every element is a
// block box stacked vertically in its parent, and every text run is a
// single line box:
//
//	frame, err := document.LoadString(`<body style="margin:0">
//	  <div id="box" style="transform:rotate(45deg);width:100px;height:100px"></div>
//	</body>`)
//
// Supported properties are position, left, top, width, height, margin,
// padding, border-width, border-radius, overflow, transform,
// transform-origin, transform-style, perspective, perspective-origin,
// opacity, filter, z-index, clip and background-attachment. Inline <svg>
// elements become SVG roots; their rect, circle, ellipse, line, image,
// use, g and nested svg children become SVG children.
package document
