// Package catagen renders multi-page product catalog presentations (.pptx)
// from a single designed template slide.
//
// A template is a normal PowerPoint file whose one slide carries literal
// placeholder tokens such as {{supplier}}, {{name_1}} or {{image_2}}. The
// engine loads the template, substitutes tokens page by page, clones the
// template slide for every page after the first, swaps image placeholders
// for embedded pictures with an aspect-preserving centered fit, and writes
// the result as a new presentation. Every package part the engine does not
// touch is carried into the output byte-for-byte, so the template's layout,
// master, theme and fonts survive unchanged.
package catagen

// Version is the current catagen version.
const Version = "0.2.0"
