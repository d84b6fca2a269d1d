package catagen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// NoImageText is the literal fallback written in place of an image token
// when no picture file exists for the record.
const NoImageText = "no image"

// Slide is one output page: the template slide itself for the first page, a
// deep copy for every later page.
type Slide struct {
	doc  *etree.Document
	rels *etree.Document
	t    *Template
}

// spTree returns the slide's shape tree, or nil for a malformed slide part.
func (s *Slide) spTree() *etree.Element {
	root := s.doc.Root()
	if root == nil {
		return nil
	}
	cSld := root.SelectElement("p:cSld")
	if cSld == nil {
		return nil
	}
	return cSld.SelectElement("p:spTree")
}

// Text returns the concatenated run text of the whole slide in tree order.
// Intended for diagnostics and tests.
func (s *Slide) Text() string {
	tree := s.spTree()
	if tree == nil {
		return ""
	}
	var sb strings.Builder
	collectText(tree, &sb)
	return sb.String()
}

func collectText(el *etree.Element, sb *strings.Builder) {
	if el.Space == "a" && el.Tag == "t" {
		sb.WriteString(el.Text())
		return
	}
	for _, ch := range el.ChildElements() {
		collectText(ch, sb)
	}
}

// paragraphText merges the text of every run fragment of a paragraph back
// into the single logical string authoring tools may have split apart.
func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	for _, r := range p.SelectElements("a:r") {
		if tEl := r.SelectElement("a:t"); tEl != nil {
			sb.WriteString(tEl.Text())
		}
	}
	return sb.String()
}

// shapeText concatenates the text of every paragraph in a shape's text body.
func shapeText(sp *etree.Element) string {
	tb := sp.SelectElement("p:txBody")
	if tb == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range tb.SelectElements("a:p") {
		sb.WriteString(paragraphText(p))
	}
	return sb.String()
}

// insertBeforeExtLst inserts el into parent ahead of the extension-list
// marker so master-level decorations keep rendering last.
func insertBeforeExtLst(parent, el *etree.Element) {
	for i, ch := range parent.Child {
		if c, ok := ch.(*etree.Element); ok && c.Tag == "extLst" {
			parent.InsertChildAt(i, el)
			return
		}
	}
	parent.AddChild(el)
}

// nextShapeID returns one past the highest non-visual drawing ID on the slide.
func (s *Slide) nextShapeID() int {
	max := 1
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.Tag == "cNvPr" {
			if n, err := strconv.Atoi(el.SelectAttrValue("id", "")); err == nil && n > max {
				max = n
			}
		}
		for _, ch := range el.ChildElements() {
			walk(ch)
		}
	}
	if root := s.doc.Root(); root != nil {
		walk(root)
	}
	return max + 1
}

// addImageRel registers an image relationship on the slide's relationship
// part and returns the new relationship ID.
func (s *Slide) addImageRel(target string) string {
	root := s.rels.Root()
	if root == nil {
		root = s.rels.CreateElement("Relationships")
		root.CreateAttr("xmlns", nsRelationships)
	}
	id := fmt.Sprintf("rId%d", maxRelNum(root)+1)
	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relTypeImage)
	rel.CreateAttr("Target", target)
	return id
}

func maxRelNum(root *etree.Element) int {
	max := 0
	for _, rel := range root.SelectElements("Relationship") {
		id := rel.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > max {
			max = n
		}
	}
	return max
}
