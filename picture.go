package catagen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Picture is a decoded, pptx-ready image: bytes already in an embeddable
// format plus the intrinsic pixel size used for the aspect fit.
type Picture struct {
	Data        []byte
	Ext         string // part extension, "png" or "jpeg"
	ContentType string
	Width       int
	Height      int
}

// PlacePicture swaps the placeholder shape whose text equals token for an
// embedded picture. The picture is scaled to the largest size that fits the
// placeholder box without distortion and centered inside it; the placeholder
// shape is removed and the picture inserted ahead of the extension-list
// marker. Reports (false, nil) when no shape on the slide carries the token.
// A token hosted in a table cell, or a matching shape without explicit
// geometry, is a PlacementError.
func (s *Slide) PlacePicture(token string, pic Picture) (bool, error) {
	tree := s.spTree()
	if tree == nil || token == "" {
		return false, nil
	}

	if tableHoldsToken(tree, token) {
		return false, &PlacementError{Token: token, Reason: "image placeholder inside a table cell"}
	}

	var host *etree.Element
	for _, ch := range tree.ChildElements() {
		if ch.Tag != "sp" {
			continue
		}
		if strings.TrimSpace(shapeText(ch)) == token {
			host = ch
			break
		}
	}
	if host == nil {
		return false, nil
	}

	x, y, cx, cy, ok := shapeBox(host)
	if !ok {
		return false, &PlacementError{Token: token, Reason: "placeholder shape has no explicit geometry"}
	}

	w, h, dx, dy := fitWithin(cx, cy, pic.Width, pic.Height)

	name := s.t.addMedia(pic)
	relID := s.addImageRel("../media/" + name)
	id := s.nextShapeID()

	picEl := buildPicElement(id, fmt.Sprintf("Picture %d", id), relID, x+dx, y+dy, w, h)
	tree.RemoveChild(host)
	insertBeforeExtLst(tree, picEl)
	return true, nil
}

func tableHoldsToken(tree *etree.Element, token string) bool {
	for _, gf := range tree.SelectElements("p:graphicFrame") {
		for _, tc := range tableCells(gf) {
			tb := tc.SelectElement("a:txBody")
			if tb == nil {
				continue
			}
			for _, p := range tb.SelectElements("a:p") {
				if strings.Contains(paragraphText(p), token) {
					return true
				}
			}
		}
	}
	return false
}

// shapeBox reads the shape's explicit transform. ok is false when the shape
// inherits its geometry (no a:xfrm) or the values are unusable.
func shapeBox(sp *etree.Element) (x, y, cx, cy int64, ok bool) {
	spPr := sp.SelectElement("p:spPr")
	if spPr == nil {
		return
	}
	xfrm := spPr.SelectElement("a:xfrm")
	if xfrm == nil {
		return
	}
	off := xfrm.SelectElement("a:off")
	ext := xfrm.SelectElement("a:ext")
	if off == nil || ext == nil {
		return
	}
	var err error
	if x, err = strconv.ParseInt(off.SelectAttrValue("x", ""), 10, 64); err != nil {
		return
	}
	if y, err = strconv.ParseInt(off.SelectAttrValue("y", ""), 10, 64); err != nil {
		return
	}
	if cx, err = strconv.ParseInt(ext.SelectAttrValue("cx", ""), 10, 64); err != nil {
		return
	}
	if cy, err = strconv.ParseInt(ext.SelectAttrValue("cy", ""), 10, 64); err != nil {
		return
	}
	if cx <= 0 || cy <= 0 {
		return
	}
	ok = true
	return
}

// fitWithin computes the largest rectangle with the picture's aspect ratio
// that fits inside a boxW×boxH EMU box, plus the offsets that center it.
// Degenerate inputs fall back to filling the whole box.
func fitWithin(boxW, boxH int64, imgW, imgH int) (w, h, dx, dy int64) {
	if imgW <= 0 || imgH <= 0 || boxW <= 0 || boxH <= 0 {
		return boxW, boxH, 0, 0
	}
	imgAspect := float64(imgW) / float64(imgH)
	boxAspect := float64(boxW) / float64(boxH)
	if imgAspect > boxAspect {
		w = boxW
		h = int64(float64(boxW) / imgAspect)
	} else {
		h = boxH
		w = int64(float64(boxH) * imgAspect)
	}
	return w, h, (boxW - w) / 2, (boxH - h) / 2
}

func buildPicElement(id int, name, relID string, x, y, w, h int64) *etree.Element {
	pic := etree.NewElement("p:pic")

	nv := pic.CreateElement("p:nvPicPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", name)
	nv.CreateElement("p:cNvPicPr").CreateElement("a:picLocks").CreateAttr("noChangeAspect", "1")
	nv.CreateElement("p:nvPr")

	fill := pic.CreateElement("p:blipFill")
	fill.CreateElement("a:blip").CreateAttr("r:embed", relID)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("p:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", strconv.FormatInt(x, 10))
	off.CreateAttr("y", strconv.FormatInt(y, 10))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.FormatInt(w, 10))
	ext.CreateAttr("cy", strconv.FormatInt(h, 10))
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")

	return pic
}
