package catagen

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/foodworks-dev/catagen/internal/pptxtest"
)

func emuAttr(v int64) string {
	return strconv.FormatInt(v, 10)
}

// noGeometrySlide hosts an image token in a shape whose transform is
// inherited rather than explicit.
const noGeometrySlide = slideHeader +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Image"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="en-US"/><a:t>{{image_1}}</a:t></a:r></a:p></p:txBody></p:sp>` + slideFooter

func testPicture(w, h int) Picture {
	return Picture{Data: pptxtest.PNG(), Ext: "png", ContentType: "image/png", Width: w, Height: h}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name           string
		boxW, boxH     int64
		imgW, imgH     int
		w, h, dx, dy   int64
	}{
		{"wide image fits width", 1000, 1000, 200, 100, 1000, 500, 0, 250},
		{"tall image fits height", 1000, 1000, 100, 200, 500, 1000, 250, 0},
		{"matching aspect fills box", 800, 600, 400, 300, 800, 600, 0, 0},
		{"odd slack floors offsets", 1001, 1000, 100, 200, 500, 1000, 250, 0},
		{"degenerate image fills box", 800, 600, 0, 100, 800, 600, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, dx, dy := fitWithin(tt.boxW, tt.boxH, tt.imgW, tt.imgH)
			if w != tt.w || h != tt.h || dx != tt.dx || dy != tt.dy {
				t.Errorf("fitWithin(%d,%d,%d,%d) = (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					tt.boxW, tt.boxH, tt.imgW, tt.imgH, w, h, dx, dy, tt.w, tt.h, tt.dx, tt.dy)
			}
		})
	}
}

func TestPlacePicture(t *testing.T) {
	tpl := loadTemplate(t)
	slide := tpl.TemplateSlide()

	// Box is 2in x 1.5in (4:3); a 4:3 picture fills it exactly.
	placed, err := slide.PlacePicture("{{image_1}}", testPicture(400, 300))
	if err != nil {
		t.Fatalf("place picture: %v", err)
	}
	if !placed {
		t.Fatal("picture not placed")
	}

	if strings.Contains(slide.Text(), "{{image_1}}") {
		t.Error("placeholder text still on slide")
	}
	pics := slide.doc.FindElements("//p:pic")
	if len(pics) != 1 {
		t.Fatalf("got %d pictures, want 1", len(pics))
	}

	off := pics[0].FindElement(".//a:off")
	ext := pics[0].FindElement(".//a:ext")
	if off == nil || ext == nil {
		t.Fatal("picture has no transform")
	}
	if x, y := off.SelectAttrValue("x", ""), off.SelectAttrValue("y", ""); x != emuAttr(Inch(1)) || y != emuAttr(Inch(1)) {
		t.Errorf("picture offset = (%s,%s), want placeholder position", x, y)
	}
	if cx, cy := ext.SelectAttrValue("cx", ""), ext.SelectAttrValue("cy", ""); cx != emuAttr(Inch(2)) || cy != emuAttr(Inch(1.5)) {
		t.Errorf("picture extent = (%s,%s), want full box", cx, cy)
	}

	blip := pics[0].FindElement(".//a:blip")
	if blip == nil || blip.SelectAttrValue("r:embed", "") != "rId2" {
		t.Error("picture not bound to the new image relationship")
	}
	cNvPr := pics[0].FindElement(".//p:cNvPr")
	if cNvPr == nil || cNvPr.SelectAttrValue("id", "") != "7" {
		t.Error("picture shape ID does not continue the slide's ID sequence")
	}

	// Insertion must land ahead of the extension list marker.
	tree := slide.spTree()
	picAt, extLstAt := -1, -1
	for i, el := range tree.ChildElements() {
		switch el.Tag {
		case "pic":
			picAt = i
		case "extLst":
			extLstAt = i
		}
	}
	if picAt == -1 || extLstAt == -1 || picAt > extLstAt {
		t.Errorf("picture at %d, extLst at %d: picture must precede the marker", picAt, extLstAt)
	}
}

func TestPlacePictureCentersTallImage(t *testing.T) {
	tpl := loadTemplate(t)
	slide := tpl.TemplateSlide()

	// Box 2in x 1.5in at x=4in; a 1:2 picture fits the height at width
	// 0.75in, leaving 1.25in of slack split evenly.
	placed, err := slide.PlacePicture("{{image_2}}", testPicture(100, 200))
	if err != nil || !placed {
		t.Fatalf("place picture: placed=%v err=%v", placed, err)
	}

	off := slide.doc.FindElement("//p:pic//a:off")
	if off == nil {
		t.Fatal("picture has no offset")
	}
	wantX := Inch(4) + Inch(1.25)/2
	if x := off.SelectAttrValue("x", ""); x != emuAttr(wantX) {
		t.Errorf("x = %s, want %d", x, wantX)
	}
	if y := off.SelectAttrValue("y", ""); y != emuAttr(Inch(1)) {
		t.Errorf("y = %s, want %d", y, Inch(1))
	}
}

func TestPlacePictureSequentialMedia(t *testing.T) {
	tpl := loadTemplate(t)
	slide := tpl.TemplateSlide()

	for _, token := range []string{"{{image_1}}", "{{image_2}}"} {
		if placed, err := slide.PlacePicture(token, testPicture(1, 1)); err != nil || !placed {
			t.Fatalf("place %s: placed=%v err=%v", token, placed, err)
		}
	}

	if len(tpl.media) != 2 {
		t.Fatalf("got %d media parts, want 2", len(tpl.media))
	}
	if tpl.media[0].name != "image1.png" || tpl.media[1].name != "image2.png" {
		t.Errorf("media names = %s, %s", tpl.media[0].name, tpl.media[1].name)
	}
}

func TestPlacePictureUnknownToken(t *testing.T) {
	tpl := loadTemplate(t)
	placed, err := tpl.TemplateSlide().PlacePicture("{{image_9}}", testPicture(1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if placed {
		t.Error("token absent from slide, nothing should be placed")
	}
}

func TestPlacePictureInTableCell(t *testing.T) {
	tpl := loadTemplate(t)
	placed, err := tpl.TemplateSlide().PlacePicture("{{name_1}}", testPicture(1, 1))
	if placed {
		t.Error("nothing should be placed into a table cell")
	}
	var placementErr *PlacementError
	if !errors.As(err, &placementErr) {
		t.Fatalf("expected PlacementError, got %T: %v", err, err)
	}
	if placementErr.Token != "{{name_1}}" {
		t.Errorf("error token = %q", placementErr.Token)
	}
}

func TestPlacePictureRequiresGeometry(t *testing.T) {
	tpl := loadTemplate(t, noGeometrySlide)
	placed, err := tpl.TemplateSlide().PlacePicture("{{image_1}}", testPicture(1, 1))
	if placed {
		t.Error("placement should fail without explicit geometry")
	}
	var placementErr *PlacementError
	if !errors.As(err, &placementErr) {
		t.Fatalf("expected PlacementError, got %T: %v", err, err)
	}
}
