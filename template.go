package catagen

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Part limits guard against hostile or corrupt archives. A catalog template
// is a small authored file; anything outside these bounds is rejected.
const (
	maxPartSize    = 50 * 1024 * 1024  // single part
	maxPackageSize = 200 * 1024 * 1024 // whole archive
	maxPartCount   = 10000
)

// part is one raw zip entry of the template package, kept in archive order.
type part struct {
	name string
	data []byte
}

// mediaPart is a picture embedded during generation, written under ppt/media.
type mediaPart struct {
	name        string
	contentType string
	data        []byte
}

// Template is a loaded .pptx template and the document generated from it.
// The first page is rendered into the template slide itself and later pages
// into clones, so a Template is scoped to a single generation run: load a
// fresh one instead of reusing a mutated instance.
type Template struct {
	path string

	parts     []part
	partIndex map[string]int

	slidePath     string
	slideRelsPath string

	contentTypes *etree.Document
	presentation *etree.Document
	presRels     *etree.Document

	slides []*Slide
	media  []mediaPart

	nextSlideNum int
	nextMediaNum int
	nextSlideID  int
}

var (
	slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	mediaPartRe = regexp.MustCompile(`^ppt/media/image(\d+)\.`)
)

// LoadTemplate reads a .pptx template from disk. The template must contain
// exactly one slide; its layout, master, theme and every part the engine
// never touches are carried into the output byte-for-byte.
func LoadTemplate(tplPath string) (*Template, error) {
	f, err := os.Open(tplPath)
	if err != nil {
		return nil, &TemplateError{Path: tplPath, Detail: "cannot open", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &TemplateError{Path: tplPath, Detail: "cannot stat", Err: err}
	}
	return ReadTemplateFrom(f, info.Size(), tplPath)
}

// ReadTemplateFrom reads a template package from r. The name is used in
// error messages only.
func ReadTemplateFrom(r io.ReaderAt, size int64, name string) (*Template, error) {
	if size <= 0 || size > maxPackageSize {
		return nil, &TemplateError{Path: name, Detail: fmt.Sprintf("invalid package size %d", size)}
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &TemplateError{Path: name, Detail: "not a zip package", Err: err}
	}
	if len(zr.File) > maxPartCount {
		return nil, &TemplateError{Path: name, Detail: fmt.Sprintf("too many parts (%d)", len(zr.File))}
	}

	t := &Template{
		path:         name,
		partIndex:    make(map[string]int, len(zr.File)),
		nextSlideNum: 2,
		nextMediaNum: 1,
		nextSlideID:  256,
	}
	for _, zf := range zr.File {
		if zf.UncompressedSize64 > maxPartSize {
			return nil, &TemplateError{Path: name, Detail: fmt.Sprintf("part %s exceeds size limit", zf.Name)}
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, &TemplateError{Path: name, Detail: "cannot open part " + zf.Name, Err: err}
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
		rc.Close()
		if err != nil {
			return nil, &TemplateError{Path: name, Detail: "cannot read part " + zf.Name, Err: err}
		}
		if len(data) > maxPartSize {
			return nil, &TemplateError{Path: name, Detail: fmt.Sprintf("part %s exceeds size limit", zf.Name)}
		}
		t.partIndex[zf.Name] = len(t.parts)
		t.parts = append(t.parts, part{name: zf.Name, data: data})
	}

	if err := t.parseCoreParts(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Template) parseCoreParts() error {
	var err error
	if t.contentTypes, err = t.parseXMLPart("[Content_Types].xml"); err != nil {
		return err
	}
	if t.presentation, err = t.parseXMLPart("ppt/presentation.xml"); err != nil {
		return err
	}
	if t.presRels, err = t.parseXMLPart("ppt/_rels/presentation.xml.rels"); err != nil {
		return err
	}

	sldIDs := t.slideIDList()
	if sldIDs == nil {
		return &TemplateError{Path: t.path, Detail: "presentation has no slide list"}
	}
	ids := sldIDs.SelectElements("p:sldId")
	if len(ids) != 1 {
		return &TemplateError{Path: t.path, Detail: fmt.Sprintf("template must contain exactly one slide, found %d", len(ids))}
	}

	relID := ids[0].SelectAttrValue("r:id", "")
	target := relTarget(t.presRels, relID)
	if target == "" {
		return &TemplateError{Path: t.path, Detail: "slide relationship " + relID + " not found"}
	}
	t.slidePath = normalizePartPath(target)
	t.slideRelsPath = path.Dir(t.slidePath) + "/_rels/" + path.Base(t.slidePath) + ".rels"

	slideDoc, err := t.parseXMLPart(t.slidePath)
	if err != nil {
		return err
	}

	relsDoc := etree.NewDocument()
	if i, ok := t.partIndex[t.slideRelsPath]; ok {
		if err := relsDoc.ReadFromBytes(t.parts[i].data); err != nil {
			return &TemplateError{Path: t.path, Detail: "malformed part " + t.slideRelsPath, Err: err}
		}
	} else {
		relsDoc.CreateElement("Relationships").CreateAttr("xmlns", nsRelationships)
	}
	t.slides = []*Slide{{doc: slideDoc, rels: relsDoc, t: t}}

	t.scanPartNumbers()
	t.scanSlideIDs(ids)
	return nil
}

func (t *Template) parseXMLPart(name string) (*etree.Document, error) {
	i, ok := t.partIndex[name]
	if !ok {
		return nil, &TemplateError{Path: t.path, Detail: "missing required part " + name}
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(t.parts[i].data); err != nil {
		return nil, &TemplateError{Path: t.path, Detail: "malformed part " + name, Err: err}
	}
	return doc, nil
}

func (t *Template) slideIDList() *etree.Element {
	root := t.presentation.Root()
	if root == nil {
		return nil
	}
	return root.SelectElement("p:sldIdLst")
}

// scanPartNumbers finds the next free slide and media part numbers so that
// appended parts never collide with existing ones.
func (t *Template) scanPartNumbers() {
	for _, p := range t.parts {
		if m := slidePartRe.FindStringSubmatch(p.name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n+1 > t.nextSlideNum {
				t.nextSlideNum = n + 1
			}
		}
		if m := mediaPartRe.FindStringSubmatch(p.name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n+1 > t.nextMediaNum {
				t.nextMediaNum = n + 1
			}
		}
	}
}

func (t *Template) scanSlideIDs(ids []*etree.Element) {
	for _, id := range ids {
		if n, err := strconv.Atoi(id.SelectAttrValue("id", "")); err == nil && n+1 > t.nextSlideID {
			t.nextSlideID = n + 1
		}
	}
}

// TemplateSlide returns the template's own slide. The first generated page
// is rendered into it directly.
func (t *Template) TemplateSlide() *Slide {
	return t.slides[0]
}

// Slides returns all slides in page order.
func (t *Template) Slides() []*Slide {
	return t.slides
}

// CloneSlide duplicates the template slide part together with its
// relationship part and appends the copy as the next page. The clone shares
// the template's layout and master binding and its shape tree is identical
// to the template slide at the time of the call, so clone every page before
// substituting the first one.
func (t *Template) CloneSlide() *Slide {
	src := t.slides[0]
	s := &Slide{doc: src.doc.Copy(), rels: src.rels.Copy(), t: t}
	t.slides = append(t.slides, s)
	return s
}

// addMedia registers picture bytes as a new media part and returns the part
// file name under ppt/media.
func (t *Template) addMedia(pic Picture) string {
	name := fmt.Sprintf("image%d.%s", t.nextMediaNum, pic.Ext)
	t.nextMediaNum++
	t.media = append(t.media, mediaPart{name: name, contentType: pic.ContentType, data: pic.Data})
	t.ensureDefaultContentType(pic.Ext, pic.ContentType)
	return name
}

func (t *Template) ensureDefaultContentType(ext, contentType string) {
	root := t.contentTypes.Root()
	if root == nil {
		return
	}
	for _, d := range root.SelectElements("Default") {
		if strings.EqualFold(d.SelectAttrValue("Extension", ""), ext) {
			return
		}
	}
	d := root.CreateElement("Default")
	d.CreateAttr("Extension", ext)
	d.CreateAttr("ContentType", contentType)
}

func relTarget(rels *etree.Document, id string) string {
	root := rels.Root()
	if root == nil || id == "" {
		return ""
	}
	for _, rel := range root.SelectElements("Relationship") {
		if rel.SelectAttrValue("Id", "") == id {
			return rel.SelectAttrValue("Target", "")
		}
	}
	return ""
}

// normalizePartPath resolves a presentation-relative relationship target to
// a package part name.
func normalizePartPath(target string) string {
	target = strings.TrimPrefix(target, "/")
	if !strings.HasPrefix(target, "ppt/") {
		target = "ppt/" + target
	}
	return target
}
