package catagen

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Save writes the generated presentation to disk, creating the directory if
// needed. On failure the partial file is removed so nothing half-written is
// left behind.
func (t *Template) Save(outPath string) error {
	dir := filepath.Dir(outPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	writeErr := t.WriteTo(f)
	closeErr := f.Close()
	if writeErr != nil {
		os.Remove(outPath)
		return writeErr
	}
	if closeErr != nil {
		os.Remove(outPath)
		return closeErr
	}
	return nil
}

// WriteTo writes the presentation package to w. Parts the generator never
// touched are copied from the template byte-for-byte; mutated parts are
// re-serialized in place and cloned slides, their relationships and embedded
// media are appended. WriteTo finalizes the package bookkeeping (slide list,
// relationships, content types), so call it once per Template.
func (t *Template) WriteTo(w io.Writer) error {
	extras, err := t.registerClones()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	for _, p := range t.parts {
		var data []byte
		var err error
		switch p.name {
		case "[Content_Types].xml":
			data, err = t.contentTypes.WriteToBytes()
		case "ppt/presentation.xml":
			data, err = t.presentation.WriteToBytes()
		case "ppt/_rels/presentation.xml.rels":
			data, err = t.presRels.WriteToBytes()
		case t.slidePath:
			data, err = t.slides[0].doc.WriteToBytes()
		case t.slideRelsPath:
			data, err = t.slides[0].rels.WriteToBytes()
		default:
			data = p.data
		}
		if err != nil {
			return fmt.Errorf("serialize %s: %w", p.name, err)
		}
		if err := writePart(zw, p.name, data); err != nil {
			return err
		}
	}

	// The template slide may not have had a relationship part at all.
	if _, ok := t.partIndex[t.slideRelsPath]; !ok {
		data, err := t.slides[0].rels.WriteToBytes()
		if err != nil {
			return fmt.Errorf("serialize %s: %w", t.slideRelsPath, err)
		}
		if err := writePart(zw, t.slideRelsPath, data); err != nil {
			return err
		}
	}

	for _, ex := range extras {
		if err := writePart(zw, ex.name, ex.data); err != nil {
			return err
		}
	}
	for _, m := range t.media {
		if err := writePart(zw, "ppt/media/"+m.name, m.data); err != nil {
			return err
		}
	}

	return zw.Close()
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s in zip: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// registerClones assigns part names to cloned slides and extends the slide
// list, the presentation relationships and the content types accordingly.
func (t *Template) registerClones() ([]part, error) {
	sldIDs := t.slideIDList()
	presRoot := t.presRels.Root()
	ctRoot := t.contentTypes.Root()
	if sldIDs == nil || presRoot == nil || ctRoot == nil {
		return nil, &TemplateError{Path: t.path, Detail: "presentation bookkeeping parts are malformed"}
	}

	var extras []part
	for i, s := range t.slides[1:] {
		num := t.nextSlideNum + i
		slidePart := fmt.Sprintf("ppt/slides/slide%d.xml", num)
		relsPart := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", num)

		data, err := s.doc.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", slidePart, err)
		}
		relsData, err := s.rels.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", relsPart, err)
		}
		extras = append(extras,
			part{name: slidePart, data: data},
			part{name: relsPart, data: relsData})

		relID := fmt.Sprintf("rId%d", maxRelNum(presRoot)+1)
		rel := presRoot.CreateElement("Relationship")
		rel.CreateAttr("Id", relID)
		rel.CreateAttr("Type", relTypeSlide)
		rel.CreateAttr("Target", fmt.Sprintf("slides/slide%d.xml", num))

		sldID := sldIDs.CreateElement("p:sldId")
		sldID.CreateAttr("id", strconv.Itoa(t.nextSlideID))
		sldID.CreateAttr("r:id", relID)
		t.nextSlideID++

		ov := ctRoot.CreateElement("Override")
		ov.CreateAttr("PartName", "/"+slidePart)
		ov.CreateAttr("ContentType", ctSlide)
	}
	return extras, nil
}
