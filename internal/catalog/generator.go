// Package catalog paginates product records over a template slide and
// drives the pptx engine to produce one catalog file per supplier group.
package catalog

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/phuslu/log"

	"github.com/foodworks-dev/catagen"
	"github.com/foodworks-dev/catagen/internal/images"
	"github.com/foodworks-dev/catagen/internal/records"
)

// DefaultCapacity is the number of product slots per template slide.
const DefaultCapacity = 2

// Source yields the ordered records for one group code plus the group's
// display label.
type Source interface {
	Load(groupCode string) ([]records.Record, string, error)
}

// Result reports one finished generation run.
type Result struct {
	OutputPath string
	Label      string
	Records    int
	Pages      int
}

// Empty reports whether the run matched no records, in which case no file
// was written.
func (r Result) Empty() bool {
	return r.OutputPath == ""
}

// Generator renders supplier catalogs from a single-slide template.
type Generator struct {
	Source       Source
	TemplatePath string
	ImageDir     string
	OutputDir    string
	Prefix       string // output filename prefix
	Capacity     int    // product slots per page

	now func() time.Time // overridable in tests
}

// Generate builds the catalog for one supplier group code. Zero matching
// records is not an error: it returns an empty Result and writes nothing.
func (g *Generator) Generate(groupCode string) (Result, error) {
	capacity := g.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	recs, label, err := g.Source.Load(groupCode)
	if err != nil {
		return Result{}, fmt.Errorf("load records: %w", err)
	}
	if len(recs) == 0 {
		log.Warn().Str("group", groupCode).Msg("no records matched, nothing to generate")
		return Result{}, nil
	}
	log.Info().Str("supplier", label).Int("records", len(recs)).Msg("generating catalog")

	tpl, err := catagen.LoadTemplate(g.TemplatePath)
	if err != nil {
		return Result{}, err
	}

	pages := paginate(recs, capacity)

	// Clone every page up front: later pages must copy the template slide
	// before the first page's substitution touches it.
	slides := make([]*catagen.Slide, len(pages))
	slides[0] = tpl.TemplateSlide()
	for i := 1; i < len(pages); i++ {
		slides[i] = tpl.CloneSlide()
	}

	for i, page := range pages {
		repl, err := buildReplacements(page, label, capacity)
		if err != nil {
			return Result{}, err
		}
		slides[i].ReplaceTokens(repl)
		if err := g.placeImages(slides[i], page, groupCode); err != nil {
			return Result{}, err
		}
		log.Debug().Int("page", i+1).Int("records", len(page)).Msg("page rendered")
	}

	out := g.outputPath(label)
	if err := tpl.Save(out); err != nil {
		return Result{}, fmt.Errorf("save catalog: %w", err)
	}
	log.Info().Str("path", out).Int("pages", len(pages)).Msg("catalog written")
	return Result{OutputPath: out, Label: label, Records: len(recs), Pages: len(pages)}, nil
}

// paginate chunks records into fixed-size pages in source order; the last
// page may be partial.
func paginate(recs []records.Record, capacity int) [][]records.Record {
	var pages [][]records.Record
	for start := 0; start < len(recs); start += capacity {
		end := start + capacity
		if end > len(recs) {
			end = len(recs)
		}
		pages = append(pages, recs[start:end])
	}
	return pages
}

// buildReplacements produces a map covering the whole token vocabulary for
// the page: formatted record fields for filled slots, empty strings for
// every text class and the image token of unfilled slots. Image tokens of
// filled slots are deliberately absent, they are handled by placement.
func buildReplacements(page []records.Record, label string, capacity int) (map[string]string, error) {
	repl := map[string]string{TokenSupplier: label}
	for slot := 1; slot <= capacity; slot++ {
		if slot > len(page) {
			for _, class := range textClasses {
				repl[Token(class, slot)] = ""
			}
			repl[ImageToken(slot)] = ""
			continue
		}

		r := page[slot-1]
		price, err := r.Currency(FieldPrice)
		if err != nil {
			return nil, err
		}
		msrp, err := r.MSRP(FieldMSRP)
		if err != nil {
			return nil, err
		}

		repl[Token(FieldName, slot)] = r.Scalar(FieldName, records.DefaultMarker)
		repl[Token(FieldCapacity, slot)] = r.Scalar(FieldCapacity, records.DefaultMarker)
		repl[Token(FieldUnit, slot)] = r.Scalar(FieldUnit, records.DefaultMarker)
		repl[Token(FieldMOQ, slot)] = r.Scalar(FieldMOQ, records.DefaultMarker)
		repl[Token(FieldStorage, slot)] = r.Scalar(FieldStorage, records.DefaultMarker)
		repl[Token(FieldExpiry, slot)] = r.Scalar(FieldExpiry, records.DefaultMarker)
		repl[Token(FieldPrice, slot)] = price
		repl[Token(FieldMSRP, slot)] = msrp
		repl[Token(FieldDescription, slot)] = r.Scalar(FieldDescription, "")
	}
	return repl, nil
}

// placeImages embeds each filled slot's product picture, falling back to
// literal text when no picture file exists for the record.
func (g *Generator) placeImages(slide *catagen.Slide, page []records.Record, groupCode string) error {
	for i, rec := range page {
		token := ImageToken(i + 1)

		path, ok := images.Resolve(g.ImageDir, groupCode, rec.ID)
		if !ok {
			slide.ReplaceTokenWithText(token, catagen.NoImageText)
			log.Warn().Str("product", rec.ID).Msg("image not found, using text fallback")
			continue
		}

		pic, err := images.Load(path)
		if err != nil {
			return fmt.Errorf("load image for %s: %w", rec.ID, err)
		}
		if _, err := slide.PlacePicture(token, pic); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) outputPath(label string) string {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	name := fmt.Sprintf("%s_%s_%s.pptx", g.Prefix, label, now().Format("20060102"))
	return filepath.Join(g.OutputDir, name)
}
