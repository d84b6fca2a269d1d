package catagen

// OOXML namespace, relationship and content-type constants for the parts the
// engine rewrites or appends.
const (
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

	relTypeSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeImage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
)
