package catagen

import "fmt"

// TemplateError reports a template package that could not be loaded or does
// not satisfy the template contract (exactly one slide).
type TemplateError struct {
	Path   string
	Detail string
	Err    error
}

func (e *TemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template %s: %s: %v", e.Path, e.Detail, e.Err)
	}
	return fmt.Sprintf("template %s: %s", e.Path, e.Detail)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// PlacementError reports an image placeholder token that matched in a hosting
// context that cannot receive a picture. Silently dropping an image would be
// worse than failing, so this aborts the run.
type PlacementError struct {
	Token  string
	Reason string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("cannot place image for %s: %s", e.Token, e.Reason)
}
