package checkout

import (
	"bytes"
	"io"

	apttemplate "github.com/appetiteclub/apt/template"
)

const (
	modalTemplateFile        = "checkout_modal.html"
	confirmationTemplateFile = "order_confirmation.html"
)

// Renderer executes the named template defined in file.
type Renderer interface {
	Render(w io.Writer, file, name string, data interface{}) error
}

type templateRenderer struct {
	mgr *apttemplate.Manager
}

// NewTemplateRenderer adapts a template manager to Renderer.
func NewTemplateRenderer(mgr *apttemplate.Manager) Renderer {
	return &templateRenderer{mgr: mgr}
}

func (r *templateRenderer) Render(w io.Writer, file, name string, data interface{}) error {
	tmpl, err := r.mgr.Get(file)
	if err != nil {
		return err
	}

	// Nothing reaches w unless the whole template executed.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}

	_, err = buf.WriteTo(w)
	return err
}
