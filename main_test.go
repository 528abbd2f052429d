package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	apttemplate "github.com/appetiteclub/apt/template"

	"github.com/appetiteclub/checkout/internal/checkout"
)

func TestEmbeddedTemplatesLoad(t *testing.T) {
	mgr := apttemplate.NewManager(assetsFS)
	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for _, file := range []string{"checkout_modal.html", "order_confirmation.html"} {
		if _, err := mgr.Get(file); err != nil {
			t.Errorf("Get(%q) error = %v", file, err)
		}
	}
}

func TestEmbeddedTemplatesRender(t *testing.T) {
	mgr := apttemplate.NewManager(assetsFS)
	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	renderer := checkout.NewTemplateRenderer(mgr)

	modal := struct {
		Title string
		Modal checkout.ModalView
		Base  string
	}{
		Title: "Place Order",
		Modal: checkout.ModalView{
			ID:     "m1",
			Form:   checkout.FormState{Name: "Jo", Phone: "(555) 123-4567"},
			Errors: []string{"address cannot be blank."},
		},
		Base: "/checkout/m1",
	}

	confirmation := struct {
		Title   string
		OrderID string
	}{Title: "Order Confirmed", OrderID: "42"}

	tests := []struct {
		name string
		file string
		def  string
		data interface{}
		want string
	}{
		{name: "modal", file: "checkout_modal.html", def: "checkout_modal", data: modal, want: "address cannot be blank."},
		{name: "page", file: "checkout_modal.html", def: "checkout_page", data: modal, want: "/checkout/m1/place-order"},
		{name: "phoneInput", file: "checkout_modal.html", def: "checkout_phone_input", data: modal, want: "(555) 123-4567"},
		{name: "confirmation", file: "order_confirmation.html", def: "order_confirmation", data: confirmation, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := renderer.Render(&buf, tt.file, tt.def, tt.data); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Render() output missing %q:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	mgr := apttemplate.NewManager(assetsFS)
	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var buf bytes.Buffer
	err := checkout.NewTemplateRenderer(mgr).Render(&buf, "missing.html", "missing", nil)
	if err == nil {
		t.Fatal("Render() should fail for an unknown file")
	}
	if buf.Len() != 0 {
		t.Errorf("Render() wrote %d bytes on failure", buf.Len())
	}
}
