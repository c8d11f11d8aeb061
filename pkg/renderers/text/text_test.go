package text

import (
	"context"
	"testing"

	"github.com/goliatone/go-legaldocs/pkg/render"
)

func TestRender(t *testing.T) {
	r := New()
	out, err := r.Render(context.Background(), render.Document{Text: "TITLE\nbody"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "TITLE\nbody\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = r.Render(context.Background(), render.Document{}, render.RenderOptions{})
	if err != nil || len(out) != 0 {
		t.Fatalf("expected empty output, got %q %v", out, err)
	}
}
