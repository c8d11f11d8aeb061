package classify_test

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-legaldocs/pkg/classify"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/testsupport"
)

func TestAnnotateGolden(t *testing.T) {
	cases := []struct {
		name   string
		lang   model.Language
		text   string
		golden string
	}{
		{
			name: "english",
			lang: model.English,
			text: "GIFT DEED\n" +
				"THIS GIFT DEED is executed on 1 Oct 2026\n" +
				"1. PURPOSE. The Parties desire to exchange information.\n" +
				"DONOR: Lakshmi\n" +
				"WITNESSES:\n" +
				"\n" +
				"The Donee accepts the gift.",
			golden: "annotate_en.golden.json",
		},
		{
			name:   "tamil",
			lang:   model.Tamil,
			text:   "தான பத்திரம்\nவழங்குபவர்: லட்சுமி\nசாட்சிகள்:",
			golden: "annotate_ta.golden.json",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines := classify.Annotate(tc.text, tc.lang)
			testsupport.AssertGoldenJSON(t, filepath.Join("testdata", tc.golden), lines)
		})
	}
}
