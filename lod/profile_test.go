package lod

import (
	"errors"
	"testing"

	"github.com/wbryon/wink-ai-hackathon/errs"
)

func TestResolveBlankDefaultsToSketch(t *testing.T) {
	for _, code := range []string{"", "   ", "\t"} {
		p, err := Resolve(code)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", code, err)
		}
		if p.Code != CodeSketch {
			t.Fatalf("Resolve(%q) = %q, want sketch", code, p.Code)
		}
	}
}

func TestResolveCaseInsensitiveAndIdempotent(t *testing.T) {
	cases := map[string]string{
		"sketch":       CodeSketch,
		"SKETCH":       CodeSketch,
		"Mid":          CodeMid,
		"medium":       CodeMid,
		"FINAL":        CodeFinal,
		"direct_final": CodeDirectFinal,
		"Direct-Final": CodeDirectFinal,
		"directfinal":  CodeDirectFinal,
	}
	for in, want := range cases {
		p, err := Resolve(in)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", in, err)
		}
		if p.Code != want {
			t.Fatalf("Resolve(%q) = %q, want %q", in, p.Code, want)
		}
		// Resolving a resolved code yields the same profile.
		again, err := Resolve(p.Code)
		if err != nil || again.Code != p.Code {
			t.Fatalf("Resolve(Resolve(%q)) = %q, %v", in, again.Code, err)
		}
	}
}

func TestResolveUnknownFails(t *testing.T) {
	if _, err := Resolve("bogus"); !errors.Is(err, errs.ErrInvalidProfile) {
		t.Fatalf("Resolve(bogus) err = %v, want ErrInvalidProfile", err)
	}
}

func TestImg2ImgOnlyForMidAndFinal(t *testing.T) {
	for _, code := range []string{CodeSketch, CodeMid, CodeFinal, CodeDirectFinal} {
		p, err := Resolve(code)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", code, err)
		}
		wantI2I := code == CodeMid || code == CodeFinal
		if p.IsImg2Img() != wantI2I {
			t.Fatalf("%s: IsImg2Img = %v, want %v", code, p.IsImg2Img(), wantI2I)
		}
		if gotNil := p.RecommendedDenoise() == nil; gotNil == wantI2I {
			t.Fatalf("%s: RecommendedDenoise nil = %v, want %v", code, gotNil, !wantI2I)
		}
		if p.IsImg2Img() != (p.DenoiseMin != nil && p.DenoiseMax != nil) {
			t.Fatalf("%s: IsImg2Img disagrees with denoise range", code)
		}
	}
}

func TestRecommendedMidpoints(t *testing.T) {
	p, _ := Resolve(CodeMid)
	if got := p.RecommendedSteps(); got != 23 {
		t.Fatalf("mid RecommendedSteps = %d, want 23", got)
	}
	if got := p.RecommendedCfg(); got != 7.0 {
		t.Fatalf("mid RecommendedCfg = %v, want 7.0", got)
	}
	if got := *p.RecommendedDenoise(); got < 0.349 || got > 0.351 {
		t.Fatalf("mid RecommendedDenoise = %v, want 0.35", got)
	}
}

func TestParseResolution(t *testing.T) {
	cases := []struct {
		in   string
		w, h int
	}{
		{"1536x896", 1536, 896},
		{"720", 720, 540},
		{" 720 ", 720, 540},
		{"garbage", 1024, 768},
		{"axb", 1024, 768},
		{"", 1024, 768},
	}
	for _, tc := range cases {
		w, h := ParseResolution(tc.in)
		if w != tc.w || h != tc.h {
			t.Fatalf("ParseResolution(%q) = %dx%d, want %dx%d", tc.in, w, h, tc.w, tc.h)
		}
	}
}
