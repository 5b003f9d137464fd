// Package lod holds the static Level-of-Detail profile table: one named
// bundle of generation parameters per quality tier. Profiles are
// immutable; everything here is a pure lookup.
package lod

import (
	"strconv"
	"strings"

	"github.com/wbryon/wink-ai-hackathon/errs"
)

// Codes of the four supported profiles.
const (
	CodeSketch      = "sketch"
	CodeMid         = "mid"
	CodeFinal       = "final"
	CodeDirectFinal = "direct_final"
)

// Generation paths recorded on frames.
const (
	PathDirect      = "direct"
	PathProgressive = "progressive"
)

// Profile bundles the generation parameters for one detail level.
// DenoiseMin/DenoiseMax are nil exactly for the text-to-image-only
// profiles (sketch, direct_final).
type Profile struct {
	Code               string
	StepsMin           int
	StepsMax           int
	CfgMin             float64
	CfgMax             float64
	DenoiseMin         *float64
	DenoiseMax         *float64
	DefaultResolution  string
	DefaultNegatives   []string
	RefinerRecommended bool
	UpscaleRecommended bool
}

func denoise(v float64) *float64 { return &v }

var profiles = map[string]Profile{
	// Sketch: b/w composition pass, fast and cheap.
	CodeSketch: {
		Code:              CodeSketch,
		StepsMin:          8,
		StepsMax:          15,
		CfgMin:            5.0,
		CfgMax:            7.0,
		DefaultResolution: "720",
		DefaultNegatives:  []string{"colors", "fine textures", "typography", "text watermark"},
	},
	// Mid: adds color and basic materials while keeping the composition.
	CodeMid: {
		Code:              CodeMid,
		StepsMin:          18,
		StepsMax:          28,
		CfgMin:            6.0,
		CfgMax:            8.0,
		DenoiseMin:        denoise(0.25),
		DenoiseMax:        denoise(0.45),
		DefaultResolution: "720",
		DefaultNegatives:  []string{"ultra-detailed skin pores", "complex patterns", "watermark", "low-res"},
	},
	// Final: presentable quality, refiner and upscale recommended.
	CodeFinal: {
		Code:               CodeFinal,
		StepsMin:           22,
		StepsMax:           36,
		CfgMin:             7.0,
		CfgMax:             9.0,
		DenoiseMin:         denoise(0.35),
		DenoiseMax:         denoise(0.55),
		DefaultResolution:  "720",
		DefaultNegatives:   []string{"low-res", "extra fingers", "text", "artifact", "over-sharpen", "blurry"},
		RefinerRecommended: true,
		UpscaleRecommended: true,
	},
	// Direct final: single-shot final without a sketch stage.
	CodeDirectFinal: {
		Code:               CodeDirectFinal,
		StepsMin:           28,
		StepsMax:           40,
		CfgMin:             7.5,
		CfgMax:             9.5,
		DefaultResolution:  "720",
		DefaultNegatives:   []string{"low-res", "extra fingers", "text", "artifact", "complex patterns", "watermark"},
		RefinerRecommended: true,
		UpscaleRecommended: true,
	},
}

// Resolve maps a caller-supplied code to a profile. Blank resolves to
// sketch; a non-blank unknown code is an InvalidProfile error.
func Resolve(code string) (Profile, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return profiles[CodeSketch], nil
	}
	switch normalized {
	case "medium":
		normalized = CodeMid
	case "direct-final", "directfinal":
		normalized = CodeDirectFinal
	}
	p, ok := profiles[normalized]
	if !ok {
		return Profile{}, errs.ErrInvalidProfile
	}
	return p, nil
}

// RecommendedSteps is the midpoint of the steps range.
func (p Profile) RecommendedSteps() int {
	return (p.StepsMin + p.StepsMax) / 2
}

// RecommendedCfg is the midpoint of the guidance range.
func (p Profile) RecommendedCfg() float64 {
	return (p.CfgMin + p.CfgMax) / 2.0
}

// RecommendedDenoise is the midpoint of the denoise range, or nil for
// text-to-image-only profiles.
func (p Profile) RecommendedDenoise() *float64 {
	if p.DenoiseMin == nil || p.DenoiseMax == nil {
		return nil
	}
	return denoise((*p.DenoiseMin + *p.DenoiseMax) / 2.0)
}

// IsImg2Img reports whether the profile is reachable only via
// image-to-image generation.
func (p Profile) IsImg2Img() bool {
	return p.DenoiseMin != nil && p.DenoiseMax != nil
}

// NegativesString joins the default negative prompts for the wire payload.
func (p Profile) NegativesString() string {
	return strings.Join(p.DefaultNegatives, ", ")
}

// ParseResolution turns a profile resolution string into width and
// height. "WxH" parses directly; a bare number is taken as the width
// with a 4:3 height; anything else falls back to 1024x768.
func ParseResolution(s string) (width, height int) {
	s = strings.TrimSpace(strings.ToLower(s))
	if w, h, ok := strings.Cut(s, "x"); ok {
		wi, werr := strconv.Atoi(strings.TrimSpace(w))
		hi, herr := strconv.Atoi(strings.TrimSpace(h))
		if werr == nil && herr == nil && wi > 0 && hi > 0 {
			return wi, hi
		}
		return 1024, 768
	}
	if wi, err := strconv.Atoi(s); err == nil && wi > 0 {
		return wi, wi * 3 / 4
	}
	return 1024, 768
}
