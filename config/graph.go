package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/activecm/fwgraph/util"
)

// Hostname resolution modes accepted by GraphLayer.ResolveHostnames
const (
	ResolveOff          = "off"
	ResolveAll          = "all"
	ResolveInternalOnly = "internal-only"
)

// Color modes accepted by GraphLayer.ColorMode
const (
	ColorGradient = "gradient"
	ColorHeatmap  = "heatmap"
)

// CurveStraight disables edge smoothing; the other curve styles are handed
// to the renderer untouched
const CurveStraight = "straight"

var curveStyles = []string{
	CurveStraight, "dynamic", "continuous", "discrete", "diagonalCross",
	"straightCross", "horizontal", "vertical", "curvedCW", "curvedCCW",
	"cubicBezier",
}

type (
	//GraphLayer is one layer of graph settings. Unset (nil) fields leave the
	//value from the layers beneath untouched.
	GraphLayer struct {
		TopN                *int      `yaml:"TopN,omitempty"`
		NodeSizeRange       []float64 `yaml:"NodeSizeRange,omitempty"`
		NodeSizeMultiplier  *float64  `yaml:"NodeSizeMultiplier,omitempty"`
		EdgeWidthMultiplier *float64  `yaml:"EdgeWidthMultiplier,omitempty"`
		BaseEdgeWidth       *float64  `yaml:"BaseEdgeWidth,omitempty"`
		EdgeWidthScale      *float64  `yaml:"EdgeWidthScale,omitempty"`
		CurveStyle          *string   `yaml:"CurveStyle,omitempty"`
		ColorMode           *string   `yaml:"ColorMode,omitempty"`
		LabelThreshold      *float64  `yaml:"LabelThreshold,omitempty"`
		ResolveHostnames    *string   `yaml:"ResolveHostnames,omitempty"`
	}

	//GraphCfg is the fully merged and validated set of values the pipeline
	//runs with
	GraphCfg struct {
		Preset              string
		Name                string
		Description         string
		DefaultOutput       string
		TopN                int
		NodeSizeMin         float64
		NodeSizeMax         float64
		NodeSizeMultiplier  float64
		EdgeWidthMultiplier float64
		BaseEdgeWidth       float64
		EdgeWidthScale      float64
		CurveStyle          string
		ColorMode           string
		LabelThreshold      float64
		ResolveHostnames    string
		Labels              LabelStaticCfg
		Theme               ThemeCfg
		Physics             PhysicsCfg
	}
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func stringPtr(s string) *string  { return &s }

// defaultLayer is the bottom layer, every field is set
func defaultLayer() GraphLayer {
	return GraphLayer{
		TopN:                intPtr(400),
		NodeSizeRange:       []float64{3, 15},
		NodeSizeMultiplier:  floatPtr(1),
		EdgeWidthMultiplier: floatPtr(1),
		BaseEdgeWidth:       floatPtr(1),
		EdgeWidthScale:      floatPtr(6),
		CurveStyle:          stringPtr(CurveStraight),
		ColorMode:           stringPtr(ColorGradient),
		LabelThreshold:      floatPtr(0),
		ResolveHostnames:    stringPtr(ResolveOff),
	}
}

// apply copies every set field of l onto cfg
func (l GraphLayer) apply(cfg *GraphCfg) {
	if l.TopN != nil {
		cfg.TopN = *l.TopN
	}
	if l.NodeSizeRange != nil {
		if len(l.NodeSizeRange) > 0 {
			cfg.NodeSizeMin = l.NodeSizeRange[0]
		}
		if len(l.NodeSizeRange) > 1 {
			cfg.NodeSizeMax = l.NodeSizeRange[1]
		}
	}
	if l.NodeSizeMultiplier != nil {
		cfg.NodeSizeMultiplier = *l.NodeSizeMultiplier
	}
	if l.EdgeWidthMultiplier != nil {
		cfg.EdgeWidthMultiplier = *l.EdgeWidthMultiplier
	}
	if l.BaseEdgeWidth != nil {
		cfg.BaseEdgeWidth = *l.BaseEdgeWidth
	}
	if l.EdgeWidthScale != nil {
		cfg.EdgeWidthScale = *l.EdgeWidthScale
	}
	if l.CurveStyle != nil {
		cfg.CurveStyle = *l.CurveStyle
	}
	if l.ColorMode != nil {
		cfg.ColorMode = *l.ColorMode
	}
	if l.LabelThreshold != nil {
		cfg.LabelThreshold = *l.LabelThreshold
	}
	if l.ResolveHostnames != nil {
		cfg.ResolveHostnames = *l.ResolveHostnames
	}
}

// ResolveGraph merges, in order, the defaults, the Graph section of the
// config file, the named preset, the file's override for that preset and
// finally the command line layer into one validated GraphCfg
func (c *Config) ResolveGraph(presetName string, flags GraphLayer) (GraphCfg, error) {
	preset, err := GetPreset(presetName)
	if err != nil {
		return GraphCfg{}, err
	}

	cfg := GraphCfg{
		Preset:        presetName,
		Name:          preset.Name,
		Description:   preset.Description,
		DefaultOutput: preset.DefaultOutput,
		Labels:        c.S.HostnameLabels,
		Theme:         preset.Theme,
		Physics:       preset.Physics,
	}

	layers := []GraphLayer{defaultLayer(), c.S.Graph, preset.Layer}
	if override, ok := c.S.Presets[presetName]; ok {
		layers = append(layers, override)
	}
	layers = append(layers, flags)

	for _, layer := range layers {
		layer.apply(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return GraphCfg{}, err
	}
	return cfg, nil
}

// Validate checks the merged values against the ranges the pipeline accepts
func (g GraphCfg) Validate() error {
	switch {
	case g.TopN < 1:
		return ValidationError{Field: "TopN", Reason: "must be at least 1"}
	case g.NodeSizeMin <= 0 || g.NodeSizeMax <= 0:
		return ValidationError{Field: "NodeSizeRange", Reason: "bounds must be positive"}
	case g.NodeSizeMin >= g.NodeSizeMax:
		return ValidationError{Field: "NodeSizeRange", Reason: "min must be below max"}
	case g.NodeSizeMultiplier <= 0:
		return ValidationError{Field: "NodeSizeMultiplier", Reason: "must be positive"}
	case g.EdgeWidthMultiplier <= 0:
		return ValidationError{Field: "EdgeWidthMultiplier", Reason: "must be positive"}
	case g.BaseEdgeWidth <= 0:
		return ValidationError{Field: "BaseEdgeWidth", Reason: "must be positive"}
	case g.EdgeWidthScale < 1:
		return ValidationError{Field: "EdgeWidthScale", Reason: "must be at least 1"}
	case g.LabelThreshold < 0 || g.LabelThreshold > 1:
		return ValidationError{Field: "LabelThreshold", Reason: "must be between 0 and 1"}
	case !util.StringInSlice(g.CurveStyle, curveStyles):
		return ValidationError{Field: "CurveStyle", Reason: "must be one of " + strings.Join(curveStyles, ", ")}
	case g.ColorMode != ColorGradient && g.ColorMode != ColorHeatmap:
		return ValidationError{Field: "ColorMode", Reason: fmt.Sprintf("must be %s or %s", ColorGradient, ColorHeatmap)}
	}

	switch g.ResolveHostnames {
	case ResolveOff, ResolveAll, ResolveInternalOnly:
	default:
		return ValidationError{Field: "ResolveHostnames", Reason: fmt.Sprintf("must be %s, %s or %s", ResolveOff, ResolveAll, ResolveInternalOnly)}
	}
	return nil
}

// PresetNames lists the built in presets alphabetically
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
