package config

import (
	"fmt"
	"strings"
)

type (
	//Preset bundles a named graph layer with the renderer look it was tuned for
	Preset struct {
		Name          string
		Description   string
		DefaultOutput string
		Layer         GraphLayer
		Theme         ThemeCfg
		Physics       PhysicsCfg
	}

	//ThemeCfg is the canvas look handed to the HTML renderer
	ThemeCfg struct {
		Height     string
		Width      string
		Background string
		FontColor  string
	}

	//PhysicsCfg holds the barnes-hut layout settings handed to the HTML renderer
	PhysicsCfg struct {
		GravitationalConstant   int
		CentralGravity          float64
		SpringLength            int
		SpringConstant          float64
		Damping                 float64
		ArrowScale              float64
		StabilizationIterations int
	}
)

var presets = map[string]Preset{
	"intensity": {
		Name:          "Intensity Map",
		Description:   "Balanced visualization with intensity-based coloring",
		DefaultOutput: "firewall_intensity_map.html",
		Layer: GraphLayer{
			TopN:           intPtr(400),
			NodeSizeRange:  []float64{3, 15},
			EdgeWidthScale: floatPtr(6),
			ColorMode:      stringPtr(ColorGradient),
		},
		Theme: ThemeCfg{Height: "900px", Width: "100%", Background: "#0b0e11", FontColor: "white"},
		Physics: PhysicsCfg{
			GravitationalConstant: -20000, CentralGravity: 0.8, SpringLength: 100,
			SpringConstant: 0.04, Damping: 0.09, ArrowScale: 0.4, StabilizationIterations: 40,
		},
	},
	"heatmap": {
		Name:          "Security Heatmap",
		Description:   "Advanced heatmap with color-coded nodes by intensity",
		DefaultOutput: "firewall_security_heatmap.html",
		Layer: GraphLayer{
			TopN:           intPtr(350),
			NodeSizeRange:  []float64{3, 14},
			EdgeWidthScale: floatPtr(7),
			ColorMode:      stringPtr(ColorHeatmap),
		},
		Theme: ThemeCfg{Height: "950px", Width: "100%", Background: "#0d1117", FontColor: "#f0f6fc"},
		Physics: PhysicsCfg{
			GravitationalConstant: -40000, CentralGravity: 0.5, SpringLength: 180,
			SpringConstant: 0.05, Damping: 0.4, ArrowScale: 0.4, StabilizationIterations: 60,
		},
	},
	"micro": {
		Name:          "Micro-Scale Heatmap",
		Description:   "Compact visualization with micro-scale nodes for high-density data",
		DefaultOutput: "firewall_micro_map.html",
		Layer: GraphLayer{
			TopN:           intPtr(400),
			NodeSizeRange:  []float64{2, 8},
			BaseEdgeWidth:  floatPtr(0.5),
			EdgeWidthScale: floatPtr(8),
			ColorMode:      stringPtr(ColorHeatmap),
			LabelThreshold: floatPtr(0.1),
		},
		Theme: ThemeCfg{Height: "1280px", Width: "100%", Background: "#ffffff", FontColor: "#8b949e"},
		Physics: PhysicsCfg{
			GravitationalConstant: -50000, CentralGravity: 0.3, SpringLength: 200,
			SpringConstant: 0.05, Damping: 0.5, ArrowScale: 0.2, StabilizationIterations: 50,
		},
	},
	"balanced": {
		Name:          "Balanced Clean Map",
		Description:   "Clean readable version with balanced sizing and spacing",
		DefaultOutput: "firewall_balanced_map.html",
		Layer: GraphLayer{
			TopN:           intPtr(350),
			NodeSizeRange:  []float64{3, 12},
			EdgeWidthScale: floatPtr(6),
			ColorMode:      stringPtr(ColorGradient),
		},
		Theme: ThemeCfg{Height: "900px", Width: "100%", Background: "#111111", FontColor: "#ecf0f1"},
		Physics: PhysicsCfg{
			GravitationalConstant: -30000, CentralGravity: 0.3, SpringLength: 150,
			SpringConstant: 0.05, Damping: 0.3, ArrowScale: 0.3, StabilizationIterations: 50,
		},
	},
}

// GetPreset returns a copy of the named preset
func GetPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset '%s'. Available: %s", name, strings.Join(PresetNames(), ", "))
	}
	preset.Layer.NodeSizeRange = append([]float64(nil), preset.Layer.NodeSizeRange...)
	return preset, nil
}
