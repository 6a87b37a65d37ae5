package reporting

import (
	"bytes"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/activecm/fwgraph/config"
	htmlTempl "github.com/activecm/fwgraph/reporting/templates"
	"github.com/skratchdot/open-golang/open"
)

// visOptions is the vis-network options object built from the preset
type visOptions struct {
	Nodes       visNodeOptions `json:"nodes"`
	Edges       visEdgeOptions `json:"edges"`
	Physics     visPhysics     `json:"physics"`
	Interaction visInteraction `json:"interaction"`
}

type visNodeOptions struct {
	Font visFont `json:"font"`
}

type visFont struct {
	Color string `json:"color"`
	Size  int    `json:"size"`
}

type visEdgeOptions struct {
	Arrows visArrows `json:"arrows"`
}

type visArrows struct {
	To visArrow `json:"to"`
}

type visArrow struct {
	Enabled     bool    `json:"enabled"`
	ScaleFactor float64 `json:"scaleFactor"`
}

type visPhysics struct {
	Solver        string           `json:"solver"`
	BarnesHut     visBarnesHut     `json:"barnesHut"`
	Stabilization visStabilization `json:"stabilization"`
}

type visBarnesHut struct {
	GravitationalConstant int     `json:"gravitationalConstant"`
	CentralGravity        float64 `json:"centralGravity"`
	SpringLength          int     `json:"springLength"`
	SpringConstant        float64 `json:"springConstant"`
	Damping               float64 `json:"damping"`
}

type visStabilization struct {
	Iterations int `json:"iterations"`
}

type visInteraction struct {
	Hover           bool `json:"hover"`
	TooltipDelay    int  `json:"tooltipDelay"`
	HideEdgesOnDrag bool `json:"hideEdgesOnDrag"`
}

func networkOptions(cfg config.GraphCfg) visOptions {
	physics := cfg.Physics
	return visOptions{
		Nodes: visNodeOptions{Font: visFont{Color: cfg.Theme.FontColor, Size: 12}},
		Edges: visEdgeOptions{Arrows: visArrows{To: visArrow{Enabled: true, ScaleFactor: physics.ArrowScale}}},
		Physics: visPhysics{
			Solver: "barnesHut",
			BarnesHut: visBarnesHut{
				GravitationalConstant: physics.GravitationalConstant,
				CentralGravity:        physics.CentralGravity,
				SpringLength:          physics.SpringLength,
				SpringConstant:        physics.SpringConstant,
				Damping:               physics.Damping,
			},
			Stabilization: visStabilization{Iterations: physics.StabilizationIterations},
		},
		Interaction: visInteraction{Hover: true, TooltipDelay: 100, HideEdgesOnDrag: true},
	}
}

// WriteHTML renders export as a standalone vis-network page
func WriteHTML(w io.Writer, export Export, cfg config.GraphCfg) error {
	graphJSON, err := json.Marshal(export)
	if err != nil {
		return err
	}
	optionsJSON, err := json.Marshal(networkOptions(cfg))
	if err != nil {
		return err
	}

	out, err := template.New("graph.html").Parse(htmlTempl.GraphTempl)
	if err != nil {
		return err
	}

	info := htmlTempl.GraphInfo{
		Title:       cfg.Name,
		Description: cfg.Description,
		RunID:       export.RunID,
		Generated:   export.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		Nodes:       len(export.Nodes),
		Edges:       len(export.Edges),
		Background:  cfg.Theme.Background,
		FontColor:   cfg.Theme.FontColor,
		Height:      cfg.Theme.Height,
		Width:       cfg.Theme.Width,
		CSS:         template.CSS(htmlTempl.CSStempl),
		Graph:       template.JS(graphJSON),
		Options:     template.JS(optionsJSON),
	}

	var buf bytes.Buffer
	if err := out.Execute(&buf, info); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// WriteHTMLFile renders export to path, creating parent directories as needed
func WriteHTMLFile(path string, export Export, cfg config.GraphCfg) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHTML(f, export, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Open shows the rendered page in the default browser
func Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return open.Run(abs)
}
