package templates

import "html/template"

// GraphInfo fills GraphTempl
type GraphInfo struct {
	Title       string
	Description string
	RunID       string
	Generated   string
	Nodes       int
	Edges       int
	Background  string
	FontColor   string
	Height      string
	Width       string
	CSS         template.CSS
	// Graph is the JSON export, Options the vis-network options object
	Graph   template.JS
	Options template.JS
}

// VisNetworkURL is where the page loads vis-network from
const VisNetworkURL = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"

// GraphTempl renders the exported graph with vis-network
var GraphTempl = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script type="text/javascript" src="` + VisNetworkURL + `"></script>
<style>
{{.CSS}}
body { background-color: {{.Background}}; color: {{.FontColor}}; }
#graph { height: {{.Height}}; width: {{.Width}}; }
</style>
</head>
<body>
<ul>
  <li>{{.Title}}</li>
  <li>{{.Nodes}} nodes, {{.Edges}} edges</li>
  <li class="right">run {{.RunID}} generated {{.Generated}}</li>
</ul>
<div id="graph"></div>
<div id="legend">
  <div><span class="swatch" style="background-color:#2ecc71"></span>low</div>
  <div><span class="swatch" style="background-color:#f1c40f"></span>medium</div>
  <div><span class="swatch" style="background-color:#e67e22"></span>high</div>
  <div><span class="swatch" style="background-color:#e74c3c"></span>critical</div>
  <div><span class="swatch" style="background-color:#bdc3c7"></span>attacker</div>
  <div><span class="swatch" style="background-color:#3498db"></span>target</div>
  <div><span class="swatch" style="background-color:#9b59b6"></span>both</div>
</div>
<script type="text/javascript">
  var graph = {{.Graph}};
  var nodes = new vis.DataSet(graph.nodes.map(function (n) {
    return { id: n.id, label: n.label, title: n.title, size: n.size, color: n.color, shape: "dot" };
  }));
  var edges = new vis.DataSet(graph.edges.map(function (e, i) {
    var smooth = e.smooth === "straight" ? { enabled: false } : { enabled: true, type: e.smooth };
    return { id: i, from: e.source, to: e.destination, width: e.width, color: { color: e.color }, title: e.title, smooth: smooth, arrows: "to" };
  }));
  var options = {{.Options}};
  new vis.Network(document.getElementById("graph"), { nodes: nodes, edges: edges }, options);
</script>
</body>
</html>
`
