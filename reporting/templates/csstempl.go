package templates

// CSStempl is our css template sheet. The page colors come from the preset theme.
var CSStempl = `body {
  margin: 0;
  font-family: 'Lucida Sans', Arial, sans-serif;
}

ul {
  list-style-type: none;
  margin: 0;
  padding: 0;
  overflow: hidden;
  background-color: #000;
  font-family: "Arial", Helvetica, sans-serif;
}

li {
  float: left;
  color: white;
  padding: 14px 16px;
}

li.right {
  float: right;
  color: #95a5a6;
}

#graph {
  border: 0;
}

#legend {
  position: absolute;
  right: 12px;
  top: 60px;
  padding: 8px 12px;
  background-color: rgba(0, 0, 0, 0.6);
  font-size: 12px;
  border-radius: 4px;
}

.swatch {
  display: inline-block;
  width: 12px;
  height: 12px;
  margin-right: 6px;
  vertical-align: middle;
}
`
