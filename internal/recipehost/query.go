package recipehost

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// queryable is the common shape every parsed document (JSON, TOML, XML,
// HTML) is reduced to, so a single Lua-facing Node type can wrap any of
// them (§4.5 parse_json/parse_toml/parse_xml/parse_html).
type queryable interface {
	Select(query string) []queryable
	Attribute(name string) (string, bool)
	Text() string
	Tag() string
}

// --- JSON / TOML (TOML is decoded to a JSON tree first, see parse.go) ---

type jsonNode struct {
	result gjson.Result
}

func (n jsonNode) Select(query string) []queryable {
	r := n.result.Get(query)
	if !r.Exists() {
		return nil
	}
	if r.IsArray() {
		var out []queryable
		r.ForEach(func(_, v gjson.Result) bool {
			out = append(out, jsonNode{result: v})
			return true
		})
		return out
	}
	return []queryable{jsonNode{result: r}}
}

func (n jsonNode) Attribute(name string) (string, bool) {
	r := n.result.Get(name)
	if !r.Exists() {
		return "", false
	}
	return r.String(), true
}

func (n jsonNode) Text() string { return n.result.String() }
func (n jsonNode) Tag() string  { return n.result.Type.String() }

// --- XML: decoded into a minimal generic tree, queried by element-name
// descent. No XPath/CSS-selector library exists anywhere in the
// retrieval pack, so the query grammar here is intentionally narrow:
// a "/"-separated path of element names, each segment matching any
// descendant at that depth. ---

type xmlNode struct {
	name     string
	attrs    map[string]string
	text     string
	children []*xmlNode
}

func parseXML(data string) (queryable, error) {
	dec := xml.NewDecoder(strings.NewReader(data))
	root := &xmlNode{name: "#document", attrs: map[string]string{}}
	stack := []*xmlNode{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: t.Name.Local, attrs: map[string]string{}}
			for _, a := range t.Attr {
				node.attrs[a.Name.Local] = a.Value
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.text += string(t)
		}
	}
	return root, nil
}

func (n *xmlNode) Select(query string) []queryable {
	segments := strings.Split(strings.Trim(query, "/"), "/")
	level := []*xmlNode{n}
	for _, seg := range segments {
		var next []*xmlNode
		for _, cur := range level {
			next = append(next, findChildren(cur, seg)...)
		}
		level = next
	}
	out := make([]queryable, 0, len(level))
	for _, l := range level {
		out = append(out, l)
	}
	return out
}

func findChildren(n *xmlNode, name string) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func (n *xmlNode) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *xmlNode) Text() string { return strings.TrimSpace(n.text) }
func (n *xmlNode) Tag() string  { return n.name }

// --- HTML: golang.org/x/net/html gives us the parse tree; no CSS
// selector engine exists in the retrieval pack, so Select implements a
// deliberately minimal subset: a space-separated descendant chain where
// each step is a tag name, ".class", or "#id". ---

type htmlNode struct{ n *html.Node }

func parseHTML(data string) (queryable, error) {
	root, err := html.Parse(strings.NewReader(data))
	if err != nil {
		return nil, err
	}
	return htmlNode{n: root}, nil
}

func (h htmlNode) Select(query string) []queryable {
	steps := strings.Fields(query)
	level := []*html.Node{h.n}
	for _, step := range steps {
		var next []*html.Node
		for _, cur := range level {
			next = append(next, descendantsMatching(cur, step)...)
		}
		level = next
	}
	out := make([]queryable, 0, len(level))
	for _, l := range level {
		out = append(out, htmlNode{n: l})
	}
	return out
}

func descendantsMatching(n *html.Node, step string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && matchesStep(c, step) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func matchesStep(n *html.Node, step string) bool {
	switch {
	case strings.HasPrefix(step, "#"):
		return htmlAttr(n, "id") == step[1:]
	case strings.HasPrefix(step, "."):
		for _, class := range strings.Fields(htmlAttr(n, "class")) {
			if class == step[1:] {
				return true
			}
		}
		return false
	default:
		return n.DataAtom == atom.Lookup([]byte(step)) || n.Data == step
	}
}

func htmlAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func (h htmlNode) Attribute(name string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (h htmlNode) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(h.n)
	return strings.TrimSpace(sb.String())
}

func (h htmlNode) Tag() string { return h.n.Data }
