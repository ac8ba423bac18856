package recipehost

import (
	"encoding/json"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"
)

const nodeTypeName = "pi.node"

func parseJSON(data string) (queryable, error) {
	if !gjson.Valid(data) {
		return nil, errors.Wrap(ErrRecipeEvalFailed, "parse_json: invalid json")
	}
	return jsonNode{result: gjson.Parse(data)}, nil
}

func parseTOML(data string) (queryable, error) {
	var doc map[string]any
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, errors.Wrapf(ErrRecipeEvalFailed, "parse_toml: %s", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(ErrRecipeEvalFailed, "parse_toml: re-encode")
	}
	return jsonNode{result: gjson.ParseBytes(raw)}, nil
}

// registerNodeMetatable installs the "pi.node" userdata type shared by
// parse_json/parse_toml/parse_xml/parse_html results: select, select_one,
// attribute, text, tag.
func registerNodeMetatable(L *lua.LState) {
	mt := L.NewTypeMetatable(nodeTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"select":     nodeSelect,
		"select_one": nodeSelectOne,
		"attribute":  nodeAttribute,
		"text":       nodeText,
		"tag":        nodeTag,
	}))
}

func pushNode(L *lua.LState, q queryable) {
	if q == nil {
		L.Push(lua.LNil)
		return
	}
	ud := L.NewUserData()
	ud.Value = q
	L.SetMetatable(ud, L.GetTypeMetatable(nodeTypeName))
	L.Push(ud)
}

func checkNode(L *lua.LState, idx int) queryable {
	ud := L.CheckUserData(idx)
	q, ok := ud.Value.(queryable)
	if !ok {
		L.ArgError(idx, "pi.node expected")
	}
	return q
}

func nodeSelect(L *lua.LState) int {
	n := checkNode(L, 1)
	query := L.CheckString(2)

	results := n.Select(query)
	out := L.NewTable()
	for _, r := range results {
		ud := L.NewUserData()
		ud.Value = r
		L.SetMetatable(ud, L.GetTypeMetatable(nodeTypeName))
		out.Append(ud)
	}
	L.Push(out)
	return 1
}

func nodeSelectOne(L *lua.LState) int {
	n := checkNode(L, 1)
	query := L.CheckString(2)

	results := n.Select(query)
	if len(results) == 0 {
		L.Push(lua.LNil)
		return 1
	}
	pushNode(L, results[0])
	return 1
}

func nodeAttribute(L *lua.LState) int {
	n := checkNode(L, 1)
	name := L.CheckString(2)

	v, ok := n.Attribute(name)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}

func nodeText(L *lua.LState) int {
	n := checkNode(L, 1)
	L.Push(lua.LString(n.Text()))
	return 1
}

func nodeTag(L *lua.LState) int {
	n := checkNode(L, 1)
	L.Push(lua.LString(n.Tag()))
	return 1
}

// extractRegex implements the recipe-facing extract(pattern, text) helper:
// the first capture group of the first match, or nil.
func extractRegex(pattern, text string) (string, bool) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}
