package recipehost

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/pilocal/pi/internal/recipe"
)

// newState builds a fresh Lua VM wired to ctx's host API. Every
// EvalFile/CallDiscovery call gets its own state and its own Context, so
// there is no shared mutable registry between evaluations (§4.5).
func newState(ctx *Context) *lua.LState {
	L := lua.NewState()

	registerNodeMetatable(L)
	registerVersionMetatable(L)

	L.SetGlobal("get_os", L.NewFunction(hostGetOS(ctx)))
	L.SetGlobal("get_arch", L.NewFunction(hostGetArch(ctx)))
	L.SetGlobal("add_package", L.NewFunction(hostAddPackage(ctx)))
	L.SetGlobal("add_manager", L.NewFunction(hostAddManager(ctx)))
	L.SetGlobal("download", L.NewFunction(hostDownload(ctx)))
	L.SetGlobal("parse_json", L.NewFunction(hostParseJSON))
	L.SetGlobal("parse_toml", L.NewFunction(hostParseTOML))
	L.SetGlobal("parse_xml", L.NewFunction(hostParseXML))
	L.SetGlobal("parse_html", L.NewFunction(hostParseHTML))
	L.SetGlobal("extract", L.NewFunction(hostExtractRegex))
	L.SetGlobal("create_version", L.NewFunction(hostCreateVersion(ctx)))

	return L
}

func hostGetOS(ctx *Context) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LString(ctx.opts.OS))
		return 1
	}
}

func hostGetArch(ctx *Context) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LString(ctx.opts.Arch))
		return 1
	}
}

func hostAddPackage(ctx *Context) lua.LGFunction {
	return func(L *lua.LState) int {
		name := L.CheckString(1)
		discovery := L.CheckString(2)
		ctx.addPackage(recipe.PackageEntry{
			Name:          name,
			RecipeFile:    ctx.opts.RecipeFile,
			DiscoveryFunc: discovery,
		})
		return 0
	}
}

func hostAddManager(ctx *Context) lua.LGFunction {
	return func(L *lua.LState) int {
		name := L.CheckString(1)
		discovery := L.CheckString(2)
		ctx.addManager(recipe.ManagerEntry{
			Name:          name,
			RecipeFile:    ctx.opts.RecipeFile,
			DiscoveryFunc: discovery,
		})
		return 0
	}
}

func hostDownload(ctx *Context) lua.LGFunction {
	return func(L *lua.LState) int {
		url := L.CheckString(1)
		path, err := ctx.opts.Shared.Download(url)
		if err != nil {
			L.RaiseError("download(%q): %s", url, err.Error())
			return 0
		}
		L.Push(lua.LString(path))
		return 1
	}
}

func hostParseJSON(L *lua.LState) int {
	data := L.CheckString(1)
	q, err := parseJSON(data)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	pushNode(L, q)
	return 1
}

func hostParseTOML(L *lua.LState) int {
	data := L.CheckString(1)
	q, err := parseTOML(data)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	pushNode(L, q)
	return 1
}

func hostParseXML(L *lua.LState) int {
	data := L.CheckString(1)
	q, err := parseXML(data)
	if err != nil {
		L.RaiseError("parse_xml: %s", err.Error())
		return 0
	}
	pushNode(L, q)
	return 1
}

func hostParseHTML(L *lua.LState) int {
	data := L.CheckString(1)
	q, err := parseHTML(data)
	if err != nil {
		L.RaiseError("parse_html: %s", err.Error())
		return 0
	}
	pushNode(L, q)
	return 1
}

func hostExtractRegex(L *lua.LState) int {
	pattern := L.CheckString(1)
	text := L.CheckString(2)

	v, ok := extractRegex(pattern, text)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}
