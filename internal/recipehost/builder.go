package recipehost

import (
	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/pilocal/pi/internal/recipe"
)

const versionTypeName = "pi.version"

// versionBuilder accumulates a single recipe.Record across a sequence of
// Lua method calls on the value returned by create_version(...). Nothing
// is visible to the evaluation's Context until register() is called
// (§4.5: "only register() commits a version").
type versionBuilder struct {
	ctx *Context
	rec recipe.Record
}

func registerVersionMetatable(L *lua.LState) {
	mt := L.NewTypeMetatable(versionTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"set_stream":  versionSetStream,
		"add_flag":    versionAddFlag,
		"flag_value":  versionFlagValue,
		"fetch":       versionFetch,
		"extract":     versionExtract,
		"run":         versionRun,
		"export_link": versionExportLink,
		"export_env":  versionExportEnv,
		"export_path": versionExportPath,
		"build_dep":   versionBuildDep,
		"verify":      versionVerify,
		"register":    versionRegister,
	}))
}

func checkBuilder(L *lua.LState, idx int) *versionBuilder {
	ud := L.CheckUserData(idx)
	b, ok := ud.Value.(*versionBuilder)
	if !ok {
		L.ArgError(idx, "pi.version expected")
	}
	return b
}

func pushBuilder(L *lua.LState, b *versionBuilder) {
	ud := L.NewUserData()
	ud.Value = b
	L.SetMetatable(ud, L.GetTypeMetatable(versionTypeName))
	L.Push(ud)
}

func hostCreateVersion(ctx *Context) lua.LGFunction {
	return func(L *lua.LState) int {
		pkgName := L.CheckString(1)
		version := L.CheckString(2)
		releaseDate := L.OptString(3, "")
		releaseType := L.OptString(4, string(recipe.Stable))

		if !recipe.ValidReleaseType(releaseType) {
			L.RaiseError("%s", errors.Wrapf(ErrInvalidReleaseType, "%q", releaseType).Error())
			return 0
		}

		b := &versionBuilder{ctx: ctx, rec: recipe.Record{
			PkgName:     pkgName,
			Version:     version,
			ReleaseDate: releaseDate,
			ReleaseType: recipe.ReleaseType(releaseType),
		}}
		pushBuilder(L, b)
		return 1
	}
}

func versionSetStream(L *lua.LState) int {
	b := checkBuilder(L, 1)
	b.rec.Stream = L.CheckString(2)
	L.Push(L.Get(1))
	return 1
}

func versionAddFlag(L *lua.LState) int {
	b := checkBuilder(L, 1)
	name := L.CheckString(2)
	help := L.OptString(3, "")
	def := L.OptString(4, "")
	b.rec.Flags = append(b.rec.Flags, recipe.Flag{Name: name, Help: help, Default: def})
	L.Push(L.Get(1))
	return 1
}

func versionFlagValue(L *lua.LState) int {
	b := checkBuilder(L, 1)
	name := L.CheckString(2)

	def := ""
	for _, f := range b.rec.Flags {
		if f.Name == name {
			def = f.Default
			break
		}
	}
	L.Push(lua.LString(b.ctx.flagValue(name, def)))
	return 1
}

func versionFetch(L *lua.LState) int {
	b := checkBuilder(L, 1)
	url := L.CheckString(2)
	digest := L.OptString(3, "")
	filename := L.OptString(4, "")
	name := L.OptString(5, "")

	b.rec.Pipeline = append(b.rec.Pipeline, recipe.Fetch(url, digest, filename, name))
	L.Push(L.Get(1))
	return 1
}

func versionExtract(L *lua.LState) int {
	b := checkBuilder(L, 1)
	format := L.OptString(2, "")
	name := L.OptString(3, "")

	b.rec.Pipeline = append(b.rec.Pipeline, recipe.Extract(format, name))
	L.Push(L.Get(1))
	return 1
}

func versionRun(L *lua.LState) int {
	b := checkBuilder(L, 1)
	command := L.CheckString(2)
	cwd := L.OptString(3, "")
	name := L.OptString(4, "")

	b.rec.Pipeline = append(b.rec.Pipeline, recipe.Run(command, cwd, name))
	L.Push(L.Get(1))
	return 1
}

func versionExportLink(L *lua.LState) int {
	b := checkBuilder(L, 1)
	src := L.CheckString(2)
	dest := L.CheckString(3)

	b.rec.Exports = append(b.rec.Exports, recipe.Link(src, dest))
	L.Push(L.Get(1))
	return 1
}

func versionExportEnv(L *lua.LState) int {
	b := checkBuilder(L, 1)
	key := L.CheckString(2)
	val := L.CheckString(3)

	b.rec.Exports = append(b.rec.Exports, recipe.Env(key, val))
	L.Push(L.Get(1))
	return 1
}

func versionExportPath(L *lua.LState) int {
	b := checkBuilder(L, 1)
	rel := L.CheckString(2)

	b.rec.Exports = append(b.rec.Exports, recipe.Path(rel))
	L.Push(L.Get(1))
	return 1
}

func versionBuildDep(L *lua.LState) int {
	b := checkBuilder(L, 1)
	selector := L.CheckString(2)
	optional := L.OptBool(3, false)

	b.rec.BuildDeps = append(b.rec.BuildDeps, recipe.BuildDep{Selector: selector, Optional: optional})
	L.Push(L.Get(1))
	return 1
}

// versionVerify declares "devel test" expectations: a command to run
// inside the built source root and, optionally, a regular expression its
// combined output must match.
func versionVerify(L *lua.LState) int {
	b := checkBuilder(L, 1)
	command := L.CheckString(2)
	pattern := L.OptString(3, "")

	b.rec.Verify = recipe.Verify{Command: command, Pattern: pattern}
	L.Push(L.Get(1))
	return 1
}

func versionRegister(L *lua.LState) int {
	b := checkBuilder(L, 1)
	b.ctx.addVersion(b.rec)
	return 0
}
