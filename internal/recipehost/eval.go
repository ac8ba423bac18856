package recipehost

import (
	"os"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
)

// EvalFile runs a recipe file once and returns the Context holding every
// package/manager it registered via add_package/add_manager (§4.5, used by
// package repoindex during a repository sync). Version records are not
// populated by EvalFile: those come from CallDiscovery.
func EvalFile(opts Options) (*Context, error) {
	data, err := os.ReadFile(opts.RecipeFile)
	if err != nil {
		return nil, errors.Wrapf(err, "read recipe %s", opts.RecipeFile)
	}

	ctx := NewContext(opts)
	L := newState(ctx)
	defer L.Close()

	if err := L.DoString(string(data)); err != nil {
		return nil, errors.Wrapf(ErrRecipeEvalFailed, "%s: %s", opts.RecipeFile, err.Error())
	}
	return ctx, nil
}

// CallDiscovery loads opts.RecipeFile and invokes the named discovery
// function with arg (the package name), returning a Context whose
// Versions holds every record the function registered (§4.5, used by
// package versioncache to populate a version list).
func CallDiscovery(opts Options, funcName, arg string) (*Context, error) {
	return CallDiscoveryArgs(opts, funcName, arg)
}

// CallDiscoveryArgs is the general form of CallDiscovery: a manager's
// discovery function takes (manager, sub-name) rather than a single
// package name (§4.5, entry.go's ManagerEntry).
func CallDiscoveryArgs(opts Options, funcName string, args ...string) (*Context, error) {
	data, err := os.ReadFile(opts.RecipeFile)
	if err != nil {
		return nil, errors.Wrapf(err, "read recipe %s", opts.RecipeFile)
	}

	ctx := NewContext(opts)
	L := newState(ctx)
	defer L.Close()

	if err := L.DoString(string(data)); err != nil {
		return nil, errors.Wrapf(ErrRecipeEvalFailed, "%s: %s", opts.RecipeFile, err.Error())
	}

	fn := L.GetGlobal(funcName)
	if fn.Type() != lua.LTFunction {
		return nil, errors.Wrapf(ErrRecipeEvalFailed, "%s: discovery function %q not defined", opts.RecipeFile, funcName)
	}

	luaArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		luaArgs[i] = lua.LString(a)
	}
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, luaArgs...); err != nil {
		return nil, errors.Wrapf(ErrRecipeEvalFailed, "%s: %s(%v): %s", opts.RecipeFile, funcName, args, err.Error())
	}

	return ctx, nil
}
