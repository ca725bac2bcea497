package config

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are removed from the VM before manifest code runs.
// A manifest is declarative input; nothing in it may execute system
// commands (os), touch the filesystem (io), load external code
// (require, dofile, loadfile, load, loadstring), or reach around the
// sandbox via the debug library.
//
// string, table, and math stay available so manifests can build URLs
// and pick values conditionally.
var blockedGlobals = []string{
	"os",
	"io",
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"debug",
}

// newSandboxedVM creates a Lua VM with the blocked globals stripped.
// This is the only way parser code obtains a Lua state.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
