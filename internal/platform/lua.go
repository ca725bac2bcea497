package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable publishes host facts as a read-only `platform`
// global in the Lua state. It must run before any manifest code.
//
// String fields: os, arch, arch_raw, java_arch, version, release.
// Booleans: is_macos, is_linux, is_windows, is_arm64, is_amd64,
// is_apple_silicon. Helper: when(cond, value).
func InjectPlatformTable(L *lua.LState, info *Info) error {
	platformTable := L.NewTable()

	L.SetField(platformTable, "os", lua.LString(info.OS))
	L.SetField(platformTable, "arch", lua.LString(info.Arch))
	L.SetField(platformTable, "arch_raw", lua.LString(info.ArchRaw))

	// JDK release files name architectures aarch64/x64, not arm64/amd64.
	// Exposing the mapped token keeps that translation out of manifests.
	L.SetField(platformTable, "java_arch", lua.LString(info.JavaArch()))

	// Host OS version and, on macOS, the release name ("sonoma").
	// Both are empty strings rather than nil when unknown, so string
	// comparisons in manifests never hit a nil.
	L.SetField(platformTable, "version", lua.LString(info.Version))
	L.SetField(platformTable, "release", lua.LString(info.Release))

	L.SetField(platformTable, "is_macos", lua.LBool(info.IsMacOS()))
	L.SetField(platformTable, "is_linux", lua.LBool(info.IsLinux()))
	L.SetField(platformTable, "is_windows", lua.LBool(info.IsWindows()))

	L.SetField(platformTable, "is_amd64", lua.LBool(info.IsAMD64()))
	L.SetField(platformTable, "is_arm64", lua.LBool(info.IsARM64()))
	L.SetField(platformTable, "is_apple_silicon", lua.LBool(info.IsAppleSilicon()))

	// when(cond, value) returns value if cond is true, nil otherwise.
	// A nil entry drops out of a Lua table constructor, so launcher
	// lists can carry conditional entries inline.
	whenFunc := L.NewFunction(func(L *lua.LState) int {
		cond := L.CheckBool(1)
		value := L.Get(2)
		if cond {
			L.Push(value)
		} else {
			L.Push(lua.LNil)
		}
		return 1
	})
	L.SetField(platformTable, "when", whenFunc)

	L.SetGlobal("platform", makeReadOnly(L, platformTable))

	return nil
}

// makeReadOnly wraps a table in an empty proxy whose metatable redirects
// reads to the original and raises on any write. The metatable itself is
// protected via __metatable, so manifests cannot swap it out.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()

	L.SetField(mt, "__index", table)

	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))

	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)

	return proxy
}
