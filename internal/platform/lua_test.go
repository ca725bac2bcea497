package platform

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

// evalLua runs code in L and checks the single value it returns against
// want, comparing type and string form.
func evalLua(t *testing.T, L *lua.LState, code string, want lua.LValue) {
	t.Helper()

	if err := L.DoString(code); err != nil {
		t.Fatalf("failed to execute %q: %v", code, err)
	}
	got := L.Get(-1)
	L.Pop(1)

	if got.Type() != want.Type() {
		t.Errorf("%s: type = %v, want %v", code, got.Type(), want.Type())
		return
	}
	if got.String() != want.String() {
		t.Errorf("%s = %v, want %v", code, got, want)
	}
}

func injectedState(t *testing.T, info *Info) *lua.LState {
	t.Helper()

	L := lua.NewState()
	t.Cleanup(func() { L.Close() })

	if err := InjectPlatformTable(L, info); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}
	return L
}

func TestInjectPlatformTable_AppleSilicon(t *testing.T) {
	L := injectedState(t, &Info{
		OS:      "darwin",
		Arch:    "arm64",
		ArchRaw: "arm64",
		Version: "14.6.1",
		Release: ReleaseSonoma,
	})

	tests := []struct {
		name string
		code string
		want lua.LValue
	}{
		{"os", `return platform.os`, lua.LString("darwin")},
		{"arch", `return platform.arch`, lua.LString("arm64")},
		{"arch_raw", `return platform.arch_raw`, lua.LString("arm64")},
		{"java_arch", `return platform.java_arch`, lua.LString("aarch64")},
		{"version", `return platform.version`, lua.LString("14.6.1")},
		{"release", `return platform.release`, lua.LString("sonoma")},
		{"is_macos", `return platform.is_macos`, lua.LTrue},
		{"is_linux", `return platform.is_linux`, lua.LFalse},
		{"is_windows", `return platform.is_windows`, lua.LFalse},
		{"is_arm64", `return platform.is_arm64`, lua.LTrue},
		{"is_amd64", `return platform.is_amd64`, lua.LFalse},
		{"is_apple_silicon", `return platform.is_apple_silicon`, lua.LTrue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalLua(t, L, tt.code, tt.want)
		})
	}
}

func TestInjectPlatformTable_IntelMac(t *testing.T) {
	L := injectedState(t, &Info{
		OS:      "darwin",
		Arch:    "amd64",
		ArchRaw: "amd64",
		Version: "13.6",
		Release: ReleaseVentura,
	})

	tests := []struct {
		name string
		code string
		want lua.LValue
	}{
		{"java_arch", `return platform.java_arch`, lua.LString("x64")},
		{"release", `return platform.release`, lua.LString("ventura")},
		{"is_macos", `return platform.is_macos`, lua.LTrue},
		{"is_amd64", `return platform.is_amd64`, lua.LTrue},
		{"is_arm64", `return platform.is_arm64`, lua.LFalse},
		{"is_apple_silicon", `return platform.is_apple_silicon`, lua.LFalse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalLua(t, L, tt.code, tt.want)
		})
	}
}

func TestInjectPlatformTable_NonMacHost(t *testing.T) {
	L := injectedState(t, &Info{
		OS:      "linux",
		Arch:    "amd64",
		ArchRaw: "x86_64",
		Version: "22.04",
	})

	tests := []struct {
		name string
		code string
		want lua.LValue
	}{
		{"os", `return platform.os`, lua.LString("linux")},
		{"arch_raw", `return platform.arch_raw`, lua.LString("x86_64")},
		{"version", `return platform.version`, lua.LString("22.04")},
		{"release is empty", `return platform.release`, lua.LString("")},
		{"is_macos", `return platform.is_macos`, lua.LFalse},
		{"is_linux", `return platform.is_linux`, lua.LTrue},
		{"is_apple_silicon", `return platform.is_apple_silicon`, lua.LFalse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalLua(t, L, tt.code, tt.want)
		})
	}
}

func TestPlatformTable_ReadOnly(t *testing.T) {
	L := injectedState(t, &Info{OS: "darwin", Arch: "arm64"})

	tests := []struct {
		name string
		code string
	}{
		{"modify os", `platform.os = "windows"`},
		{"add new field", `platform.new_field = "value"`},
		{"modify boolean", `platform.is_macos = false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := L.DoString(tt.code)
			if err == nil {
				t.Error("expected error when modifying read-only table, got nil")
			}
		})
	}
}

func TestPlatformTable_WhenHelper(t *testing.T) {
	L := injectedState(t, &Info{OS: "darwin", Arch: "arm64"})

	tests := []struct {
		name string
		code string
		want lua.LValue
	}{
		{
			name: "when true returns value",
			code: `return platform.when(true, "ghidraRun")`,
			want: lua.LString("ghidraRun"),
		},
		{
			name: "when false returns nil",
			code: `return platform.when(false, "ghidraRun")`,
			want: lua.LNil,
		},
		{
			name: "when with platform boolean true",
			code: `return platform.when(platform.is_macos, "support/launch.sh")`,
			want: lua.LString("support/launch.sh"),
		},
		{
			name: "when with platform boolean false",
			code: `return platform.when(platform.is_windows, "ghidraRun.bat")`,
			want: lua.LNil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalLua(t, L, tt.code, tt.want)
		})
	}
}

func TestPlatformTable_UsageExample(t *testing.T) {
	L := injectedState(t, &Info{
		OS:      "darwin",
		Arch:    "arm64",
		ArchRaw: "arm64",
		Version: "15.2",
		Release: ReleaseSequoia,
	})

	// The shape a real manifest takes: pick the JDK build by java_arch,
	// add launchers conditionally.
	code := `
		local jdk = "openjdk-21_macos-" .. platform.java_arch .. "_bin.tar.gz"

		launchers = {"ghidraRun"}

		if platform.is_macos then
			table.insert(launchers, "support/launch.sh")
		end

		local extra = platform.when(platform.is_apple_silicon, "support/arm64.sh")
		if extra then
			table.insert(launchers, extra)
		end

		return jdk, #launchers
	`

	if err := L.DoString(code); err != nil {
		t.Fatalf("failed to execute usage example: %v", err)
	}

	count := L.Get(-1)
	jdk := L.Get(-2)
	L.Pop(2)

	if jdk.String() != "openjdk-21_macos-aarch64_bin.tar.gz" {
		t.Errorf("jdk name = %v, want the aarch64 build", jdk)
	}
	if count.Type() != lua.LTNumber || int(count.(lua.LNumber)) != 3 {
		t.Errorf("expected 3 launchers, got %v", count)
	}
}
