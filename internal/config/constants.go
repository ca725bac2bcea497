package config

// Lua schema field names and globals
const (
	luaGlobalGarb = "garb"

	luaFieldWorkdir     = "workdir"
	luaFieldBundle      = "bundle"
	luaFieldRuntime     = "runtime"
	luaFieldApplication = "application"
	luaFieldBuild       = "build"
	luaFieldLaunchers   = "launchers"

	luaFieldName      = "name"
	luaFieldApplet    = "applet"
	luaFieldURL       = "url"
	luaFieldSHA256    = "sha256"
	luaFieldSignature = "signature"
	luaFieldKeyring   = "keyring"
	luaFieldHome      = "home"
	luaFieldEnabled   = "enabled"
	luaFieldTarget    = "target"
)

// Defaults reproducing the original installer layout.
const (
	DefaultManifestName    = "garb.lua"
	DefaultWorkdir         = "ghidra_install"
	DefaultBundleName      = "Ghidra.app"
	DefaultApplet          = "Ghidra-OSX-Launcher-Script.scpt"
	DefaultRuntimeName     = "OpenJDK"
	DefaultRuntimeHome     = "Contents/Home"
	DefaultApplicationName = "Ghidra"
	DefaultBuildTarget     = "buildNatives"
)

// Starter artifact pins written by the generator. These are manifest seed
// data, not program behavior: the installer itself only trusts what the
// parsed manifest carries.
const (
	starterRuntimeURL    = "https://download.java.net/java/GA/jdk21.0.2/f2283984656d49d69e91c558476027ac/13/GPL/openjdk-21.0.2_macos-aarch64_bin.tar.gz"
	starterRuntimeSHA256 = "b3d588e16ec1e0ef9805d8a696591bd518a5cea62567da8f53b5ce32d11d22e4"

	starterApplicationURL    = "https://github.com/NationalSecurityAgency/ghidra/releases/download/Ghidra_11.4.2_build/ghidra_11.4.2_PUBLIC_20250826.zip"
	starterApplicationSHA256 = "795a02076af16257bd6f3f4736c4fc152ce9ff1f95df35cd47e2adc086e037a6"
)
