package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/abikit/internal/presentation"
	"github.com/zjrosen/abikit/internal/versions"
)

// testEnv is an isolated home and config file for one test.
type testEnv struct {
	dir        string
	configPath string
}

func newTestEnv(t *testing.T, extraConfig string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("blob:\n  db_path: %q\nlog_file: %q\n%s",
		filepath.Join(dir, "blobs.db"), filepath.Join(dir, "debug.log"), extraConfig)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return &testEnv{dir: dir, configPath: configPath}
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func resetCommandState() {
	cfgFile = ""
	debugFlag = false
	outputFormat = presentation.FormatJSON
	resolveWatch = false
	symbolSDKVersion, symbolStrip, symbolPackage = "", false, false
	modulesSDKVersion, modulesKernel, modulesVerified = "", false, false
	blobFetchOut = ""
	serveAddr = ""
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommandState()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	shutdownRuntime()
	return out.String(), err
}

func TestVersionsList(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "versions:list")
	require.NoError(t, err)

	var got []presentation.VersionDTO
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	require.Equal(t, presentation.VersionDTO{
		Version: "8.0.0", SymbolPrefix: "ABI8_0_0", PackagePrefix: "abi8_0_0", Default: true,
	}, got[0])
	require.Equal(t, "6.0.0", got[2].Version)
}

func TestVersionsList_YAML(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "--format", "yaml", "versions:list")
	require.NoError(t, err)
	require.Contains(t, out, "symbol_prefix: ABI7_0_0")
}

func TestVersionsPrefix(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "versions:prefix", "7.0.0")
	require.NoError(t, err)
	var got presentation.VersionDTO
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "ABI7_0_0", got.SymbolPrefix)
	require.Equal(t, "abi7_0_0", got.PackagePrefix)
	require.False(t, got.Default)

	_, err = env.run(t, "versions:prefix", "5.0.0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not bundled")
}

func TestResolve(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name     string
		file     string
		content  string
		want     string
		verified bool
	}{
		{"explicit version", "a.json", `{"sdkVersion":"7.0.0","isVerified":true}`, "7.0.0", true},
		{"missing field", "b.json", `{"name":"demo"}`, "8.0.0", false},
		{"wrong type", "c.json", `{"sdkVersion":7}`, "8.0.0", false},
		{"null manifest", "d.json", `null`, "8.0.0", false},
		{"yaml manifest", "e.yaml", "sdkVersion: \"6.0.0\"\n", "6.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := env.write(t, tt.file, tt.content)

			out, err := env.run(t, "resolve", path)
			require.NoError(t, err)

			var got presentation.ResolutionDTO
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			require.Equal(t, tt.want, got.SDKVersion)
			require.Equal(t, versions.DeriveSymbolPrefix(tt.want), got.SymbolPrefix)
			require.Equal(t, tt.verified, got.Verified)
		})
	}
}

func TestResolve_Unsupported(t *testing.T) {
	env := newTestEnv(t, "")
	path := env.write(t, "app.json", `{"sdkVersion":"1.0.0"}`)

	_, err := env.run(t, "resolve", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot run this content")
	require.ErrorIs(t, err, versions.ErrUnsupportedVersion)
}

func TestResolve_BadInput(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "resolve", filepath.Join(env.dir, "missing.json"))
	require.Error(t, err)

	path := env.write(t, "broken.json", `{"sdkVersion":`)
	_, err = env.run(t, "resolve", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing manifest")
}

func TestResolve_DefaultVersionOverride(t *testing.T) {
	env := newTestEnv(t, "default_version: \"7.0.0\"\n")
	path := env.write(t, "app.json", `{}`)

	out, err := env.run(t, "resolve", path)
	require.NoError(t, err)
	require.Contains(t, out, `"sdk_version": "7.0.0"`)

	bad := newTestEnv(t, "default_version: \"9.9.9\"\n")
	_, err = bad.run(t, "resolve", path)
	require.ErrorIs(t, err, versions.ErrUnknownDefault)
}

func TestResolve_UnversionedFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sdkVersion":"UNVERSIONED"}`), 0o600))

	_, err := newTestEnv(t, "").run(t, "resolve", path)
	require.ErrorIs(t, err, versions.ErrUnsupportedVersion)

	env := newTestEnv(t, "flags:\n  unversioned-sdk: true\n")
	out, err := env.run(t, "resolve", path)
	require.NoError(t, err)

	var got presentation.ResolutionDTO
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, versions.Unversioned, got.SDKVersion)
	require.Empty(t, got.SymbolPrefix)
}

func TestResolve_CustomVersionsFile(t *testing.T) {
	dir := t.TempDir()
	versionsFile := filepath.Join(dir, "versions.yaml")
	require.NoError(t, os.WriteFile(versionsFile, []byte(`
default: "2.0.0"
versions:
  - version: "2.0.0"
  - version: "3.0.0"
    symbol_prefix: "EXP3"
`), 0o600))

	env := newTestEnv(t, fmt.Sprintf("versions_file: %q\n", versionsFile))

	out, err := env.run(t, "versions:list")
	require.NoError(t, err)
	var got []presentation.VersionDTO
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	require.Equal(t, "EXP3", got[0].SymbolPrefix)
	require.True(t, got[1].Default)
}

func TestSymbol(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		args []string
		want presentation.SymbolDTO
	}{
		{
			"versioned",
			[]string{"symbol", "RCTView", "--sdk-version", "7.0.0"},
			presentation.SymbolDTO{Input: "RCTView", Output: "ABI7_0_0RCTView", SDKVersion: "7.0.0"},
		},
		{
			"default version",
			[]string{"symbol", "RCTView"},
			presentation.SymbolDTO{Input: "RCTView", Output: "ABI8_0_0RCTView", SDKVersion: "8.0.0"},
		},
		{
			"idempotent",
			[]string{"symbol", "ABI7_0_0RCTView", "-s", "7.0.0"},
			presentation.SymbolDTO{Input: "ABI7_0_0RCTView", Output: "ABI7_0_0RCTView", SDKVersion: "7.0.0"},
		},
		{
			"strip detects version",
			[]string{"symbol", "ABI6_0_0RCTView", "--strip"},
			presentation.SymbolDTO{Input: "ABI6_0_0RCTView", Output: "RCTView", SDKVersion: "6.0.0"},
		},
		{
			"package",
			[]string{"symbol", "host.exp.exponent", "--package", "-s", "6.0.0"},
			presentation.SymbolDTO{Input: "host.exp.exponent", Output: "abi6_0_0.host.exp.exponent", SDKVersion: "6.0.0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			require.NoError(t, err)
			var got presentation.SymbolDTO
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSymbol_Errors(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "symbol", "RCTView", "--strip")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no bundled version prefix")

	_, err = env.run(t, "symbol", "RCTView", "-s", "1.0.0")
	require.Error(t, err)

	_, err = env.run(t, "symbol", "x", "--strip", "--package")
	require.Error(t, err)
}

func TestModulesList(t *testing.T) {
	env := newTestEnv(t, "")

	names := func(out string) []string {
		var got []presentation.ModuleDTO
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		var names []string
		for _, m := range got {
			names = append(names, m.Name)
		}
		return names
	}

	out, err := env.run(t, "modules:list", "--kernel", "-s", "7.0.0")
	require.NoError(t, err)
	kernel := names(out)
	require.Len(t, kernel, 7)
	require.NotContains(t, kernel, "ImageCropper")

	out, err = env.run(t, "modules:list", "--verified", "-s", "7.0.0")
	require.NoError(t, err)
	verified := names(out)
	require.Contains(t, verified, "FileSystem")
	require.Contains(t, verified, "ImageCropper")
	require.NotContains(t, verified, "UnsignedAsyncStorage")

	out, err = env.run(t, "modules:list")
	require.NoError(t, err)
	unverified := names(out)
	require.Contains(t, unverified, "UnsignedAsyncStorage")
	require.NotContains(t, unverified, "FileSystem")
	require.True(t, strings.Contains(out, "ABI8_0_0"), "default version is used")

	_, err = env.run(t, "modules:list", "-s", "1.0.0")
	require.Error(t, err)
}

func TestBlobCommands(t *testing.T) {
	env := newTestEnv(t, "")
	src := env.write(t, "image.bin", "\x89PNG fake image bytes")

	out, err := env.run(t, "blob:store", src)
	require.NoError(t, err)
	var stored presentation.BlobDTO
	require.NoError(t, json.Unmarshal([]byte(out), &stored))
	require.True(t, strings.HasPrefix(stored.Key, "blob-store://"))
	require.Equal(t, 21, stored.Size)

	out, err = env.run(t, "blob:fetch", stored.Key)
	require.NoError(t, err)
	require.Equal(t, "\x89PNG fake image bytes", out)

	dst := filepath.Join(env.dir, "copy.bin")
	_, err = env.run(t, "blob:fetch", stored.Key, "-o", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "\x89PNG fake image bytes", string(data))

	_, err = env.run(t, "blob:remove", stored.Key)
	require.NoError(t, err)
	_, err = env.run(t, "blob:remove", stored.Key)
	require.NoError(t, err, "removing a missing key is a no-op")

	_, err = env.run(t, "blob:fetch", stored.Key)
	require.Error(t, err)

	out, err = env.run(t, "blob:purge")
	require.NoError(t, err)
	require.Contains(t, out, "purged 0")
}

func TestBlobStore_CIDKeys(t *testing.T) {
	env := newTestEnv(t, "")
	env.write(t, "config.yaml", fmt.Sprintf("blob:\n  key_strategy: cid\n  db_path: %q\n", filepath.Join(env.dir, "blobs.db")))
	src := env.write(t, "same.bin", "same bytes")

	first, err := env.run(t, "blob:store", src)
	require.NoError(t, err)
	second, err := env.run(t, "blob:store", src)
	require.NoError(t, err)
	require.Equal(t, first, second, "identical content shares a key")

	var stored presentation.BlobDTO
	require.NoError(t, json.Unmarshal([]byte(first), &stored))

	_, err = env.run(t, "blob:remove", stored.Key)
	require.NoError(t, err)
	out, err := env.run(t, "blob:fetch", stored.Key)
	require.NoError(t, err, "the second store still holds a reference")
	require.Equal(t, "same bytes", out)

	_, err = env.run(t, "blob:remove", stored.Key)
	require.NoError(t, err)
	_, err = env.run(t, "blob:fetch", stored.Key)
	require.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t, "server:\n  addr: \"nope\"\n")
	_, err := env.run(t, "versions:list")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration")
}

func TestDebugLogging(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "--debug", "versions:list")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(env.dir, "debug.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "abikit starting")
}

func TestVersionsUse(t *testing.T) {
	env := newTestEnv(t, "")
	manifest := env.write(t, "app.json", `{}`)

	_, err := env.run(t, "versions:use", "6.0.0")
	require.NoError(t, err)

	out, err := env.run(t, "resolve", manifest)
	require.NoError(t, err)
	require.Contains(t, out, `"sdk_version": "6.0.0"`)

	_, err = env.run(t, "versions:use", "1.0.0")
	require.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t, "")
	path := filepath.Join(env.dir, "fresh", "config.yaml")

	out, err := env.run(t, "config:init", path)
	require.NoError(t, err)
	require.Equal(t, path+"\n", out)
	require.FileExists(t, path)

	_, err = env.run(t, "config:init", path)
	require.Error(t, err, "existing config is not overwritten")
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// useRuntime loads env's config and runtime the way a command would.
func useRuntime(t *testing.T, env *testEnv) {
	t.Helper()
	resetCommandState()
	cfgFile = env.configPath
	initConfig()
	require.NoError(t, setupRuntime())
	t.Cleanup(shutdownRuntime)
}
