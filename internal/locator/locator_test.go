package locator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLibraryFolders = `"libraryfolders"
{
	"0"
	{
		"path"		"/home/player/.local/share/Steam"
		"label"		""
		"contentid"		"4123874419528413711"
		"totalsize"		"0"
		"apps"
		{
			"228980"		"448266398"
			"1493710"		"1260825559"
		}
	}
	// secondary drive
	"1"
	{
		"path"		"/mnt/games/SteamLibrary"
		"label"		"games"
		"apps"
		{
			"1869590"		"6266923288"
		}
	}
}
`

func writeLibraryFolders(t *testing.T, home, content string) {
	t.Helper()
	l := &Locator{Home: home}
	if err := os.MkdirAll(filepath.Dir(l.LibraryFoldersPath()), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(l.LibraryFoldersPath(), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestParseLibraryFolders(t *testing.T) {
	libs, err := ParseLibraryFolders(strings.NewReader(sampleLibraryFolders))
	if err != nil {
		t.Fatalf("ParseLibraryFolders failed: %v", err)
	}
	if len(libs) != 2 {
		t.Fatalf("expected 2 libraries, got %d", len(libs))
	}
	if libs[1].Path != "/mnt/games/SteamLibrary" {
		t.Errorf("unexpected path %q", libs[1].Path)
	}
	if libs[0].HasApp(AppID) || !libs[1].HasApp(AppID) {
		t.Errorf("app should only be in the second library: %+v", libs)
	}
}

func TestParseLibraryFolders_IndexOrder(t *testing.T) {
	input := `"LibraryFolders"
{
	"10" { "path" "/ten" }
	"2" { "Path" "/two" "Apps" { "1869590" "1" } }
	"0" { "path" "/zero" }
	"contentstatsid" "-8921957423898892861"
}`
	libs, err := ParseLibraryFolders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseLibraryFolders failed: %v", err)
	}
	if len(libs) != 3 {
		t.Fatalf("expected 3 libraries, got %+v", libs)
	}

	var paths []string
	for _, l := range libs {
		paths = append(paths, l.Path)
	}
	if strings.Join(paths, ",") != "/zero,/two,/ten" {
		t.Errorf("expected libraries in index order, got %v", paths)
	}
	if !libs[1].HasApp(AppID) {
		t.Errorf("mixed-case keys should still be read: %+v", libs[1])
	}
}

func TestParseLibraryFolders_Malformed(t *testing.T) {
	inputs := map[string]string{
		"empty":         ``,
		"missing block": `"something" { }`,
		"string value":  `"libraryfolders" "none"`,
	}
	for name, input := range inputs {
		if _, err := ParseLibraryFolders(strings.NewReader(input)); err == nil {
			t.Errorf("%s: expected parse error", name)
		}
	}
}

func TestFind_Linux(t *testing.T) {
	home := t.TempDir()
	writeLibraryFolders(t, home, sampleLibraryFolders)

	l := &Locator{Home: home, GOOS: "linux"}
	path, err := l.Find()
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	want := filepath.Join("/mnt/games/SteamLibrary", "steamapps", "compatdata", "1869590", "pfx",
		"drive_c", "users", "steamuser", "AppData", "Local", "OmegaStrikers", "Saved", "Logs", "OmegaStrikers.log")
	if path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
}

func TestFind_LinuxAppNotInstalled(t *testing.T) {
	home := t.TempDir()
	writeLibraryFolders(t, home, `"libraryfolders" { "0" { "path" "/x" "apps" { "10" "1" } } }`)

	l := &Locator{Home: home, GOOS: "linux"}
	if _, err := l.Find(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFind_LinuxNoSteam(t *testing.T) {
	l := &Locator{Home: t.TempDir(), GOOS: "linux"}
	if _, err := l.Find(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFind_Windows(t *testing.T) {
	l := &Locator{Home: "home", GOOS: "windows"}
	path, err := l.Find()
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	want := filepath.Join("home", "AppData", "Local", "OmegaStrikers", "Saved", "Logs", "OmegaStrikers.log")
	if path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
}

func TestFind_DarwinUsesSteamLibraries(t *testing.T) {
	home := t.TempDir()
	writeLibraryFolders(t, home, sampleLibraryFolders)

	l := &Locator{Home: home, GOOS: "darwin"}
	path, err := l.Find()
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if !strings.HasPrefix(path, "/mnt/games/SteamLibrary") {
		t.Errorf("expected path in the library holding the app, got %s", path)
	}
}

func TestFind_Unsupported(t *testing.T) {
	l := &Locator{Home: t.TempDir(), GOOS: "plan9"}
	_, err := l.Find()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "plan9") {
		t.Errorf("expected OS in error, got %v", err)
	}
}
