package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Steam app ID for Omega Strikers
const AppID = "1869590"

// ErrNotFound is returned when the log file location cannot be determined.
var ErrNotFound = errors.New("could not determine the Omega Strikers log file location")

// Locator finds the game's log file for a given home directory and OS.
type Locator struct {
	Home string
	GOOS string
}

// Default returns a locator for the current user and platform.
func Default() (*Locator, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("%w: home directory: %w", ErrNotFound, err)
	}
	return &Locator{Home: home, GOOS: runtime.GOOS}, nil
}

// Find returns the path of the log file.
//
// On Windows this is the game's folder under the local app data directory.
// On other unix hosts the game runs under Proton, so the Steam library holding the app
// is looked up in libraryfolders.vdf and the log lives in its compatdata prefix.
func (l *Locator) Find() (string, error) {
	switch l.GOOS {
	case "windows":
		return filepath.Join(l.Home, "AppData", "Local", "OmegaStrikers", "Saved", "Logs", "OmegaStrikers.log"), nil
	case "plan9", "js", "wasip1":
		return "", fmt.Errorf("%w: unsupported operating system %s", ErrNotFound, l.GOOS)
	default:
		return l.findProton()
	}
}

// LibraryFoldersPath is where Steam keeps its library list on Linux.
func (l *Locator) LibraryFoldersPath() string {
	return filepath.Join(l.Home, ".local", "share", "Steam", "config", "libraryfolders.vdf")
}

func (l *Locator) findProton() (string, error) {
	vdfPath := l.LibraryFoldersPath()
	file, err := os.Open(vdfPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	defer func() { _ = file.Close() }()

	libraries, err := ParseLibraryFolders(file)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %w", ErrNotFound, vdfPath, err)
	}

	for _, lib := range libraries {
		if lib.HasApp(AppID) {
			return protonLogPath(lib.Path), nil
		}
	}
	return "", fmt.Errorf("%w: app %s not installed in any Steam library listed in %s", ErrNotFound, AppID, vdfPath)
}

func protonLogPath(library string) string {
	return filepath.Join(library,
		"steamapps", "compatdata", AppID, "pfx", "drive_c", "users", "steamuser",
		"AppData", "Local", "OmegaStrikers", "Saved", "Logs", "OmegaStrikers.log")
}
