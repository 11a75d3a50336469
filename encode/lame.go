package encode

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// lameSearchPaths are checked after PATH and the directory holding the
// running binary.
var lameSearchPaths = []string{
	"/usr/bin/lame",
	"/usr/local/bin/lame",
	"/opt/homebrew/bin/lame",
}

// LocateLAME resolves the LAME binary. A non-empty configured path is used as
// is and must exist. Otherwise PATH is searched first, then a lame shipped
// next to the running binary, then the common install locations.
func LocateLAME(configured string) (string, error) {
	if configured != "" {
		if isExecutable(configured) {
			return configured, nil
		}
		return "", fmt.Errorf("%w: lame not found at %s", ErrEncoderUnavailable, configured)
	}

	if path, err := exec.LookPath("lame"); err == nil {
		return path, nil
	}

	for _, path := range lameCandidates() {
		if isExecutable(path) {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: lame not found on PATH; install lame to export mp3", ErrEncoderUnavailable)
}

// lameCandidates lists the fixed locations tried when lame is not on PATH.
func lameCandidates() []string {
	candidates := make([]string, 0, len(lameSearchPaths)+1)
	if exe, err := os.Executable(); err == nil {
		name := "lame"
		if runtime.GOOS == "windows" {
			name = "lame.exe"
		}
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), name))
	}
	return append(candidates, lameSearchPaths...)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
