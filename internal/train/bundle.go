package train

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TrainerDir is where the bundled trainer is installed, relative to the
// output directory.
const TrainerDir = ".trainer"

const trainerRoot = "trainer"

//go:embed trainer/leapmt_trainer/*.py trainer/requirements.txt
var trainerFiles embed.FS

// InstallTrainer writes the bundled leapmt_trainer Python package under
// outDir and returns the directory to put on PYTHONPATH.
func InstallTrainer(outDir string) (string, error) {
	root := filepath.Join(outDir, TrainerDir)
	err := fs.WalkDir(trainerFiles, trainerRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, trainerRoot), "/")
		target := filepath.Join(root, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		data, err := trainerFiles.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o600)
	})
	if err != nil {
		return "", fmt.Errorf("failed to install trainer into %s: %w", root, err)
	}
	return root, nil
}

// TrainerFiles lists the bundled files relative to the install directory.
func TrainerFiles() []string {
	var out []string
	_ = fs.WalkDir(trainerFiles, trainerRoot, func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			out = append(out, strings.TrimPrefix(p, trainerRoot+"/"))
		}
		return nil
	})
	return out
}

// pythonPath prepends dir to the inherited PYTHONPATH.
func pythonPath(dir string) string {
	if cur := os.Getenv("PYTHONPATH"); cur != "" {
		return "PYTHONPATH=" + dir + string(os.PathListSeparator) + cur
	}
	return "PYTHONPATH=" + dir
}
