// Package workspace manages the .council directory that marks a project
// root and holds its configuration, persisted selections and session.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/config"
	"gopkg.in/yaml.v3"
)

const metadataFile = "metadata.yaml"

// Metadata represents project-specific metadata.
type Metadata struct {
	// Root is the relative position of the project root from this
	// .council directory.
	Root string `yaml:"root"`
}

// ConfigFoundError is returned when a project configuration already exists.
type ConfigFoundError struct{}

func (e ConfigFoundError) Error() string {
	return "project configuration already exists; remove the existing .council folder or update the configuration if necessary"
}

// WrongRootError is returned by Remove when the directory is not a valid
// project root.
type WrongRootError struct {
	Root *string
}

func (w WrongRootError) Error() string {
	if w.Root == nil {
		return "removal attempted on a folder with no configuration; root is unknown"
	}
	return fmt.Sprintf("removal attempted on a folder that is not configured as the project root; project root is %s", *w.Root)
}

func newWrongRootErr(root string) *WrongRootError {
	return &WrongRootError{
		Root: &root,
	}
}

// Create initializes the .council directory at projectRoot with metadata
// and a default config.yaml. It fails if a .council folder exists anywhere
// under projectRoot.
func Create(projectRoot string) error {
	existing, err := findAllConfigWithinRoot(os.DirFS(projectRoot), false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return ConfigFoundError{}
	}

	dir := filepath.Join(projectRoot, config.Dir)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", config.Dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), []byte("root: .\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", metadataFile, err)
	}
	return config.Save(projectRoot, config.Default())
}

// Remove deletes every .council folder under projectRoot. When
// validateRoot is set, projectRoot itself must hold metadata declaring it
// the root.
func Remove(projectRoot string, validateRoot bool) error {
	absPath, err := filepath.Abs(projectRoot)
	if err != nil {
		return err
	}

	toDelete, err := findAllConfigWithinRoot(os.DirFS(absPath), validateRoot)
	if err != nil {
		return err
	}
	for _, d := range toDelete {
		d = filepath.Join(absPath, d)
		if err := os.RemoveAll(d); err != nil {
			return fmt.Errorf("failed to remove %s: %w", d, err)
		}
	}
	return nil
}

// findAllConfigWithinRoot returns the paths, relative to projectRoot, of
// every directory named .council.
func findAllConfigWithinRoot(projectRoot fs.FS, validateRoot bool) ([]string, error) {
	if validateRoot {
		data, err := fs.ReadFile(projectRoot, config.Dir+"/"+metadataFile)
		if err != nil {
			return nil, WrongRootError{Root: nil}
		}
		var m Metadata
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", metadataFile, err)
		}
		if m.Root != "." {
			return nil, WrongRootError{Root: &m.Root}
		}
	}

	var found []string
	err := fs.WalkDir(projectRoot, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == config.Dir {
			found = append(found, path)
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking the file tree: %w", err)
	}
	sort.Strings(found)
	return found, nil
}

// FindRoot ascends from path to the nearest directory holding valid
// .council metadata and returns its absolute path.
func FindRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	curr := absPath
	for {
		data, err := os.ReadFile(filepath.Join(curr, config.Dir, metadataFile))
		if err == nil {
			var m Metadata
			if err := yaml.Unmarshal(data, &m); err != nil {
				return "", fmt.Errorf("project root has invalid metadata: %w", err)
			}
			return curr, nil
		}
		parent := filepath.Dir(curr)
		if parent == curr {
			return "", fmt.Errorf("given path %s is not within a valid project root", path)
		}
		curr = parent
	}
}

// FindDistanceToRoot returns the relative path from path up to the project
// root: "." at the root, ".." one level below, and so on.
func FindDistanceToRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}
	projectRoot, err := FindRoot(absPath)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absPath, projectRoot)
	if err != nil {
		return "", fmt.Errorf("error computing relative path: %w", err)
	}
	if rel == "." {
		return ".", nil
	}
	for _, p := range strings.Split(rel, string(os.PathSeparator)) {
		if p != ".." {
			return "", fmt.Errorf("given path %s is not within the project root %s", path, projectRoot)
		}
	}
	return rel, nil
}
