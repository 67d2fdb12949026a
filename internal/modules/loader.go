package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/config"
)

// declarationFiles lists the declaration files directly inside dirPath, sorted.
func declarationFiles(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && config.IsDeclarationFile(e.Name()) {
			files = append(files, filepath.Join(dirPath, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// hasAnySourceFiles checks if directory has any declaration files
func hasAnySourceFiles(dirPath string) bool {
	files, err := declarationFiles(dirPath)
	return err == nil && len(files) > 0
}

// Loader loads declaration files and caches them by absolute path.
type Loader struct {
	LoadedModules map[string]*Module // Cache of loaded modules by path
	ModulesByName map[string]*Module // Index by package name for quick lookup
}

func NewLoader() *Loader {
	return &Loader{
		LoadedModules: make(map[string]*Module),
		ModulesByName: make(map[string]*Module),
	}
}

// GetModuleByPackageName returns a loaded module by its package name.
func (l *Loader) GetModuleByPackageName(name string) (*Module, bool) {
	mod, ok := l.ModulesByName[name]
	return mod, ok
}

// Load loads a single declaration file or a directory of them.
// A directory without direct declaration files but with package
// subdirectories is loaded as a package group.
func (l *Loader) Load(path string) (*Module, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if mod, ok := l.LoadedModules[absPath]; ok {
		return mod, nil
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return l.loadFile(path, absPath)
	}

	if mod, err := l.tryLoadPackageGroup(path, absPath); err != nil || mod != nil {
		return mod, err
	}
	return l.loadDir(path, absPath)
}

func (l *Loader) loadFile(path, absPath string) (*Module, error) {
	if !config.IsDeclarationFile(absPath) {
		return nil, fmt.Errorf("%s is not a declaration file (expected %s)", path, strings.Join(config.SourceFileExtensions, "/"))
	}
	file, err := readFile(path, filepath.Base(filepath.Dir(absPath)))
	if err != nil {
		return nil, err
	}
	mod := &Module{Name: file.Package, Dir: filepath.Dir(absPath), Files: []*ast.File{file}}
	l.register(absPath, mod)
	return mod, nil
}

// tryLoadPackageGroup returns nil, nil when absPath is a regular package directory.
func (l *Loader) tryLoadPackageGroup(dir, absPath string) (*Module, error) {
	if hasAnySourceFiles(absPath) {
		return nil, nil
	}
	entries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, err
	}

	var subPackages []string
	for _, e := range entries {
		if e.IsDir() && hasAnySourceFiles(filepath.Join(absPath, e.Name())) {
			subPackages = append(subPackages, e.Name())
		}
	}
	if len(subPackages) == 0 {
		return nil, nil
	}
	sort.Strings(subPackages)

	group := &Module{
		Name:           filepath.Base(absPath),
		Dir:            absPath,
		IsPackageGroup: true,
		SubPackages:    subPackages,
		Imports:        make(map[string]*Module),
	}
	for _, name := range subPackages {
		sub, err := l.loadDir(filepath.Join(dir, name), filepath.Join(absPath, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load sub-package %s: %w", name, err)
		}
		group.Imports[name] = sub
	}
	l.LoadedModules[absPath] = group
	return group, nil
}

// loadDir loads one package directory. All files must declare the same
// package; files without a package declaration take the directory name.
// File paths are kept relative to dir as given by the caller.
func (l *Loader) loadDir(dir, absPath string) (*Module, error) {
	if mod, ok := l.LoadedModules[absPath]; ok {
		return mod, nil
	}

	sourceFiles, err := declarationFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(sourceFiles) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", strings.Join(config.SourceFileExtensions, "/"), absPath)
	}

	module := &Module{Dir: absPath}
	for _, path := range sourceFiles {
		file, err := readFile(path, filepath.Base(absPath))
		if err != nil {
			return nil, err
		}
		if module.Name == "" {
			module.Name = file.Package
		} else if file.Package != module.Name {
			return nil, fmt.Errorf("multiple packages in directory %s: found %s and %s", absPath, module.Name, file.Package)
		}
		module.Files = append(module.Files, file)
	}

	l.register(absPath, module)
	return module, nil
}

func (l *Loader) register(absPath string, mod *Module) {
	l.LoadedModules[absPath] = mod
	l.ModulesByName[mod.Name] = mod
}

func readFile(path, defaultPackage string) (*ast.File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFile(path, content, defaultPackage)
}
