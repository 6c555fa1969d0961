package config

import "path/filepath"

// Loaded bundles everything the loader discovered/parsed for one
// invocation: the two well-known layers plus whatever was explicitly
// supplied on the CLI, in discovery order (spec.md §4.1, §5 "file
// reads are sequential in discovery order").
type Loaded struct {
	User     *Layer // nil if ~/.ctenv.toml doesn't exist
	Project  *Layer // nil if no project-scope file was found
	Explicit []*Layer
}

// Load discovers and parses the user-scope and project-scope config
// files, plus any explicitPaths given on the CLI (e.g. --config). When
// explicitPaths is non-empty it replaces discovery entirely (neither
// the user-scope nor the project-scope file is read), each explicit
// file layering over the previous in the order given, matching the
// ordered-list contract of spec.md §4.1.
func Load(cwd, home string, explicitPaths []string) (*Loaded, error) {
	loaded := &Loaded{}

	if len(explicitPaths) > 0 {
		for _, p := range explicitPaths {
			layer, err := LoadFile(p)
			if err != nil {
				return nil, err
			}
			loaded.Explicit = append(loaded.Explicit, layer)
		}
		return loaded, nil
	}

	userPath, projectPath := Discover(cwd, home)
	if userPath != "" {
		layer, err := LoadFile(userPath)
		if err != nil {
			return nil, err
		}
		loaded.User = layer
	}
	if projectPath != "" {
		layer, err := LoadFile(projectPath)
		if err != nil {
			return nil, err
		}
		loaded.Project = layer
	}
	return loaded, nil
}

// ProjectDirHint returns the directory of the project-scope file, or of
// the last explicit file when explicit files were loaded. The run and
// build pipelines do not call it: their project directory comes from
// runtimectx.Capture's own upward walk for the marker file.
func (l *Loaded) ProjectDirHint() string {
	if l.Project != nil {
		return dirOf(l.Project.Path)
	}
	if len(l.Explicit) > 0 {
		return dirOf(l.Explicit[len(l.Explicit)-1].Path)
	}
	return ""
}

// MergedDefaults layers built-in defaults, then the user-scope file's
// defaults table, then the project-scope file's defaults table (or the
// explicit files' defaults tables in order), per the precedence in
// spec.md §4.2.
func (l *Loaded) MergedDefaults() ContainerConfig {
	out := BuiltinDefaults()
	if l.User != nil {
		out = Merge(out, l.User.Defaults)
	}
	if l.Project != nil {
		out = Merge(out, l.Project.Defaults)
	}
	for _, layer := range l.Explicit {
		out = Merge(out, layer.Defaults)
	}
	return out
}

// SelectedContainer runs the container-selection rule (spec.md §4.2)
// over whichever layers are in play for this Loaded set.
func (l *Loaded) SelectedContainer(cliName string) (name string, cfg ContainerConfig, found bool, err error) {
	if len(l.Explicit) > 0 {
		// Explicit files shadow each other in the order given, the
		// same way project-scope shadows user-scope.
		var user, project *Layer
		for i, layer := range l.Explicit {
			if i == 0 {
				user = layer
				continue
			}
			project = layer
			user = mergeShadow(user, project)
			project = nil
		}
		return SelectContainer(user, project, cliName)
	}
	return SelectContainer(l.User, l.Project, cliName)
}

// mergeShadow folds b's containers over a's, as a *Layer, for chaining
// more than two explicit files through the two-slot shadowing rule.
func mergeShadow(a, b *Layer) *Layer {
	out := &Layer{Path: b.Path, Containers: map[string]ContainerConfig{}}
	if a != nil {
		for n, cc := range a.Containers {
			out.Containers[n] = cc
		}
	}
	for n, cc := range b.Containers {
		out.Containers[n] = cc
	}
	return out
}

func dirOf(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}
