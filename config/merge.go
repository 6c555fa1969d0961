package config

import "github.com/jedi4ever/ctenv/ctenverr"

// BuiltinDefaults returns the lowest-precedence layer in the merge
// chain described by spec.md §4.2.
func BuiltinDefaults() ContainerConfig {
	return ContainerConfig{
		AutoProjectMount: SetField(true),
		Workdir:          SetField("auto"),
		GosuPath:         SetField("auto"),
		TTY:              SetField("auto"),
		Runtime:          SetField("docker"),
		Sudo:             SetField(false),
		ContainerName:    SetField("ctenv-${project_dir|slug}-${pid}"),
	}
}

// Merge combines two ContainerConfig layers field by field: override
// wins unless its value is Unset (spec.md §4.2). There is no deep
// merge — Build is replaced wholesale, never merged with a prior
// Build value, matching "no deep merge and no list concatenation".
func Merge(base, override ContainerConfig) ContainerConfig {
	out := ContainerConfig{
		Image:             mergeField(base.Image, override.Image),
		Command:           mergeField(base.Command, override.Command),
		ProjectDir:        mergeField(base.ProjectDir, override.ProjectDir),
		ProjectTarget:     mergeField(base.ProjectTarget, override.ProjectTarget),
		AutoProjectMount:  mergeField(base.AutoProjectMount, override.AutoProjectMount),
		Subpaths:          mergeField(base.Subpaths, override.Subpaths),
		Workdir:           mergeField(base.Workdir, override.Workdir),
		GosuPath:          mergeField(base.GosuPath, override.GosuPath),
		ContainerName:     mergeField(base.ContainerName, override.ContainerName),
		TTY:               mergeField(base.TTY, override.TTY),
		Sudo:              mergeField(base.Sudo, override.Sudo),
		Network:           mergeField(base.Network, override.Network),
		Platform:          mergeField(base.Platform, override.Platform),
		Ulimits:           mergeField(base.Ulimits, override.Ulimits),
		Env:               mergeField(base.Env, override.Env),
		Volumes:           mergeField(base.Volumes, override.Volumes),
		PostStartCommands: mergeField(base.PostStartCommands, override.PostStartCommands),
		RunArgs:           mergeField(base.RunArgs, override.RunArgs),
		Runtime:           mergeField(base.Runtime, override.Runtime),
		Build:             mergeField(base.Build, override.Build),
		Default:           mergeField(base.Default, override.Default),
	}
	if override.ConfigFilePath != nil {
		out.ConfigFilePath = override.ConfigFilePath
	} else {
		out.ConfigFilePath = base.ConfigFilePath
	}
	return out
}

// SelectContainer implements the selection rule of spec.md §4.2: a
// CLI-supplied name wins outright; otherwise the container (if any)
// whose merged Default field is true and set is used; two or more such
// containers is an AmbiguousDefaultError.
func SelectContainer(userLayer, projectLayer *Layer, cliName string) (name string, cfg ContainerConfig, found bool, err error) {
	effective := effectiveContainers(userLayer, projectLayer)

	if cliName != "" {
		cc, ok := effective[cliName]
		return cliName, cc, ok, nil
	}

	var defaults []string
	for n, cc := range effective {
		if cc.Default.IsSet() && cc.Default.Get() {
			defaults = append(defaults, n)
		}
	}
	if len(defaults) > 1 {
		return "", ContainerConfig{}, false, &ctenverr.AmbiguousDefaultError{Names: defaults}
	}
	if len(defaults) == 1 {
		return defaults[0], effective[defaults[0]], true, nil
	}
	return "", ContainerConfig{}, false, nil
}

// effectiveContainers implements the shadowing rule of spec.md §4.2: a
// container defined in the project-scope file fully replaces a
// same-named container from the user-scope file rather than merging
// with it.
func effectiveContainers(userLayer, projectLayer *Layer) map[string]ContainerConfig {
	effective := map[string]ContainerConfig{}
	if userLayer != nil {
		for n, cc := range userLayer.Containers {
			effective[n] = cc
		}
	}
	if projectLayer != nil {
		for n, cc := range projectLayer.Containers {
			effective[n] = cc
		}
	}
	return effective
}
