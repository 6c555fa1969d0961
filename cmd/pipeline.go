package cmd

import (
	"github.com/jedi4ever/ctenv/config"
	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/runtimectx"
	"github.com/jedi4ever/ctenv/specresolve"
	"github.com/jedi4ever/ctenv/tmpl"
	"github.com/jedi4ever/ctenv/util"
)

var pipelineLog = util.Log("cmd")

// resolveSpec runs the full discover -> merge -> select -> substitute
// -> resolve pipeline shared by run and build (spec.md §4.1-§4.4).
func resolveSpec(f *containerFlags) (*specresolve.Spec, error) {
	rc, err := runtimectx.Capture(f.override.ProjectDir.Get(), config.FileName)
	if err != nil {
		return nil, err
	}

	loaded, err := config.Load(rc.Cwd, rc.UserHome, f.configPaths)
	if err != nil {
		return nil, err
	}

	merged := loaded.MergedDefaults()

	_, selected, found, err := loaded.SelectedContainer(f.containerName)
	if err != nil {
		return nil, err
	}
	if found {
		merged = config.Merge(merged, selected)
	} else if f.containerName != "" {
		return nil, &ctenverr.UnknownContainerError{Name: f.containerName}
	}

	merged = config.Merge(merged, f.override)

	if len(f.command) > 0 {
		merged.Command = config.SetField(commandBody(f.command))
	}

	substituted, err := tmpl.Substitute(merged, rc)
	if err != nil {
		return nil, err
	}

	spec, warnings, err := specresolve.Resolve(substituted, rc)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		pipelineLog.Debugf("%s", w)
	}

	return spec, nil
}
