// Package tmpl implements the ${name} / ${name|filter} variable
// substituter of spec.md §4.3, run once between merge and spec
// resolution.
package tmpl

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/jedi4ever/ctenv/config"
	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/runtimectx"
)

var exprPattern = regexp.MustCompile(`\$\{([a-zA-Z0-9_.]+)(?:\|([a-zA-Z0-9_]+))?\}`)

// Variables is the resolver namespace spec.md §4.3 describes: the
// union of selected ContainerConfig fields, RuntimeContext fields, and
// env.NAME lookups (handled separately since they're dynamic).
type Variables map[string]string

// BuildVariables snapshots the merged record's scalar fields and the
// runtime context into a fixed variable set. Using a fixed snapshot
// (rather than re-substituting field values as they're produced) means
// a field referencing ${command} always sees the literal configured
// command, never a partially-substituted value from another field —
// avoiding substitution-order dependence entirely.
func BuildVariables(cfg config.ContainerConfig, rc *runtimectx.Context) Variables {
	v := Variables{}

	setIf := func(key string, f config.Field[string]) {
		if f.IsSet() {
			v[key] = f.Get()
		}
	}
	setIf("image", cfg.Image)
	setIf("command", cfg.Command)
	setIf("project_target", cfg.ProjectTarget)
	setIf("workdir", cfg.Workdir)
	setIf("gosu_path", cfg.GosuPath)
	setIf("container_name", cfg.ContainerName)
	setIf("network", cfg.Network)
	setIf("platform", cfg.Platform)
	setIf("runtime", cfg.Runtime)

	// RuntimeContext fields are authoritative and always present.
	v["user_name"] = rc.UserName
	v["user_id"] = strconv.Itoa(rc.UserID)
	v["user_home"] = rc.UserHome
	v["group_name"] = rc.GroupName
	v["group_id"] = strconv.Itoa(rc.GroupID)
	v["pid"] = strconv.Itoa(rc.PID)

	if cfg.ProjectDir.IsSet() {
		v["project_dir"] = cfg.ProjectDir.Get()
	} else {
		v["project_dir"] = rc.ProjectDir
	}

	return v
}

// filters is the fixed, closed vocabulary of §4.3. slug replaces "/"
// and ":" with "-".
var filters = map[string]func(string) string{
	"slug": func(s string) string {
		s = strings.ReplaceAll(s, "/", "-")
		return strings.ReplaceAll(s, ":", "-")
	},
}

// expand substitutes every ${name} / ${name|filter} occurrence in s,
// attributing errors to field for TemplateError's context.
func expand(s, field string, vars Variables) (string, error) {
	var firstErr error
	result := exprPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}
		sub := exprPattern.FindStringSubmatch(match)
		name, filterName := sub[1], sub[2]

		value, ok := lookup(name, vars)
		if !ok {
			firstErr = &ctenverr.TemplateError{Field: field, Expression: match, Reason: "unknown variable " + name}
			return match
		}

		if filterName != "" {
			fn, ok := filters[filterName]
			if !ok {
				firstErr = &ctenverr.TemplateError{Field: field, Expression: match, Reason: "unknown filter " + filterName}
				return match
			}
			value = fn(value)
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

func lookup(name string, vars Variables) (string, bool) {
	if strings.HasPrefix(name, "env.") {
		envName := strings.TrimPrefix(name, "env.")
		// Per spec.md §4.3: a literal-empty value when the host
		// environment variable is unset, never an error.
		return os.Getenv(envName), true
	}
	v, ok := vars[name]
	return v, ok
}

// ExpandString is the public single-string entry point, for callers
// that need to expand one value outside the full-record walk. It
// applies the same rules as Substitute.
func ExpandString(s, field string, vars Variables) (string, error) {
	return expand(s, field, vars)
}

func expandList(list []string, field string, vars Variables) ([]string, error) {
	out := make([]string, len(list))
	for i, s := range list {
		e, err := expand(s, field, vars)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// Substitute applies expand to every string and string-list field of
// cfg, recursing into Build, per spec.md §4.3's "applied recursively to
// every string and every element of every string-list in the merged
// record, including defaults such as the generated container name
// pattern."
func Substitute(cfg config.ContainerConfig, rc *runtimectx.Context) (config.ContainerConfig, error) {
	vars := BuildVariables(cfg, rc)
	return substituteWith(cfg, vars)
}

func substituteWith(cfg config.ContainerConfig, vars Variables) (config.ContainerConfig, error) {
	var err error

	if cfg.Image, err = expandStringField(cfg.Image, "image", vars); err != nil {
		return cfg, err
	}
	if cfg.Command, err = expandStringField(cfg.Command, "command", vars); err != nil {
		return cfg, err
	}
	if cfg.ProjectDir, err = expandStringField(cfg.ProjectDir, "project_dir", vars); err != nil {
		return cfg, err
	}
	if cfg.ProjectTarget, err = expandStringField(cfg.ProjectTarget, "project_target", vars); err != nil {
		return cfg, err
	}
	if cfg.Workdir, err = expandStringField(cfg.Workdir, "workdir", vars); err != nil {
		return cfg, err
	}
	if cfg.GosuPath, err = expandStringField(cfg.GosuPath, "gosu_path", vars); err != nil {
		return cfg, err
	}
	if cfg.ContainerName, err = expandStringField(cfg.ContainerName, "container_name", vars); err != nil {
		return cfg, err
	}
	if cfg.Network, err = expandStringField(cfg.Network, "network", vars); err != nil {
		return cfg, err
	}
	if cfg.Platform, err = expandStringField(cfg.Platform, "platform", vars); err != nil {
		return cfg, err
	}
	if cfg.TTY, err = expandStringField(cfg.TTY, "tty", vars); err != nil {
		return cfg, err
	}
	if cfg.Runtime, err = expandStringField(cfg.Runtime, "runtime", vars); err != nil {
		return cfg, err
	}

	if cfg.Subpaths, err = expandStringListField(cfg.Subpaths, "subpaths", vars); err != nil {
		return cfg, err
	}
	if cfg.Env, err = expandStringListField(cfg.Env, "env", vars); err != nil {
		return cfg, err
	}
	if cfg.Volumes, err = expandStringListField(cfg.Volumes, "volumes", vars); err != nil {
		return cfg, err
	}
	if cfg.PostStartCommands, err = expandStringListField(cfg.PostStartCommands, "post_start_commands", vars); err != nil {
		return cfg, err
	}
	if cfg.RunArgs, err = expandStringListField(cfg.RunArgs, "run_args", vars); err != nil {
		return cfg, err
	}

	if cfg.Build.IsSet() {
		bc := *cfg.Build.Get()
		if bc.Dockerfile, err = expandStringField(bc.Dockerfile, "build.dockerfile", vars); err != nil {
			return cfg, err
		}
		if bc.DockerfileContent, err = expandStringField(bc.DockerfileContent, "build.dockerfile_content", vars); err != nil {
			return cfg, err
		}
		if bc.Context, err = expandStringField(bc.Context, "build.context", vars); err != nil {
			return cfg, err
		}
		if bc.Tag, err = expandStringField(bc.Tag, "build.tag", vars); err != nil {
			return cfg, err
		}
		cfg.Build = config.SetField(&bc)
	}

	return cfg, nil
}

func expandStringField(f config.Field[string], field string, vars Variables) (config.Field[string], error) {
	if !f.IsSet() {
		return f, nil
	}
	e, err := expand(f.Get(), field, vars)
	if err != nil {
		return f, err
	}
	return config.SetField(e), nil
}

func expandStringListField(f config.Field[[]string], field string, vars Variables) (config.Field[[]string], error) {
	if !f.IsSet() {
		return f, nil
	}
	e, err := expandList(f.Get(), field, vars)
	if err != nil {
		return f, err
	}
	return config.SetField(e), nil
}
