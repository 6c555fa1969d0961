package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/pelletier/go-toml/v2"
)

// Layer is a loaded config file, split into its defaults table and its
// per-container tables, per spec.md §4.1.
type Layer struct {
	Path       string
	Defaults   ContainerConfig
	Containers map[string]ContainerConfig
}

// LoadFile reads and parses a single config file into a Layer.
// Relative paths it contains are resolved against the file's own
// directory, per spec.md §4.1.
func LoadFile(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ctenverr.ConfigLoadError{Path: path, Err: err}
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &ctenverr.ConfigParseError{Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	layer := &Layer{Path: path, Containers: map[string]ContainerConfig{}}

	for key, val := range raw {
		switch key {
		case "defaults":
			m, ok := val.(map[string]interface{})
			if !ok {
				return nil, &ctenverr.ConfigTypeError{Path: path, Field: "defaults", Want: "table", Got: typeName(val)}
			}
			cc, err := parseContainerConfig(path, dir, m)
			if err != nil {
				return nil, err
			}
			layer.Defaults = cc
		case "containers":
			m, ok := val.(map[string]interface{})
			if !ok {
				return nil, &ctenverr.ConfigTypeError{Path: path, Field: "containers", Want: "table", Got: typeName(val)}
			}
			for name, cval := range m {
				cm, ok := cval.(map[string]interface{})
				if !ok {
					return nil, &ctenverr.ConfigTypeError{Path: path, Field: "containers." + name, Want: "table", Got: typeName(cval)}
				}
				cc, err := parseContainerConfig(path, dir, cm)
				if err != nil {
					return nil, err
				}
				layer.Containers[name] = cc
			}
		default:
			return nil, &ctenverr.ConfigSchemaError{Path: path, Key: key}
		}
	}

	return layer, nil
}

// parseContainerConfig extracts a ContainerConfig from a decoded TOML
// table, rejecting unknown keys and resolving relative paths against
// dir (the config file's own directory).
func parseContainerConfig(path, dir string, m map[string]interface{}) (ContainerConfig, error) {
	var cc ContainerConfig
	p := path
	cc.ConfigFilePath = &p

	for key, val := range m {
		if !containerFieldNames[key] {
			return cc, &ctenverr.ConfigSchemaError{Path: path, Key: key}
		}
		var err error
		switch key {
		case "image":
			cc.Image, err = asStringField(path, key, val)
		case "command":
			cc.Command, err = asStringField(path, key, val)
		case "project_dir":
			cc.ProjectDir, err = asStringField(path, key, val)
			cc.ProjectDir = resolvePathField(dir, cc.ProjectDir, nil)
		case "project_target":
			cc.ProjectTarget, err = asStringField(path, key, val)
			cc.ProjectTarget = resolvePathField(dir, cc.ProjectTarget, nil)
		case "auto_project_mount":
			cc.AutoProjectMount, err = asBoolField(path, key, val)
		case "subpaths":
			cc.Subpaths, err = asStringListField(path, key, val)
			cc.Subpaths = resolveVolumeListField(dir, cc.Subpaths)
		case "workdir":
			cc.Workdir, err = asStringField(path, key, val)
			cc.Workdir = resolvePathField(dir, cc.Workdir, keepAutoSentinel)
		case "gosu_path":
			cc.GosuPath, err = asStringField(path, key, val)
			cc.GosuPath = resolvePathField(dir, cc.GosuPath, keepAutoSentinel)
		case "container_name":
			cc.ContainerName, err = asStringField(path, key, val)
		case "tty":
			cc.TTY, err = asTTYField(path, key, val)
		case "sudo":
			cc.Sudo, err = asBoolField(path, key, val)
		case "network":
			cc.Network, err = asStringField(path, key, val)
		case "platform":
			cc.Platform, err = asStringField(path, key, val)
		case "ulimits":
			cc.Ulimits, err = asUlimitMapField(path, key, val)
		case "env":
			cc.Env, err = asStringListField(path, key, val)
		case "volumes":
			cc.Volumes, err = asStringListField(path, key, val)
			cc.Volumes = resolveVolumeListField(dir, cc.Volumes)
		case "post_start_commands":
			cc.PostStartCommands, err = asStringListField(path, key, val)
		case "run_args":
			cc.RunArgs, err = asStringListField(path, key, val)
		case "runtime":
			cc.Runtime, err = asStringField(path, key, val)
		case "build":
			cc.Build, err = parseBuildField(path, dir, key, val)
		case "default":
			cc.Default, err = asBoolField(path, key, val)
		}
		if err != nil {
			return cc, err
		}
	}

	return cc, nil
}

func parseBuildField(path, dir, field string, val interface{}) (Field[*BuildConfig], error) {
	if s, ok := val.(string); ok && s == NotSetLiteral {
		return NullField[*BuildConfig](), nil
	}
	m, ok := val.(map[string]interface{})
	if !ok {
		return Field[*BuildConfig]{}, &ctenverr.ConfigTypeError{Path: path, Field: field, Want: "table", Got: typeName(val)}
	}

	bc := &BuildConfig{}
	for key, v := range m {
		if !buildFieldNames[key] {
			return Field[*BuildConfig]{}, &ctenverr.ConfigSchemaError{Path: path, Key: "build." + key}
		}
		var err error
		switch key {
		case "dockerfile":
			bc.Dockerfile, err = asStringField(path, "build.dockerfile", v)
			bc.Dockerfile = resolvePathField(dir, bc.Dockerfile, nil)
		case "dockerfile_content":
			bc.DockerfileContent, err = asStringField(path, "build.dockerfile_content", v)
		case "context":
			bc.Context, err = asStringField(path, "build.context", v)
			bc.Context = resolvePathField(dir, bc.Context, keepEmptyContextSentinel)
		case "tag":
			bc.Tag, err = asStringField(path, "build.tag", v)
		case "args":
			bc.Args, err = asStringMapField(path, "build.args", v)
		}
		if err != nil {
			return Field[*BuildConfig]{}, err
		}
	}
	return SetField(bc), nil
}

func asTTYField(path, field string, val interface{}) (Field[string], error) {
	if s, ok := val.(string); ok && s == NotSetLiteral {
		return NullField[string](), nil
	}
	if b, ok := val.(bool); ok {
		if b {
			return SetField("yes"), nil
		}
		return SetField("no"), nil
	}
	if s, ok := val.(string); ok {
		return SetField(s), nil
	}
	return Field[string]{}, &ctenverr.ConfigTypeError{Path: path, Field: field, Want: "string or bool", Got: typeName(val)}
}

// Sentinel predicates used by resolvePathField to decide whether a
// scalar value should be left untouched rather than joined to dir.
func keepAutoSentinel(s string) bool         { return s == "auto" }
func keepEmptyContextSentinel(s string) bool { return s == "-" }

// resolvePathField joins a relative string field value against dir
// unless it is empty, already absolute, or skip(value) reports true
// (used for the "auto"/"-" sentinels that are not paths at all).
// project_target's ":opts" suffix, if present, is preserved verbatim.
func resolvePathField(dir string, f Field[string], skip func(string) bool) Field[string] {
	if !f.IsSet() {
		return f
	}
	val := f.Get()
	if val == "" {
		return f
	}

	pathPart, suffix := val, ""
	if idx := strings.Index(val, ":"); idx >= 0 {
		pathPart, suffix = val[:idx], val[idx:]
	}

	if skip != nil && skip(pathPart) {
		return f
	}
	if filepath.IsAbs(pathPart) {
		return f
	}
	return SetField(filepath.Join(dir, pathPart) + suffix)
}

// resolveVolumeListField resolves the host-path component of each
// volume-spec string in the list against dir, per spec.md §4.1.
func resolveVolumeListField(dir string, f Field[[]string]) Field[[]string] {
	if !f.IsSet() {
		return f
	}
	out := make([]string, len(f.Get()))
	for i, raw := range f.Get() {
		out[i] = resolveVolumeSpecHostPath(dir, raw)
	}
	return SetField(out)
}

// resolveVolumeSpecHostPath resolves just the HOST component of a
// HOST[:CONTAINER[:OPTS]] string, leaving the rest untouched.
func resolveVolumeSpecHostPath(dir, raw string) string {
	parts := strings.SplitN(raw, ":", 3)
	if parts[0] == "" || filepath.IsAbs(parts[0]) {
		return raw
	}
	parts[0] = filepath.Join(dir, parts[0])
	return strings.Join(parts, ":")
}
