package config

// ContainerConfig is a single layer record, per spec.md §3. Every
// field is a Field[T]; the merged record still has the same shape —
// only the spec resolver (package specresolve) produces a type with
// no unset-ness at all.
type ContainerConfig struct {
	Image              Field[string]
	Command            Field[string]
	ProjectDir         Field[string]
	ProjectTarget      Field[string]
	AutoProjectMount   Field[bool]
	Subpaths           Field[[]string]
	Workdir            Field[string]
	GosuPath           Field[string]
	ContainerName      Field[string]
	TTY                Field[string] // "auto", "yes", or "no"
	Sudo               Field[bool]
	Network            Field[string]
	Platform           Field[string]
	Ulimits            Field[map[string]string]
	Env                Field[[]string]
	Volumes            Field[[]string]
	PostStartCommands  Field[[]string]
	RunArgs            Field[[]string]
	Runtime            Field[string] // "docker" or "podman"
	Build              Field[*BuildConfig]
	Default            Field[bool]

	// ConfigFilePath is non-merge metadata: the absolute path of the
	// file this layer was loaded from, used to resolve relative paths
	// within that layer. Nil for layers that didn't originate from a
	// file (built-in defaults, CLI overrides).
	ConfigFilePath *string
}

// BuildConfig is the `build` sub-table of a ContainerConfig, per
// spec.md §3. Exactly one of Dockerfile/DockerfileContent is set once
// resolved; Platform is deliberately absent here — it is inherited
// from the owning ContainerConfig.Platform at resolve time.
type BuildConfig struct {
	Dockerfile        Field[string]
	DockerfileContent Field[string]
	Context           Field[string]
	Tag               Field[string]
	Args              Field[map[string]string]
}

// containerFieldNames lists the recognized ContainerConfig keys, used by the
// loader to reject unknown fields with ConfigSchemaError.
var containerFieldNames = map[string]bool{
	"image":                true,
	"command":              true,
	"project_dir":          true,
	"project_target":       true,
	"auto_project_mount":   true,
	"subpaths":             true,
	"workdir":              true,
	"gosu_path":            true,
	"container_name":       true,
	"tty":                  true,
	"sudo":                 true,
	"network":              true,
	"platform":             true,
	"ulimits":              true,
	"env":                  true,
	"volumes":              true,
	"post_start_commands":  true,
	"run_args":             true,
	"runtime":              true,
	"build":                true,
	"default":              true,
}

var buildFieldNames = map[string]bool{
	"dockerfile":         true,
	"dockerfile_content": true,
	"context":            true,
	"tag":                true,
	"args":               true,
}

// FileName is the config file ctenv discovers by name, per spec.md §6.
const FileName = ".ctenv.toml"

// NotSetLiteral is the string that, at a scalar config-file position,
// parses to an explicit clear (Null). Command-line flag values are not
// checked for it: `--image NOTSET` sets the literal string. See
// DESIGN.md for why
// this resolves the apparent tension between spec.md §3 and §4.2/§8.
const NotSetLiteral = "NOTSET"
