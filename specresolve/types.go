// Package specresolve translates a merged, substituted
// config.ContainerConfig plus a runtimectx.Context into a ContainerSpec
// with no unset-ness, no unresolved variables, and no relative paths —
// the sole input the entrypoint generator and runtime driver consume
// (spec.md §3, §4.4, and Design Notes §9's "two-phase config shape").
package specresolve

import "github.com/jedi4ever/ctenv/config"

// GosuMountPath is the fixed in-container location the privilege-drop
// helper is mounted at (spec.md §4.4.6).
const GosuMountPath = "/usr/local/bin/ctenv-gosu"

// EnvEntry is one resolved `-e` argument: either an explicit
// NAME=VALUE pair, or a bare NAME passthrough of the host's own value
// at runtime-driver execution time (spec.md §4.7).
type EnvEntry struct {
	Name        string
	Value       string
	Passthrough bool
}

// BuildDockerfileMode distinguishes the two dockerfile-sourcing modes
// of spec.md §4.6.
type BuildDockerfileMode int

const (
	BuildDockerfileFile BuildDockerfileMode = iota
	BuildDockerfileInline
)

// BuildContextMode distinguishes a real context directory from the
// empty-sentinel "-" context, whose temp directory is created and torn
// down at build-execution time (spec.md §4.6), not at resolve time.
type BuildContextMode int

const (
	BuildContextDir BuildContextMode = iota
	BuildContextEmpty
)

// ResolvedBuild is the fully-resolved BuildConfig.
type ResolvedBuild struct {
	DockerfileMode    BuildDockerfileMode
	Dockerfile        string // absolute path, when DockerfileMode == File
	DockerfileContent string // when DockerfileMode == Inline

	ContextMode BuildContextMode
	Context     string // absolute dir, when ContextMode == Dir

	Tag      string
	Args     map[string]string
	Platform string // inherited from ContainerSpec.Platform
}

// Spec is the ContainerSpec of spec.md §3.
type Spec struct {
	Image   string // "" when Build is set
	Command string

	ProjectDir    string
	ProjectTarget string

	Workdir string

	GosuHostPath  string
	GosuMountPath string

	ContainerName string
	TTY           bool
	Sudo          bool
	Network       string // "" means unset
	Platform      string // "" means unset
	Ulimits       map[string]string

	Env     []EnvEntry
	Volumes []config.VolumeSpec // fully resolved: both paths absolute

	PostStartCommands []string
	RunArgs           []string

	Runtime string // "docker" or "podman"
	Build   *ResolvedBuild

	UserName  string
	UserID    int
	UserHome  string
	GroupName string
	GroupID   int
}

// ChownVolumes returns the subset of Volumes carrying the :chown
// option, for the entrypoint generator (spec.md §4.5 step 6).
func (s *Spec) ChownVolumes() []config.VolumeSpec {
	var out []config.VolumeSpec
	for _, v := range s.Volumes {
		if v.HasOpt(config.OptChown) {
			out = append(out, v)
		}
	}
	return out
}
