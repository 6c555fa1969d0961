package specresolve

import (
	"errors"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/jedi4ever/ctenv/config"
	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/runtimectx"
	"github.com/jedi4ever/ctenv/util"
)

// Warnings carries non-fatal messages produced during resolution
// (spec.md §4.4 step 4), for the caller to log.
type Warnings []string

// Resolve translates a merged, substituted ContainerConfig plus a
// RuntimeContext into a Spec, in the order spec.md §4.4 lists its
// sub-steps.
func Resolve(cfg config.ContainerConfig, rc *runtimectx.Context) (*Spec, Warnings, error) {
	var warnings Warnings

	if cfg.Image.IsSet() && cfg.Build.IsSet() {
		return nil, nil, &ctenverr.ConfigError{Msg: "image and build are mutually exclusive"}
	}

	projectDir := cfg.ProjectDir.GetOr(rc.ProjectDir)

	// Step 1: project target, with optional trailing :opts grammar.
	rawTarget := cfg.ProjectTarget.GetOr(projectDir)
	target, mountOpts, err := splitTargetOpts(rawTarget)
	if err != nil {
		return nil, nil, err
	}

	s := &Spec{
		ProjectDir:        projectDir,
		ProjectTarget:     target,
		Sudo:              cfg.Sudo.GetOr(false),
		Network:           cfg.Network.GetOr(""),
		Platform:          cfg.Platform.GetOr(""),
		Ulimits:           cfg.Ulimits.GetOr(nil),
		PostStartCommands: cfg.PostStartCommands.GetOr(nil),
		RunArgs:           cfg.RunArgs.GetOr(nil),
		Runtime:           cfg.Runtime.GetOr("docker"),
		Command:           cfg.Command.GetOr(""),
		UserName:          rc.UserName,
		UserID:            rc.UserID,
		UserHome:          rc.UserHome,
		GroupName:         rc.GroupName,
		GroupID:           rc.GroupID,
	}

	// Step 2 & 3: volumes.
	volumes, err := resolveVolumes(cfg, projectDir, target, mountOpts)
	if err != nil {
		return nil, nil, err
	}
	s.Volumes = volumes

	// Step 5: workdir.
	workdir, warn := resolveWorkdir(cfg.Workdir.GetOr("auto"), projectDir, target, rc.Cwd)
	if warn != "" {
		warnings = append(warnings, warn)
	}
	// Step 4: workspace warning — workdir not under any mount point.
	if w := checkWorkdirMounted(workdir, volumes); w != "" {
		warnings = append(warnings, w)
	}
	s.Workdir = workdir

	// Step 6: gosu.
	gosuPath, err := resolveGosuPath(cfg.GosuPath.GetOr("auto"), s.Platform)
	if err != nil {
		return nil, nil, err
	}
	s.GosuHostPath = gosuPath
	s.GosuMountPath = GosuMountPath

	// Step 7: container name.
	name := cfg.ContainerName.GetOr("")
	if name == "" {
		name = "ctenv-" + slug(projectDir) + "-" + strconv.Itoa(rc.PID)
	}
	s.ContainerName = name

	// Step 8: TTY.
	s.TTY = resolveTTY(cfg.TTY.GetOr("auto"), rc.TTY)

	// Env: each entry is either NAME=VALUE or a bare NAME passthrough.
	s.Env = resolveEnv(cfg.Env.GetOr(nil))

	if cfg.Image.IsSet() {
		s.Image = cfg.Image.Get()
	} else if cfg.Build.IsSet() {
		rb, err := resolveBuild(cfg.Build.Get(), s.Platform, projectDir)
		if err != nil {
			return nil, nil, err
		}
		s.Build = rb
	}

	return s, warnings, nil
}

func slug(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	return strings.ReplaceAll(s, ":", "-")
}

// splitTargetOpts parses a project_target value that may carry a
// trailing :OPTS suffix using the VolumeSpec options grammar: the
// portion after the last ':' is treated as OPTS only if every
// comma-separated entry is a recognized option name.
func splitTargetOpts(raw string) (string, map[config.VolumeOpt]bool, error) {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return raw, nil, nil
	}
	path, optsPart := raw[:idx], raw[idx+1:]
	spec, err := config.ParseVolumeSpec("x:x:" + optsPart)
	if err != nil || optsPart == "" {
		return raw, nil, nil
	}
	return path, spec.Opts, nil
}

// relTo returns path relative to base, using "." when path == base, and
// ok=false when path is not a descendant of base.
func relTo(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func joinTarget(target, rel string) string {
	if rel == "." {
		return target
	}
	return filepath.Join(target, rel)
}

func resolveVolumes(cfg config.ContainerConfig, projectDir, target string, targetOpts map[config.VolumeOpt]bool) ([]config.VolumeSpec, error) {
	var out []config.VolumeSpec

	autoMount := cfg.AutoProjectMount.GetOr(true)
	subpaths := cfg.Subpaths.GetOr(nil)

	if autoMount {
		out = append(out, config.VolumeSpec{HostPath: projectDir, ContainerPath: target, Opts: targetOpts})
	} else if len(subpaths) > 0 {
		for _, raw := range subpaths {
			spec, err := config.ParseVolumeSpec(raw)
			if err != nil {
				return nil, err
			}
			rel, ok := relTo(projectDir, spec.HostPath)
			if !ok {
				return nil, &ctenverr.PathError{Kind: "subpath", Path: spec.HostPath, Err: errNotDescendant}
			}
			if spec.ContainerPath == "" {
				spec.ContainerPath = joinTarget(target, rel)
			}
			out = append(out, spec)
		}
	}

	for _, raw := range cfg.Volumes.GetOr(nil) {
		spec, err := config.ParseVolumeSpec(raw)
		if err != nil {
			return nil, err
		}
		if spec.ContainerPath == "" {
			if rel, ok := relTo(projectDir, spec.HostPath); ok {
				spec.ContainerPath = joinTarget(target, rel)
			} else {
				spec.ContainerPath = spec.HostPath
			}
		}
		out = append(out, spec)
	}

	return out, nil
}

var errNotDescendant = errors.New("path is not inside the project directory")

func resolveWorkdir(raw, projectDir, target, cwd string) (string, string) {
	if raw != "auto" {
		return raw, ""
	}
	if rel, ok := relTo(projectDir, cwd); ok {
		return joinTarget(target, rel), ""
	}
	return target, ""
}

func checkWorkdirMounted(workdir string, volumes []config.VolumeSpec) string {
	for _, v := range volumes {
		if workdir == v.ContainerPath || strings.HasPrefix(workdir, v.ContainerPath+"/") {
			return ""
		}
	}
	return "workdir " + workdir + " is not under any mounted volume"
}

func resolveGosuPath(raw, platform string) (string, error) {
	if raw != "auto" {
		return raw, nil
	}
	arch := archFromPlatform(platform)
	path := filepath.Join(util.CtenvHome(), "bin", "gosu-"+arch)
	return path, nil
}

func archFromPlatform(platform string) string {
	if platform == "" {
		switch runtime.GOARCH {
		case "arm64":
			return "arm64"
		default:
			return "amd64"
		}
	}
	if strings.Contains(platform, "arm64") {
		return "arm64"
	}
	return "amd64"
}

func resolveTTY(raw string, isTTY bool) bool {
	switch raw {
	case "yes":
		return true
	case "no":
		return false
	default:
		return isTTY
	}
}

func resolveEnv(raw []string) []EnvEntry {
	out := make([]EnvEntry, 0, len(raw))
	for _, e := range raw {
		if idx := strings.IndexByte(e, '='); idx >= 0 {
			out = append(out, EnvEntry{Name: e[:idx], Value: e[idx+1:]})
		} else {
			out = append(out, EnvEntry{Name: e, Passthrough: true})
		}
	}
	return out
}

func resolveBuild(bc *config.BuildConfig, platform, projectDir string) (*ResolvedBuild, error) {
	if bc.Dockerfile.IsSet() == bc.DockerfileContent.IsSet() {
		return nil, &ctenverr.ConfigError{Msg: "build.dockerfile and build.dockerfile_content are mutually exclusive"}
	}

	rb := &ResolvedBuild{
		Tag:      bc.Tag.GetOr("ctenv-" + slug(projectDir) + ":latest"),
		Args:     bc.Args.GetOr(nil),
		Platform: platform,
	}

	if bc.Dockerfile.IsSet() {
		rb.DockerfileMode = BuildDockerfileFile
		rb.Dockerfile = bc.Dockerfile.Get()
	} else {
		rb.DockerfileMode = BuildDockerfileInline
		rb.DockerfileContent = bc.DockerfileContent.Get()
	}

	ctx := bc.Context.GetOr("")
	if ctx == "" || ctx == "-" {
		rb.ContextMode = BuildContextEmpty
	} else {
		rb.ContextMode = BuildContextDir
		rb.Context = ctx
	}

	return rb, nil
}
