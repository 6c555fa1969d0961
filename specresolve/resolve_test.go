package specresolve

import (
	"testing"

	"github.com/jedi4ever/ctenv/config"
	"github.com/jedi4ever/ctenv/runtimectx"
)

func testRC() *runtimectx.Context {
	return &runtimectx.Context{
		UserName:   "alice",
		UserID:     1000,
		UserHome:   "/home/alice",
		GroupName:  "alice",
		GroupID:    1000,
		Cwd:        "/repo",
		ProjectDir: "/repo",
		PID:        42,
		TTY:        true,
	}
}

func TestResolveAutoProjectMount(t *testing.T) {
	cfg := config.ContainerConfig{Image: config.SetField("alpine")}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Volumes) != 1 || spec.Volumes[0].HostPath != "/repo" || spec.Volumes[0].ContainerPath != "/repo" {
		t.Errorf("expected identity project mount, got %v", spec.Volumes)
	}
}

func TestResolveProjectTargetOptsApplyToAutoMount(t *testing.T) {
	cfg := config.ContainerConfig{
		Image:         config.SetField("alpine"),
		ProjectTarget: config.SetField("/workspace:ro"),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Volumes) != 1 {
		t.Fatalf("expected one volume, got %v", spec.Volumes)
	}
	v := spec.Volumes[0]
	if v.ContainerPath != "/workspace" {
		t.Errorf("ContainerPath = %q, want /workspace", v.ContainerPath)
	}
	if !v.HasOpt(config.OptRO) {
		t.Errorf("expected :ro to apply to the auto-mounted project volume, got opts %v", v.Opts)
	}
}

func TestResolveSubpathRemapping(t *testing.T) {
	cfg := config.ContainerConfig{
		Image:   config.SetField("alpine"),
		Volumes: config.SetField([]string{"/repo/a/b"}),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, v := range spec.Volumes {
		if v.HostPath == "/repo/a/b" {
			found = true
			if v.ContainerPath != "/repo/a/b" {
				t.Errorf("ContainerPath = %q, want /repo/a/b", v.ContainerPath)
			}
		}
	}
	if !found {
		t.Fatal("expected remapped volume not found")
	}
}

func TestResolveSubpathOutsideProjectIsIdentity(t *testing.T) {
	cfg := config.ContainerConfig{
		Image:   config.SetField("alpine"),
		Volumes: config.SetField([]string{"/var/data"}),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, v := range spec.Volumes {
		if v.HostPath == "/var/data" {
			found = true
			if v.ContainerPath != "/var/data" {
				t.Errorf("ContainerPath = %q, want identity /var/data", v.ContainerPath)
			}
		}
	}
	if !found {
		t.Fatal("expected /var/data volume not found")
	}
}

func TestResolveExplicitContainerPathRespected(t *testing.T) {
	cfg := config.ContainerConfig{
		Image:   config.SetField("alpine"),
		Volumes: config.SetField([]string{"/repo/sub:/custom"}),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, v := range spec.Volumes {
		if v.HostPath == "/repo/sub" {
			found = true
			if v.ContainerPath != "/custom" {
				t.Errorf("ContainerPath = %q, want /custom (explicit, not remapped)", v.ContainerPath)
			}
		}
	}
	if !found {
		t.Fatal("expected /repo/sub volume not found")
	}
}

func TestResolveSubpathsOnly(t *testing.T) {
	cfg := config.ContainerConfig{
		Image:            config.SetField("alpine"),
		AutoProjectMount: config.SetField(false),
		Subpaths:         config.SetField([]string{"/repo/src"}),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Volumes) != 1 {
		t.Fatalf("expected exactly one volume from subpaths, got %v", spec.Volumes)
	}
	if spec.Volumes[0].ContainerPath != "/repo/src" {
		t.Errorf("ContainerPath = %q, want /repo/src", spec.Volumes[0].ContainerPath)
	}
}

func TestResolveSubpathNotDescendantFails(t *testing.T) {
	cfg := config.ContainerConfig{
		Image:            config.SetField("alpine"),
		AutoProjectMount: config.SetField(false),
		Subpaths:         config.SetField([]string{"/var/outside"}),
	}
	_, _, err := Resolve(cfg, testRC())
	if err == nil {
		t.Fatal("expected PathError for subpath outside project")
	}
}

func TestResolveWorkdirAutoInsideProject(t *testing.T) {
	rc := testRC()
	rc.Cwd = "/repo/sub"
	cfg := config.ContainerConfig{Image: config.SetField("alpine")}
	spec, _, err := Resolve(cfg, rc)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Workdir != "/repo/sub" {
		t.Errorf("Workdir = %q, want /repo/sub", spec.Workdir)
	}
}

func TestResolveWorkdirAutoOutsideProject(t *testing.T) {
	rc := testRC()
	rc.Cwd = "/elsewhere"
	cfg := config.ContainerConfig{Image: config.SetField("alpine")}
	spec, _, err := Resolve(cfg, rc)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Workdir != "/repo" {
		t.Errorf("Workdir = %q, want project_target /repo", spec.Workdir)
	}
}

func TestResolveContainerNameFallback(t *testing.T) {
	cfg := config.ContainerConfig{Image: config.SetField("alpine")}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	want := "ctenv--repo-42"
	if spec.ContainerName != want {
		t.Errorf("ContainerName = %q, want %q", spec.ContainerName, want)
	}
}

func TestResolveContainerNameExplicit(t *testing.T) {
	cfg := config.ContainerConfig{
		Image:         config.SetField("alpine"),
		ContainerName: config.SetField("my-box"),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	if spec.ContainerName != "my-box" {
		t.Errorf("ContainerName = %q, want my-box", spec.ContainerName)
	}
}

func TestResolveTTYAuto(t *testing.T) {
	rc := testRC()
	rc.TTY = true
	cfg := config.ContainerConfig{Image: config.SetField("alpine")}
	spec, _, err := Resolve(cfg, rc)
	if err != nil {
		t.Fatal(err)
	}
	if !spec.TTY {
		t.Error("expected TTY true from auto + isatty true")
	}
}

func TestResolveTTYExplicitNoOverridesAuto(t *testing.T) {
	rc := testRC()
	rc.TTY = true
	cfg := config.ContainerConfig{
		Image: config.SetField("alpine"),
		TTY:   config.SetField("no"),
	}
	spec, _, err := Resolve(cfg, rc)
	if err != nil {
		t.Fatal(err)
	}
	if spec.TTY {
		t.Error("expected TTY false, explicit no should override isatty")
	}
}

func TestResolveGosuAutoSelectsArchFromPlatform(t *testing.T) {
	cfg := config.ContainerConfig{
		Image:    config.SetField("alpine"),
		Platform: config.SetField("linux/arm64"),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	if want := "gosu-arm64"; spec.GosuHostPath == "" || !hasSuffix(spec.GosuHostPath, want) {
		t.Errorf("GosuHostPath = %q, want suffix %q", spec.GosuHostPath, want)
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func TestResolveImageAndBuildMutuallyExclusive(t *testing.T) {
	cfg := config.ContainerConfig{
		Image: config.SetField("alpine"),
		Build: config.SetField(&config.BuildConfig{Tag: config.SetField("x")}),
	}
	_, _, err := Resolve(cfg, testRC())
	if err == nil {
		t.Fatal("expected ConfigError for mutually exclusive image+build")
	}
}

func TestResolveBuildDockerfileAndContentMutuallyExclusive(t *testing.T) {
	cfg := config.ContainerConfig{
		Build: config.SetField(&config.BuildConfig{
			Dockerfile:        config.SetField("/repo/Dockerfile"),
			DockerfileContent: config.SetField("FROM alpine"),
		}),
	}
	_, _, err := Resolve(cfg, testRC())
	if err == nil {
		t.Fatal("expected ConfigError for mutually exclusive dockerfile/dockerfile_content")
	}
}

func TestResolveBuildEmptyContextSentinel(t *testing.T) {
	cfg := config.ContainerConfig{
		Build: config.SetField(&config.BuildConfig{
			DockerfileContent: config.SetField("FROM alpine"),
			Context:           config.SetField("-"),
		}),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	if spec.Build.ContextMode != BuildContextEmpty {
		t.Error("expected BuildContextEmpty for \"-\" sentinel")
	}
}

func TestResolveBuildDefaultTagFromProjectSlug(t *testing.T) {
	cfg := config.ContainerConfig{
		Build: config.SetField(&config.BuildConfig{
			DockerfileContent: config.SetField("FROM alpine"),
		}),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	want := "ctenv-" + slug(testRC().ProjectDir) + ":latest"
	if spec.Build.Tag != want {
		t.Errorf("Build.Tag = %q, want %q", spec.Build.Tag, want)
	}
}

func TestResolveBuildExplicitTagRespected(t *testing.T) {
	cfg := config.ContainerConfig{
		Build: config.SetField(&config.BuildConfig{
			DockerfileContent: config.SetField("FROM alpine"),
			Tag:               config.SetField("custom:latest"),
		}),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	if spec.Build.Tag != "custom:latest" {
		t.Errorf("Build.Tag = %q, want custom:latest", spec.Build.Tag)
	}
}

func TestResolveUlimitsPassThrough(t *testing.T) {
	cfg := config.ContainerConfig{
		Image:   config.SetField("alpine"),
		Ulimits: config.SetField(map[string]string{"nofile": "1024:2048"}),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	if spec.Ulimits["nofile"] != "1024:2048" {
		t.Errorf("Ulimits[nofile] = %q", spec.Ulimits["nofile"])
	}
}

func TestResolveEnvPassthroughVsExplicit(t *testing.T) {
	cfg := config.ContainerConfig{
		Image: config.SetField("alpine"),
		Env:   config.SetField([]string{"FOO=bar", "PATH"}),
	}
	spec, _, err := Resolve(cfg, testRC())
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Env) != 2 {
		t.Fatalf("expected 2 env entries, got %d", len(spec.Env))
	}
	if spec.Env[0].Name != "FOO" || spec.Env[0].Value != "bar" || spec.Env[0].Passthrough {
		t.Errorf("Env[0] = %+v", spec.Env[0])
	}
	if spec.Env[1].Name != "PATH" || !spec.Env[1].Passthrough {
		t.Errorf("Env[1] = %+v", spec.Env[1])
	}
}
