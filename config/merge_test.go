package config

import "testing"

func TestMergeSentinelRoundTrip(t *testing.T) {
	base := ContainerConfig{Image: SetField("alpine:latest")}

	// Unset override leaves base untouched.
	got := Merge(base, ContainerConfig{})
	if got.Image.Get() != "alpine:latest" {
		t.Errorf("Unset override changed base: got %q", got.Image.Get())
	}

	// Concrete override replaces base.
	got = Merge(base, ContainerConfig{Image: SetField("ubuntu:22.04")})
	if got.Image.Get() != "ubuntu:22.04" {
		t.Errorf("concrete override did not win: got %q", got.Image.Get())
	}

	// Explicit null clears base to the zero value and marks it Null,
	// not Unset — it DID override.
	got = Merge(base, ContainerConfig{Image: NullField[string]()})
	if !got.Image.IsNull() {
		t.Errorf("explicit null override should mark field Null, got state with value %q", got.Image.Get())
	}
}

func TestMergeNoListConcatenation(t *testing.T) {
	base := ContainerConfig{Volumes: SetField([]string{"/a:/a"})}
	override := ContainerConfig{Volumes: SetField([]string{"/b:/b"})}
	got := Merge(base, override)
	if len(got.Volumes.Get()) != 1 || got.Volumes.Get()[0] != "/b:/b" {
		t.Errorf("expected override list to replace, not concatenate: got %v", got.Volumes.Get())
	}
}

func TestMergeBuildReplacedWholesale(t *testing.T) {
	base := ContainerConfig{Build: SetField(&BuildConfig{Dockerfile: SetField("/a/Dockerfile")})}
	override := ContainerConfig{Build: SetField(&BuildConfig{Tag: SetField("myimage")})}
	got := Merge(base, override)
	if got.Build.Get().Dockerfile.IsSet() {
		t.Errorf("expected build to be replaced wholesale, Dockerfile leaked from base")
	}
	if got.Build.Get().Tag.Get() != "myimage" {
		t.Errorf("expected override build's Tag, got %q", got.Build.Get().Tag.Get())
	}
}

func TestContainerNameShadowing(t *testing.T) {
	userLayer := &Layer{
		Path: "/home/alice/.ctenv.toml",
		Containers: map[string]ContainerConfig{
			"dev": {
				Image:   SetField("from-user"),
				Volumes: SetField([]string{"/home/alice/extra:/extra"}),
				Env:     SetField([]string{"FROM_USER=1"}),
			},
		},
	}
	projectLayer := &Layer{
		Path: "/repo/.ctenv.toml",
		Containers: map[string]ContainerConfig{
			"dev": {
				Image: SetField("from-project"),
			},
		},
	}

	_, cfg, found, err := SelectContainer(userLayer, projectLayer, "dev")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected dev container to be found")
	}
	if cfg.Image.Get() != "from-project" {
		t.Errorf("Image = %q, want from-project", cfg.Image.Get())
	}
	if cfg.Volumes.IsSet() {
		t.Errorf("expected Volumes to be absent (fully shadowed), got %v", cfg.Volumes.Get())
	}
	if cfg.Env.IsSet() {
		t.Errorf("expected Env to be absent (fully shadowed), got %v", cfg.Env.Get())
	}
}

func TestDefaultsSectionsDoLayer(t *testing.T) {
	loaded := &Loaded{
		User:    &Layer{Defaults: ContainerConfig{Image: SetField("user-default"), Network: SetField("bridge")}},
		Project: &Layer{Defaults: ContainerConfig{Image: SetField("project-default")}},
	}
	merged := loaded.MergedDefaults()
	if merged.Image.Get() != "project-default" {
		t.Errorf("Image = %q, want project-default", merged.Image.Get())
	}
	if merged.Network.Get() != "bridge" {
		t.Errorf("expected Network to layer through from user defaults, got %q", merged.Network.Get())
	}
}

func TestAmbiguousDefault(t *testing.T) {
	userLayer := &Layer{Containers: map[string]ContainerConfig{
		"a": {Default: SetField(true)},
		"b": {Default: SetField(true)},
	}}
	_, _, _, err := SelectContainer(userLayer, nil, "")
	if err == nil {
		t.Fatal("expected AmbiguousDefaultError")
	}
}

func TestCLINameOverridesDefault(t *testing.T) {
	userLayer := &Layer{Containers: map[string]ContainerConfig{
		"a": {Default: SetField(true)},
		"b": {},
	}}
	name, _, found, err := SelectContainer(userLayer, nil, "b")
	if err != nil {
		t.Fatal(err)
	}
	if !found || name != "b" {
		t.Errorf("expected CLI name to win, got name=%q found=%v", name, found)
	}
}
