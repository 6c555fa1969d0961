package config

import "testing"

func TestParseVolumeSpec(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
		host    string
		cpath   string
		opts    []VolumeOpt
	}{
		{name: "host only", raw: "/host", host: "/host", cpath: ""},
		{name: "host and container", raw: "/host:/container", host: "/host", cpath: "/container"},
		{name: "with opts", raw: "/host:/container:ro,chown", host: "/host", cpath: "/container", opts: []VolumeOpt{OptRO, OptChown}},
		{name: "empty container defaulted later", raw: "/host::ro", host: "/host", cpath: "", opts: []VolumeOpt{OptRO}},
		{name: "empty host invalid", raw: ":/container", wantErr: true},
		{name: "empty spec invalid", raw: "", wantErr: true},
		{name: "unknown opt invalid", raw: "/host:/c:bogus", wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseVolumeSpec(c.raw)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", c.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.HostPath != c.host {
				t.Errorf("HostPath = %q, want %q", got.HostPath, c.host)
			}
			if got.ContainerPath != c.cpath {
				t.Errorf("ContainerPath = %q, want %q", got.ContainerPath, c.cpath)
			}
			for _, o := range c.opts {
				if !got.HasOpt(o) {
					t.Errorf("expected opt %q set", o)
				}
			}
		})
	}
}

func TestVolumeSpecStringStripsChown(t *testing.T) {
	v, err := ParseVolumeSpec("cache:/var/cache:chown")
	if err != nil {
		t.Fatal(err)
	}
	got := v.String()
	want := "cache:/var/cache"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
