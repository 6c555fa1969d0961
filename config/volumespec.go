package config

import (
	"strings"

	"github.com/jedi4ever/ctenv/ctenverr"
)

// VolumeOpt is one entry of the fixed options vocabulary a VolumeSpec
// may carry, per spec.md §3.
type VolumeOpt string

const (
	OptRO    VolumeOpt = "ro"
	OptRW    VolumeOpt = "rw"
	OptZ     VolumeOpt = "z"
	OptZCap  VolumeOpt = "Z"
	OptChown VolumeOpt = "chown"
)

var validVolumeOpts = map[string]bool{
	"ro":    true,
	"rw":    true,
	"z":     true,
	"Z":     true,
	"chown": true,
}

// VolumeSpec is the parsed triple spec.md §3 describes: host path,
// container path (possibly empty pending smart defaulting by the spec
// resolver), and a set of options over the fixed vocabulary.
type VolumeSpec struct {
	HostPath      string
	ContainerPath string
	Opts          map[VolumeOpt]bool
}

// HasOpt reports whether opt is present on the spec.
func (v VolumeSpec) HasOpt(opt VolumeOpt) bool { return v.Opts[opt] }

// ParseVolumeSpec parses the grammar HOST[:CONTAINER[:OPTS]] described
// in spec.md §3. OPTS is a comma-separated list; any component may be
// empty except HOST.
func ParseVolumeSpec(raw string) (VolumeSpec, error) {
	if raw == "" {
		return VolumeSpec{}, &ctenverr.VolumeSyntaxError{Spec: raw, Reason: "empty spec"}
	}

	parts := strings.SplitN(raw, ":", 3)
	host := parts[0]
	if host == "" {
		return VolumeSpec{}, &ctenverr.VolumeSyntaxError{Spec: raw, Reason: "host path is empty"}
	}

	var container string
	if len(parts) >= 2 {
		container = parts[1]
	}

	opts := map[VolumeOpt]bool{}
	if len(parts) >= 3 && parts[2] != "" {
		for _, o := range strings.Split(parts[2], ",") {
			o = strings.TrimSpace(o)
			if o == "" {
				continue
			}
			if !validVolumeOpts[o] {
				return VolumeSpec{}, &ctenverr.VolumeSyntaxError{Spec: raw, Reason: "unknown option " + o}
			}
			opts[VolumeOpt(o)] = true
		}
	}

	return VolumeSpec{HostPath: host, ContainerPath: container, Opts: opts}, nil
}

// String renders the spec back into HOST:CONTAINER[:OPTS] form, with
// chown stripped, for use in the runtime argument vector (spec.md
// §4.7: "--volume host:container[:opts], with chown stripped").
func (v VolumeSpec) String() string {
	var sb strings.Builder
	sb.WriteString(v.HostPath)
	sb.WriteByte(':')
	sb.WriteString(v.ContainerPath)

	var runtimeOpts []string
	for _, o := range []VolumeOpt{OptRO, OptRW, OptZ, OptZCap} {
		if v.Opts[o] {
			runtimeOpts = append(runtimeOpts, string(o))
		}
	}
	if len(runtimeOpts) > 0 {
		sb.WriteByte(':')
		sb.WriteString(strings.Join(runtimeOpts, ","))
	}
	return sb.String()
}
