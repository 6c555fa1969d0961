package entrypoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/specresolve"
)

// Generate renders the full entrypoint script for spec, in the ordered
// contract of spec.md §4.5. The script dispatches on command presence
// (command -v useradd / addgroup, etc.) so it runs correctly against
// both GNU coreutils and BusyBox userlands without knowing in advance
// which one the image carries.
func Generate(spec *specresolve.Spec) (string, error) {
	var b strings.Builder

	writeHeader(&b)
	writeGroupSetup(&b, spec)
	writeUserSetup(&b, spec)
	writeHomeOwnership(&b, spec)

	if spec.Sudo {
		writeSudoInstall(&b, spec)
	}

	if err := writeChownVolumes(&b, spec); err != nil {
		return "", err
	}

	writePostStartCommands(&b, spec)
	writeExec(&b, spec)

	return b.String(), nil
}

func writeHeader(b *strings.Builder) {
	b.WriteString("#!/bin/sh\n")
	b.WriteString("set -eu\n")
	b.WriteString("IFS=' \t\n'\n\n")
}

func writeGroupSetup(b *strings.Builder, spec *specresolve.Spec) {
	gid := strconv.Itoa(spec.GroupID)
	group := Quote(spec.GroupName)
	fmt.Fprintf(b, "if getent group %s >/dev/null 2>&1; then\n", gid)
	fmt.Fprintf(b, "  GROUP_NAME=$(getent group %s | cut -d: -f1)\n", gid)
	b.WriteString("elif command -v groupadd >/dev/null 2>&1; then\n")
	fmt.Fprintf(b, "  groupadd -g %s %s\n", gid, group)
	fmt.Fprintf(b, "  GROUP_NAME=%s\n", group)
	b.WriteString("elif command -v addgroup >/dev/null 2>&1; then\n")
	fmt.Fprintf(b, "  addgroup -g %s %s\n", gid, group)
	fmt.Fprintf(b, "  GROUP_NAME=%s\n", group)
	b.WriteString("fi\n\n")
}

func writeUserSetup(b *strings.Builder, spec *specresolve.Spec) {
	uid := strconv.Itoa(spec.UserID)
	gid := strconv.Itoa(spec.GroupID)
	user := Quote(spec.UserName)
	home := Quote(spec.UserHome)

	fmt.Fprintf(b, "if getent passwd %s >/dev/null 2>&1; then\n", uid)
	b.WriteString("  :\n")
	b.WriteString("elif command -v useradd >/dev/null 2>&1; then\n")
	fmt.Fprintf(b, "  useradd -u %s -g %s -d %s -M -s /bin/sh %s\n", uid, gid, home, user)
	b.WriteString("elif command -v adduser >/dev/null 2>&1; then\n")
	fmt.Fprintf(b, "  adduser -D -H -u %s -G \"$GROUP_NAME\" -h %s %s\n", uid, home, user)
	b.WriteString("fi\n\n")
}

func writeHomeOwnership(b *strings.Builder, spec *specresolve.Spec) {
	home := Quote(spec.UserHome)
	owner := Quote(fmt.Sprintf("%d:%d", spec.UserID, spec.GroupID))
	fmt.Fprintf(b, "mkdir -p %s\n", home)
	fmt.Fprintf(b, "chown %s %s\n\n", owner, home)
}

func writeSudoInstall(b *strings.Builder, spec *specresolve.Spec) {
	user := spec.UserName
	b.WriteString("if ! command -v sudo >/dev/null 2>&1; then\n")
	b.WriteString("  if command -v apt-get >/dev/null 2>&1; then\n")
	b.WriteString("    apt-get update -qq && apt-get install -y -qq sudo\n")
	b.WriteString("  elif command -v dnf >/dev/null 2>&1; then\n")
	b.WriteString("    dnf install -y -q sudo\n")
	b.WriteString("  elif command -v yum >/dev/null 2>&1; then\n")
	b.WriteString("    yum install -y -q sudo\n")
	b.WriteString("  elif command -v apk >/dev/null 2>&1; then\n")
	b.WriteString("    apk add --no-cache sudo\n")
	b.WriteString("  fi\n")
	b.WriteString("fi\n")
	fmt.Fprintf(b, "if command -v sudo >/dev/null 2>&1; then\n")
	fmt.Fprintf(b, "  echo %s > /etc/sudoers.d/ctenv\n", Quote(user+" ALL=(ALL) NOPASSWD:ALL"))
	b.WriteString("  chmod 0440 /etc/sudoers.d/ctenv\n")
	b.WriteString("fi\n\n")
}

func writeChownVolumes(b *strings.Builder, spec *specresolve.Spec) error {
	owner := fmt.Sprintf("%d:%d", spec.UserID, spec.GroupID)
	for _, v := range spec.ChownVolumes() {
		if !strings.HasPrefix(v.ContainerPath, "/") {
			return &ctenverr.PathError{Kind: "chown-volume", Path: v.ContainerPath}
		}
		fmt.Fprintf(b, "chown -R %s %s\n", owner, Quote(v.ContainerPath))
	}
	if len(spec.ChownVolumes()) > 0 {
		b.WriteString("\n")
	}
	return nil
}

func writePostStartCommands(b *strings.Builder, spec *specresolve.Spec) {
	for _, cmd := range spec.PostStartCommands {
		fmt.Fprintf(b, "/bin/sh -c %s\n", Quote(cmd))
	}
	if len(spec.PostStartCommands) > 0 {
		b.WriteString("\n")
	}
}

func writeExec(b *strings.Builder, spec *specresolve.Spec) {
	home := spec.UserHome
	user := spec.UserName

	var ps1 string
	var hasPS1 bool
	for _, e := range spec.Env {
		if e.Name == "PS1" && !e.Passthrough {
			ps1 = e.Value
			hasPS1 = true
		}
	}

	fmt.Fprintf(b, "export HOME=%s\n", Quote(home))
	fmt.Fprintf(b, "export USER=%s\n", Quote(user))
	fmt.Fprintf(b, "export LOGNAME=%s\n", Quote(user))
	b.WriteString("export SHELL=/bin/sh\n")

	extraArgs := ""
	if hasPS1 {
		fmt.Fprintf(b, "export PS1=%s\n", Quote(ps1))
		b.WriteString("EXTRA_SH_ARGS=\"\"\n")
		b.WriteString("if readlink -f /bin/sh 2>/dev/null | grep -q bash; then\n")
		b.WriteString("  EXTRA_SH_ARGS=\"--norc\"\n")
		b.WriteString("fi\n")
		extraArgs = "$EXTRA_SH_ARGS "
	}

	iFlag := ""
	if spec.TTY {
		iFlag = "-i "
	}

	fmt.Fprintf(b, "exec %s %s /bin/sh %s%s-c %s\n",
		Quote(spec.GosuMountPath), Quote(user), extraArgs, iFlag, Quote(spec.Command))
}
