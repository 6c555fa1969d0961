package config

// Show flattens a ContainerConfig into a plain map suitable for
// marshaling to TOML/YAML/JSON, eliding every Unset field and
// rendering an explicit Null back as the "NOTSET" literal it was
// parsed from — the inverse of parse.go's as*Field helpers.
func Show(cfg ContainerConfig) map[string]interface{} {
	out := map[string]interface{}{}

	putString(out, "image", cfg.Image)
	putString(out, "command", cfg.Command)
	putString(out, "project_dir", cfg.ProjectDir)
	putString(out, "project_target", cfg.ProjectTarget)
	putBool(out, "auto_project_mount", cfg.AutoProjectMount)
	putStringList(out, "subpaths", cfg.Subpaths)
	putString(out, "workdir", cfg.Workdir)
	putString(out, "gosu_path", cfg.GosuPath)
	putString(out, "container_name", cfg.ContainerName)
	putString(out, "tty", cfg.TTY)
	putBool(out, "sudo", cfg.Sudo)
	putString(out, "network", cfg.Network)
	putString(out, "platform", cfg.Platform)
	putStringMap(out, "ulimits", cfg.Ulimits)
	putStringList(out, "env", cfg.Env)
	putStringList(out, "volumes", cfg.Volumes)
	putStringList(out, "post_start_commands", cfg.PostStartCommands)
	putStringList(out, "run_args", cfg.RunArgs)
	putString(out, "runtime", cfg.Runtime)
	putBool(out, "default", cfg.Default)

	if cfg.Build.IsNull() {
		out["build"] = NotSetLiteral
	} else if cfg.Build.IsSet() {
		out["build"] = showBuild(*cfg.Build.Get())
	}

	return out
}

func showBuild(bc BuildConfig) map[string]interface{} {
	out := map[string]interface{}{}
	putString(out, "dockerfile", bc.Dockerfile)
	putString(out, "dockerfile_content", bc.DockerfileContent)
	putString(out, "context", bc.Context)
	putString(out, "tag", bc.Tag)
	putStringMap(out, "args", bc.Args)
	return out
}

func putString(out map[string]interface{}, key string, f Field[string]) {
	switch {
	case f.IsSet():
		out[key] = f.Get()
	case f.IsNull():
		out[key] = NotSetLiteral
	}
}

func putBool(out map[string]interface{}, key string, f Field[bool]) {
	switch {
	case f.IsSet():
		out[key] = f.Get()
	case f.IsNull():
		out[key] = NotSetLiteral
	}
}

func putStringList(out map[string]interface{}, key string, f Field[[]string]) {
	switch {
	case f.IsSet():
		out[key] = f.Get()
	case f.IsNull():
		out[key] = NotSetLiteral
	}
}

func putStringMap(out map[string]interface{}, key string, f Field[map[string]string]) {
	switch {
	case f.IsSet():
		out[key] = f.Get()
	case f.IsNull():
		out[key] = NotSetLiteral
	}
}
