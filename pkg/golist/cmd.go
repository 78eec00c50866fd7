// Package golist queries the Go toolchain about the module being released.
package golist

import (
	"context"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/sagikazarmark/gorelease/pkg/toolchain"
)

// Options customizes a go command execution.
type Options struct {
	Runner    toolchain.Runner
	Toolchain string
	Dir       string
}

// GetRunner returns the runner defined in the options,
// falling back to an os/exec runner.
func (o Options) GetRunner() toolchain.Runner {
	if o.Runner == nil {
		return toolchain.NewExecRunner()
	}

	return o.Runner
}

// GetToolchain returns the toolchain defined in the options,
// falling back to toolchain.DefaultGo.
func (o Options) GetToolchain() string {
	if o.Toolchain == "" {
		return toolchain.DefaultGo
	}

	return o.Toolchain
}

func run(ctx context.Context, options Options, args ...string) (string, error) {
	cmd := toolchain.Command{
		Name: options.GetToolchain(),
		Args: args,
		Dir:  options.Dir,
	}

	result, err := options.GetRunner().Run(ctx, cmd)
	if err != nil {
		return "", err
	}

	if !result.Success() {
		return "", errors.Errorf("%s exited with status %d: %s", cmd, result.ExitCode, strings.TrimSpace(string(result.Stderr)))
	}

	return strings.Split(string(result.Stdout), "\n")[0], nil
}

// CurrentModule returns the path of the module containing the options' directory.
func CurrentModule(ctx context.Context, options Options) (string, error) {
	module, err := run(ctx, options, "list", "-m")
	if err != nil {
		return "", errors.WithMessage(err, "failed to determine module name")
	}

	module = strings.TrimSpace(module)
	if module == "" {
		return "", errors.New("failed to determine module name")
	}

	return module, nil
}

// ModuleRoot returns the directory containing the go.mod file of the current module.
func ModuleRoot(ctx context.Context, options Options) (string, error) {
	gomod, err := run(ctx, options, "env", "GOMOD")
	if err != nil {
		return "", errors.WithMessage(err, "failed to locate go.mod")
	}

	gomod = strings.TrimSpace(gomod)

	// Outside of a module GOMOD is empty (or os.DevNull when modules are forced on).
	if gomod == "" || filepath.Base(gomod) != "go.mod" {
		return "", errors.New("not inside a Go module")
	}

	return filepath.Dir(gomod), nil
}

var majorVersionRegexp = regexp.MustCompile(`^v[0-9]+$`)

// ProductName derives a binary name from a module path.
//
// The major version suffix of the path (eg. /v2) is skipped.
// The name keeps any suffix of the repository name,
// so github.com/infrasonar/infrasonar-cli yields infrasonar-cli.
func ProductName(module string) string {
	name := path.Base(module)

	if majorVersionRegexp.MatchString(name) {
		if dir := path.Dir(module); dir != "." {
			name = path.Base(dir)
		}
	}

	return name
}
