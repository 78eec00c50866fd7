// gorelease cross-builds the Go program in the current module for every
// platform of the release matrix and packages one archive per platform.
//
// Running it without arguments builds the default matrix using the version
// declared in cli/Version.go and writes the archives into the target directory.
//
// Unless configured, the product name is the last element of the module path
// (ignoring a major version suffix): github.com/infrasonar/infrasonar-cli is
// released as infrasonar-cli. Set product in the config file or pass --product
// to release under a different name.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	logrusadapter "logur.dev/adapter/logrus"
	"logur.dev/logur"

	"github.com/sagikazarmark/gorelease/pkg/golist"
	"github.com/sagikazarmark/gorelease/pkg/release"
	"github.com/sagikazarmark/gorelease/pkg/toolchain"
	"github.com/sagikazarmark/gorelease/pkg/version"
)

func newFlagSet(name string, errorHandling pflag.ErrorHandling) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, errorHandling)

	flags.StringP("config", "c", "", "Load release settings from a YAML file")
	flags.StringP("dir", "C", "", "Run every tool in this directory (default: module root)")
	flags.String("product", "", "Binary and archive name (default: last element of the module path, e.g. infrasonar-cli for github.com/infrasonar/infrasonar-cli)")
	flags.StringP("output", "o", "", "Archive directory, relative to --dir unless absolute; must exist (default: target)")
	flags.String("version-file", "", "File declaring the version (default: cli/Version.go)")
	flags.String("toolchain", "", "Go toolchain binary (default: go)")
	flags.StringSlice("platform", nil, "Build only these os/arch platforms (repeatable)")
	flags.Bool("checksums", false, "Write a checksum manifest next to the archives")
	flags.Bool("fail-fast", false, "Stop at the first failed platform")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	return flags
}

func main() {
	flags := newFlagSet(os.Args[0], pflag.ExitOnError)
	_ = flags.Parse(os.Args[1:])

	verbose, _ := flags.GetBool("verbose")
	logger := newLogger(verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, logger); err != nil {
		logger.Error(err.Error())

		stop()
		os.Exit(1)
	}
}

func newLogger(verbose bool) logur.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}

	return logrusadapter.New(l)
}

func run(ctx context.Context, flags *pflag.FlagSet, logger logur.Logger) error {
	config, err := loadConfig(ctx, flags, logger)
	if err != nil {
		return err
	}

	versionPath := config.Path(config.VersionFile)

	v, err := version.Read(versionPath)
	if err != nil {
		return err
	}

	logger.Debug("version detected", map[string]interface{}{"version": v, "file": versionPath})

	builder := release.NewBuilder(config, toolchain.NewExecRunner(), logger)

	summary, err := builder.Build(ctx, v)
	report(logger, summary)

	if err != nil {
		return err
	}

	return summary.Err()
}

func loadConfig(ctx context.Context, flags *pflag.FlagSet, logger logur.Logger) (release.Config, error) {
	config := release.DefaultConfig()

	configFile, err := flags.GetString("config")
	if err != nil {
		return config, errors.WithStack(err)
	}

	if configFile != "" {
		if err := config.LoadFile(configFile); err != nil {
			return config, err
		}
	}

	if err := applyFlags(flags, &config); err != nil {
		return config, err
	}

	options := golist.Options{Toolchain: config.Toolchain, Dir: config.Dir}

	if config.Dir == "" {
		root, err := golist.ModuleRoot(ctx, options)
		if err != nil {
			return config, errors.WithMessage(err, "cannot determine working directory, use --dir")
		}

		config.Dir = root
		options.Dir = root

		logger.Debug("using module root as working directory", map[string]interface{}{"dir": root})
	}

	if config.Product == "" {
		module, err := golist.CurrentModule(ctx, options)
		if err != nil {
			return config, errors.WithMessage(err, "cannot determine product name, use --product")
		}

		config.Product = golist.ProductName(module)

		logger.Debug("product name derived from module path", map[string]interface{}{"module": module, "product": config.Product})
	}

	return config, config.Validate()
}

// applyFlags overrides config with the flags set on the command line.
// Flags left at their defaults keep the configured values.
func applyFlags(flags *pflag.FlagSet, config *release.Config) error {
	stringFlags := []struct {
		name  string
		value *string
	}{
		{"dir", &config.Dir},
		{"product", &config.Product},
		{"output", &config.OutputDir},
		{"version-file", &config.VersionFile},
		{"toolchain", &config.Toolchain},
	}

	for _, flag := range stringFlags {
		if !flags.Changed(flag.name) {
			continue
		}

		value, err := flags.GetString(flag.name)
		if err != nil {
			return errors.WithStack(err)
		}

		*flag.value = value
	}

	boolFlags := []struct {
		name  string
		value *bool
	}{
		{"checksums", &config.Checksums},
		{"fail-fast", &config.FailFast},
	}

	for _, flag := range boolFlags {
		if !flags.Changed(flag.name) {
			continue
		}

		value, err := flags.GetBool(flag.name)
		if err != nil {
			return errors.WithStack(err)
		}

		*flag.value = value
	}

	if flags.Changed("platform") {
		values, err := flags.GetStringSlice("platform")
		if err != nil {
			return errors.WithStack(err)
		}

		platforms, err := release.ParsePlatforms(values)
		if err != nil {
			return err
		}

		config.Platforms = platforms
	}

	return nil
}

func report(logger logur.Logger, summary release.Summary) {
	for _, result := range summary.Results {
		fields := map[string]interface{}{
			"platform": result.Platform.String(),
			"state":    string(result.State),
		}

		switch {
		case result.Skipped:
			logger.Warn("skipped", fields)

		case result.Err != nil:
			fields["error"] = result.Err.Error()
			logger.Error("failed", fields)

		default:
			fields["archive"] = result.Archive
			logger.Info("ok", fields)
		}
	}

	if summary.Checksums != "" {
		logger.Info("checksums", map[string]interface{}{"manifest": summary.Checksums})
	}

	if len(summary.Results) > 0 {
		logger.Info(fmt.Sprintf("released %d of %d platforms", len(summary.Archives()), len(summary.Results)), map[string]interface{}{
			"product": summary.Product,
			"version": summary.Version,
		})
	}
}
