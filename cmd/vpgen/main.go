// Command vpgen generates vulkan_profiles.h, vulkan_profiles.hpp, and
// vulkan_profiles.cpp from a Vulkan API registry and a directory of
// Vulkan Profiles JSON documents.
//
// Usage:
//
//	vpgen generate --registry vk.xml --profiles ./profiles --out-inc-dir ./include/vulkan --out-src-dir ./source
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gogpu/vpgen/internal/codegen"
	"github.com/gogpu/vpgen/internal/profile"
	"github.com/gogpu/vpgen/internal/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type generateOptions struct {
	registryPath       string
	profilesDir        string
	outIncDir          string
	outSrcDir          string
	includeMemoryTypes bool
	verbose            bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vpgen",
		Short: "Generate C/C++ Vulkan Profiles library sources",
	}
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:           "generate",
		Short:         "parse a registry and a profiles directory, emit the generated library sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.registryPath, "registry", "./vk.xml", "path to the Vulkan API registry XML document")
	flags.StringVar(&opts.profilesDir, "profiles", "./profiles", "directory of Vulkan Profiles JSON documents")
	flags.StringVar(&opts.outIncDir, "out-inc-dir", "./include/vulkan", "output directory for vulkan_profiles.h and vulkan_profiles.hpp")
	flags.StringVar(&opts.outSrcDir, "out-src-dir", "./source", "output directory for vulkan_profiles.cpp")
	flags.BoolVar(&opts.includeMemoryTypes, "include-memory-types", false, "emit memory-type requirement tables and vpGetProfileMemoryTypes")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func runGenerate(opts *generateOptions) error {
	log := logrus.New()
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	reg, err := registry.Load(opts.registryPath, log)
	if err != nil {
		return errors.Wrap(err, "loading registry")
	}
	log.Infof("loaded registry: %d structs, %d extensions, %d versions",
		reg.Structs.Len(), reg.Extensions.Len(), reg.Versions.Len())

	profiles, err := profile.LoadDir(reg, opts.profilesDir, log)
	if err != nil {
		return errors.Wrap(err, "loading profiles")
	}
	log.Infof("resolved %d profiles", profiles.Len())

	emitter := codegen.New(reg, profiles, codegen.Options{IncludeMemoryTypes: opts.includeMemoryTypes})

	if err := os.MkdirAll(opts.outIncDir, 0o755); err != nil {
		return errors.Wrap(err, "creating include output directory")
	}
	if err := os.MkdirAll(opts.outSrcDir, 0o755); err != nil {
		return errors.Wrap(err, "creating source output directory")
	}

	header, err := emitter.EmitHeader()
	if err != nil {
		return errors.Wrap(err, "emitting vulkan_profiles.h")
	}
	if err := writeGenerated(opts.outIncDir, "vulkan_profiles.h", header); err != nil {
		return err
	}

	inlineHeader, err := emitter.EmitInlineHeader()
	if err != nil {
		return errors.Wrap(err, "emitting vulkan_profiles.hpp")
	}
	if err := writeGenerated(opts.outIncDir, "vulkan_profiles.hpp", inlineHeader); err != nil {
		return err
	}

	impl, err := emitter.EmitImplementation()
	if err != nil {
		return errors.Wrap(err, "emitting vulkan_profiles.cpp")
	}
	if err := writeGenerated(opts.outSrcDir, "vulkan_profiles.cpp", impl); err != nil {
		return err
	}

	log.Info("generation complete")
	return nil
}

func writeGenerated(dir, name, contents string) error {
	path := dir + string(os.PathSeparator) + name
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
