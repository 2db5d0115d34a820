// scenetool is a CLI utility for inspecting glTF assets converted for the engine.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/scenery/internal/config"
	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/logger"
)

// errUsage marks invalid command lines. The usage text has already been printed.
var errUsage = errors.New("usage error")

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := run(cfg, args, os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			if kind := model.KindOf(err); kind != nil {
				fmt.Fprintf(os.Stderr, "Error (%v): %v\n", kind, err)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
		logger.Sync()
		os.Exit(exitCode(err))
	}
}

// run dispatches a command. Output meant for the user goes to w.
func run(cfg *config.Config, args []string, w io.Writer) error {
	command, rest := args[0], args[1:]

	switch command {
	case "info":
		return cmdInfo(cfg, rest, w)
	case "meshes":
		return cmdMeshes(cfg, rest, w)
	case "materials", "mats":
		return cmdMaterials(cfg, rest, w)
	case "draw":
		return cmdDraw(cfg, rest, w)
	case "dump":
		return cmdDump(cfg, rest, w)
	case "serve":
		return cmdServe(cfg, rest)
	case "config":
		return cmdConfig(cfg, rest, w)
	case "help", "-h", "--help":
		printUsage(w)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		return errUsage
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch model.KindOf(err) {
	case model.ErrParse:
		return 2
	case model.ErrUnsupported:
		return 3
	case model.ErrMissingReference:
		return 4
	}
	if err != nil {
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `scenetool - glTF asset inspection utility

Usage:
  scenetool [global options] <command> [options]

Global options:
  -config <path>        Config file (default: ./scenery.yaml or user config dir)
  -debug                Enable debug logging
  -allow-empty-nodes    Load nodes without a mesh as groups
  -addr <host:port>     Listen address for serve

Commands:
  info <file>                       Show resource counts and scene roots
  meshes <file>                     List meshes and their material batches
  materials <file>                  List materials and texture slots
  draw [-n N] [-orbit] <file>       List render records (identity or orbit camera view)
  dump [-format yaml|spew] <file>   Dump the converted model
  serve <file...>                   Serve loaded models over HTTP
  config [-save path]               Print or save the effective configuration

Exit status:
  1 other failure, 2 parse error, 3 unsupported feature, 4 missing reference

Examples:
  scenetool info helmet.glb
  scenetool -allow-empty-nodes draw -n 10 city.gltf
  scenetool dump -format spew box.gltf
  scenetool -addr :9000 serve box.gltf helmet.glb`)
}
