package main

import (
	"flag"
	"fmt"
	"os"

	"framevm/internal/logger"
	"framevm/internal/runner"
	"framevm/pkg/color"

	"github.com/charmbracelet/log"
)

// Main entry point for the framevm bytecode interpreter.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.ListOnly, "l", false, "List the decoded program without running it")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.IntVar(&options.MaxSteps, "s", 0, "Maximum execution steps (0 = unlimited)")
	flag.IntVar(&options.FrameDepth, "frames", 0, "Frame stack depth (0 = default)")
	flag.IntVar(&options.StackSize, "stack", 0, "Operand stack size per frame (0 = default)")
	flag.IntVar(&options.LocalSlots, "locals", 0, "Local slots per frame (0 = default)")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No program file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]

	if err := options.Run(); err != nil {
		log.Fatal("Run failed", "error", err)
	}
}
