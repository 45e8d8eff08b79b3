// Command cellvm runs a program under the interactive terminal debugger.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/avalonbits/cellvm/debug"
	"github.com/avalonbits/cellvm/internal/host"
	"github.com/avalonbits/cellvm/internal/loader"
	"github.com/avalonbits/cellvm/internal/tui"
)

var (
	asmFile = flag.String("asm", "", "Path to a textual assembly source file.")
	binFile = flag.String("bin", "", "Path to a flat binary uint32 cell stream.")
)

func main() {
	flag.Parse()

	cells, err := load()
	if err != nil {
		log.Fatalf("Couldn't load program: %v", err)
	}

	prog := debug.New(host.New(os.Stdin, os.Stdout))
	prog.Initialize(cells)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := tui.Run(ctx, prog); err != nil {
		log.Fatalf("Debugger exited with an error: %v", err)
	}
}

func load() ([]uint32, error) {
	switch {
	case *asmFile != "":
		src, err := os.ReadFile(*asmFile)
		if err != nil {
			return nil, err
		}
		return loader.Assemble(string(src))
	case *binFile != "":
		f, err := os.Open(*binFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return loader.ReadCells(f)
	default:
		return nil, errors.New("one of -asm or -bin is required")
	}
}
