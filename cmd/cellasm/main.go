// Command cellasm assembles textual source into a flat binary uint32 cell
// stream consumable by cellvm -bin or loader.ReadCells.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"

	"github.com/avalonbits/cellvm/internal/loader"
)

var (
	in  = flag.String("in", "", "Path to the assembly source file.")
	out = flag.String("out", "", "Path to write the assembled binary cell stream.")
)

func main() {
	flag.Parse()

	if *in == "" || *out == "" {
		log.Fatal("both -in and -out are required")
	}

	src, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("Couldn't read %q: %v", *in, err)
	}

	cells, err := loader.Assemble(string(src))
	if err != nil {
		log.Fatalf("Assemble failed: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Couldn't create %q: %v", *out, err)
	}
	defer f.Close()

	for _, c := range cells {
		if err := binary.Write(f, binary.LittleEndian, c); err != nil {
			log.Fatalf("Writing cell stream: %v", err)
		}
	}
	log.Printf("Assembled %d cells to %s", len(cells), *out)
}
