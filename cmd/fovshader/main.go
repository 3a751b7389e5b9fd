// Command fovshader compiles the compositing shader's WGSL source to a
// SPIR-V module for WebGPU and Vulkan hosts.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"fovcone/internal/shader"
)

func main() {
	name := flag.String("name", shader.FOV, "shader program to compile")
	out := flag.String("out", "fov.spv", "output SPIR-V file, - for stdout")
	wgsl := flag.Bool("wgsl", false, "write the WGSL source instead of SPIR-V")
	list := flag.Bool("list", false, "list the available programs and exit")
	flag.Parse()

	if *list {
		for _, n := range shader.Names() {
			fmt.Println(n)
		}
		return
	}

	w := io.Writer(os.Stdout)
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		w = f
	}

	var err error
	if *wgsl {
		err = writeWGSL(w, *name)
	} else {
		err = writeSPIRV(w, *name)
	}
	if err != nil {
		log.Fatalf("%s: %v", *name, err)
	}
}

func writeWGSL(w io.Writer, name string) error {
	p, err := shader.Load(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, p.WGSL)
	return err
}

// writeSPIRV writes the module as little-endian words.
func writeSPIRV(w io.Writer, name string) error {
	words, err := shader.CompileSPIRV(name)
	if err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, words)
}
