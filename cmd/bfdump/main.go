// Command bfdump parses a Brainfuck or bytecode-text program, optimizes
// it, and writes the bytecode-text dump of the result.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bfkit/bf/bctext"
	"github.com/bfkit/bf/bfsrc"
	"github.com/bfkit/bf/ir"
	"github.com/bfkit/bf/optimize"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <inputfile> [outputfile]\n", os.Args[0])
		os.Exit(1)
	}

	inputFile := os.Args[1]
	var outputFile string
	if len(os.Args) == 3 {
		outputFile = os.Args[2]
	}

	src, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	var prog *ir.Program
	if strings.ToLower(filepath.Ext(inputFile)) == ".bc" {
		prog, err = bctext.Parse(string(src))
	} else {
		prog, _, err = bfsrc.Parse(src, bfsrc.NoSplit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}

	prog = optimize.Run(prog, optimize.LevelNormal, optimize.DefaultMaxIterations)
	dump := bctext.Dump(prog, bctext.DumpOptions{ShowInternal: true})

	if outputFile == "" {
		fmt.Print(dump)
	} else {
		if err := os.WriteFile(outputFile, []byte(dump), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Bytecode-text dump written to %s\n", outputFile)
	}
}
