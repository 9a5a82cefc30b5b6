// Command bfconv round-trips a bytecode-text file through the IR and back,
// the external-collaborator harness the round-trip testable property
// depends on: Dump(Parse(text)) must reproduce the same program, modulo
// comments and whitespace.
package main

import (
	"fmt"
	"os"

	"github.com/bfkit/bf/bctext"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <bytecode-text file> [outputfile]\n", os.Args[0])
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

	prog, err := bctext.Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}

	out := bctext.Dump(prog, bctext.DumpOptions{ShowInternal: true})

	if outputFile == "" {
		fmt.Print(out)
	} else {
		if err := os.WriteFile(outputFile, []byte(out), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Round-tripped bytecode-text written to %s\n", outputFile)
	}
}
