// Command envtmpl renders ${VAR} placeholders in a text file.
//
// Usage:
//
//	envtmpl [--env-file PATH] [--debug] <input_file> [output_file]
//
// Values come from the environment file (default .env in the working
// directory) and the process environment, which takes precedence.
// Placeholders without a value are left in place. When output_file is
// omitted the input file is overwritten.
package main

import "os"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr, nil))
}
