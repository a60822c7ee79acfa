package main

import "github.com/bitdogg/EOC-NetProfiler/cmd"

func main() {
	cmd.Execute()
}
