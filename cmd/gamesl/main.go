// Command gamesl backs up and restores game saves from the terminal.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
