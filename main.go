/*
Copyright © 2026 Fincrew Authors
*/
package main

import "Fincrew/internal/cli"

func main() {
	cli.Execute()
}
