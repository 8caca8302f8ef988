// Command scaffold generates TypeScript test scaffolds and mock data.
package main

import "github.com/specvital/scaffold/internal/cli"

func main() {
	cli.Execute()
}
