// Package main provides the entry point for the vmassess CLI.
//
// vmassess turns VMware security assessment results into reports. It loads
// assessment data files (JSON or YAML) and writes a static HTML summary, an
// indented JSON export, a Markdown overview, or a PDF, and keeps a local
// history of every report it generated.
//
// Usage:
//
//	vmassess report results.json
//	vmassess report -f json,markdown -o reports/ esxi01.json esxi02.json
//	vmassess history
//
// See --help for all available options.
package main

// main is the entry point for vmassess.
func main() {
	Execute()
}
