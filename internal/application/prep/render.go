package prep

import (
	"fmt"
	"strings"
)

// Both renderers follow the same contract: probe the search path for the
// preparation tool, run the computed commands when it is found, otherwise
// copy the raw inputs to the prepared names and say so. The command lines
// themselves come verbatim from Plan.Commands in both cases.

// RenderShell renders the plan as a POSIX sh script.
func (p Plan) RenderShell() string {
	var b strings.Builder

	b.WriteString("#!/bin/sh\n")
	b.WriteString("# Prepare receptor and ligand structures for docking.\n")
	b.WriteString("set -e\n\n")

	fmt.Fprintf(&b, "if command -v %s >/dev/null 2>&1; then\n", p.Tool)
	fmt.Fprintf(&b, "    echo \"Preparing structures with %s\"\n", p.Tool)
	for _, cmd := range p.Commands {
		fmt.Fprintf(&b, "    %s\n", cmd.String())
	}
	b.WriteString("else\n")
	fmt.Fprintf(&b, "    echo \"%s not found on PATH; copying raw structures unchanged\"\n", p.Tool)
	for _, cp := range p.Fallbacks {
		fmt.Fprintf(&b, "    cp %s %s\n", cp.From, cp.To)
	}
	b.WriteString("fi\n")

	return b.String()
}

// RenderBatch renders the plan as a Windows batch script. Control flow uses
// labels rather than parenthesised blocks so that errorlevel checks behave
// without delayed expansion.
func (p Plan) RenderBatch() string {
	var b strings.Builder

	b.WriteString("@echo off\n")
	b.WriteString("rem Prepare receptor and ligand structures for docking.\n\n")

	fmt.Fprintf(&b, "where %s >nul 2>nul\n", p.Tool)
	b.WriteString("if errorlevel 1 goto fallback\n\n")

	fmt.Fprintf(&b, "echo Preparing structures with %s\n", p.Tool)
	for _, cmd := range p.Commands {
		fmt.Fprintf(&b, "%s\n", cmd.String())
	}
	b.WriteString("goto done\n\n")

	b.WriteString(":fallback\n")
	fmt.Fprintf(&b, "echo %s not found on PATH; copying raw structures unchanged\n", p.Tool)
	for _, cp := range p.Fallbacks {
		fmt.Fprintf(&b, "copy /Y %s %s\n", windowsPath(cp.From), windowsPath(cp.To))
	}
	b.WriteString("\n:done\n")

	return b.String()
}

// windowsPath converts forward slashes for cmd.exe builtins; the artifact
// names used inside a package are flat, so this is a no-op in practice.
func windowsPath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}
