// Command nanoc is a whole-program ahead-of-time compiler for a small
// subset of C, lowering a single translation unit to x86-64 assembly text
// (SPEC_FULL.md §1, §6).
//
// Usage: compile [--lex|--parse|--validate|--tacky|--codegen] <source-file>
//
// With no stage flag the full pipeline runs and out.asm is written. A stage
// flag stops the pipeline after that stage and dumps the intermediate tree
// to stdout. A supplemental `compile debug` verb (see debugshell/) launches
// an interactive inspection shell; it sits alongside, never in front of,
// this pinned contract.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nanoc/compiler"
	"nanoc/debugshell"
	"nanoc/emit"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "debug" {
		runDebugCommand()
		return
	}
	runCompile(os.Args[1:])
}

func runDebugCommand() {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	cmdr := subcommands.NewCommander(fs, "compile")
	cmdr.Register(cmdr.HelpCommand(), "")
	cmdr.Register(&debugCmd{}, "")
	fs.Parse(os.Args[1:])
	os.Exit(int(cmdr.Execute(context.Background())))
}

// debugCmd dispatches into the interactive inspection shell, registered
// through the donor's own CLI library (github.com/google/subcommands) the
// same way the donor registered its repl verb.
type debugCmd struct{}

func (*debugCmd) Name() string     { return "debug" }
func (*debugCmd) Synopsis() string { return "Interactive token/AST/TAC/asm inspection shell" }
func (*debugCmd) Usage() string {
	return "debug:\n  Start the interactive compiler-stage inspection shell.\n"
}
func (*debugCmd) SetFlags(*flag.FlagSet) {}

func (*debugCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	debugshell.Run(os.Stdin, os.Stdout)
	return subcommands.ExitSuccess
}

const outputPath = "out.asm"

func runCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	lexOnly := fs.Bool("lex", false, "stop after lexing and dump tokens")
	parseOnly := fs.Bool("parse", false, "stop after parsing and dump the AST")
	validateOnly := fs.Bool("validate", false, "stop after semantic analysis and dump the AST")
	tackyOnly := fs.Bool("tacky", false, "stop after TAC generation and dump the TAC")
	codegenOnly := fs.Bool("codegen", false, "stop after codegen and dump the asm tree")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: compile [--lex|--parse|--validate|--tacky|--codegen] <source-file>")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	path := fs.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Usage: compile [--lex|--parse|--validate|--tacky|--codegen] <source-file>\ncould not read %s: %v\n", path, err)
		os.Exit(1)
	}
	src := string(source)

	switch {
	case *lexOnly:
		tokens, err := compiler.Lex(src)
		fail(err)
		fmt.Print(compiler.FormatTokens(tokens))

	case *parseOnly:
		prog, err := compiler.Parse(src)
		fail(err)
		fmt.Print(compiler.FormatAST(prog))

	case *validateOnly:
		prog, err := compiler.Validate(src)
		fail(err)
		fmt.Print(compiler.FormatAST(prog))

	case *tackyOnly:
		tac, err := compiler.Tacky(src)
		fail(err)
		fmt.Print(compiler.FormatTAC(tac))

	case *codegenOnly:
		asmProg, err := compiler.Codegen(src)
		fail(err)
		fmt.Print(compiler.FormatAsm(asmProg))

	default:
		asmProg, err := compiler.Codegen(src)
		fail(err)
		text, err := emit.Program(asmProg)
		fail(err)
		// No partial output on failure: writing only happens once every
		// pass above has already succeeded (SPEC_FULL.md §7).
		if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "could not write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
	}
}

func fail(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
