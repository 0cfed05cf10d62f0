// Package debugshell implements the supplemental interactive inspection
// shell (SPEC_FULL.md §4.9): a session accepts one source file path at a
// time and dumps its tokens, AST, TAC, and asm tree side by side. It sits
// alongside, never in front of, the pinned `compile` CLI contract.
//
// The line-editing loop and colored banner are grounded on the donor's own
// repl.Repl (repl/repl.go): readline.New/rl.Readline for input, a
// color.New(color.FgX) palette for feedback, and a ".exit"-or-EOF quit
// convention. Unlike the donor REPL, each line is a file path to inspect,
// not a program to evaluate, so there is no evaluator and no history of
// program state across lines.
package debugshell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"nanoc/compiler"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

const (
	banner = `nanoc debug shell`
	line   = "--------------------------------------------------------------"
	prompt = "nanoc> "
)

func printBanner(w io.Writer) {
	blueColor.Fprintf(w, "%s\n", line)
	greenColor.Fprintf(w, "%s\n", banner)
	blueColor.Fprintf(w, "%s\n", line)
	cyanColor.Fprintf(w, "%s\n", "Enter a source file path to dump its tokens/AST/TAC/asm.")
	cyanColor.Fprintf(w, "%s\n", "Type '.exit' to quit.")
	blueColor.Fprintf(w, "%s\n", line)
}

// Run starts the inspection shell. reader is accepted to match the donor
// REPL's Start signature; input is actually read through readline, which
// owns stdin directly.
func Run(reader io.Reader, writer io.Writer) {
	printBanner(writer)

	rl, err := readline.New(prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	for {
		input, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			return
		}

		rl.SaveHistory(input)
		inspect(writer, input)
	}
}

func inspect(w io.Writer, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		redColor.Fprintf(w, "could not read %s: %v\n", path, err)
		return
	}
	src := string(source)

	tokens, err := compiler.Lex(src)
	if err != nil {
		redColor.Fprintf(w, "lex: %v\n", err)
		return
	}
	yellowColor.Fprintln(w, "-- tokens --")
	fmt.Fprint(w, compiler.FormatTokens(tokens))

	prog, err := compiler.Validate(src)
	if err != nil {
		redColor.Fprintf(w, "parse/validate: %v\n", err)
		return
	}
	yellowColor.Fprintln(w, "-- ast --")
	fmt.Fprint(w, compiler.FormatAST(prog))

	tac, err := compiler.Tacky(src)
	if err != nil {
		redColor.Fprintf(w, "tacgen: %v\n", err)
		return
	}
	yellowColor.Fprintln(w, "-- tac --")
	fmt.Fprint(w, compiler.FormatTAC(tac))

	asmProg, err := compiler.Codegen(src)
	if err != nil {
		redColor.Fprintf(w, "codegen: %v\n", err)
		return
	}
	yellowColor.Fprintln(w, "-- asm --")
	fmt.Fprint(w, compiler.FormatAsm(asmProg))
}
