package langs

import (
	"fmt"
	"strings"
)

// Fixed in-sandbox artifact names. StdinFile is written by the run
// directory builder; BuildErrorsFile is produced by the build stage.
const (
	StdinFile       = "input.txt"
	BuildErrorsFile = "build_errors.txt"
)

// Script assembles the shell script executed inside the sandbox from
// fixed per-language templates. Only the sanitized entry filename and the
// integer time limit flow in, so user input can never alter the command
// structure.
//
// Compiled languages: run the compiler with diagnostics redirected to a
// fixed artifact, never letting a non-zero compiler exit abort the shell.
// If the artifact is non-empty, emit it and exit with the build-failure
// sentinel; otherwise run the program under the inner time wrapper with
// stdin redirected from the input artifact. Interpreted languages skip
// the build stage.
func Script(p Profile, entry string, timeLimitSec int) string {
	run := fmt.Sprintf("exec timeout %ds %s <%s",
		timeLimitSec, joinArgv(p.RunArgv, entry), StdinFile)

	if !p.Compiled() {
		return run
	}

	build := joinArgv(p.BuildArgv, entry)
	return strings.Join([]string{
		fmt.Sprintf("%s >%s 2>&1 || true", build, BuildErrorsFile),
		fmt.Sprintf("if [ -s %s ]; then cat %s; exit %d; fi",
			BuildErrorsFile, BuildErrorsFile, BuildFailureExitCode),
		run,
	}, "\n")
}

func joinArgv(argv []string, entry string) string {
	stem := entry
	if i := strings.LastIndexByte(stem, '.'); i > 0 {
		stem = stem[:i]
	}
	parts := make([]string, 0, len(argv))
	for _, a := range argv {
		a = strings.ReplaceAll(a, "{entry}", entry)
		a = strings.ReplaceAll(a, "{stem}", stem)
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes anything beyond plain [A-Za-z0-9_./+-] words.
// '+' is shell-safe and appears in fixed argv words like g++. Entry names
// are sanitized upstream; this is the second line of defense.
func shellQuote(s string) string {
	plain := true
	for _, c := range []byte(s) {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '.' || c == '/' || c == '-' || c == '+':
		default:
			plain = false
		}
	}
	if plain && s != "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
