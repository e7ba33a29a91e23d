// Package langs holds the closed set of language profiles: how to find
// the entry file and what to execute inside the sandbox for each one.
package langs

// BuildFailureExitCode is the reserved exit code the build stage uses to
// signal "compilation produced diagnostics", distinct from any normal
// program exit.
const BuildFailureExitCode = 42

// InnerTimeoutExitCode is what the in-sandbox time wrapper exits with
// when it kills the program (GNU timeout convention).
const InnerTimeoutExitCode = 124

// Profile describes one supported language.
type Profile struct {
	ID string
	// EntryFile is the preferred canonical entry filename.
	EntryFile string
	// Ext is the source extension used for fallback entry discovery.
	Ext string
	// Image is the container image the program runs in.
	Image string
	// BuildArgv, when non-empty, is the compiler invocation; {entry} is
	// substituted with the quoted entry filename. Interpreted languages
	// leave it empty.
	BuildArgv []string
	// RunArgv is the program invocation; {entry} and {stem} are
	// substituted with the entry filename and its extensionless stem.
	RunArgv []string
}

// Compiled reports whether the profile carries a build stage.
func (p Profile) Compiled() bool { return len(p.BuildArgv) > 0 }

// Images are Debian-based so the GNU timeout wrapper is present and
// exits with InnerTimeoutExitCode when it kills the program.
func builtinProfiles() []Profile {
	return []Profile{
		{
			ID:        "python",
			EntryFile: "main.py",
			Ext:       ".py",
			Image:     "python:3.12-slim",
			RunArgv:   []string{"python3", "{entry}"},
		},
		{
			ID:        "javascript",
			EntryFile: "main.js",
			Ext:       ".js",
			Image:     "node:20-slim",
			RunArgv:   []string{"node", "{entry}"},
		},
		{
			ID:        "cpp",
			EntryFile: "main.cpp",
			Ext:       ".cpp",
			Image:     "gcc:13",
			BuildArgv: []string{"g++", "-O2", "-o", "prog", "{entry}"},
			RunArgv:   []string{"./prog"},
		},
		{
			ID:        "c",
			EntryFile: "main.c",
			Ext:       ".c",
			Image:     "gcc:13",
			BuildArgv: []string{"gcc", "-O2", "-o", "prog", "{entry}"},
			RunArgv:   []string{"./prog"},
		},
		{
			ID:        "java",
			EntryFile: "Main.java",
			Ext:       ".java",
			Image:     "eclipse-temurin:21",
			BuildArgv: []string{"javac", "{entry}"},
			RunArgv:   []string{"java", "{stem}"},
		},
		{
			ID:        "go",
			EntryFile: "main.go",
			Ext:       ".go",
			Image:     "golang:1.24",
			BuildArgv: []string{"go", "build", "-o", "prog", "{entry}"},
			RunArgv:   []string{"./prog"},
		},
	}
}
