package terminal

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/fakeyudi/studio/internal/vcs"
	"github.com/fakeyudi/studio/internal/vfs"
)

const helpText = `Available commands:
  help              - Show this help message.
  clear             - Clear the terminal screen.
  ls                - List files in the project.
  cat [filename]    - Display the content of a file.
  npm run build     - Simulate building the project into a 'dist' folder.
  pip install [pkg] - Simulate installing a Python package.
  python [filename] - Simulate running a Python script.
  stop-server       - Stops any running server simulation.
  git status        - Show the status of changes.
  git add .         - Stage all changes for the next commit.
  git commit -m "..." - Record changes to the repository (commit message is mandatory).

Note: Some commands are simplified for this simulated environment.`

// buildSources are copied verbatim into dist/ by "npm run build".
var buildSources = []string{"index.html", "style.css", "script.js"}

// Execute runs one command line against the given state. Inputs are never
// mutated and the same inputs always produce the same Result.
func Execute(line string, files, committed vfs.Tree, packages []string) Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{}
	}
	verb, args := fields[0], fields[1:]

	switch verb {
	case "help":
		return output(helpText)
	case "clear":
		return Result{Clear: true}
	case "ls":
		return Result{Output: files.List()}
	case "cat":
		return cat(args, files)
	case "npm":
		return npm(args, files)
	case "git":
		return git(args, files, committed)
	case "pip":
		return pip(args, packages)
	case "python":
		return python(args, files, packages)
	case "stop-server":
		return Result{Output: []string{"Server simulation stopped."}, StopServer: true}
	default:
		return output("command not found: " + verb)
	}
}

func output(text string) Result {
	return Result{Output: strings.Split(text, "\n")}
}

func cat(args []string, files vfs.Tree) Result {
	if len(args) == 0 {
		return output("Usage: cat [filename]")
	}
	f, err := files.Get(args[0])
	if err != nil {
		return output(fmt.Sprintf("cat: %s: No such file or directory", args[0]))
	}
	return output(f.Content)
}

func npm(args []string, files vfs.Tree) Result {
	if len(args) < 2 || args[0] != "run" || args[1] != "build" {
		return output("Unknown npm command: npm " + strings.Join(args, " "))
	}
	next := files.Clone()
	for _, src := range buildSources {
		f, ok := files[src]
		if !ok {
			continue
		}
		next.PutFile(vfs.File{Path: "dist/" + src, Content: f.Content, Language: vfs.LanguageFor(src)})
	}
	return Result{
		Output: []string{
			"> project@0.0.0 build",
			"> vite build",
			"",
			"vite v5.3.3 building for production...",
			"✓ 0 modules transformed.",
			"dist/index.html    0.50 kB",
			"dist/style.css     1.50 kB",
			"dist/script.js     4.00 kB",
			"✓ built in 123ms",
			"",
			`Build complete. Files are in the "dist" directory.`,
		},
		Files: next,
	}
}

func git(args []string, files, committed vfs.Tree) Result {
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}
	switch {
	case sub == "status":
		changed := vcs.Diff(files, committed)
		if len(changed) == 0 {
			return output("On branch main\nYour branch is up to date with 'origin/main'.\n\nnothing to commit, working tree clean")
		}
		out := []string{
			"On branch main",
			"Changes not staged for commit:",
			`  (use "git add <file>..." to update what will be committed)`,
			"",
		}
		for _, p := range changed {
			out = append(out, "\tmodified:   "+p)
		}
		return Result{Output: append(out, "")}
	case sub == "add" && len(args) > 1 && args[1] == ".":
		return output("Staged all changes.")
	case sub == "commit" && len(args) > 1 && args[1] == "-m":
		message := strings.ReplaceAll(strings.Join(args[2:], " "), `"`, "")
		if strings.TrimSpace(message) == "" {
			return output("Error: commit message is required.")
		}
		changed := vcs.Diff(files, committed)
		if len(changed) == 0 {
			return output("nothing to commit, working tree clean")
		}
		next := vcs.Commit(files)
		return Result{
			Output: []string{
				fmt.Sprintf("[main %s] %s", vcs.CommitID(next, message), message),
				fmt.Sprintf(" %d file(s) changed", len(changed)),
			},
			Committed: next,
		}
	default:
		return output("Unknown git command: git " + strings.Join(args, " "))
	}
}

func pip(args []string, packages []string) Result {
	if len(args) < 2 || args[0] != "install" {
		return output("Usage: pip install [package_name]")
	}
	name := strings.ToLower(args[1])
	if lo.Contains(packages, name) {
		return output("Requirement already satisfied: " + name)
	}
	next := append(append([]string(nil), packages...), name)
	return Result{
		Output: []string{
			"Collecting " + name,
			"Installing collected packages: " + name,
			"Successfully installed " + name,
		},
		Packages: next,
	}
}

func python(args []string, files vfs.Tree, packages []string) Result {
	if len(args) == 0 {
		return output("Usage: python [filename]")
	}
	name := args[0]
	if !files.Has(name) {
		return output(fmt.Sprintf("python: can't open file '%s': [Errno 2] No such file or directory", name))
	}
	if name != "app.py" {
		return output(fmt.Sprintf("Executing %s with Python interpreter... (simulation)", name))
	}
	if !lo.Contains(packages, ServerFlask) {
		return Result{Output: []string{
			"Traceback (most recent call last):",
			fmt.Sprintf(`  File "%s", line 1, in <module>`, name),
			"    from flask import Flask, jsonify",
			"ModuleNotFoundError: No module named 'flask'",
		}}
	}
	return Result{
		Output: []string{
			fmt.Sprintf(" * Serving Flask app '%s'", name),
			" * Environment: production",
			"   WARNING: This is a development server. Do not use it in a production deployment.",
			"   Use a production WSGI server instead.",
			" * Debug mode: on",
			" * Running on http://127.0.0.1:5000/ (Press CTRL+C to quit)",
			`Server is now "running". Check the "Live Preview" tab to see the frontend.`,
		},
		StartServer: ServerFlask,
	}
}
