package cmd

import (
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/studio/internal/terminal"
	"github.com/fakeyudi/studio/internal/templates"
)

func TestRunEchoesCommandAndOutput(t *testing.T) {
	setupEnv(t)
	mustRun(t, "new", "js-pong")

	out := mustRun(t, "run", "ls")
	if !strings.Contains(out, "user@codestudio:~$ ls") {
		t.Errorf("expected echoed prompt, got:\n%s", out)
	}
	for _, p := range []string{"index.html", "script.js", "style.css"} {
		if !strings.Contains(out, p) {
			t.Errorf("expected %s in ls output, got:\n%s", p, out)
		}
	}
}

func TestRunPassesFlagsThrough(t *testing.T) {
	setupEnv(t)
	mustRun(t, "new", "js-pong")

	out := mustRun(t, "run", "git", "commit", "-m", "first")
	if !strings.Contains(out, "nothing to commit, working tree clean") {
		t.Errorf("expected clean tree message, got:\n%s", out)
	}
}

func TestRunBatchFromStdin(t *testing.T) {
	setupEnv(t)
	mustRun(t, "new", "flask-api")

	resetFlags(rootCmd)
	var buf strings.Builder
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader("pip install Flask\n\npython app.py\n"))
	rootCmd.SetArgs([]string{"run", "-"})
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("run -: %v\n%s", err, buf.String())
	}
	out := buf.String()

	if !strings.Contains(out, "Successfully installed flask") {
		t.Errorf("expected pip output, got:\n%s", out)
	}
	if !strings.Contains(out, " * Serving Flask app 'app.py'") {
		t.Errorf("expected flask startup, got:\n%s", out)
	}
	st := currentState(t)
	if st.Server != terminal.ServerFlask {
		t.Errorf("Server = %q, want %q", st.Server, terminal.ServerFlask)
	}
	if !reflect.DeepEqual(st.Packages, []string{"flask"}) {
		t.Errorf("Packages = %v, want [flask]", st.Packages)
	}
	if st.ServerPreview == nil || st.ServerPreview.Has("app.py") {
		t.Errorf("server preview should hold only the frontend files, got %v", st.ServerPreview.List())
	}
}

var commandGen = rapid.SampledFrom([]string{
	"ls",
	"cat index.html",
	"npm run build",
	"git status",
	`git commit -m "snapshot"`,
	"pip install flask",
	"pip install requests",
	"python app.py",
	"stop-server",
	"clear",
})

// Running commands one by one through the CLI persists exactly the state the
// pure interpreter computes.
func TestRunMatchesInterpreter(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		setupEnv(t)
		mustRun(t, "new", "flask-api")

		files, err := templates.Load("flask-api")
		if err != nil {
			rt.Fatalf("Load: %v", err)
		}
		want := terminal.State{Files: files, Committed: files.Clone()}

		cmds := rapid.SliceOfN(commandGen, 1, 6).Draw(rt, "commands")
		for _, c := range cmds {
			want = want.Apply(terminal.Execute(c, want.Files, want.Committed, want.Packages))
			if _, err := executeCommand(rootCmd, append([]string{"run"}, strings.Fields(c)...)...); err != nil {
				rt.Fatalf("run %q: %v", c, err)
			}
		}

		got := currentState(t)
		if !reflect.DeepEqual(got.Files.Contents(), want.Files.Contents()) {
			rt.Errorf("files diverged after %v", cmds)
		}
		if !reflect.DeepEqual(got.Committed.Contents(), want.Committed.Contents()) {
			rt.Errorf("committed diverged after %v", cmds)
		}
		if strings.Join(got.Packages, ",") != strings.Join(want.Packages, ",") {
			rt.Errorf("packages = %v, want %v", got.Packages, want.Packages)
		}
	})
}
