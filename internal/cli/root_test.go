package cli

import (
	"bytes"
	"testing"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	_, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	formatFlag := root.PersistentFlags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("expected --format flag to exist")
	}
	if formatFlag.DefValue != "text" {
		t.Errorf("expected --format default 'text', got %q", formatFlag.DefValue)
	}

	dbFlag := root.PersistentFlags().Lookup("db")
	if dbFlag == nil {
		t.Fatal("expected --db flag to exist")
	}
}

func TestNamespaceSubcommands(t *testing.T) {
	root := NewRootCmd()

	nsCmd, _, err := root.Find([]string{"namespace"})
	if err != nil {
		t.Fatalf("find namespace: %v", err)
	}

	for _, name := range []string{"add", "list", "grant", "revoke", "roles"} {
		if _, _, err := nsCmd.Find([]string{name}); err != nil {
			t.Errorf("missing namespace subcommand %q: %v", name, err)
		}
	}
}

func TestUserSubcommands(t *testing.T) {
	root := NewRootCmd()

	userCmd, _, err := root.Find([]string{"user"})
	if err != nil {
		t.Fatalf("find user: %v", err)
	}

	for _, name := range []string{"add", "list", "remove"} {
		if _, _, err := userCmd.Find([]string{name}); err != nil {
			t.Errorf("missing user subcommand %q: %v", name, err)
		}
	}
}
