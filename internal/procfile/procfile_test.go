package procfile

import "testing"

func TestParse_Basic(t *testing.T) {
	content := []byte("deploy: echo hi\ntest: exit 3\n")

	p := Parse(content)
	if p.Len() != 2 {
		t.Fatalf("expected 2 commands, got %d", p.Len())
	}

	if cmd, ok := p.Lookup("deploy"); !ok || cmd != "echo hi" {
		t.Errorf("expected deploy -> `echo hi`, got %q (ok=%v)", cmd, ok)
	}
	if cmd, ok := p.Lookup("test"); !ok || cmd != "exit 3" {
		t.Errorf("expected test -> `exit 3`, got %q (ok=%v)", cmd, ok)
	}
}

func TestParse_CommentsAndBlanks(t *testing.T) {
	content := []byte("# build commands\n\ndeploy: make deploy\n\n  # indented comment\nrun: ./run.sh\n")

	p := Parse(content)
	if p.Len() != 2 {
		t.Errorf("expected 2 commands, got %d", p.Len())
	}
	if len(p.Skipped) != 0 {
		t.Errorf("comments and blanks must not count as skipped, got %v", p.Skipped)
	}
}

func TestParse_MalformedLinesSkipped(t *testing.T) {
	content := []byte("deploy: echo hi\nэто не запись\n:no name\nrun: ./run.sh\n")

	p := Parse(content)
	if p.Len() != 2 {
		t.Errorf("expected 2 commands, got %d", p.Len())
	}

	// Строки 2 и 3 не подходят под формат
	if len(p.Skipped) != 2 || p.Skipped[0] != 2 || p.Skipped[1] != 3 {
		t.Errorf("expected skipped lines [2 3], got %v", p.Skipped)
	}
}

func TestParse_InvocationKeepsColonsAndPlaceholders(t *testing.T) {
	content := []byte("web: gunicorn app:wsgi --bind 0.0.0.0:%(PORT)d\n")

	p := Parse(content)
	cmd, ok := p.Lookup("web")
	if !ok {
		t.Fatal("expected web command")
	}
	// Плейсхолдеры проходят насквозь, двоеточия внутри invocation не ломают разбор
	if cmd != "gunicorn app:wsgi --bind 0.0.0.0:%(PORT)d" {
		t.Errorf("invocation mangled: %q", cmd)
	}
}

func TestParse_DuplicateLastWins(t *testing.T) {
	content := []byte("deploy: echo first\ndeploy: echo second\n")

	p := Parse(content)
	if cmd, _ := p.Lookup("deploy"); cmd != "echo second" {
		t.Errorf("expected last entry to win, got %q", cmd)
	}
}

func TestParse_Empty(t *testing.T) {
	p := Parse(nil)
	if p.Len() != 0 {
		t.Errorf("expected empty procfile, got %d commands", p.Len())
	}
	if _, ok := p.Lookup("deploy"); ok {
		t.Error("lookup on empty procfile should miss")
	}
}

func TestCommands_ReturnsCopy(t *testing.T) {
	p := Parse([]byte("deploy: echo hi\n"))

	m := p.Commands()
	m["deploy"] = "rm -rf /"

	if cmd, _ := p.Lookup("deploy"); cmd != "echo hi" {
		t.Error("Commands() must return a copy, not the internal map")
	}
}
