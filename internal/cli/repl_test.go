package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls     []string
	notifyArg bool
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Activities(ctx context.Context) error {
	f.calls = append(f.calls, "activities")
	return nil
}
func (f *fakeExec) ClearActivities(ctx context.Context) error {
	f.calls = append(f.calls, "clear")
	return nil
}
func (f *fakeExec) Profile(ctx context.Context) error {
	f.calls = append(f.calls, "profile")
	return nil
}
func (f *fakeExec) SetProfileField(ctx context.Context) error {
	f.calls = append(f.calls, "set")
	return nil
}
func (f *fakeExec) ResetPassword(ctx context.Context) error {
	f.calls = append(f.calls, "resetpw")
	return nil
}
func (f *fakeExec) DeleteAccount(ctx context.Context) error {
	f.calls = append(f.calls, "delete")
	return nil
}
func (f *fakeExec) Language(ctx context.Context) error {
	f.calls = append(f.calls, "language")
	return nil
}
func (f *fakeExec) Notifications(ctx context.Context, enabled bool) error {
	f.calls = append(f.calls, "notify")
	f.notifyArg = enabled
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"activities",
		"profile",
		"notify off",
		"notify maybe",
		"foobar",
		"logout",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{"login", "activities", "profile", "notify", "logout"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(want) && c == want[idx] {
			idx++
		}
	}
	if idx != len(want) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, want)
	}
	if exec.notifyArg {
		t.Fatalf("notify off should disable notifications")
	}
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	sc := bufio.NewScanner(strings.NewReader("activities\n"))
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 1 || exec.calls[0] != "activities" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
