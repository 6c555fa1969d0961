package runtime

import (
	"strconv"
	"testing"
)

func TestRunExitCodePassthrough(t *testing.T) {
	sh, err := Resolve("sh")
	if err != nil {
		t.Skip("sh not on PATH")
	}

	for _, want := range []int{0, 1, 2, 7} {
		code, err := Run(sh, []string{"-c", "exit " + strconv.Itoa(want)})
		if err != nil {
			t.Fatalf("exit %d: unexpected error %v", want, err)
		}
		if code != want {
			t.Errorf("exit %d: got code %d", want, code)
		}
	}
}

func TestRunExitCodeOnSignal(t *testing.T) {
	sh, err := Resolve("sh")
	if err != nil {
		t.Skip("sh not on PATH")
	}
	// SIGKILL (9) a subshell that kills itself -> expect 128+9 = 137.
	code, err := Run(sh, []string{"-c", "kill -9 $$"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 137 {
		t.Errorf("got code %d, want 137", code)
	}
}
