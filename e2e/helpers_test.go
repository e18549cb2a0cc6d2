package e2e_test

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/creack/pty"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
)

// env isolates the binary from the user's settings file.
func env(dir string) []string {
	return append(os.Environ(),
		"TERM=xterm-256color",
		"SCHEMAUI_SETTINGS=",
		"XDG_CONFIG_HOME="+dir,
		"HOME="+dir,
	)
}

func tempDir() string {
	dir, err := os.MkdirTemp("", "schemaui-test-*")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(func() { os.RemoveAll(dir) })
	return dir
}

func writeFile(dir, name, content string) string {
	p := filepath.Join(dir, name)
	err := os.WriteFile(p, []byte(content), 0o644)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return p
}

func readFile(path string) string {
	data, err := os.ReadFile(path)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return string(data)
}

// schemaui runs the binary without a terminal and returns its combined
// output and exit code.
func schemaui(dir string, args ...string) (string, int) {
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	cmd.Env = env(dir)
	out, err := cmd.CombinedOutput()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
	}
	return strings.TrimSpace(string(out)), code
}

// session is the binary running inside a pseudo terminal.
type session struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	screen *gbytes.Buffer
	done   chan error
}

func startSession(dir string, args ...string) *session {
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	cmd.Env = env(dir)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 100})
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	s := &session{cmd: cmd, ptmx: ptmx, screen: gbytes.NewBuffer(), done: make(chan error, 1)}
	// EIO is normal once the process exits and the slave side closes.
	go func() { _, _ = io.Copy(s.screen, ptmx) }()
	go func() { s.done <- cmd.Wait() }()
	DeferCleanup(func() {
		_ = cmd.Process.Kill()
		_ = ptmx.Close()
	})

	EventuallyWithOffset(1, s.screen, 5*time.Second).Should(gbytes.Say("Ready"))
	return s
}

func (s *session) send(keys string) {
	_, err := s.ptmx.Write([]byte(keys))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	// tcell splits escape sequences on a timer; give each burst its own read.
	time.Sleep(100 * time.Millisecond)
}

// wait returns the exit code of the session.
func (s *session) wait() int {
	var err error
	EventuallyWithOffset(1, s.done, 5*time.Second).Should(Receive(&err))
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return 0
}

const (
	ctrlS = "\x13"
	ctrlQ = "\x11"
)
