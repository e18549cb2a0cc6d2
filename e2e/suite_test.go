package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var binaryPath string

func TestSchemaUI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SchemaUI E2E Suite")
}

var _ = BeforeSuite(func() {
	tmpDir, err := os.MkdirTemp("", "schemaui-build-*")
	Expect(err).NotTo(HaveOccurred())

	binaryPath = filepath.Join(tmpDir, "schemaui")

	// The module root is the parent of this directory.
	modRoot, err := filepath.Abs("..")
	Expect(err).NotTo(HaveOccurred())

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/schemaui")
	cmd.Dir = modRoot
	out, err := cmd.CombinedOutput()
	Expect(err).NotTo(HaveOccurred(), "build failed: %s", string(out))
})

var _ = AfterSuite(func() {
	if binaryPath != "" {
		os.RemoveAll(filepath.Dir(binaryPath))
	}
})
