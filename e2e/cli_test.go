package e2e_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const serviceSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "title": "Name"},
    "port": {"type": "integer", "default": 8080}
  }
}`

var _ = Describe("schemaui command", func() {
	var dir string

	BeforeEach(func() {
		dir = tempDir()
	})

	Describe("argument errors", func() {
		It("requires a schema or a config", func() {
			out, code := schemaui(dir, "--no-temp-file")
			Expect(code).To(Equal(2))
			Expect(out).To(ContainSubstring("provide at least --schema or --config"))
		})

		It("reports every input and output problem at once", func() {
			existing := writeFile(dir, "taken.json", "{}")
			out, code := schemaui(dir, "-s", "missing.json", "-o", existing, "-o", "out.txt")
			Expect(code).To(Equal(2))
			Expect(out).To(ContainSubstring("encountered input/output issues:"))
			Expect(out).To(ContainSubstring("1. input (schema): schema missing.json: no such file"))
			Expect(out).To(ContainSubstring("output: cannot infer format from output file out.txt"))
		})

		It("refuses to read schema and config from stdin together", func() {
			out, code := schemaui(dir, "-s", "-", "-c", "-")
			Expect(code).To(Equal(2))
			Expect(out).To(ContainSubstring("cannot read schema and config from stdin simultaneously"))
		})

		It("rejects invalid settings", func() {
			settings := writeFile(dir, "settings.yaml", "tick_rate: 0s\n")
			out, code := schemaui(dir, "--settings", settings, "-c", `{"a": 1}`, "--no-temp-file")
			Expect(code).To(Equal(2))
			Expect(out).To(ContainSubstring("tick_rate: must be positive"))
		})

		It("prints its version", func() {
			out, code := schemaui(dir, "--version")
			Expect(code).To(Equal(0))
			Expect(out).To(ContainSubstring("schemaui version"))
		})
	})

	Describe("interactive sessions", func() {
		It("saves the edited document to the output file", func() {
			schema := writeFile(dir, "service.schema.json", serviceSchema)
			dest := filepath.Join(dir, "service.json")

			s := startSession(dir, "-s", schema, "-o", dest)
			s.send("svc")
			s.send(ctrlS)
			s.send(ctrlQ)

			Expect(s.wait()).To(Equal(0))
			Expect(readFile(dest)).To(Equal("{\n  \"name\": \"svc\",\n  \"port\": 8080\n}\n"))
		})

		It("prefills the form from a config and writes YAML", func() {
			config := writeFile(dir, "service.yaml", "name: api\nport: 9000\n")

			s := startSession(dir, "-s", serviceSchema, "-c", config, "--temp-file", filepath.Join(dir, "out.yaml"))
			s.send(ctrlS)
			s.send(ctrlQ)

			Expect(s.wait()).To(Equal(0))
			Expect(readFile(filepath.Join(dir, "out.yaml"))).To(Equal("name: api\nport: 9000\n"))
		})

		It("exits non-zero when the user quits without saving", func() {
			dest := filepath.Join(dir, "never.json")
			s := startSession(dir, "-s", serviceSchema, "-o", dest)
			s.send("x")
			s.send(ctrlQ)
			s.send(ctrlQ)

			Expect(s.wait()).To(Equal(1))
			Expect(dest).NotTo(BeAnExistingFile())
		})
	})
})
