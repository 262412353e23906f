package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/cambio/config"
)

func TestExtensionMechanism(t *testing.T) {
	tempDir := t.TempDir()

	helloSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Printf("%[1]s=%%s\n", os.Getenv("%[1]s"))
	fmt.Printf("%[2]s=%%s\n", os.Getenv("%[2]s"))
	fmt.Printf("args=%%v\n", os.Args[1:])
}
`, config.EnvMovements, config.EnvLogLevel)

	helloPath := filepath.Join(tempDir, ExtensionPrefix+"hello")
	srcFile := helloPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloSource), 0644); err != nil {
		t.Fatalf("Failed to write extension source: %v", err)
	}
	build := exec.Command("go", "build", "-o", helloPath, srcFile)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile extension: %v", err)
	}

	cbxPath := filepath.Join(tempDir, "cbx")
	build = exec.Command("go", "build", "-o", cbxPath, "../cbx")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile cbx: %v", err)
	}

	movements := filepath.Join(tempDir, "movements.jsonl")
	cbx := exec.Command(cbxPath,
		"-config", filepath.Join(tempDir, "missing.toml"),
		"-movements", movements,
		"-log-level", "debug",
		"hello", "world",
	)
	cbx.Env = []string{"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH")}

	var stdout, stderr bytes.Buffer
	cbx.Stdout = &stdout
	cbx.Stderr = &stderr
	if err := cbx.Run(); err != nil {
		t.Fatalf("cbx command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	output := stdout.String()
	for _, want := range []string{
		config.EnvMovements + "=" + movements,
		config.EnvLogLevel + "=debug",
		"args=[world]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, but got:\n%s", want, output)
		}
	}
}
