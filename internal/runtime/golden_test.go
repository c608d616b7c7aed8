package runtime

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// fixture is one program with its expected output. Error names a runtime
// error kind; when set, Stdout is the output produced before the failure.
type fixture struct {
	Name         string `yaml:"name"`
	Source       string `yaml:"source"`
	Stdout       string `yaml:"stdout"`
	Error        string `yaml:"error"`
	ShortCircuit bool   `yaml:"short_circuit"`
}

type fixtureFile struct {
	Cases []fixture `yaml:"cases"`
}

func loadFixtures(t *testing.T, path string) []fixture {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var file fixtureFile
	if err := dec.Decode(&file); err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return file.Cases
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "testdata", "fixtures", "*.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixtures found")
	}

	for _, path := range paths {
		group := strings.TrimSuffix(filepath.Base(path), ".yml")
		for _, fx := range loadFixtures(t, path) {
			t.Run(group+"/"+fx.Name, func(t *testing.T) {
				runFixture(t, fx)
			})
		}
	}
}

func runFixture(t *testing.T, fx fixture) {
	out, err := runSource(fx.Source, WithShortCircuit(fx.ShortCircuit))

	if fx.Error == "" {
		if err != nil {
			t.Fatalf("runtime error: %v", err)
		}
	} else {
		kind, ok := ParseErrorKind(fx.Error)
		if !ok {
			t.Fatalf("unknown error kind %q", fx.Error)
		}
		var rerr *RuntimeError
		if !errors.As(err, &rerr) || rerr.Kind != kind {
			t.Fatalf("expected %s, got %v", kind, err)
		}
	}

	if out != fx.Stdout {
		expectedLines := strings.Split(fx.Stdout, "\n")
		gotLines := strings.Split(out, "\n")
		t.Errorf("output mismatch")
		for i := 0; i < max(len(expectedLines), len(gotLines)); i++ {
			exp, got := "<missing>", "<missing>"
			if i < len(expectedLines) {
				exp = expectedLines[i]
			}
			if i < len(gotLines) {
				got = gotLines[i]
			}
			prefix := "  "
			if exp != got {
				prefix = "! "
			}
			t.Logf("%sline %d: expected=%q got=%q", prefix, i+1, exp, got)
		}
	}
}
