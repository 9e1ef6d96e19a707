package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/haloblur/internal/image"
)

// writeInput saves a small test image and returns its path.
func writeInput(t *testing.T, dir string) string {
	t.Helper()
	img, err := image.NewImageBuf(24, 18, image.FormatRGB8)
	if err != nil {
		t.Fatalf("NewImageBuf error = %v", err)
	}
	for y := range 18 {
		for x := range 24 {
			_ = img.SetRGBA(x, y, uint8(x*10), uint8(y*13), uint8((x^y)*7), 255)
		}
	}
	path := filepath.Join(dir, "in.png")
	if err := img.SavePNG(path); err != nil {
		t.Fatalf("SavePNG error = %v", err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Flags(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	stdout, err := execute(t, "",
		"-i", in, "-k", "gaussian", "-r", "2", "-w", "3",
		"-o", out,
		"--chunks-dir", filepath.Join(dir, "chunks"),
		"--report-dir", filepath.Join(dir, "report"),
		"--repeat", "2")
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, stdout)
	}

	for _, want := range []string{"gaussian(r=2)", "Workers            3", "Runs               2", "Matches serial     yes"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}

	for _, name := range []string{
		out,
		filepath.Join(dir, "serial_blurred.png"),
		filepath.Join(dir, "chunks", "chunk_rank0.png"),
		filepath.Join(dir, "chunks", "chunk_rank2.png"),
		filepath.Join(dir, "report", "original_vs_blurred.png"),
		filepath.Join(dir, "report", "timing_graph.png"),
	} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	got, err := image.LoadImage(out)
	if err != nil {
		t.Fatalf("LoadImage(out) error = %v", err)
	}
	want, err := image.LoadImage(filepath.Join(dir, "serial_blurred.png"))
	if err != nil {
		t.Fatalf("LoadImage(serial) error = %v", err)
	}
	if !got.Equal(want) {
		t.Error("parallel output differs from serial output")
	}
}

func TestRootCommand_Prompts(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)

	stdout, err := execute(t, "blur\nBOX\nzero\n0\n1\n",
		"-i", in, "-o", filepath.Join(dir, "out.png"),
		"--no-chunks", "--serial=false", "--report-dir", "")
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, stdout)
	}

	for _, want := range []string{"Invalid blur type", "Enter a valid integer.", "Radius must be positive.", "box(r=1)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Matches serial") {
		t.Error("baseline reported with --serial=false")
	}
	if _, err := os.Stat(filepath.Join(dir, "chunks")); !os.IsNotExist(err) {
		t.Errorf("chunks written despite --no-chunks: %v", err)
	}
}

func TestRootCommand_PromptsOnlyForMissing(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	common := []string{"-i", in, "-o", filepath.Join(dir, "out.png"),
		"--no-chunks", "--serial=false", "--report-dir", ""}

	stdout, err := execute(t, "2\n", append(common, "-k", "median")...)
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, stdout)
	}
	if strings.Contains(stdout, "Enter blur type") || !strings.Contains(stdout, "median(r=2)") {
		t.Errorf("kind set by flag, want only a radius prompt:\n%s", stdout)
	}

	stdout, err = execute(t, "gaussian\n", append(common, "-r", "3")...)
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, stdout)
	}
	if strings.Contains(stdout, "Enter blur radius") || !strings.Contains(stdout, "gaussian(r=3)") {
		t.Errorf("radius set by flag, want only a kind prompt:\n%s", stdout)
	}
}

func TestRootCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad kind", []string{"-i", in, "-k", "sharpen", "-r", "1"}, "unknown kind"},
		{"bad radius", []string{"-i", in, "-k", "box", "-r", "-1"}, "radius"},
		{"bad workers", []string{"-i", in, "-k", "box", "-r", "1", "-w", "0", "--no-chunks"}, "workers"},
		{"bad repeat", []string{"-i", in, "-k", "box", "-r", "1", "--repeat", "0"}, "--repeat"},
		{"bad log level", []string{"--log-level", "loud"}, "log-level"},
		{"missing file", []string{"-i", filepath.Join(dir, "nope.png"), "-k", "box", "-r", "1"}, "open file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			if err == nil {
				t.Fatalf("Execute() succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q\n%s", err, tt.want, out)
			}
		})
	}
}

func TestPlanCommand(t *testing.T) {
	out, err := execute(t, "", "plan", "--height", "100", "-w", "4", "-r", "2")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{
		"height 100, 4 workers, radius 2, halo 4, chunk 25",
		"rank 0 own [0,25) padded [0,29)  trim 0/4",
		"rank 1 own [25,50) padded [21,54)  trim 4/4",
		"rank 3 own [75,100) padded [71,100)  trim 4/0",
		"rows filtered 124 for 100 owned",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlanCommand_FromImage(t *testing.T) {
	in := writeInput(t, t.TempDir())
	out, err := execute(t, "", "plan", "-i", in, "-w", "2", "-r", "1")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "height 18, 2 workers") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestPlanCommand_NeedsHeight(t *testing.T) {
	if _, err := execute(t, "", "plan"); err == nil {
		t.Error("plan without --height or --input should fail")
	}
}
