//go:build ignore

// build.go - sheetsight build system
// Usage: go run build.go [-target=TARGET]
// Targets: all, web, cli, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "sheetsight"

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	GOOS    string
	GOARCH  string
	OutDir  string
}

var (
	// Executable names (key = source dir name, value = output name)
	executables = map[string]string{
		"web":        "sheetsight-web",
		"sheetsight": "sheetsight",
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	goos := flag.String("os", runtime.GOOS, "Target operating system")
	goarch := flag.String("arch", runtime.GOARCH, "Target architecture")
	out := flag.String("out", "dist", "Output directory")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	ctx := &BuildContext{
		Verbose: *verbose,
		GOOS:    *goos,
		GOARCH:  *goarch,
		OutDir:  *out,
	}

	var err error
	switch *target {
	case "all":
		err = buildAll(ctx)
	case "web":
		err = buildExecutable("web", ctx)
	case "cli":
		err = buildExecutable("sheetsight", ctx)
	case "test":
		err = runTests(ctx.Verbose)
	case "clean":
		err = clean(ctx)
	case "release":
		err = buildRelease(ctx)
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "        sheetsight - Build System          " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

func buildAll(ctx *BuildContext) error {
	printInfo("Building all components...")

	if err := os.MkdirAll(ctx.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", ctx.OutDir, err)
	}
	for name := range executables {
		if err := buildExecutable(name, ctx); err != nil {
			return err
		}
	}
	if err := copyConfigFiles(ctx); err != nil {
		printWarning(fmt.Sprintf("Config files not copied: %v", err))
	}

	printSuccess("All components built successfully!")
	return nil
}

// ldflags stamps the version variables of pkg/contracts
func ldflags() string {
	return fmt.Sprintf("-s -w -X %s/pkg/contracts.BuildTime=%s -X %s/pkg/contracts.GitCommit=%s",
		module, time.Now().UTC().Format(time.RFC3339), module, gitCommit())
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func buildExecutable(name string, ctx *BuildContext) error {
	exeName, ok := executables[name]
	if !ok {
		return fmt.Errorf("unknown executable: %s", name)
	}
	if ctx.GOOS == "windows" {
		exeName += ".exe"
	}

	printInfo(fmt.Sprintf("Building %s for %s/%s...", name, ctx.GOOS, ctx.GOARCH))

	args := []string{"build"}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args,
		"-trimpath",
		"-ldflags", ldflags(),
		"-o", filepath.Join(ctx.OutDir, exeName),
		"./cmd/"+name,
	)

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "GOOS="+ctx.GOOS, "GOARCH="+ctx.GOARCH, "CGO_ENABLED=0")
	cmd.Stderr = os.Stderr
	if ctx.Verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}
	printSuccess(fmt.Sprintf("Built %s", exeName))
	return nil
}

// copyConfigFiles copies the example configuration next to the binaries
func copyConfigFiles(ctx *BuildContext) error {
	for _, name := range []string{"config.example.yaml", ".env.example"} {
		data, err := os.ReadFile(name)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(ctx.OutDir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func runTests(verbose bool) error {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	printSuccess("All tests passed")
	return nil
}

func clean(ctx *BuildContext) error {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(ctx.OutDir); err != nil {
		return fmt.Errorf("failed to clean %s: %w", ctx.OutDir, err)
	}
	printSuccess("Build artifacts cleaned")
	return nil
}

// buildRelease builds every executable for the supported platforms into
// per-platform directories
func buildRelease(ctx *BuildContext) error {
	platforms := [][2]string{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
	}
	for _, p := range platforms {
		rc := *ctx
		rc.GOOS, rc.GOARCH = p[0], p[1]
		rc.OutDir = filepath.Join(ctx.OutDir, "release", p[0]+"-"+p[1])
		if err := buildAll(&rc); err != nil {
			return err
		}
	}
	return nil
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v] [-os=GOOS] [-arch=GOARCH] [-out=DIR]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all      Build the web server and the CLI (default)")
	fmt.Println("  web      Build the web server only")
	fmt.Println("  cli      Build the sheetsight CLI only")
	fmt.Println("  test     Run all Go tests with the race detector")
	fmt.Println("  clean    Remove build artifacts")
	fmt.Println("  release  Build every executable for all release platforms")
}
