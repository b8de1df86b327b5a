package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"rustic/internal/driver"
	"rustic/internal/project"
	"rustic/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] file.rs",
	Short: "Compile a source file to LLVM IR text",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output path (default: input name with .ll)")
	buildCmd.Flags().Bool("emit-mir", false, "print the MIR dump instead of writing output")
	buildCmd.Flags().Bool("timings", false, "print per-stage timings")
	buildCmd.Flags().Int("jobs", 0, "emission parallelism (0 = all cores)")
	buildCmd.Flags().String("ui", "plain", "progress style (plain|fancy)")
	buildCmd.Flags().Bool("watch", false, "recompile whenever the input changes")
	buildCmd.Flags().Bool("no-cache", false, "bypass the disk cache")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	inputPath := args[0]

	emitMIR, _ := cmd.Flags().GetBool("emit-mir")
	timings, _ := cmd.Flags().GetBool("timings")
	jobs, _ := cmd.Flags().GetInt("jobs")
	uiMode, _ := cmd.Flags().GetString("ui")
	watch, _ := cmd.Flags().GetBool("watch")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = defaultOutputPath(inputPath)
	}

	var cache *driver.DiskCache
	if !noCache && !emitMIR {
		var err error
		cache, err = driver.OpenDiskCache("rustic")
		if err != nil {
			// A broken cache directory must not block the build.
			cache = nil
		}
	}

	opts := driver.Options{
		Path:    inputPath,
		MaxDiag: maxDiagnostics(cmd),
		Jobs:    jobs,
		EmitMIR: emitMIR,
		Cache:   cache,
	}

	if watch {
		return watchAndBuild(cmd, opts, outPath, timings, uiMode)
	}
	if code := buildOnce(cmd, opts, outPath, timings, uiMode); code != 0 {
		return failWith(cmd, code)
	}
	return nil
}

// buildOnce runs one compilation and returns the exit code.
func buildOnce(cmd *cobra.Command, opts driver.Options, outPath string, timings bool, uiMode string) int {
	var res *driver.Result
	var err error
	if uiMode == "fancy" && isTerminal(os.Stderr) {
		res, err = compileWithUI(opts)
	} else {
		res, err = driver.Compile(context.Background(), opts)
	}

	if code := printDiagnostics(cmd, res.Bag, res.FileSet); code != 0 {
		return code
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if timings {
		fmt.Fprint(os.Stderr, res.Timings.Summary())
	}
	if opts.EmitMIR {
		fmt.Print(res.MIR)
		return 0
	}
	if err := driver.WriteModule(outPath, res.Module); err != nil {
		fmt.Fprintf(os.Stderr, "error: write %s: %v\n", outPath, err)
		return 1
	}
	return 0
}

// compileWithUI drives the Bubble Tea progress model while the pipeline
// runs on its own goroutine.
func compileWithUI(opts driver.Options) (*driver.Result, error) {
	events := make(chan ui.Event, len(driver.Stages)+1)
	opts.Progress = func(stage string) {
		events <- ui.Event{Stage: stage}
	}

	type outcome struct {
		res *driver.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := driver.Compile(context.Background(), opts)
		if err != nil {
			events <- ui.Event{Err: true}
		}
		close(events)
		done <- outcome{res, err}
	}()

	model := ui.NewProgressModel(opts.Path, driver.Stages, events)
	prog := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	if _, err := prog.Run(); err != nil {
		// A broken terminal should not lose the compile outcome.
		fmt.Fprintf(os.Stderr, "ui error: %v\n", err)
	}
	out := <-done
	return out.res, out.err
}

// watchAndBuild recompiles on every change of the input file until
// interrupted.
func watchAndBuild(cmd *cobra.Command, opts driver.Options, outPath string, timings bool, uiMode string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file, which drops a
	// watch registered on the file itself.
	dir := filepath.Dir(opts.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(opts.Path)

	buildOnce(cmd, opts, outPath, timings, uiMode)
	fmt.Fprintf(os.Stderr, "watching %s\n", target)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			fmt.Fprintf(os.Stderr, "rebuilding %s\n", target)
			buildOnce(cmd, opts, outPath, timings, uiMode)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", werr)
		}
	}
}

// defaultOutputPath derives the output name from the manifest when one is
// in scope, otherwise from the input name.
func defaultOutputPath(inputPath string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ".ll"
	root, ok, err := project.FindProjectRoot(filepath.Dir(inputPath))
	if err != nil || !ok {
		return filepath.Join(filepath.Dir(inputPath), base)
	}
	manifest, err := project.LoadManifest(filepath.Join(root, project.ManifestName))
	if err != nil || manifest.Build.OutDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}
	outDir := manifest.Build.OutDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return filepath.Join(filepath.Dir(inputPath), base)
	}
	return filepath.Join(outDir, base)
}
