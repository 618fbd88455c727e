package build

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"dawnlang/dawn/dawnerr"
	"dawnlang/dawn/internal/fetch"
	"dawnlang/dawn/internal/transpiler"
	"dawnlang/dawn/internal/transpiler/analyzer"
	"dawnlang/dawn/internal/transpiler/generator"
	"dawnlang/dawn/internal/transpiler/module"
	"dawnlang/dawn/internal/transpiler/transformer"
)

// Builder orchestrates the build process for DawnLang programs.
type Builder struct {
	config *Config
	logger *slog.Logger
}

// NewBuilder creates a new builder. A nil config uses DefaultConfig.
func NewBuilder(config *Config, logger *slog.Logger) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{config: config, logger: logger}
}

// Config returns the builder's config.
func (b *Builder) Config() *Config {
	return b.config
}

// Transpile converts the DawnLang program at input into C source.
func (b *Builder) Transpile(input string) (string, error) {
	fetcher := fetch.NewGitFetcher(fetch.NewCache(&fetch.Config{CacheDir: b.config.CacheDir}), b.logger)
	t := transpiler.NewDawnToCTranspiler(
		module.NewResolver(fetcher, b.logger),
		analyzer.NewDawnAnalyzer(),
		transformer.NewDawnTransformer(),
		generator.NewCCodeGenerator(),
		b.logger,
	)
	return t.Transpile(input)
}

// Build compiles the DawnLang program at input into the executable output.
// On failure the intermediate file and any output are removed.
func (b *Builder) Build(input, output string) (err error) {
	code, err := b.Transpile(input)
	if err != nil {
		var notFound *dawnerr.SourceNotFoundError
		if !errors.As(err, &notFound) {
			removeIfExists(output)
		}
		return err
	}

	if err := b.config.EnsureDirs(); err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseWriteC, fmt.Errorf("creating directories: %w", err))
	}
	w, err := NewWorkspace(b.config, input, output)
	if err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseWriteC, err)
	}
	b.logger.Debug("using workspace", "dir", w.Dir)

	defer func() {
		if err == nil {
			return
		}
		if cerr := b.discard(w); cerr != nil {
			b.logger.Warn("cleanup after failed build", "err", cerr)
		}
	}()

	if err := w.Ensure(); err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseWriteC, err)
	}
	if err := w.WriteSource(code); err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseWriteC, fmt.Errorf("writing %s: %w", w.SourcePath, err))
	}

	if err := removeIfExists(w.Output); err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhasePrepare, fmt.Errorf("removing previous output: %w", err))
	}

	if err := b.compile(w); err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseCompile, err)
	}
	if err := b.waitForArtifact(w); err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseCompile, err)
	}
	if err := moveFile(w.ArtifactPath(), w.Output); err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseCompile, fmt.Errorf("moving artifact: %w", err))
	}
	b.logger.Debug("built executable", "output", w.Output)

	if err := w.RemoveSource(); err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseCleanup, err)
	}
	if err := w.Clean(); err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseCleanup, err)
	}
	return nil
}

// discard removes everything a failed build may have left behind.
func (b *Builder) discard(w *Workspace) error {
	errs := &dawnerr.MultiError{}
	if err := removeIfExists(w.SourcePath); err != nil {
		errs.Errors = append(errs.Errors, err)
	}
	if err := w.Clean(); err != nil {
		errs.Errors = append(errs.Errors, err)
	}
	if err := removeIfExists(w.Output); err != nil {
		errs.Errors = append(errs.Errors, err)
	}
	return errs.ErrorOrNil()
}

// compile runs the C compiler inside the workspace and waits for it to exit.
func (b *Builder) compile(w *Workspace) error {
	args := append([]string{IntermediateName}, b.config.CFlags...)

	cmd := exec.Command(b.config.CC, args...)
	cmd.Dir = w.Dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	b.logger.Debug("running compiler", "cc", b.config.CC, "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w\n%s", b.config.CC, err, msg)
		}
		return fmt.Errorf("%s: %w", b.config.CC, err)
	}
	return nil
}

// waitForArtifact looks for the compiler's default output with exponential backoff.
func (b *Builder) waitForArtifact(w *Workspace) error {
	delay := b.config.ArtifactWaitBase
	for attempt := 1; ; attempt++ {
		if info, err := os.Stat(w.ArtifactPath()); err == nil && !info.IsDir() {
			return nil
		}
		if attempt >= b.config.ArtifactWaitAttempts {
			return fmt.Errorf("compiler did not produce %s", w.Config.ArtifactName)
		}
		b.logger.Debug("waiting for artifact", "attempt", attempt, "delay", delay)
		time.Sleep(delay)
		delay *= 2
	}
}

// moveFile renames src to dst, copying when a rename is not possible.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
