package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"movecheck/internal/diag"
	"movecheck/internal/source"
	"movecheck/internal/trace"
)

// SourceExt is the extension of checked files.
const SourceExt = ".move"

// ErrNoSources is returned when the given paths contain no source files.
var ErrNoSources = errors.New("no .move files found")

// ListSourceFiles expands files and directories into a sorted list of
// .move files. Explicit file arguments are kept whatever their extension.
func ListSourceFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
				add(filepath.Clean(path))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, ErrNoSources
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// Progress is told about every finished file.
type Progress func(done, total int, res *FileResult)

// DiagnosePaths checks every source file under paths. Files are loaded up
// front, then checked in parallel by at most jobs workers; results keep the
// sorted file order. A file that cannot be read yields an E10001 diagnostic
// instead of an error.
func DiagnosePaths(ctx context.Context, paths []string, opts DiagnoseOptions, jobs int, progress Progress) (*source.FileSet, []FileResult, error) {
	files, err := ListSourceFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	baseDir := ""
	if len(paths) == 1 {
		if info, statErr := os.Stat(paths[0]); statErr == nil && info.IsDir() {
			baseDir = paths[0]
		}
	}
	fileSet := source.NewFileSetWithBase(baseDir)

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "diagnose", trace.CurrentSpan(ctx).SpanID).
		WithExtra("files", strconv.Itoa(len(files)))
	defer span.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	// FileSet не потокобезопасен на запись: всё грузим до запуска воркеров
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			id = fileSet.AddVirtual(path, nil)
			loadErrors[i] = loadErr
		}
		fileIDs[i] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FileResult, len(files))
	var finished atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileIDs[i]}, loadErr.Error()))
				results[i] = FileResult{Path: files[i], FileID: fileIDs[i], Bag: bag}
			} else {
				res, err := diagnoseFile(gctx, fileSet, fileIDs[i], &opts)
				results[i] = res
				if err != nil {
					return err
				}
			}
			if progress != nil {
				progress(int(finished.Add(1)), len(files), &results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// MergeBags collects the diagnostics of all results into one sorted bag.
func MergeBags(results []FileResult) *diag.Bag {
	out := diag.NewBag(0)
	for i := range results {
		out.Merge(results[i].Bag)
	}
	out.Sort()
	return out
}

// HasErrors reports whether any result holds an error diagnostic.
func HasErrors(results []FileResult) bool {
	for i := range results {
		if results[i].Bag != nil && results[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}
