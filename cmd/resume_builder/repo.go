package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

func defaultDataDir() string {
	if dir := os.Getenv("RESUME_BUILDER_HOME"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "resume-builder")
	}
	return ".resume-builder"
}

// openStore opens the file-backed store under dir.
func openStore(dir string) (store.KeyValue, *store.KVResumeRepository, error) {
	kv, err := store.NewFileKV(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data dir %s: %w", dir, err)
	}
	return kv, store.NewResumeRepository(kv), nil
}

// parseIndexRef parses "#n" (1-based, as printed by `resumes list`) into a
// 0-based list index.
func parseIndexRef(ref string) (int, bool) {
	if !strings.HasPrefix(ref, "#") {
		return 0, false
	}
	n, err := strconv.Atoi(ref[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// resolveResume finds a saved resume by "#n" position, id, or title.
func resolveResume(ctx context.Context, repo store.ResumeRepository, ref string) (*types.SavedResume, error) {
	ref = strings.TrimSpace(ref)
	if i, ok := parseIndexRef(ref); ok {
		list, err := repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if i >= len(list) {
			return nil, &store.NotFoundError{By: "index", Value: ref}
		}
		return &list[i], nil
	}

	rec, err := repo.Get(ctx, ref)
	if err == nil {
		return rec, nil
	}
	var nf *store.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}
	return repo.FindByTitle(ctx, ref)
}
