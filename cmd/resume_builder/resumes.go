package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "Manage saved resumes",
	Long:  "List, search, show, rename, duplicate, delete and import the resumes saved in the local data directory. A resume is referenced by id, title, or #n list position.",
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved resumes",
	Args:  cobra.NoArgs,
	RunE: withRepo(func(ctx context.Context, cmd *cobra.Command, repo *store.KVResumeRepository, _ []string) error {
		list, err := repo.List(ctx)
		if err != nil {
			return err
		}
		return printResumes(cmd.OutOrStdout(), list)
	}),
}

var resumesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search saved resumes by title (case-insensitive substring)",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(ctx context.Context, cmd *cobra.Command, repo *store.KVResumeRepository, args []string) error {
		list, err := repo.Search(ctx, args[0])
		if err != nil {
			return err
		}
		return printResumes(cmd.OutOrStdout(), list)
	}),
}

var resumesShowCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Print a saved resume as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(ctx context.Context, cmd *cobra.Command, repo *store.KVResumeRepository, args []string) error {
		rec, err := resolveResume(ctx, repo, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}),
}

var resumesDeleteCmd = &cobra.Command{
	Use:   "delete <ref>",
	Short: "Delete a saved resume",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(ctx context.Context, cmd *cobra.Command, repo *store.KVResumeRepository, args []string) error {
		if i, ok := parseIndexRef(args[0]); ok {
			if err := repo.DeleteAt(ctx, i); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}
		rec, err := resolveResume(ctx, repo, args[0])
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, rec.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%s)\n", rec.Title, rec.ID)
		return nil
	}),
}

var resumesRenameCmd = &cobra.Command{
	Use:   "rename <ref> <title>",
	Short: "Rename a saved resume",
	Args:  cobra.ExactArgs(2),
	RunE: withRepo(func(ctx context.Context, cmd *cobra.Command, repo *store.KVResumeRepository, args []string) error {
		rec, err := resolveResume(ctx, repo, args[0])
		if err != nil {
			return err
		}
		if err := repo.Rename(ctx, rec.ID, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", rec.Title, strings.TrimSpace(args[1]))
		return nil
	}),
}

var duplicateTitle string

var resumesDuplicateCmd = &cobra.Command{
	Use:   "duplicate <ref>",
	Short: "Copy a saved resume under a new title",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(ctx context.Context, cmd *cobra.Command, repo *store.KVResumeRepository, args []string) error {
		rec, err := resolveResume(ctx, repo, args[0])
		if err != nil {
			return err
		}
		dup, err := repo.Duplicate(ctx, rec.ID, duplicateTitle)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s)\n", dup.Title, dup.ID)
		return nil
	}),
}

var importDryRun bool

var resumesImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a draft or a saved-resume list exported from the browser",
	Long:  "Import a single draft JSON object, or an array of saved resume records, after validating it against the embedded JSON schemas.",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(ctx context.Context, cmd *cobra.Command, repo *store.KVResumeRepository, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		drafts, err := parseImport(data)
		if err != nil {
			return err
		}
		if importDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d resume(s))\n", args[0], len(drafts))
			return nil
		}
		for _, d := range drafts {
			rec, err := repo.Create(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q (%s)\n", rec.Title, rec.ID)
		}
		return nil
	}),
}

func init() {
	resumesDuplicateCmd.Flags().StringVar(&duplicateTitle, "title", "", "Title for the copy (default \"<title> (copy)\")")
	resumesImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate without importing")

	resumesCmd.AddCommand(resumesListCmd, resumesSearchCmd, resumesShowCmd, resumesDeleteCmd,
		resumesRenameCmd, resumesDuplicateCmd, resumesImportCmd)
	rootCmd.AddCommand(resumesCmd)
}

type repoFunc func(ctx context.Context, cmd *cobra.Command, repo *store.KVResumeRepository, args []string) error

// withRepo opens the repository under --data-dir for a subcommand.
func withRepo(fn repoFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore(dataDir)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), cmd, repo, args)
	}
}

// parseImport validates and decodes either one draft or a saved-resume array.
func parseImport(data []byte) ([]types.Draft, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := schemas.ValidateSavedResumes(data); err != nil {
			return nil, err
		}
		var list []types.SavedResume
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to decode resumes: %w", err)
		}
		drafts := make([]types.Draft, 0, len(list))
		for _, rec := range list {
			d := rec.Content
			if strings.TrimSpace(rec.Title) != "" {
				d.Title = rec.Title
			}
			drafts = append(drafts, d)
		}
		return drafts, nil
	}

	if err := schemas.ValidateDraft(data); err != nil {
		return nil, err
	}
	var d types.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return []types.Draft{d}, nil
}

func printResumes(out io.Writer, list []types.SavedResume) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "No saved resumes.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tID\tCREATED")
	for i, rec := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, rec.Title, rec.ID, rec.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}
