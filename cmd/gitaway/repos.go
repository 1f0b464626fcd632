package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"git-away/internal/view"
)

type reposOptions struct {
	pages       int
	perPage     int
	groupSize   int
	maxAttempts int
	timeout     time.Duration
	noCommits   bool
}

func newReposCmd(opts *options) *cobra.Command {
	ro := &reposOptions{}
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List GitHub repositories with their last commit",
		Long: `List your GitHub repositories, most recently updated first.

Pages are requested one at a time. Last commits are fetched in groups;
a repository whose commit cannot be fetched is still listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}

			list := view.NewRepositoryList(ro.maxAttempts)
			var enricher *view.Enricher
			if !ro.noCommits {
				enricher = view.NewEnricher(c,
					view.WithGroupSize(ro.groupSize),
					view.WithFetchTimeout(ro.timeout),
				)
			}
			pager := view.NewPager(c, list, enricher, ro.perPage)

			if err := pager.Load(cmd.Context(), ro.pages); err != nil {
				return fmt.Errorf("failed to list repositories: %w", err)
			}

			items := list.Snapshot()
			if opts.outputJSON {
				repos := make([]any, len(items))
				for i := range items {
					repos[i] = items[i].Repository
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"repos": repos, "hasMore": pager.HasMore()})
			}
			renderRepos(cmd.OutOrStdout(), items, pager.HasMore())
			return nil
		},
	}

	cmd.Flags().IntVar(&ro.pages, "pages", 1, "number of pages to load")
	cmd.Flags().IntVar(&ro.perPage, "per-page", 30, "repositories per page (max 100)")
	cmd.Flags().IntVar(&ro.groupSize, "group-size", view.DefaultGroupSize, "concurrent last-commit fetches")
	cmd.Flags().IntVar(&ro.maxAttempts, "max-attempts", 3, "failed runs before a repository is given up")
	cmd.Flags().DurationVar(&ro.timeout, "fetch-timeout", view.DefaultFetchTimeout, "timeout of one last-commit fetch")
	cmd.Flags().BoolVar(&ro.noCommits, "no-commits", false, "skip last-commit enrichment")
	return cmd
}

func renderRepos(w io.Writer, items []view.Item, hasMore bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Repository", "Visibility", "Branch", "Last Commit", "Author", "Date"})
	table.SetAutoWrapText(false)

	for _, item := range items {
		r := item.Repository
		visibility := "public"
		if r.Private {
			visibility = "private"
		}

		message, author, date := "-", "", ""
		switch {
		case r.LastCommit != nil:
			message = truncate(r.LastCommit.Message, 60)
			author = r.LastCommit.Author
			date = r.LastCommit.Date.Format("2006-01-02")
		case item.Status == view.Failed:
			message = "(unavailable)"
		}

		table.Append([]string{r.FullName, visibility, r.Branch(), message, author, date})
	}
	table.Render()

	if hasMore {
		fmt.Fprintln(w, "More repositories available, use --pages to load more.")
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
