// Command snoo is a small CLI for poking at the Reddit API: identity checks,
// subreddit listings and search, driven by a YAML config file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kgale/snoo"
	"github.com/kgale/snoo/pkg/types"
)

var (
	configPath string
	verbose    bool
	client     *snoo.Client
	config     *fileConfig
)

func main() {
	root := &cobra.Command{
		Use:          "snoo",
		Short:        "Query the Reddit API from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = loadConfig(configPath)
			if err != nil {
				return err
			}

			var logger *slog.Logger
			if verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}

			client, err = snoo.NewClient(&snoo.Config{
				UserAgent:         config.UserAgent,
				RequestsPerMinute: config.RequestsPerMinute,
				Logger:            logger,
			})
			return err
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "snoo.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(meCmd(), frontPageCmd(), searchCmd(), trendingCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// login authenticates when credentials are configured. Commands that only
// read public data call it with required=false.
func login(ctx context.Context, required bool) error {
	if config.Username == "" || config.Password == "" {
		if required {
			return fmt.Errorf("username and password must be set in %s", configPath)
		}
		return nil
	}
	_, err := client.Login(ctx, config.Username, config.Password)
	return err
}

func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := login(ctx, true); err != nil {
				return err
			}

			me, err := client.Me(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%s  link karma %d, comment karma %d\n", me.Name, me.LinkKarma, me.CommentKarma)
			return nil
		},
	}
}

func frontPageCmd() *cobra.Command {
	var subreddit string
	var limit int

	cmd := &cobra.Command{
		Use:   "frontpage",
		Short: "List hot posts from the front page or a subreddit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := login(ctx, false); err != nil {
				return err
			}

			paginator := client.NewSubredditPaginator()
			if subreddit != "" {
				if err := paginator.SetSubreddit(subreddit); err != nil {
					return err
				}
			}
			paginator.SetLimit(limit)

			page, err := paginator.Next(ctx)
			if err != nil {
				return err
			}
			printSubmissions(page)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subreddit, "subreddit", "r", "", "subreddit to list instead of the front page")
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "number of posts to fetch")
	return cmd
}

func searchCmd() *cobra.Command {
	var subreddit string
	var sort string
	var pages int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search submissions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := login(ctx, false); err != nil {
				return err
			}

			paginator := client.NewSearchPaginator(args[0])
			if subreddit != "" {
				if err := paginator.SetSubreddit(subreddit); err != nil {
					return err
				}
			}
			if sort != "" {
				paginator.SetSearchSorting(snoo.SearchSort(sort))
			}

			for i := 0; i < pages && paginator.HasNext(); i++ {
				page, err := paginator.Next(ctx)
				if err != nil {
					return err
				}
				printSubmissions(page)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&subreddit, "subreddit", "r", "", "restrict the search to one subreddit")
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "sort order: relevance, new, hot, top, comments")
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of result pages to fetch")
	return cmd
}

func trendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "Show today's trending subreddits",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := client.GetTrendingSubreddits(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println("/r/" + name)
			}
			return nil
		},
	}
}

func printSubmissions(page []*types.Submission) {
	for _, post := range page {
		fmt.Printf("%6d  %-20s  %s\n", post.Score, "/r/"+post.Subreddit, post.Title)
	}
}
