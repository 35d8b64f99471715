// Seed tool: applies a YAML fixture file to the configured Content Store and
// prints a development bearer token for every fixture user.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"backend-cuisinequest/internal/auth"
	"backend-cuisinequest/internal/backend"
	"backend-cuisinequest/internal/config"
	"backend-cuisinequest/internal/fixtures"
	"backend-cuisinequest/internal/follow"
	"backend-cuisinequest/internal/logging"
	"backend-cuisinequest/internal/post"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), os.Args[1:], cfg, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, args []string, cfg config.Config, out io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	file := fs.String("file", "cmd/seed/seed.example.yaml", "fixture file to apply")
	tokens := fs.Bool("tokens", true, "print a development token per fixture user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := fixtures.Load(*file)
	if err != nil {
		return err
	}

	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	start := time.Now()
	res, err := fixtures.Apply(ctx, f,
		follow.NewService(b.Follows),
		post.NewService(b.Posts, post.Defaults{ImageURL: cfg.DefaultImageURL, AuthorName: cfg.DefaultAuthorName}),
	)
	if err != nil {
		return err
	}
	log.Info().
		Str("driver", b.Driver).
		Int("posts", res.Posts).
		Int("follows", res.Follows).
		Int("skipped", res.Skipped).
		Dur("took", time.Since(start)).
		Msg("fixtures applied")

	if !*tokens {
		return nil
	}
	issuer := auth.NewService(cfg.JWTSecret)
	for _, u := range f.Users {
		tok, err := issuer.IssueToken(auth.Identity{UserID: u.ID, Name: u.Name, Email: u.Email})
		if err != nil {
			return fmt.Errorf("token for %s: %w", u.ID, err)
		}
		fmt.Fprintf(out, "%s\t%s\n", u.ID, tok)
	}
	return nil
}
