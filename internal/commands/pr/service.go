// Package pr holds the promotion commands: the interactive promote flow and
// the headless JSON commands used by editor and launcher front-ends.
package pr

import (
	"context"
	"encoding/json"
	"io"

	"github.com/thomas-vilte/matepr/internal/codeowners"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/strategy"
	"github.com/urfave/cli/v3"
)

// PRService is the subset of services.PRService the commands use.
type PRService interface {
	Defaults() strategy.Defaults
	CurrentBranch(ctx context.Context) (string, error)
	RemoteBranches(ctx context.Context, fetch bool) ([]string, error)
	GatherData(ctx context.Context, fetch bool) (models.RepoData, error)
	Description(ctx context.Context, source, target string) (string, error)
	Preview(ctx context.Context, opts models.CreateOptions, target string) (models.Preview, error)
	CreatePRs(ctx context.Context, opts models.CreateOptions) (models.CreateReport, error)
	Contributors(ctx context.Context) ([]string, error)
	SuggestReviewers(ctx context.Context, base, head string) ([]string, error)
	ChangedFiles(ctx context.Context, base, head string) ([]string, error)
	OwnershipRules(ctx context.Context) ([]codeowners.Rule, string, error)
}

// PRServiceProvider returns a PRService on demand
type PRServiceProvider func(ctx context.Context) (PRService, error)

type errorPayload struct {
	Error string `json:"error"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONError reports err as {"error": ...} on stdout so front-ends can
// parse it, and still returns it so the exit code is non-zero.
func writeJSONError(cmd *cli.Command, err error) error {
	_ = writeJSON(cmd.Root().Writer, errorPayload{Error: err.Error()})
	return err
}
