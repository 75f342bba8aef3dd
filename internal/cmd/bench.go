package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/IPDSnelting/velcom/internal/archive"
	"github.com/IPDSnelting/velcom/internal/client"
	"github.com/IPDSnelting/velcom/internal/config"
	"github.com/IPDSnelting/velcom/internal/logger"
	"github.com/IPDSnelting/velcom/internal/repo"
	"github.com/IPDSnelting/velcom/internal/tui"
	"github.com/IPDSnelting/velcom/internal/ui"
	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

type benchTarOptions struct {
	repo        string
	description string
	pickRepo    bool
	open        bool
	copy        bool
}

// serverSettings are the config values bench-tar needs before doing any work.
type serverSettings struct {
	apiURL      string
	siteURL     string
	password    string
	timeout     time.Duration
	openBrowser bool
}

func newBenchTarCmd(opts *globalOptions) *cobra.Command {
	var flags benchTarOptions

	cmd := &cobra.Command{
		Use:     "bench-tar [BENCHDIR]",
		Aliases: []string{"bt"},
		Short:   "Upload a benchmark directory to the queue",
		Long: `Pack BENCHDIR (default: the current directory) into a tar archive and
upload it to the velcom benchmark queue.

The run can be attached to a repository with --repo. The token is matched
against the repositories known to the server: first by id, then by exact
name, then by name ignoring case and whitespace. Without --repo the repo key
of the active profile is used, if set.`,
		Example: `  velcom bench-tar ./bench
  velcom bt -r velcom -d "nightly run" ./bench
  velcom --profile staging bench-tar --pick-repo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runBenchTar(cmd, opts, flags, dir)
		},
	}

	cmd.Flags().StringVarP(&flags.repo, "repo", "r", "", "repository id or name to attach the run to")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "task description (default \"bench-tar upload of <dirname>\")")
	cmd.Flags().BoolVar(&flags.pickRepo, "pick-repo", false, "choose the repository interactively")
	cmd.Flags().BoolVar(&flags.open, "open", false, "open the run page in a browser")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "copy the run URL to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("repo", "pick-repo")

	return cmd
}

// loadServerSettings reads every key bench-tar needs, so that configuration
// errors surface before any archive is built or request sent.
func loadServerSettings(store *config.Store) (*serverSettings, error) {
	var s serverSettings
	var err error

	if s.apiURL, err = store.GetURL(config.KeyAPIURL); err != nil {
		return nil, err
	}
	if s.siteURL, err = store.GetURL(config.KeySiteURL); err != nil {
		return nil, err
	}
	if s.password, err = store.Get(config.KeyAdminPW); err != nil {
		return nil, err
	}

	if s.timeout, err = configTimeout(store); err != nil {
		return nil, err
	}

	if store.Has(config.KeyOpenBrowser) {
		if s.openBrowser, err = store.GetBool(config.KeyOpenBrowser); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// configTimeout returns the optional per-request timeout. Unset or
// non-positive means no timeout.
func configTimeout(store *config.Store) (time.Duration, error) {
	if !store.Has(config.KeyTimeout) {
		return 0, nil
	}
	secs, err := store.GetFloat(config.KeyTimeout)
	if err != nil {
		return 0, err
	}
	if secs <= 0 {
		return 0, nil
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func runBenchTar(cmd *cobra.Command, opts *globalOptions, flags benchTarOptions, dir string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	noColor := opts.noColor()
	base := opts.logger(cmd)
	log := base.With(logger.Scope("bench-tar"))

	store, err := opts.loadStore()
	if err != nil {
		return err
	}
	settings, err := loadServerSettings(store)
	if err != nil {
		return err
	}
	log.Debug("using profile",
		slog.String("profile", store.ProfileName()),
		slog.String("config", store.Path()))

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	description := flags.description
	if !cmd.Flags().Changed("description") {
		description = "bench-tar upload of " + filepath.Base(absDir)
	}

	token := flags.repo
	if token == "" && !flags.pickRepo {
		token, _ = store.Lookup(config.KeyRepo)
	}

	if flags.pickRepo && !ui.IsTerminal(cmd.InOrStdin()) {
		return errors.New("--pick-repo needs an interactive terminal")
	}

	c := client.New(client.Config{
		APIURL:   settings.apiURL,
		Password: settings.password,
		Timeout:  settings.timeout,
		Logger:   base,
	})

	var repoID string
	switch {
	case flags.pickRepo:
		repos, err := c.FetchRepos(ctx)
		if err != nil {
			return err
		}
		chosen, ok, err := tui.PickRepo(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), repos)
		if err != nil {
			return err
		}
		if ok {
			repoID = chosen.ID
		}

	case token != "":
		repos, err := c.FetchRepos(ctx)
		if err != nil {
			return err
		}
		repoID, err = repo.Resolve(token, repos)
		if err != nil {
			var nf *repo.NotFoundError
			if errors.As(err, &nf) {
				writeCandidates(cmd.ErrOrStderr(), nf.Repos, noColor)
			}
			return err
		}
		log.Debug("resolved repository", slog.String("token", token), slog.String("id", repoID))
	}

	fmt.Fprintf(out, "Packing %s\n", absDir)
	f, err := archive.New(base).Build(ctx, absDir)
	if err != nil {
		return err
	}
	defer f.Close()

	log.Debug("archive built",
		slog.Int("files", f.Stats.Files),
		slog.Int("dirs", f.Stats.Dirs),
		slog.Int("links", f.Stats.Links),
		slog.Int64("size", f.Size))

	spinner := ui.NewSpinner(cmd.ErrOrStderr(), "Uploading "+archive.FileName, noColor)
	spinner.Start()
	task, err := c.Upload(ctx, client.Submission{
		Description: description,
		RepoID:      repoID,
		FileName:    archive.FileName,
		Archive:     f,
	})
	spinner.Stop()
	if err != nil {
		if client.IsUnauthorized(err) {
			return fmt.Errorf("%w (check admin_pw of profile %s)", err, store.ProfileName())
		}
		return err
	}

	taskURL := settings.siteURL + "task-detail/" + task.ID
	runURL := settings.siteURL + "run-detail/" + task.ID
	fmt.Fprintf(out, "%s %s\n", ui.Label("Task:", noColor), ui.Link(taskURL, noColor))
	fmt.Fprintf(out, "%s  %s\n", ui.Label("Run:", noColor), ui.Link(runURL, noColor))

	if flags.copy {
		if err := clipboard.WriteAll(runURL); err != nil {
			log.Warn("failed to copy run URL to clipboard", logger.Error(err))
		}
	}
	if flags.open || settings.openBrowser {
		if err := browser.OpenURL(runURL); err != nil {
			log.Warn("failed to open browser", logger.Error(err))
		}
	}

	return nil
}

func writeCandidates(w io.Writer, repos []client.Repo, noColor bool) {
	if len(repos) == 0 {
		fmt.Fprintln(w, ui.Warn("The server knows no repositories.", noColor))
		return
	}

	fmt.Fprintln(w, ui.Warn("Known repositories:", noColor))
	rows := make([][]string, 0, len(repos))
	for _, r := range repos {
		rows = append(rows, []string{r.ID, r.Name})
	}
	_ = ui.WriteTable(w, []string{"ID", "Name"}, rows)
}
