package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/simonhull/roost/internal/config"
	"github.com/simonhull/roost/internal/exec"
	"github.com/simonhull/roost/internal/generator"
	"github.com/simonhull/roost/internal/generators"
	"github.com/simonhull/roost/internal/logging"
	"github.com/simonhull/roost/internal/output"
	"github.com/simonhull/roost/internal/schematic"
	"github.com/simonhull/roost/internal/tasks"
	"github.com/simonhull/roost/internal/tree"
)

// optionFlag binds a command-line flag to a schematic option.
type optionFlag struct {
	flag       string
	option     string
	usage      string
	bool       bool
	schematics []string // empty means every schematic
}

var optionFlags = []optionFlag{
	{flag: "project", option: "project", usage: "Workspace project (default: the workspace default project)"},
	{flag: "prefix", option: "prefix", usage: "Component selector prefix", schematics: []string{"enterprise-structure"}},
	{flag: "title", option: "title", usage: "Application title for the portal layout", schematics: []string{"enterprise-structure"}},
	{flag: "api-url", option: "apiUrl", usage: "API base URL for development and staging", schematics: []string{"env-config"}},
	{flag: "add-auth", option: "addAuth", bool: true, usage: "Generate auth services", schematics: []string{"auth-features"}},
	{flag: "add-guards", option: "addGuards", bool: true, usage: "Generate route guards", schematics: []string{"auth-features"}},
	{flag: "add-interceptors", option: "addInterceptors", bool: true, usage: "Generate HTTP interceptors", schematics: []string{"auth-features"}},
	{flag: "use-ngrx", option: "useNgrx", bool: true, usage: "Generate an NgRx auth store", schematics: []string{"auth-features"}},
	{flag: "install-ngrx", option: "installNgrx", bool: true, usage: "Install NgRx when it is missing", schematics: []string{"auth-features"}},
	{flag: "package-manager", option: "packageManager", usage: "npm, yarn, pnpm or bun (default: detected from lock files)", schematics: []string{"auth-features"}},
}

func (f optionFlag) appliesTo(name string) bool {
	if len(f.schematics) == 0 {
		return true
	}
	for _, s := range f.schematics {
		if s == name {
			return true
		}
	}
	return false
}

// GenerateCmd creates the 'generate' command, which runs one schematic
// against the project in the current directory.
func GenerateCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var dryRun, skip, diff, interactive, skipInstall bool

	cmd := &cobra.Command{
		Use:     "generate <schematic>",
		Aliases: []string{"g"},
		Short:   "Run a schematic against the current project",
		Long: `Run a schematic against the Angular project in the current directory.

Available schematics:
  enterprise-structure (structure)  Folder skeleton, core providers, layout, pages and routes
  env-config (env)                  Environments, BASE_API_URL token, build scripts and configurations
  auth-features (auth)              Auth services, guards, interceptors and NgRx store

Settings are read from roost.yml and ROOST_* environment variables;
flags override both.

Files roost owns (app.config.ts, app.routes.ts, app component) are replaced
when they differ. Use --skip to keep your version, --diff to review each
replacement, or --interactive to decide file by file.

Examples:
  roost generate structure
  roost g env --api-url https://orders-uat-api.example.com
  roost g auth --add-auth --add-guards --use-ngrx --install-ngrx
  roost g auth --add-interceptors --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				output.Verbose("Using config " + cfg.File)
			}

			coll, err := generators.Collection()
			if err != nil {
				return err
			}
			entry, ok := coll.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown schematic '%s' (available: %s)", args[0], strings.Join(coll.Names(), ", "))
			}

			options, err := schematicOptions(cmd.Flags(), entry.Name, cfg)
			if err != nil {
				return err
			}

			resolver, err := generator.NewResolver(generator.ResolverOptions{
				Skip:        skip,
				Diff:        diff,
				Interactive: interactive,
				Out:         stdout,
			})
			if err != nil {
				return err
			}

			logger := logging.New(stderr, isVerbose(cmd))
			defer func() { _ = logger.Sync() }()

			t := tree.New(osfs.New(dir))
			sctx := schematic.NewContext(logger)

			output.Verbose(fmt.Sprintf("Running %s with %v (dry-run=%v)", entry.Name, options, dryRun))
			if err := coll.Run(sctx, entry.Name, options, t); err != nil {
				return err
			}

			actions := t.Actions()
			if len(actions) == 0 && sctx.Tasks.Len() == 0 {
				output.Info("Nothing to do, the project is up to date")
				return nil
			}

			if dryRun {
				printActions(actions)
				output.Summary(count(actions, tree.ActionCreate), count(actions, tree.ActionOverwrite), true)
				for _, task := range sctx.Tasks.Tasks() {
					output.Step("Would run: " + task.Description())
				}
				return nil
			}

			result, err := t.Commit(cmd.Context(), tree.CommitOptions{Resolver: resolver, Writer: io.Discard})
			if err != nil {
				return err
			}
			printResult(result, actions)

			return runTasks(cmd, sctx.Tasks, dir, stdout, stderr, skipInstall || cfg.SkipInstall)
		},
	}

	cmd.SetIn(stdin)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep existing files that roost would replace")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a diff before replacing existing files")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Choose per file whether to replace existing files")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "Do not run package installs after generation")

	for _, f := range optionFlags {
		if f.bool {
			cmd.Flags().Bool(f.flag, false, f.usage)
		} else {
			cmd.Flags().String(f.flag, "", f.usage)
		}
	}

	return cmd
}

// schematicOptions merges config values with explicitly set flags. Flags
// that belong to a different schematic are rejected.
func schematicOptions(flags *pflag.FlagSet, name string, cfg *config.Config) (map[string]any, error) {
	options := cfg.Options(name)
	for _, f := range optionFlags {
		if !flags.Changed(f.flag) {
			continue
		}
		if !f.appliesTo(name) {
			return nil, fmt.Errorf("flag --%s does not apply to %s", f.flag, name)
		}
		if f.bool {
			v, err := flags.GetBool(f.flag)
			if err != nil {
				return nil, err
			}
			options[f.option] = v
		} else {
			v, err := flags.GetString(f.flag)
			if err != nil {
				return nil, err
			}
			options[f.option] = v
		}
	}
	return options, nil
}

func count(actions []tree.Action, kind tree.ActionKind) int {
	n := 0
	for _, a := range actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

func printActions(actions []tree.Action) {
	for _, a := range actions {
		if a.Kind == tree.ActionMkdir {
			output.Action(a.Kind.String(), a.Path, -1)
			continue
		}
		output.Action(a.Kind.String(), a.Path, len(a.Content))
	}
}

func printResult(result *tree.CommitResult, actions []tree.Action) {
	sizes := make(map[string]int, len(actions))
	for _, a := range actions {
		sizes[a.Path] = len(a.Content)
	}
	for _, p := range result.Directories {
		output.Action("MKDIR", p, -1)
	}
	for _, p := range result.Created {
		output.Action("CREATE", p, sizes[p])
	}
	for _, p := range result.Updated {
		output.Action("UPDATE", p, sizes[p])
	}
	for _, p := range result.Skipped {
		output.Action("SKIP", p, sizes[p])
	}
	output.Summary(len(result.Created), len(result.Updated), false)
}

func runTasks(cmd *cobra.Command, s *tasks.Scheduler, dir string, stdout, stderr io.Writer, skipInstall bool) error {
	if s.Len() == 0 {
		return nil
	}
	if skipInstall {
		output.Info("Skipping post-generation tasks:")
		for _, task := range s.Tasks() {
			output.Step(task.Description())
		}
		return nil
	}

	e := exec.NewExecutor(&exec.Options{Stdout: stdout, Stderr: stderr, Dir: dir})
	if err := s.RunAll(cmd.Context(), e); err != nil {
		return err
	}
	for _, task := range s.Tasks() {
		output.Success(task.Description())
	}
	return nil
}
