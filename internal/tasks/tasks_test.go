package tasks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/roost/internal/exec"
	"github.com/simonhull/roost/internal/tasks"
)

type recordingTask struct {
	name string
	err  error
	ran  *[]string
}

func (r recordingTask) Name() string        { return r.name }
func (r recordingTask) Description() string { return "record " + r.name }
func (r recordingTask) Run(ctx context.Context, e *exec.Executor) error {
	*r.ran = append(*r.ran, r.name)
	return r.err
}

func TestScheduler_OrderAndDuplicates(t *testing.T) {
	var ran []string
	s := tasks.NewScheduler()

	require.NoError(t, s.Add(recordingTask{name: "a", ran: &ran}))
	require.NoError(t, s.Add(recordingTask{name: "b", ran: &ran}))
	assert.Error(t, s.Add(recordingTask{name: "a", ran: &ran}))
	assert.Error(t, s.Add(nil))
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.RunAll(context.Background(), exec.NewExecutor(nil)))
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestScheduler_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	s := tasks.NewScheduler()
	require.NoError(t, s.Add(recordingTask{name: "a", ran: &ran, err: errors.New("boom")}))
	require.NoError(t, s.Add(recordingTask{name: "b", ran: &ran}))

	err := s.RunAll(context.Background(), exec.NewExecutor(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task a")
	assert.Equal(t, []string{"a"}, ran)
}

func TestNodePackageInstallTask_Command(t *testing.T) {
	task := &tasks.NodePackageInstallTask{
		Packages:     []string{"@ngrx/store", "@ngrx/effects"},
		VersionRange: "^19.0.0",
	}

	name, args := task.Command()
	assert.Equal(t, "npm", name)
	assert.Equal(t, []string{"install", "@ngrx/store@^19.0.0", "@ngrx/effects@^19.0.0"}, args)
	assert.Equal(t, "install:@ngrx/store,@ngrx/effects", task.Name())

	task.PackageManager = tasks.Yarn
	task.VersionRange = ""
	name, args = task.Command()
	assert.Equal(t, "yarn", name)
	assert.Equal(t, []string{"add", "@ngrx/store", "@ngrx/effects"}, args)
}

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		name string
		file string
		dir  string
		want string
	}{
		{"pnpm", "pnpm-lock.yaml", "", tasks.PNPM},
		{"yarn", "yarn.lock", "", tasks.Yarn},
		{"bun", "bun.lockb", "", tasks.Bun},
		{"npm lock", "package-lock.json", "", tasks.NPM},
		{"nested project", "projects/portal/yarn.lock", "projects/portal", tasks.Yarn},
		{"no lock file", "", "", tasks.NPM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			if tt.file != "" {
				require.NoError(t, util.WriteFile(fs, tt.file, nil, 0644))
			}
			assert.Equal(t, tt.want, tasks.DetectPackageManager(fs, tt.dir))
		})
	}
}
