package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	t      *testing.T
	dir    string
	config string
	db     string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	for _, key := range []string{
		"BGVIZ_CONFIG", "BGVIZ_DB_PATH", "BGVIZ_PATIENT", "BGVIZ_LOG_LEVEL", "BGVIZ_UNITS",
		"BGVIZ_VERY_LOW_THRESHOLD", "BGVIZ_TARGET_LOWER_BOUND",
		"BGVIZ_TARGET_UPPER_BOUND", "BGVIZ_VERY_HIGH_THRESHOLD",
	} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	return &env{
		t:      t,
		dir:    dir,
		config: filepath.Join(dir, "bgviz.yaml"),
		db:     filepath.Join(dir, "bgviz.db"),
	}
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	cmd := newRootCmd(zap.NewNop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", e.config, "--db", e.db}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, strings.Join(args, " "))
	return out
}

func (e *env) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInit(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("init", "--units", "mmol/L")
	assert.Contains(t, out, e.config)

	data, err := os.ReadFile(e.config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "units: mmol/L")
	assert.Contains(t, string(data), "target_lower_bound: 3.9")

	_, err = e.run("init")
	assert.ErrorContains(t, err, "already exists")

	e.mustRun("init", "--force")
	data, err = os.ReadFile(e.config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "units: mg/dL")
}

func TestClassify(t *testing.T) {
	e := newEnv(t)
	e.mustRun("init")

	tests := []struct {
		args     []string
		tag      bloodsugar.Tag
		threeWay bloodsugar.Tag
	}{
		{[]string{"50"}, bloodsugar.TagVeryLow, bloodsugar.TagLow},
		{[]string{"54"}, bloodsugar.TagLow, bloodsugar.TagLow},
		{[]string{"70"}, bloodsugar.TagTarget, bloodsugar.TagTarget},
		{[]string{"180"}, bloodsugar.TagHigh, bloodsugar.TagHigh},
		{[]string{"250", "--view", "settings"}, bloodsugar.TagVeryHigh, bloodsugar.TagHigh},
		{[]string{"5.5", "--units", "mmol/L"}, bloodsugar.TagTarget, bloodsugar.TagTarget},
	}

	for _, tt := range tests {
		out := e.mustRun(append([]string{"classify"}, tt.args...)...)
		var result classifyResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, tt.tag, result.Tag, tt.args)
		assert.Equal(t, tt.threeWay, result.ThreeWay, tt.args)
		assert.NotEmpty(t, result.Label, tt.args)
		if tt.tag == bloodsugar.TagTarget {
			assert.Empty(t, result.Annotations, tt.args)
		} else {
			require.Len(t, result.Annotations, 1, tt.args)
			assert.Equal(t, bloodsugar.CodeOutOfRange, result.Annotations[0].Code)
		}
	}
}

func TestClassifyErrors(t *testing.T) {
	e := newEnv(t)
	e.mustRun("init")

	_, err := e.run("classify", "abc")
	assert.ErrorContains(t, err, "invalid value")

	_, err = e.run("classify", "--", "-5")
	assert.True(t, bloodsugar.IsDataError(err))

	_, err = e.run("classify", "100", "--view", "weekly")
	assert.Error(t, err)
}

func TestMissingThresholdIsConfigurationError(t *testing.T) {
	e := newEnv(t)
	e.writeFile("bgviz.yaml", `bg:
  units: mg/dL
  very_low_threshold: 54
  target_lower_bound: 70
  very_high_threshold: 250
`)

	_, err := e.run("classify", "100")
	require.Error(t, err)
	assert.True(t, bloodsugar.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "targetUpperBound")

	_, err = e.run("report")
	assert.True(t, bloodsugar.IsConfigurationError(err))
}

func TestLabels(t *testing.T) {
	e := newEnv(t)
	e.mustRun("init")

	out := e.mustRun("labels")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "veryLow   below 54 mg/dL", lines[0])
	assert.Equal(t, "target    between 70 - 180 mg/dL", lines[2])
	assert.Equal(t, "veryHigh  above 250 mg/dL", lines[4])
}

func TestPrefsSaveAndShow(t *testing.T) {
	e := newEnv(t)
	e.mustRun("init")

	var shown prefsResult
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("prefs", "show")), &shown))
	assert.Equal(t, prefsFromConfig, shown.Source)
	assert.Equal(t, "default", shown.Patient)

	e.mustRun("prefs", "save")
	e.mustRun("init", "--force", "--units", "mmol/L")

	// Stored prefs win over the rewritten config.
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("prefs", "show")), &shown))
	assert.Equal(t, prefsFromStore, shown.Source)
	assert.Equal(t, bloodsugar.UnitsMgdL, shown.Prefs.Units)
	assert.Equal(t, 180.0, shown.Prefs.Bounds.TargetUpperBound)
	assert.Equal(t, "between 70 - 180 mg/dL", shown.Labels["target"])

	// Another patient falls back to the config.
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("--patient", "other", "prefs", "show")), &shown))
	assert.Equal(t, prefsFromConfig, shown.Source)
	assert.Equal(t, bloodsugar.UnitsMmolL, shown.Prefs.Units)
}

const importData = `[
  {"id": "a", "type": "cbg", "value": 50, "units": "mg/dL", "time": "2024-03-01T08:00:00Z"},
  {"id": "b", "type": "cbg", "value": 70, "units": "mg/dL", "time": "2024-03-01T08:05:00Z"},
  {"id": "c", "type": "cbg", "value": 179, "units": "mg/dL", "time": "2024-03-01T08:10:00Z"},
  {"id": "d", "type": "cbg", "value": 180, "units": "mg/dL", "time": "2024-03-01T08:15:00Z"},
  {"id": "e", "type": "smbg", "value": 14.5, "units": "mmol/L", "time": "2024-03-01T08:20:00Z"},
  {"id": "f", "type": "basal", "value": 0.8, "time": "2024-03-01T08:25:00Z"},
  {"id": "g", "type": "cbg", "value": 120, "units": "mg/dL", "time": "2024-02-01T08:00:00Z"}
]`

func TestImportAndReport(t *testing.T) {
	e := newEnv(t)
	e.mustRun("init")
	path := e.writeFile("data.json", importData)

	var imported importResult
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("import", path)), &imported))
	assert.Equal(t, 7, imported.Imported)
	assert.Equal(t, 0, imported.Skipped)
	assert.Equal(t, 5, imported.ByUnits["mg/dL"].Total)
	assert.Equal(t, 1, imported.ByUnits["mmol/L"].Total)
	assert.Equal(t, 1.0, imported.ByUnits["mmol/L"].Percent[bloodsugar.TagVeryHigh])

	out := e.mustRun("report", "--since", "2024-03-01", "--until", "2024-03-02")
	var report struct {
		Basics struct {
			Total   int                        `json:"total"`
			Percent map[bloodsugar.Tag]float64 `json:"percent"`
		} `json:"basics"`
		Daily struct {
			Points []struct {
				ID  string         `json:"id"`
				Tag bloodsugar.Tag `json:"tag"`
			} `json:"points"`
		} `json:"daily"`
		Settings struct {
			Rows []struct {
				Name string         `json:"name"`
				Tag  bloodsugar.Tag `json:"tag"`
			} `json:"rows"`
		} `json:"settings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 5, report.Basics.Total)
	assert.InDelta(t, 0.4, report.Basics.Percent[bloodsugar.TagTarget], 1e-9)

	require.Len(t, report.Daily.Points, 6)
	tags := make(map[string]bloodsugar.Tag)
	for _, p := range report.Daily.Points {
		tags[p.ID] = p.Tag
	}
	assert.Equal(t, bloodsugar.TagVeryLow, tags["a"])
	assert.Equal(t, bloodsugar.TagTarget, tags["b"])
	assert.Equal(t, bloodsugar.TagTarget, tags["c"])
	assert.Equal(t, bloodsugar.TagHigh, tags["d"])
	assert.Equal(t, bloodsugar.TagVeryHigh, tags["e"])
	assert.Empty(t, tags["f"])

	require.Len(t, report.Settings.Rows, 4)

	out = e.mustRun("report", "--view", "settings")
	assert.NotContains(t, out, `"daily"`)
	assert.Contains(t, out, `"settings"`)

	_, err := e.run("report", "--since", "2024-03-02", "--until", "2024-03-01")
	assert.ErrorContains(t, err, "after")
}

func TestImportWithoutPrefs(t *testing.T) {
	e := newEnv(t)
	path := e.writeFile("data.json", importData)

	var imported importResult
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("import", path)), &imported))
	assert.Equal(t, 7, imported.Imported)
	assert.Empty(t, imported.ByUnits)
}

func TestImportRejectsMissingUnits(t *testing.T) {
	e := newEnv(t)
	path := e.writeFile("bad.json", `[{"type": "cbg", "value": 100, "time": "2024-03-01T08:00:00Z"}]`)

	_, err := e.run("import", path)
	assert.ErrorContains(t, err, "units")
}

func TestImportRejectsMissingTime(t *testing.T) {
	e := newEnv(t)
	path := e.writeFile("bad.json", `[{"type": "cbg", "value": 100, "units": "mg/dL"}]`)

	require.NotPanics(t, func() {
		_, err := e.run("import", path)
		assert.ErrorContains(t, err, "time is required")
	})
}

func TestPrune(t *testing.T) {
	e := newEnv(t)
	e.mustRun("init")
	e.mustRun("import", e.writeFile("data.json", importData))

	_, err := e.run("prune")
	assert.Error(t, err)

	e.mustRun("prune", "--before", "2024-03-01")

	var imported struct {
		Basics struct {
			Total int `json:"total"`
		} `json:"basics"`
	}
	out := e.mustRun("report", "--view", "basics", "--since", "2024-01-01", "--until", "2024-04-01")
	require.NoError(t, json.Unmarshal([]byte(out), &imported))
	assert.Equal(t, 5, imported.Basics.Total)
}

func TestEncodeImage(t *testing.T) {
	e := newEnv(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	path := filepath.Join(e.dir, "chart.png")
	require.NoError(t, os.WriteFile(path, png, 0o644))

	out := e.mustRun("encode-image", path)
	assert.True(t, strings.HasPrefix(out, "data:image/png;base64,"))

	out = e.mustRun("encode-image", "--raw", path)
	assert.Equal(t, "iVBORw0KGgoAAAANSUhEUg==\n", out)
}
