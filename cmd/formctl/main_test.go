package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/claim-forms/internal/domain/entity"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestParseCommand(t *testing.T) {
	out, _, err := execute(t, "Client Email: jane@example.com\nClaim Details\nVisit Date: 12/03/2024\n", "parse")
	require.NoError(t, err)

	var resp struct {
		Fields []entity.FieldSchema `json:"fields"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Fields, 2)
	assert.Equal(t, entity.FieldTypeEmail, resp.Fields[0].Type)
	assert.Equal(t, entity.FieldTypeDate, resp.Fields[1].Type)
}

func TestSignaturesCommand(t *testing.T) {
	out, _, err := execute(t, "", "signatures", "not-a-form-type")
	require.NoError(t, err)

	var p entity.SignaturePlacement
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, entity.DefaultSignaturePlacement, p)
}

func TestFormsValidateCommand(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"forms":[{"id":"site-form","name":"Site Form","fields":[{"id":"a","label":"A","type":"text"}]}]}`), 0o644))
	out, _, err := execute(t, "", "forms", "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "1 form(s) OK")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"forms":[{"id":"site-form","fields":[{"id":"a","label":"A","type":"slider"}]}]}`), 0o644))
	_, errOut, err := execute(t, "", "forms", "validate", invalid)
	require.Error(t, err)
	assert.NotEmpty(t, errOut)
}

func TestFormsListCommand(t *testing.T) {
	dir := t.TempDir()
	templates := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(templates, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(templates, "ABSA.pdf"), []byte("%PDF-1.4"), 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "forms:\n  predefined_path: " + filepath.Join(dir, "none.json") + "\n  template_dir: " + templates + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	t.Cleanup(func() { configPath = "configs/config.yaml" })

	out, _, err := execute(t, "", "forms", "list", "--config", cfgPath)
	require.NoError(t, err)

	var absa, discovery string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, entity.FormIDABSA+" "):
			absa = line
		case strings.HasPrefix(line, entity.FormIDDiscovery+" "):
			discovery = line
		}
	}
	assert.Contains(t, out, "TEMPLATE")
	assert.Contains(t, absa, "ABSA.pdf")
	assert.NotContains(t, absa, "(missing)")
	assert.Contains(t, discovery, "Discovery.pdf (missing)")
}
