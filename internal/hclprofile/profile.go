// Package hclprofile loads the optional HCL profile file passed via
// --config. A profile supplies defaults for CLI options; explicit flags and
// TSDUMPER_* environment variables take precedence over it.
package hclprofile

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Profile holds option defaults. Zero values mean "not set".
//
//	collection_name = "Cadmania"
//	username        = env.TRANSKRIBUS_USER
//	target_dir      = "${env.HOME}/transkribus-dumps"
//	workers         = 4
type Profile struct {
	CollectionName string `hcl:"collection_name,optional"`
	Username       string `hcl:"username,optional"`
	Password       string `hcl:"password,optional"`
	TargetDir      string `hcl:"target_dir,optional"`
	Verbosity      string `hcl:"verbosity,optional"`
	LogFormat      string `hcl:"log_format,optional"`
	BaseURL        string `hcl:"base_url,optional"`
	Workers        int    `hcl:"workers,optional"`
}

// Load parses and decodes the profile at path.
func Load(path string) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse profile %s: %w", path, diags)
	}
	var p Profile
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &p); diags.HasErrors() {
		return nil, fmt.Errorf("decode profile %s: %w", path, diags)
	}
	return &p, nil
}

// evalContext exposes the process environment as the `env` object, so
// profiles can reference variables instead of embedding secrets.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vars)},
	}
}
