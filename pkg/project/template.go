package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/voidshard/slipway/pkg/errors"
)

// Group is one config group directory (eg. conf/model/) offering a
// choice between its yaml files.
type Group struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Options []string `json:"options"`
	Default string   `json:"default"`
}

// Parameter is one scalar from the main config file, flattened to a
// dotted key.
type Parameter struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Default string `json:"default"`
}

// Schema is the override-suggestion structure handed to UI layers.
type Schema struct {
	Groups     []*Group     `json:"groups"`
	Parameters []*Parameter `json:"parameters"`
}

// ReadSchema walks a project's conf/ directory and builds the schema:
// each subdirectory becomes a select group over its yaml files, and the
// top level config.yaml is flattened into scalar parameters.
func ReadSchema(path string) (*Schema, error) {
	confDir := filepath.Join(path, "conf")
	entries, err := os.ReadDir(confDir)
	if err != nil {
		return nil, fmt.Errorf("%w config directory not found: %s", errors.ErrInvalidArg, confDir)
	}

	schema := &Schema{Groups: []*Group{}, Parameters: []*Parameter{}}

	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		group, err := readGroup(filepath.Join(confDir, e.Name()))
		if err != nil {
			return nil, err
		}
		if len(group.Options) == 0 {
			continue
		}
		group.Name = e.Name()
		schema.Groups = append(schema.Groups, group)
	}
	sort.Slice(schema.Groups, func(i, k int) bool { return schema.Groups[i].Name < schema.Groups[k].Name })

	data, err := os.ReadFile(filepath.Join(confDir, "config.yaml"))
	if err == nil {
		params, err := flattenParameters(data)
		if err != nil {
			return nil, err
		}
		schema.Parameters = params
	}

	return schema, nil
}

func readGroup(dir string) (*Group, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w failed to read config group %s: %v", errors.ErrInvalidArg, dir, err)
	}

	options := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		options = append(options, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(options)

	g := &Group{Type: "select", Options: options}
	if len(options) > 0 {
		g.Default = options[0]
	}
	return g, nil
}

// flattenParameters turns nested yaml scalars into dotted keys; maps
// recurse, lists & the hydra defaults block are skipped.
func flattenParameters(data []byte) ([]*Parameter, error) {
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w failed to parse config.yaml: %v", errors.ErrInvalidArg, err)
	}
	delete(raw, "defaults")

	params := []*Parameter{}
	flatten("", raw, &params)
	sort.Slice(params, func(i, k int) bool { return params[i].Key < params[k].Key })
	return params, nil
}

func flatten(prefix string, in map[string]interface{}, out *[]*Parameter) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]interface{}:
			flatten(key, t, out)
		case bool:
			*out = append(*out, &Parameter{Key: key, Type: "bool", Default: fmt.Sprintf("%v", t)})
		case int:
			*out = append(*out, &Parameter{Key: key, Type: "int", Default: fmt.Sprintf("%d", t)})
		case float64:
			*out = append(*out, &Parameter{Key: key, Type: "float", Default: fmt.Sprintf("%v", t)})
		case string:
			*out = append(*out, &Parameter{Key: key, Type: "string", Default: t})
		}
	}
}
