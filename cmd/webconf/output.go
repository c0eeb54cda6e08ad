package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nzbgetcom/webconf/pkg/schema"
	"github.com/nzbgetcom/webconf/pkg/values"
)

// writeValues prints vals as a daemon config file, JSON or YAML
func writeValues(w io.Writer, vals []schema.Value, format string) error {
	switch format {
	case "", "conf":
		return values.Write(w, values.FromValues(vals))
	case "json", "yaml":
		return encode(w, vals, format)
	default:
		return fmt.Errorf("unknown format %q (use conf, json or yaml)", format)
	}
}

func encode(w io.Writer, v interface{}, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
