package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Set writes key=value into the JSON file at path, creating the file and its directory if needed. Other content of the file is preserved. value is parsed according
// to the key's type; string lists are comma-separated, and an empty value removes the key.
func Set(path, name, value string) error {
	k, ok := lookupKey(name)
	if !ok {
		return fmt.Errorf("unknown config key %q (known keys: %s)", name, strings.Join(Keys(), ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		data = []byte("{}")
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return fmt.Errorf("config %s: not a JSON object; fix or remove it first", path)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		data, err = sjson.DeleteBytes(data, k.name)
	} else {
		var v gjson.Result
		v, err = k.kind.fromString(value)
		if err != nil {
			return fmt.Errorf("%s: %w", k.name, err)
		}
		probe := Defaults()
		if err := k.apply(&probe, v); err != nil {
			return fmt.Errorf("%s: %w", k.name, err)
		}
		if err := probe.Validate(); err != nil {
			return err
		}
		data, err = sjson.SetRawBytes(data, k.name, []byte(v.Raw))
	}
	if err != nil {
		return fmt.Errorf("update config %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, pretty.Pretty(data), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
