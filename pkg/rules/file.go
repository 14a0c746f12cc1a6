package rules

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a rules file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Newf(errors.ErrConfigParse, "unsupported rules file format: %s", path)
	}
}

// Load reads a rule set. A missing file yields an empty set and an
// ErrNotFound error so callers can tell absence from corruption.
func Load(fsys types.FS, path string) (RuleSet, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return RuleSet{}, err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RuleSet{}, errors.Wrapf(err, errors.ErrNotFound, "rules file not found: %s", path)
		}
		return RuleSet{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read rules file %s", path)
	}

	rs, err := Decode(data, format)
	if err != nil {
		return RuleSet{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse rules file %s", path)
	}

	logger := logging.GetLogger("rules.file")
	logger.Debug().
		Str("path", path).
		Int("entries", rs.Len()).
		Msg("Loaded rules file")
	return rs, nil
}

// Decode parses rule set bytes in the given format.
func Decode(data []byte, format Format) (RuleSet, error) {
	var rs RuleSet
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &rs)
	case FormatYAML:
		err = yaml.Unmarshal(data, &rs)
	case FormatJSON:
		err = json.Unmarshal(data, &rs)
	default:
		return RuleSet{}, errors.Newf(errors.ErrConfigParse, "unsupported rules format: %s", format)
	}
	if err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

// Encode serializes a rule set in the given format.
func Encode(rs RuleSet, format Format) ([]byte, error) {
	if rs.Entries == nil {
		rs.Entries = []Rule{}
	}
	switch format {
	case FormatTOML:
		return toml.Marshal(rs)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(rs); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(rs, "", "    ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, errors.Newf(errors.ErrConfigParse, "unsupported rules format: %s", format)
	}
}

// Save prunes inert rules and writes the rule set. The file is written next
// to its destination and renamed into place.
func Save(fsys types.FS, path string, rs RuleSet) (RuleSet, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return rs, err
	}

	if pruned := rs.Prune(); pruned > 0 {
		logger := logging.GetLogger("rules.file")
		logger.Debug().
			Int("pruned", pruned).
			Msg("Dropped rules without conditions")
	}

	data, err := Encode(rs, format)
	if err != nil {
		return rs, errors.Wrapf(err, errors.ErrConfigSave, "failed to encode rules for %s", path)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return rs, errors.Wrapf(err, errors.ErrConfigSave, "failed to create directory for %s", path)
	}

	tmp := path + ".tmp"
	if err := fsys.WriteFile(tmp, data, 0644); err != nil {
		return rs, errors.Wrapf(err, errors.ErrConfigSave, "failed to write %s", tmp)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return rs, errors.Wrapf(err, errors.ErrConfigSave, "failed to replace %s", path)
	}
	return rs, nil
}
