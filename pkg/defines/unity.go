package defines

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
	"github.com/arthur-debert/buildexcluder/pkg/types"
	"gopkg.in/yaml.v3"
)

// Older editors key scriptingDefineSymbols by BuildTargetGroup number.
var unityTargetGroups = map[string]string{
	"1":  "Standalone",
	"4":  "iPhone",
	"7":  "Android",
	"13": "WebGL",
}

var unityAliases = map[string]string{
	"ios":     "iphone",
	"windows": "standalone",
	"macos":   "standalone",
	"linux":   "standalone",
}

// Unity reads scriptingDefineSymbols from ProjectSettings.asset. The target
// is a platform name such as Android or Standalone.
type Unity struct {
	fs   types.FS
	Path string
}

// NewUnity returns a Unity player settings source.
func NewUnity(fs types.FS, path string) *Unity {
	return &Unity{fs: fs, Path: path}
}

func (u *Unity) Name() string { return "unity" }

func (u *Unity) Defines(target string) (rules.ConditionSet, error) {
	if target == "" {
		return rules.NewConditionSet(), nil
	}

	data, err := u.fs.ReadFile(u.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules.ConditionSet{}, errors.Wrapf(err, errors.ErrNotFound, "player settings not found: %s", u.Path)
		}
		return rules.ConditionSet{}, errors.Wrapf(err, errors.ErrDefinesSource, "failed to read %s", u.Path)
	}

	symbols, err := parsePlayerSymbols(data)
	if err != nil {
		return rules.ConditionSet{}, errors.Wrapf(err, errors.ErrDefinesSource, "failed to parse %s", u.Path)
	}

	want := platformKey(target)
	for platform, defines := range symbols {
		if platformKey(platform) == want {
			return rules.ParseConditionList(defines), nil
		}
	}
	return rules.NewConditionSet(), nil
}

func platformKey(name string) string {
	name = strings.TrimSpace(name)
	if named, ok := unityTargetGroups[name]; ok {
		name = named
	}
	key := strings.ToLower(name)
	if alias, ok := unityAliases[key]; ok {
		return alias
	}
	return key
}

// parsePlayerSymbols extracts PlayerSettings.scriptingDefineSymbols. Unity's
// serialized YAML carries %TAG directives and !u! document tags that a
// standard parser rejects, so those lines are normalised first.
func parsePlayerSymbols(data []byte) (map[string]string, error) {
	var clean bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "%"):
			continue
		case strings.HasPrefix(line, "--- "):
			clean.WriteString("---\n")
		default:
			clean.WriteString(line)
			clean.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(&clean)
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				return map[string]string{}, nil
			}
			return nil, err
		}
		settings := mappingValue(&doc, "PlayerSettings")
		if settings == nil {
			continue
		}
		symbols := mappingValue(settings, "scriptingDefineSymbols")
		out := map[string]string{}
		if symbols == nil || symbols.Kind != yaml.MappingNode {
			return out, nil
		}
		for i := 0; i+1 < len(symbols.Content); i += 2 {
			out[symbols.Content[i].Value] = symbols.Content[i+1].Value
		}
		return out, nil
	}
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
