package defines

import (
	"os"
	"regexp"
	"strings"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
	"github.com/arthur-debert/buildexcluder/pkg/types"
	"github.com/beevik/etree"
)

var quoted = regexp.MustCompile(`'([^']*)'`)

// Csproj reads <DefineConstants> from an MSBuild project. Property groups
// without a Condition always apply; conditional groups apply when the value
// they compare against matches the target, e.g. a group conditioned on
// '$(Configuration)|$(Platform)' == 'Debug|AnyCPU' applies to the targets
// "Debug|AnyCPU" and "Debug".
type Csproj struct {
	fs   types.FS
	Path string
}

// NewCsproj returns a project file source.
func NewCsproj(fs types.FS, path string) *Csproj {
	return &Csproj{fs: fs, Path: path}
}

func (c *Csproj) Name() string { return "csproj" }

func (c *Csproj) Defines(target string) (rules.ConditionSet, error) {
	data, err := c.fs.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules.ConditionSet{}, errors.Wrapf(err, errors.ErrNotFound, "project file not found: %s", c.Path)
		}
		return rules.ConditionSet{}, errors.Wrapf(err, errors.ErrDefinesSource, "failed to read %s", c.Path)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return rules.ConditionSet{}, errors.Wrapf(err, errors.ErrDefinesSource, "failed to parse %s", c.Path)
	}

	var tokens []string
	for _, group := range doc.FindElements("//PropertyGroup") {
		if cond := group.SelectAttrValue("Condition", ""); cond != "" && !conditionMatches(cond, target) {
			continue
		}
		for _, dc := range group.SelectElements("DefineConstants") {
			for _, tok := range rules.SplitDefines(dc.Text()) {
				tok = strings.TrimSpace(tok)
				if strings.HasPrefix(tok, "$(") {
					continue
				}
				tokens = append(tokens, tok)
			}
		}
	}
	return rules.NewConditionSet(tokens...), nil
}

func conditionMatches(condition, target string) bool {
	if target == "" {
		return false
	}
	m := quoted.FindAllStringSubmatch(condition, -1)
	if len(m) == 0 {
		return false
	}
	value := strings.TrimSpace(m[len(m)-1][1])
	if strings.EqualFold(value, target) {
		return true
	}
	config, _, _ := strings.Cut(value, "|")
	return strings.EqualFold(strings.TrimSpace(config), target)
}
