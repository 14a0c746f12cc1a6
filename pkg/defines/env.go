package defines

import (
	"os"
	"strings"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
	"github.com/joho/godotenv"
)

// DefaultEnvVar is the variable read when none is configured.
const DefaultEnvVar = "BUILD_DEFINES"

// Env reads conditions from an environment variable. When a target is given
// the variable <Var>_<TARGET> is read as well. Values missing from the
// process environment are looked up in the dotenv file, if any.
type Env struct {
	Var        string
	DotenvPath string
}

// NewEnv returns an environment source.
func NewEnv(name, dotenvPath string) *Env {
	if name == "" {
		name = DefaultEnvVar
	}
	return &Env{Var: name, DotenvPath: dotenvPath}
}

func (e *Env) Name() string { return "env:" + e.Var }

func (e *Env) Defines(target string) (rules.ConditionSet, error) {
	dotenv, err := e.readDotenv()
	if err != nil {
		return rules.ConditionSet{}, err
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}

	active := rules.ParseConditionList(lookup(e.Var))
	if target != "" {
		active = active.Union(rules.ParseConditionList(lookup(e.Var + "_" + envSuffix(target))))
	}
	return active, nil
}

func (e *Env) readDotenv() (map[string]string, error) {
	if e.DotenvPath == "" {
		return nil, nil
	}
	values, err := godotenv.Read(e.DotenvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrDefinesSource, "failed to read %s", e.DotenvPath)
	}
	return values, nil
}

// envSuffix turns a target such as "Release|AnyCPU" into RELEASE_ANYCPU.
func envSuffix(target string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, target)
}
