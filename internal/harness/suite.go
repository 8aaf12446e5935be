package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SuiteResult summarizes a directory of scenarios.
type SuiteResult struct {
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Scenarios []ScenarioOutcome `json:"scenarios"`
}

// ScenarioOutcome is the verdict for one scenario file. Scenario is the
// file's base name when the file could not be loaded.
type ScenarioOutcome struct {
	Scenario string   `json:"scenario"`
	Path     string   `json:"path"`
	Pass     bool     `json:"pass"`
	Errors   []string `json:"errors,omitempty"`
}

// CheckFunc runs after a scenario has been played. It may add errors to r;
// a returned error fails the scenario outright.
type CheckFunc func(path string, s *Scenario, r *Result) error

// Failures returns the outcomes that did not pass, in run order.
func (r *SuiteResult) Failures() []ScenarioOutcome {
	var out []ScenarioOutcome
	for _, o := range r.Scenarios {
		if !o.Pass {
			out = append(out, o)
		}
	}
	return out
}

// FindScenarios returns the .yaml and .yml files under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find scenarios in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// RunPaths loads and runs each scenario file, then applies check when it is
// non-nil. Load errors count as failures rather than aborting the suite.
func RunPaths(paths []string, check CheckFunc) *SuiteResult {
	res := &SuiteResult{Scenarios: make([]ScenarioOutcome, 0, len(paths))}
	for _, path := range paths {
		res.add(runPath(path, check))
	}
	return res
}

func runPath(path string, check CheckFunc) ScenarioOutcome {
	s, err := LoadScenario(path)
	if err != nil {
		return ScenarioOutcome{
			Scenario: filepath.Base(path),
			Path:     path,
			Errors:   []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}
	r, err := Run(s)
	if err != nil {
		return ScenarioOutcome{
			Scenario: s.Name,
			Path:     path,
			Errors:   []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}
	if check != nil {
		if err := check(path, s, r); err != nil {
			return ScenarioOutcome{Scenario: s.Name, Path: path, Errors: []string{err.Error()}}
		}
	}
	return ScenarioOutcome{Scenario: s.Name, Path: path, Pass: r.Pass, Errors: r.Errors}
}

func (r *SuiteResult) add(o ScenarioOutcome) {
	r.Total++
	if o.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
	r.Scenarios = append(r.Scenarios, o)
}
