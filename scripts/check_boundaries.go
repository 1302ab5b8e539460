package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "verdict"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists what one layer of a service may import. allowedLocal
// entries are resolved against the service root.
type layerRule struct {
	name          string
	denyAdapters  bool
	denyRuntime   bool
	allowedLocal  []string
	allowedGlobal []string
}

var layerRules = map[string]layerRule{
	"domain": {
		name:         "domain",
		denyAdapters: true,
		denyRuntime:  true,
		allowedLocal: []string{"domain"},
	},
	"ports": {
		name:          "ports",
		denyAdapters:  true,
		denyRuntime:   true,
		allowedLocal:  []string{"domain"},
		allowedGlobal: []string{modulePath + "/contracts"},
	},
	"application": {
		name:          "application",
		denyAdapters:  true,
		denyRuntime:   true,
		allowedLocal:  []string{"application", "domain", "ports"},
		allowedGlobal: []string{modulePath + "/contracts", "golang.org/x/sync"},
	},
	"transport": {
		name:         "transport",
		denyAdapters: true,
		denyRuntime:  true,
	},
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks contexts/<context>/<service>/<layer>/... and checks
// every non-test Go file against its layer's rule.
func collectViolations(root string) []violation {
	var violations []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		normalized := filepath.ToSlash(path)
		parts := strings.Split(normalized, "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}
		serviceRoot := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[1], parts[2])
		violations = append(violations, checkFile(path, normalized, parts[3], serviceRoot)...)
		return nil
	})
	return violations
}

func checkFile(path string, normalizedPath string, layer string, serviceRoot string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: normalizedPath, Line: 1, Rule: "file must parse"}}
	}

	rule, layered := layerRules[layer]
	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		report := func(reason string) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   reason,
			})
		}

		if strings.HasPrefix(importPath, modulePath+"/contexts/") && !hasPrefix(importPath, serviceRoot) {
			report("cross-module imports are forbidden")
		}
		if !layered {
			continue
		}
		for _, reason := range rule.check(importPath, serviceRoot) {
			report(reason)
		}
	}
	return violations
}

func (r layerRule) check(importPath string, serviceRoot string) []string {
	var reasons []string
	if r.denyAdapters && strings.Contains(importPath, "/adapters/") {
		reasons = append(reasons, r.name+" must not import adapters")
	}
	if r.denyRuntime && isRuntime(importPath) {
		reasons = append(reasons, r.name+" must not import runtime infrastructure")
	}
	if r.allowedLocal == nil && r.allowedGlobal == nil {
		return reasons
	}

	allowed := append([]string(nil), r.allowedGlobal...)
	for _, local := range r.allowedLocal {
		allowed = append(allowed, serviceRoot+"/"+local)
	}
	if !isStdlib(importPath) && !isAllowed(importPath, allowed) {
		reasons = append(reasons, r.name+" import is outside explicit allowlist")
	}
	return reasons
}

func isRuntime(importPath string) bool {
	for _, prefix := range []string{"/internal/", "/integrations/", "/platform/"} {
		if strings.HasPrefix(importPath, modulePath+prefix) {
			return true
		}
	}
	return false
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, prefix := range allowedPrefixes {
		if hasPrefix(importPath, prefix) {
			return true
		}
	}
	return false
}

// isStdlib treats any path whose first element has no dot as standard
// library.
func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
