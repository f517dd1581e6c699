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

const modulePath = "entomophage"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule constrains what one layer of a service may import. Prefixes are
// relative to the service root unless they start with the module path.
type layerRule struct {
	forbidden []string
	allowed   []string
}

var layerRules = map[string]layerRule{
	"domain": {
		forbidden: []string{"/adapters", "/application", "/transport"},
		allowed:   []string{"/domain", modulePath + "/contracts"},
	},
	"ports": {
		forbidden: []string{"/adapters", "/application", "/transport"},
		allowed:   []string{"/domain", modulePath + "/contracts"},
	},
	"application": {
		forbidden: []string{"/adapters", "/transport"},
		allowed:   []string{"/application", "/domain", "/ports", modulePath + "/contracts"},
	},
}

func main() {
	var violations []violation
	violations = append(violations, collectServiceViolations("contexts")...)
	violations = append(violations, collectContractViolations("contracts")...)
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectServiceViolations keeps each service self-contained: services talk
// to each other only through contracts and the broker, never by import.
func collectServiceViolations(root string) []violation {
	var violations []violation
	walkSources(root, func(path string, imports []importLine) {
		parts := strings.Split(path, "/")
		if len(parts) < 4 {
			return
		}
		serviceRoot := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[1], parts[2])
		rule, constrained := layerRules[parts[3]]

		for _, imp := range imports {
			if strings.HasPrefix(imp.path, modulePath+"/contexts/") && !hasPrefix(imp.path, serviceRoot) {
				violations = append(violations, imp.violation(path, "cross-service imports are forbidden"))
				continue
			}
			if !constrained || isStdlib(imp.path) {
				continue
			}
			if hasAnyPrefix(imp.path, prefixed(serviceRoot, rule.forbidden)) {
				violations = append(violations, imp.violation(path, parts[3]+" must not import outer layers"))
				continue
			}
			if hasPrefix(imp.path, modulePath+"/internal") || hasPrefix(imp.path, modulePath+"/cmd") {
				violations = append(violations, imp.violation(path, parts[3]+" must not import runtime infrastructure"))
				continue
			}
			if !hasAnyPrefix(imp.path, prefixed(serviceRoot, rule.allowed)) {
				violations = append(violations, imp.violation(path, parts[3]+" import is outside explicit allowlist"))
			}
		}
	})
	return violations
}

// collectContractViolations keeps the wire contract importable by both
// services without dragging either one along.
func collectContractViolations(root string) []violation {
	var violations []violation
	walkSources(root, func(path string, imports []importLine) {
		for _, imp := range imports {
			if hasPrefix(imp.path, modulePath+"/contexts") || hasPrefix(imp.path, modulePath+"/internal") {
				violations = append(violations, imp.violation(path, "contracts must not depend on services or runtime"))
			}
		}
	})
	return violations
}

type importLine struct {
	path string
	line int
}

func (i importLine) violation(file string, rule string) violation {
	return violation{File: file, Line: i.line, Import: i.path, Rule: rule}
}

func walkSources(root string, visit func(path string, imports []importLine)) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		normalized := filepath.ToSlash(path)

		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			visit(normalized, []importLine{{path: "<unparsable>", line: 1}})
			return nil
		}
		imports := make([]importLine, 0, len(file.Imports))
		for _, imp := range file.Imports {
			imports = append(imports, importLine{
				path: strings.Trim(imp.Path.Value, "\""),
				line: fset.Position(imp.Pos()).Line,
			})
		}
		visit(normalized, imports)
		return nil
	})
}

func prefixed(serviceRoot string, prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if strings.HasPrefix(p, "/") {
			p = serviceRoot + p
		}
		out = append(out, p)
	}
	return out
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
