//go:build governance

package core_test

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/leapmt"

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that exported names in pkg/core are
// genuinely shared across multiple packages. Single-use names should move to
// their sole consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	var corePkg *packages.Package
	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/core" {
			corePkg = p
			break
		}
	}
	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	scope := corePkg.Types.Scope()
	usage := make(map[string]map[string]bool)
	for _, name := range scope.Names() {
		if scope.Lookup(name).Exported() {
			usage[name] = make(map[string]bool)
		}
	}

	base := modulePath + "/"
	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || strings.HasSuffix(p.PkgPath, "_test") || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if obj.Pkg() == nil || obj.Pkg().Path() != corePkg.PkgPath {
				continue
			}
			if importers, ok := usage[obj.Name()]; ok {
				importers[strings.TrimPrefix(p.PkgPath, base)] = true
			}
		}
	}

	for name, importers := range usage {
		if isCohesionAllowlisted(name) {
			continue
		}
		switch len(importers) {
		case 0:
			t.Logf("WARNING: Unused Core Name: %s (consider deleting)", name)
		case 1:
			var user string
			for k := range importers {
				user = k
			}
			t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
				"   Fix: Move it from pkg/core to %s.", name, user, user)
		}
	}
}

// isCohesionAllowlisted returns true for names allowed to have single usage.
func isCohesionAllowlisted(name string) bool {
	// Column names describe the persisted schema shared with external readers.
	return strings.HasPrefix(name, "Column")
}
