//go:build governance

package token_test

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/sqllens"

// =============================================================================
// LAYERING TEST - pkg/ must not depend on internal/
// =============================================================================

// TestGovernance_PkgDoesNotImportInternal keeps the reusable packages under
// pkg/ free of the application layer, so they can be imported by other
// modules.
func TestGovernance_PkgDoesNotImportInternal(t *testing.T) {
	cfg := &packages.Config{
		Mode:  packages.NeedName | packages.NeedImports,
		Tests: true,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	internal := modulePath + "/internal/"
	for _, p := range pkgs {
		for path := range p.Imports {
			if strings.HasPrefix(path, internal) {
				t.Errorf("LAYERING VIOLATION: '%s' imports '%s'.\n"+
					"   Fix: Move the shared code into pkg/ or invert the dependency.",
					strings.TrimPrefix(p.PkgPath, modulePath+"/"),
					strings.TrimPrefix(path, modulePath+"/"))
			}
		}
	}
}

// =============================================================================
// PURITY TEST - pkg/ stays free of presentation and transport libraries
// =============================================================================

// forbiddenImports lists import path prefixes that belong to the UI, CLI or
// LSP surfaces.
var forbiddenImports = []string{
	"net/http",
	"github.com/a-h/templ",
	"github.com/charmbracelet/",
	"github.com/go-chi/",
	"github.com/spf13/cobra",
	"github.com/starfederation/",
}

// TestGovernance_PkgPurity verifies that no package under pkg/ imports a
// presentation or transport library.
func TestGovernance_PkgPurity(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, p := range pkgs {
		for path := range p.Imports {
			for _, prefix := range forbiddenImports {
				if strings.HasPrefix(path, prefix) {
					t.Errorf("PURITY VIOLATION: '%s' imports '%s'.",
						strings.TrimPrefix(p.PkgPath, modulePath+"/"), path)
				}
			}
		}
	}
}
