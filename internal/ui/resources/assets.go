// Package resources provides the browser assets of the UI server: the
// editor script and stylesheet, their esbuild bundling, and static serving.
package resources

import (
	"fmt"
	"path/filepath"
	"runtime"
)

const (
	// StaticDirectoryPath is the path to bundled assets from the project root.
	StaticDirectoryPath = "internal/ui/resources/static"
	// SourceDirectoryPath is the path to asset sources from the project root.
	SourceDirectoryPath = "internal/ui/resources/src"
)

// Bundled asset names under /static/.
const (
	ScriptName = "app.js"
	StyleName  = "app.css"
)

// Dir returns the absolute path of this package's directory, for tools that
// read src/ or write static/.
func Dir() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get current file path")
	}
	return filepath.Dir(currentFile), nil
}
