package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// BuildResult holds the bundled script and stylesheet.
type BuildResult struct {
	JS  string
	CSS string
}

// Build bundles src/main.js, and the CSS it imports, into a single IIFE
// script and one stylesheet.
func Build(srcDir string, minify bool) (*BuildResult, error) {
	buildOpts := api.BuildOptions{
		EntryPoints: []string{filepath.Join(srcDir, "main.js")},
		Bundle:      true,
		Write:       false,

		// esbuild needs an output directory to name the CSS file even when
		// nothing is written.
		Outdir: "out",

		Loader: map[string]api.Loader{
			".js":  api.LoaderJS,
			".css": api.LoaderCSS,
		},

		Platform:    api.PlatformBrowser,
		Format:      api.FormatIIFE,
		Target:      api.ES2020,
		TreeShaking: api.TreeShakingTrue,
		Sourcemap:   api.SourceMapNone,
		LogLevel:    api.LogLevelWarning,
	}
	if minify {
		buildOpts.MinifyWhitespace = true
		buildOpts.MinifyIdentifiers = true
		buildOpts.MinifySyntax = true
	}

	result := api.Build(buildOpts)
	if len(result.Errors) > 0 {
		var msg strings.Builder
		for _, err := range result.Errors {
			if err.Location != nil {
				fmt.Fprintf(&msg, "%s:%d:%d: ", err.Location.File, err.Location.Line, err.Location.Column)
			}
			msg.WriteString(err.Text)
			msg.WriteByte('\n')
		}
		return nil, fmt.Errorf("esbuild errors:\n%s", msg.String())
	}

	out := &BuildResult{}
	for _, file := range result.OutputFiles {
		switch filepath.Ext(file.Path) {
		case ".js":
			out.JS = string(file.Contents)
		case ".css":
			out.CSS = string(file.Contents)
		}
	}
	if out.JS == "" {
		return nil, fmt.Errorf("no JavaScript output generated")
	}
	return out, nil
}

// Write stores the bundle as app.js and app.css in dir.
func (b *BuildResult) Write(dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	files := map[string]string{ScriptName: b.JS, StyleName: b.CSS}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// Rebuild bundles the sources under dir/src into dir/static.
func Rebuild(dir string, minify bool) error {
	res, err := Build(filepath.Join(dir, "src"), minify)
	if err != nil {
		return err
	}
	return res.Write(filepath.Join(dir, "static"))
}
