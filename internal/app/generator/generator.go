package generator

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"text/template"

	"logview/internal/app/errors"
	"logview/internal/config"
	"logview/internal/config/logger"
)

//go:generate mockgen -source=generator.go -destination=generator_mock.go -package=generator

const templatePath = "templates/logview.yaml.tmpl"

//go:embed templates/logview.yaml.tmpl
var templateFS embed.FS

// Options contains the values written into logview.yaml
type Options struct {
	Path            string
	APIURL          string
	RefreshInterval string
	Timezone        string
	Listen          string
	ElasticURL      string
	IndexPattern    string
}

// DefaultOptions returns the built-in defaults
func DefaultOptions() Options {
	return Options{
		Path:            config.FileName,
		APIURL:          config.DefaultAPIURL,
		RefreshInterval: config.DefaultRefreshInterval.String(),
		Timezone:        config.DefaultTimezone,
		Listen:          config.DefaultListenAddr,
		ElasticURL:      config.DefaultElasticURL,
		IndexPattern:    config.DefaultIndexPattern,
	}
}

// Generator writes a config template
type Generator interface {
	Generate(opts Options, force bool, dryRun bool) error
}

type generator struct {
	out io.Writer
	log logger.Logger
}

// NewGenerator creates a generator printing dry runs to stdout
func NewGenerator(log logger.Logger) Generator {
	return &generator{
		out: os.Stdout,
		log: log,
	}
}

// Generate renders the template into opts.Path, or prints it on a dry run
func (g *generator) Generate(opts Options, force bool, dryRun bool) error {
	if opts.Path == "" {
		opts.Path = config.FileName
	}

	if !dryRun && !force {
		if _, err := os.Stat(opts.Path); err == nil {
			return fmt.Errorf("%w: %s, use --force to overwrite", errors.ErrFileExists, opts.Path)
		}
	}

	tmplContent, err := templateFS.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	tmpl, err := template.New(config.FileName).Parse(string(tmplContent))
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	if dryRun {
		_, err := g.out.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(opts.Path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	g.log.Info().Msgf("Generated %s", opts.Path)

	return nil
}
